package jobs

import (
	"os"
	"testing"

	"remittease.backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("production")
	os.Exit(m.Run())
}
