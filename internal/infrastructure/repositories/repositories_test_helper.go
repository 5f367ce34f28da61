package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		wallet_address TEXT UNIQUE NOT NULL,
		name TEXT,
		email TEXT,
		currency TEXT,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createTransferTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE transfers (
		id TEXT PRIMARY KEY,
		request_id TEXT UNIQUE NOT NULL,
		tx_hash TEXT,
		wallet_address TEXT NOT NULL,
		direction TEXT NOT NULL,
		counterparty TEXT NOT NULL,
		counterparty_name TEXT,
		recipient_kind TEXT,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		dest_amount TEXT,
		dest_currency TEXT,
		fee TEXT,
		status TEXT NOT NULL,
		completed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}
