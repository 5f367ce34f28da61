package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
	"remittease.backend/internal/domain/entities"
)

// rateFile is the on-disk shape of the exchange-rate table. Rates are
// quoted against a common reference unit (USD = 1).
type rateFile struct {
	Rates map[string]string `yaml:"rates"`
}

// ErrEmptyRateTable rejects rate files that parse but price nothing.
var ErrEmptyRateTable = errors.New("rate table holds no currencies")

// LoadRateTable parses a YAML rate file into a RateTable.
func LoadRateTable(path string) (*entities.RateTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f rateFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse rate table %s: %w", path, err)
	}
	if len(f.Rates) == 0 {
		return nil, ErrEmptyRateTable
	}

	rates := make(map[string]decimal.Decimal, len(f.Rates))
	for code, value := range f.Rates {
		d, err := decimal.NewFromString(value)
		if err != nil || !d.IsPositive() {
			return nil, fmt.Errorf("rate table %s: invalid rate for %s: %q", path, code, value)
		}
		rates[code] = d
	}

	return &entities.RateTable{Rates: rates, Timestamp: time.Now().UTC()}, nil
}

// RateFileSource re-reads the YAML rate file on demand. It backs the
// periodic refresh job so rates can be rotated without a restart.
type RateFileSource struct {
	Path string
}

func (s RateFileSource) FetchRates(_ context.Context) (*entities.RateTable, error) {
	return LoadRateTable(s.Path)
}
