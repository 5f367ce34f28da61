package usecases

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"remittease.backend/internal/domain/entities"
	domainerrors "remittease.backend/internal/domain/errors"
)

// Fee policy: fractional rates applied to the source amount. Overridable
// via FEE_NETWORK_RATE / FEE_SERVICE_RATE.
const (
	DefaultNetworkFeeRate = "0.001"
	DefaultServiceFeeRate = "0.005"
)

// QuoteUsecase prices transfers against the current exchange-rate table.
// Quoting is pure and synchronous; the table is swapped out-of-band by
// the refresh job.
type QuoteUsecase struct {
	mu          sync.RWMutex
	table       *entities.RateTable
	networkRate decimal.Decimal
	serviceRate decimal.Decimal
}

// NewQuoteUsecase creates a quote usecase over an initial rate table.
func NewQuoteUsecase(table *entities.RateTable, networkRate, serviceRate string) (*QuoteUsecase, error) {
	network, err := decimal.NewFromString(networkRate)
	if err != nil || network.IsNegative() {
		return nil, domainerrors.BadRequest("invalid network fee rate")
	}
	service, err := decimal.NewFromString(serviceRate)
	if err != nil || service.IsNegative() {
		return nil, domainerrors.BadRequest("invalid service fee rate")
	}
	return &QuoteUsecase{
		table:       table,
		networkRate: network,
		serviceRate: service,
	}, nil
}

// SetRates swaps in a refreshed rate table.
func (u *QuoteUsecase) SetRates(table *entities.RateTable) {
	if table == nil {
		return
	}
	u.mu.Lock()
	u.table = table
	u.mu.Unlock()
}

// Rates returns the table currently used for quoting.
func (u *QuoteUsecase) Rates() *entities.RateTable {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.table
}

// KnownCurrency reports whether a currency code can be quoted.
func (u *QuoteUsecase) KnownCurrency(code string) bool {
	_, ok := u.Rates().Lookup(code)
	return ok
}

// Quote prices a source amount into the destination currency. Fees come
// off the source amount before conversion; the unrounded values stay in
// the quote, with NetAmount rounded to 2 decimal places for display.
func (u *QuoteUsecase) Quote(sourceCurrency, destCurrency, amount string) (*entities.Quote, error) {
	table := u.Rates()

	sourceRate, ok := table.Lookup(sourceCurrency)
	if !ok {
		return nil, domainerrors.ErrUnknownCurrency
	}
	destRate, ok := table.Lookup(destCurrency)
	if !ok {
		return nil, domainerrors.ErrUnknownCurrency
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil || !parsed.IsPositive() {
		return nil, domainerrors.BadRequest("amount must be a positive number")
	}

	rate := destRate.Div(sourceRate)
	networkFee := parsed.Mul(u.networkRate)
	serviceFee := parsed.Mul(u.serviceRate)
	totalFee := networkFee.Add(serviceFee)
	netSource := parsed.Sub(totalFee)

	return &entities.Quote{
		SourceCurrency: sourceCurrency,
		DestCurrency:   destCurrency,
		SourceAmount:   parsed,
		Rate:           rate,
		NetworkFee:     networkFee,
		ServiceFee:     serviceFee,
		TotalFee:       totalFee,
		NetSource:      netSource,
		NetAmount:      netSource.Mul(rate).StringFixed(2),
		QuotedAt:       time.Now().UTC(),
	}, nil
}
