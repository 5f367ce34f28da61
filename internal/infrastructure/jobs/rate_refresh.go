package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"remittease.backend/internal/domain/entities"
	"remittease.backend/pkg/logger"
)

// RateSource produces a fresh exchange-rate table.
type RateSource interface {
	FetchRates(ctx context.Context) (*entities.RateTable, error)
}

// RateSink receives refreshed tables. Quoting keeps serving the previous
// table while a refresh is in flight or failing.
type RateSink interface {
	SetRates(table *entities.RateTable)
}

// RateRefreshJob periodically reloads the exchange-rate table and pushes
// it to the quote path.
type RateRefreshJob struct {
	source   RateSource
	sink     RateSink
	interval time.Duration
	stop     chan struct{}
}

func NewRateRefreshJob(source RateSource, sink RateSink, interval time.Duration) *RateRefreshJob {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &RateRefreshJob{
		source:   source,
		sink:     sink,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *RateRefreshJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting exchange-rate refresh job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "exchange-rate refresh job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "exchange-rate refresh job stopped")
			return
		case <-ticker.C:
			j.refresh(ctx)
		}
	}
}

func (j *RateRefreshJob) Stop() {
	close(j.stop)
}

func (j *RateRefreshJob) refresh(ctx context.Context) {
	table, err := j.source.FetchRates(ctx)
	if err != nil {
		logger.Error(ctx, "exchange-rate refresh failed, keeping previous table", zap.Error(err))
		return
	}
	if table == nil || len(table.Rates) == 0 {
		logger.Warn(ctx, "exchange-rate refresh returned empty table, keeping previous table")
		return
	}
	j.sink.SetRates(table)
	logger.Info(ctx, "exchange-rate table refreshed",
		zap.Int("currencies", len(table.Rates)),
		zap.Time("timestamp", table.Timestamp))
}
