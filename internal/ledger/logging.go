package ledger

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
)

// Ledger is the public trade surface implemented by Service and its
// instrumentation wrapper.
type Ledger interface {
	Portfolio(ctx context.Context, userID int64) (domain.Portfolio, error)
	Buy(ctx context.Context, userID int64, currencyCode string, amount float64, baseCurrency string) (TradeResult, error)
	Sell(ctx context.Context, userID int64, currencyCode string, amount float64, baseCurrency string) (TradeResult, error)
}

// LoggingService wraps a Ledger with per-operation logging. It is composed
// at the call boundary instead of hiding instrumentation inside the engine.
type LoggingService struct {
	next Ledger
}

// NewLoggingService returns a Ledger that logs around every operation.
func NewLoggingService(next Ledger) *LoggingService {
	return &LoggingService{next: next}
}

func logTrade(ctx context.Context, op string, userID int64, currencyCode string, amount float64, begin time.Time, res TradeResult, err error) {
	l := zerolog.Ctx(ctx)

	e := l.Info()
	if err != nil {
		e = l.Error().Err(err)
	}

	e.Str("action", op).
		Int64("user_id", userID).
		Str("currency", currencyCode).
		Float64("amount", amount).
		Float64("rate", res.Rate).
		Float64("cost", res.Cost).
		Dur("took", time.Since(begin)).
		Send()
}

// Portfolio implements Ledger.
func (s *LoggingService) Portfolio(ctx context.Context, userID int64) (domain.Portfolio, error) {
	return s.next.Portfolio(ctx, userID)
}

// Buy implements Ledger.
func (s *LoggingService) Buy(ctx context.Context, userID int64, currencyCode string, amount float64, baseCurrency string) (res TradeResult, err error) {
	defer func(begin time.Time) {
		logTrade(ctx, "BUY", userID, currencyCode, amount, begin, res, err)
	}(time.Now())

	return s.next.Buy(ctx, userID, currencyCode, amount, baseCurrency)
}

// Sell implements Ledger.
func (s *LoggingService) Sell(ctx context.Context, userID int64, currencyCode string, amount float64, baseCurrency string) (res TradeResult, err error) {
	defer func(begin time.Time) {
		logTrade(ctx, "SELL", userID, currencyCode, amount, begin, res, err)
	}(time.Now())

	return s.next.Sell(ctx, userID, currencyCode, amount, baseCurrency)
}
