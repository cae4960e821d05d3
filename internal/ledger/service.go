// Package ledger applies buy and sell operations to user portfolios.
//
// Every trade walks the same path: validate, price, then debit, credit
// and persist inside the record store's single critical section. Any
// failure before the persist step leaves stored state untouched.
package ledger

import (
	"context"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
)

// PortfolioRepo provides data access layer interface needed by the ledger.
type PortfolioRepo interface {
	Get(ctx context.Context, userID int64) (domain.Portfolio, error)
	Update(ctx context.Context, userID int64, mutate func(*domain.Portfolio) error) (domain.Portfolio, error)
}

// Rates resolves exchange rates for pricing.
type Rates interface {
	GetRate(from, to string) (float64, error)
}

// Catalog looks up registered currencies.
type Catalog interface {
	Lookup(code string) (domain.Currency, error)
}

// TradeResult reports a completed trade. Balances reflect the atomically
// persisted portfolio, not pre-computed values. Cost is the base currency
// amount moved: the cost of a buy, the revenue of a sell.
type TradeResult struct {
	Currency       string  `json:"currency"`
	Amount         float64 `json:"amount"`
	Rate           float64 `json:"rate"`
	Cost           float64 `json:"cost"`
	OldBalance     float64 `json:"old_balance"`
	NewBalance     float64 `json:"new_balance"`
	BaseCurrency   string  `json:"base_currency"`
	BaseOldBalance float64 `json:"base_currency_old_balance"`
	BaseNewBalance float64 `json:"base_currency_new_balance"`
}

// Service facilitates trade business logic.
type Service struct {
	portfolios PortfolioRepo
	rates      Rates
	catalog    Catalog
}

// New returns a ledger service.
func New(pr PortfolioRepo, rates Rates, catalog Catalog) *Service {
	return &Service{
		portfolios: pr,
		rates:      rates,
		catalog:    catalog,
	}
}

// Portfolio returns the user's current portfolio.
func (s *Service) Portfolio(ctx context.Context, userID int64) (domain.Portfolio, error) {
	return s.portfolios.Get(ctx, userID)
}

func (s *Service) validate(currencyCode, baseCurrency string, amount float64) error {
	if amount <= 0 {
		return domain.ErrNonPositiveAmount
	}

	if _, err := s.catalog.Lookup(currencyCode); err != nil {
		return err
	}

	if _, err := s.catalog.Lookup(baseCurrency); err != nil {
		return err
	}

	if currencyCode == baseCurrency {
		return domain.ErrSameCurrency
	}

	return nil
}

// Buy converts base currency funds into amount units of currencyCode at
// the current rate.
func (s *Service) Buy(ctx context.Context, userID int64, currencyCode string, amount float64, baseCurrency string) (TradeResult, error) {
	if err := s.validate(currencyCode, baseCurrency, amount); err != nil {
		return TradeResult{}, err
	}

	rate, err := s.rates.GetRate(currencyCode, baseCurrency)
	if err != nil {
		return TradeResult{}, err
	}

	cost := amount * rate

	var oldBase, oldTarget float64

	persisted, err := s.portfolios.Update(ctx, userID, func(p *domain.Portfolio) error {
		base, ok := p.Wallets[baseCurrency]
		if !ok || base.Balance < cost {
			var available float64
			if ok {
				available = base.Balance
			}

			return &domain.InsufficientFundsError{
				Available: available,
				Required:  cost,
				Currency:  baseCurrency,
			}
		}

		target := p.Wallet(currencyCode)

		oldBase = base.Balance
		oldTarget = target.Balance

		if err := base.Withdraw(cost); err != nil {
			return err
		}

		return target.Deposit(amount)
	})
	if err != nil {
		return TradeResult{}, err
	}

	return TradeResult{
		Currency:       currencyCode,
		Amount:         amount,
		Rate:           rate,
		Cost:           cost,
		OldBalance:     oldTarget,
		NewBalance:     persisted.Wallets[currencyCode].Balance,
		BaseCurrency:   baseCurrency,
		BaseOldBalance: oldBase,
		BaseNewBalance: persisted.Wallets[baseCurrency].Balance,
	}, nil
}

// Sell converts amount units of currencyCode back into base currency at
// the current rate.
func (s *Service) Sell(ctx context.Context, userID int64, currencyCode string, amount float64, baseCurrency string) (TradeResult, error) {
	if err := s.validate(currencyCode, baseCurrency, amount); err != nil {
		return TradeResult{}, err
	}

	rate, err := s.rates.GetRate(currencyCode, baseCurrency)
	if err != nil {
		return TradeResult{}, err
	}

	revenue := amount * rate

	var oldBase, oldSource float64

	persisted, err := s.portfolios.Update(ctx, userID, func(p *domain.Portfolio) error {
		source, ok := p.Wallets[currencyCode]
		if !ok || source.Balance < amount {
			var available float64
			if ok {
				available = source.Balance
			}

			return &domain.InsufficientFundsError{
				Available: available,
				Required:  amount,
				Currency:  currencyCode,
			}
		}

		base := p.Wallet(baseCurrency)

		oldSource = source.Balance
		oldBase = base.Balance

		if err := source.Withdraw(amount); err != nil {
			return err
		}

		return base.Deposit(revenue)
	})
	if err != nil {
		return TradeResult{}, err
	}

	return TradeResult{
		Currency:       currencyCode,
		Amount:         amount,
		Rate:           rate,
		Cost:           revenue,
		OldBalance:     oldSource,
		NewBalance:     persisted.Wallets[currencyCode].Balance,
		BaseCurrency:   baseCurrency,
		BaseOldBalance: oldBase,
		BaseNewBalance: persisted.Wallets[baseCurrency].Balance,
	}, nil
}
