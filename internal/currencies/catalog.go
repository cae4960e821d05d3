// Package currencies manages the process-wide read-only currency catalog.
package currencies

import (
	"sort"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
)

// Catalog is a read-only registry of currencies keyed by code. It is built
// once at startup and passed explicitly to the components that need it.
type Catalog struct {
	byCode map[string]domain.Currency
}

// NewCatalog validates and registers the given currencies. A later entry
// with the same code overwrites an earlier one.
func NewCatalog(list ...domain.Currency) (*Catalog, error) {
	byCode := make(map[string]domain.Currency, len(list))

	for _, c := range list {
		if err := domain.ValidateCurrencyCode(c.Code); err != nil {
			return nil, err
		}

		byCode[c.Code] = c
	}

	return &Catalog{byCode: byCode}, nil
}

// Lookup returns the currency registered under code.
func (c *Catalog) Lookup(code string) (domain.Currency, error) {
	cur, ok := c.byCode[code]
	if !ok {
		return domain.Currency{}, &domain.UnknownCurrencyError{Code: code}
	}

	return cur, nil
}

// Has reports whether code is registered.
func (c *Catalog) Has(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

// All returns the registered currencies sorted by code.
func (c *Catalog) All() []domain.Currency {
	all := make([]domain.Currency, 0, len(c.byCode))
	for _, cur := range c.byCode {
		all = append(all, cur)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })

	return all
}

// Default returns the catalog with the base set of supported currencies.
func Default() *Catalog {
	c, err := NewCatalog(
		domain.NewFiat("US Dollar", "USD", "United States"),
		domain.NewFiat("Euro", "EUR", "Eurozone"),
		domain.NewFiat("British Pound", "GBP", "United Kingdom"),
		domain.NewFiat("Russian Ruble", "RUB", "Russia"),
		domain.NewFiat("Japanese Yen", "JPY", "Japan"),
		domain.NewFiat("Chinese Yuan", "CNY", "China"),
		domain.NewCrypto("Bitcoin", "BTC", "SHA-256", 1.12e12),
		domain.NewCrypto("Ethereum", "ETH", "Ethash", 4.5e11),
		domain.NewCrypto("Solana", "SOL", "Proof of History", 6.8e10),
		domain.NewCrypto("Cardano", "ADA", "Ouroboros", 2.3e10),
		domain.NewCrypto("Polkadot", "DOT", "Nominated Proof-of-Stake", 1.2e10),
	)
	if err != nil {
		// The default set is static and always valid.
		panic(err)
	}

	return c
}
