// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"fmt"
)

// CurrencyKind is a closed set of currency categories.
type CurrencyKind string

const (
	// Fiat represents government issued currency.
	Fiat CurrencyKind = "FIAT"
	// Crypto represents cryptocurrency.
	Crypto CurrencyKind = "CRYPTO"
)

// ErrInvalidCurrencyCode indicates a code outside the 2-5 uppercase letters format.
var ErrInvalidCurrencyCode = errors.New("currency code must be 2-5 uppercase letters")

// Currency describes one registered currency. IssuingCountry is set for
// fiat currencies, Algorithm and MarketCap for crypto.
type Currency struct {
	Name           string
	Code           string
	Kind           CurrencyKind
	IssuingCountry string
	Algorithm      string
	MarketCap      float64
}

// NewFiat returns a fiat Currency.
func NewFiat(name, code, issuingCountry string) Currency {
	return Currency{Name: name, Code: code, Kind: Fiat, IssuingCountry: issuingCountry}
}

// NewCrypto returns a crypto Currency.
func NewCrypto(name, code, algorithm string, marketCap float64) Currency {
	return Currency{Name: name, Code: code, Kind: Crypto, Algorithm: algorithm, MarketCap: marketCap}
}

// ValidateCurrencyCode reports whether code is 2-5 uppercase ASCII letters.
func ValidateCurrencyCode(code string) error {
	if len(code) < 2 || len(code) > 5 {
		return ErrInvalidCurrencyCode
	}

	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return ErrInvalidCurrencyCode
		}
	}

	return nil
}

// Display renders the currency with its kind specific metadata.
func (c Currency) Display() string {
	switch c.Kind {
	case Fiat:
		return fmt.Sprintf("[FIAT] %s — %s (Issuing: %s)", c.Code, c.Name, c.IssuingCountry)
	case Crypto:
		mcap := fmt.Sprintf("%.2f", c.MarketCap)
		if c.MarketCap > 1e6 {
			mcap = fmt.Sprintf("%.2e", c.MarketCap)
		}
		return fmt.Sprintf("[CRYPTO] %s — %s (Algo: %s, MCAP: %s)", c.Code, c.Name, c.Algorithm, mcap)
	}

	return fmt.Sprintf("%s — %s", c.Code, c.Name)
}
