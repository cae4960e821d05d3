package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNonPositiveAmount indicates a zero or negative trade amount.
	ErrNonPositiveAmount = errors.New("amount must be positive")
	// ErrSameCurrency indicates a trade or rate lookup between a currency and itself.
	ErrSameCurrency = errors.New("from and to currency are the same")
	// ErrPortfolioNotFound indicates that the user has no stored portfolio.
	ErrPortfolioNotFound = errors.New("portfolio not found")
	// ErrUsernameTaken indicates that the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword indicates the wrong password for the given user.
	ErrWrongPassword = errors.New("wrong password")
	// ErrPasswordTooShort indicates that the password is below the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 4 characters")
)

// UnknownCurrencyError indicates that a currency code is not registered in the catalog.
type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency %q", e.Code)
}

// InsufficientFundsError indicates that a wallet cannot cover the required amount.
type InsufficientFundsError struct {
	Available float64
	Required  float64
	Currency  string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %.8g %s, required %.8g %s",
		e.Available, e.Currency, e.Required, e.Currency)
}

// RateNotFoundError indicates that neither a direct nor an inverse rate is known for the pair.
type RateNotFoundError struct {
	From string
	To   string
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("rate for pair %s/%s not found", e.From, e.To)
}

// SourceUnavailableError indicates that a price source failed to deliver rates.
type SourceUnavailableError struct {
	Source string
	Reason error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Reason)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Reason }
