package domain

// Wallet holds the balance of a single currency. The balance is never
// negative; mutations go through Deposit and Withdraw only.
type Wallet struct {
	Currency string  `json:"currency"`
	Balance  float64 `json:"balance"`
}

// Deposit adds a positive amount to the wallet balance.
func (w *Wallet) Deposit(amount float64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}

	w.Balance += amount

	return nil
}

// Withdraw removes a positive amount from the wallet balance.
func (w *Wallet) Withdraw(amount float64) error {
	if amount <= 0 {
		return ErrNonPositiveAmount
	}

	if amount > w.Balance {
		return &InsufficientFundsError{
			Available: w.Balance,
			Required:  amount,
			Currency:  w.Currency,
		}
	}

	w.Balance -= amount

	return nil
}

// Portfolio holds all wallets of one user, at most one per currency.
type Portfolio struct {
	UserID  int64              `json:"user_id"`
	Wallets map[string]*Wallet `json:"wallets"`
}

// NewPortfolio returns a portfolio seeded with a single wallet.
func NewPortfolio(userID int64, currency string, balance float64) Portfolio {
	return Portfolio{
		UserID: userID,
		Wallets: map[string]*Wallet{
			currency: {Currency: currency, Balance: balance},
		},
	}
}

// Wallet returns the wallet for the given currency, creating an empty one
// if it does not exist yet.
func (p *Portfolio) Wallet(currency string) *Wallet {
	if p.Wallets == nil {
		p.Wallets = make(map[string]*Wallet)
	}

	w, ok := p.Wallets[currency]
	if !ok {
		w = &Wallet{Currency: currency}
		p.Wallets[currency] = w
	}

	return w
}
