// Package portfoliorepo manages the durable portfolios document.
package portfoliorepo

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/jsonstore"
)

const portfoliosDoc = "portfolios"

// Repo adapts the document store for portfolios. The whole portfolio list
// is rewritten through the store's single critical section on every
// mutation, which serializes concurrent trades.
type Repo struct {
	store *jsonstore.Store
}

// New returns a portfolio repo over the given store.
func New(store *jsonstore.Store) *Repo {
	return &Repo{store: store}
}

// Get returns the portfolio of the given user.
func (r *Repo) Get(ctx context.Context, userID int64) (domain.Portfolio, error) {
	var portfolios []domain.Portfolio

	if _, err := r.store.Load(portfoliosDoc, &portfolios); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", userID).Msg("loading portfolios")
		return domain.Portfolio{}, err
	}

	for _, p := range portfolios {
		if p.UserID == userID {
			return p, nil
		}
	}

	return domain.Portfolio{}, domain.ErrPortfolioNotFound
}

// Create stores a new portfolio for the user, overwriting a previous one
// with the same user id if present.
func (r *Repo) Create(ctx context.Context, p domain.Portfolio) error {
	_, err := jsonstore.Update(r.store, portfoliosDoc,
		func(portfolios []domain.Portfolio) ([]domain.Portfolio, error) {
			for i := range portfolios {
				if portfolios[i].UserID == p.UserID {
					portfolios[i] = p
					return portfolios, nil
				}
			}

			return append(portfolios, p), nil
		})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", p.UserID).Msg("creating portfolio")
	}

	return err
}

// Update applies mutate to the user's portfolio inside the store's
// critical section and persists the result. A mutate error aborts the
// update and leaves stored state untouched. The returned portfolio
// reflects what was actually persisted.
func (r *Repo) Update(ctx context.Context, userID int64, mutate func(*domain.Portfolio) error) (domain.Portfolio, error) {
	var updated domain.Portfolio

	_, err := jsonstore.Update(r.store, portfoliosDoc,
		func(portfolios []domain.Portfolio) ([]domain.Portfolio, error) {
			for i := range portfolios {
				if portfolios[i].UserID != userID {
					continue
				}

				if err := mutate(&portfolios[i]); err != nil {
					return nil, err
				}

				updated = portfolios[i]

				return portfolios, nil
			}

			return nil, domain.ErrPortfolioNotFound
		})
	if err != nil {
		return domain.Portfolio{}, err
	}

	return updated, nil
}
