// Package userrepo manages the durable users document.
package userrepo

import (
	"context"
	"time"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/jsonstore"
)

const usersDoc = "users"

// Repo adapts the document store for users.
type Repo struct {
	store *jsonstore.Store
}

// New returns a user repo over the given store.
func New(store *jsonstore.Store) *Repo {
	return &Repo{store: store}
}

// Create stores a new user with the next sequential id and returns it.
func (r *Repo) Create(ctx context.Context, username, hashedPassword string) (domain.User, error) {
	var created domain.User

	_, err := jsonstore.Update(r.store, usersDoc,
		func(users []domain.User) ([]domain.User, error) {
			var maxID int64

			for _, u := range users {
				if u.Username == username {
					return nil, domain.ErrUsernameTaken
				}

				if u.ID > maxID {
					maxID = u.ID
				}
			}

			created = domain.User{
				ID:             maxID + 1,
				Username:       username,
				HashedPassword: hashedPassword,
				RegisteredAt:   time.Now().UTC(),
			}

			return append(users, created), nil
		})
	if err != nil {
		return domain.User{}, err
	}

	return created, nil
}

// Get returns the user with the given username.
func (r *Repo) Get(ctx context.Context, username string) (domain.User, error) {
	var users []domain.User

	if _, err := r.store.Load(usersDoc, &users); err != nil {
		return domain.User{}, err
	}

	for _, u := range users {
		if u.Username == username {
			return u, nil
		}
	}

	return domain.User{}, domain.ErrUserNotFound
}
