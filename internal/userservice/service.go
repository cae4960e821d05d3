// Package userservice manages business logic layer of users.
package userservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/errorspkg"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/passpkg"
)

const minPasswordLength = 4

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, username, hashedPassword string) (domain.User, error)
	Get(ctx context.Context, username string) (domain.User, error)
}

// PortfolioRepo seeds the portfolio of a freshly registered user.
type PortfolioRepo interface {
	Create(ctx context.Context, p domain.Portfolio) error
}

// Service facilitates user service layer logic.
type Service struct {
	repo       Repo
	portfolios PortfolioRepo

	baseCurrency    string
	startingBalance float64
}

// New returns a user service. Registration seeds every new user with a
// single base currency wallet holding startingBalance.
func New(ur Repo, pr PortfolioRepo, baseCurrency string, startingBalance float64) *Service {
	return &Service{
		repo:            ur,
		portfolios:      pr,
		baseCurrency:    baseCurrency,
		startingBalance: startingBalance,
	}
}

// Register creates a user and its seeded portfolio.
func (s *Service) Register(ctx context.Context, username, password string) (domain.UserProfile, error) {
	l := zerolog.Ctx(ctx)

	if len(password) < minPasswordLength {
		return domain.UserProfile{}, domain.ErrPasswordTooShort
	}

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return domain.UserProfile{}, errorspkg.ErrInternal
	}

	user, err := s.repo.Create(ctx, username, hashedPassword)
	if err != nil {
		return domain.UserProfile{}, err
	}

	portfolio := domain.NewPortfolio(user.ID, s.baseCurrency, s.startingBalance)
	if err := s.portfolios.Create(ctx, portfolio); err != nil {
		l.Error().Err(err).Int64("user_id", user.ID).Msg("seeding portfolio")
		return domain.UserProfile{}, err
	}

	return user.Profile(), nil
}

// Profile returns the profile of the given username.
func (s *Service) Profile(ctx context.Context, username string) (domain.UserProfile, error) {
	user, err := s.repo.Get(ctx, username)
	if err != nil {
		return domain.UserProfile{}, err
	}

	return user.Profile(), nil
}

// CheckPassword checks if the password is valid for the given username.
func (s *Service) CheckPassword(ctx context.Context, username, password string) (domain.UserProfile, error) {
	user, err := s.repo.Get(ctx, username)
	if err != nil {
		return domain.UserProfile{}, err
	}

	if err := passpkg.Check(password, user.HashedPassword); err != nil {
		zerolog.Ctx(ctx).Warn().Str("username", username).Msg("password check failed")
		return domain.UserProfile{}, domain.ErrWrongPassword
	}

	return user.Profile(), nil
}
