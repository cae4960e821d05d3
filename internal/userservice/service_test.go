package userservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/passpkg"
)

func TestRegister(t *testing.T) {
	registeredAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	testUser := domain.User{
		ID:           1,
		Username:     "alice",
		RegisteredAt: registeredAt,
	}

	testCases := []struct {
		name       string
		username   string
		password   string
		buildStubs func(repo *MockRepo, portfolios *MockPortfolioRepo)
		wantErr    error
	}{
		{
			name:     "OK",
			username: "alice",
			password: "secret",
			buildStubs: func(repo *MockRepo, portfolios *MockPortfolioRepo) {
				repo.EXPECT().
					Create(gomock.Any(), "alice", gomock.Any()).
					Return(testUser, nil)

				portfolios.EXPECT().
					Create(gomock.Any(), gomock.AssignableToTypeOf(domain.Portfolio{})).
					DoAndReturn(func(_ context.Context, p domain.Portfolio) error {
						require.Equal(t, int64(1), p.UserID)
						require.Equal(t, float64(10000), p.Wallets["USD"].Balance)
						return nil
					})
			},
		},
		{
			name:       "PasswordTooShort",
			username:   "alice",
			password:   "abc",
			buildStubs: func(repo *MockRepo, portfolios *MockPortfolioRepo) {},
			wantErr:    domain.ErrPasswordTooShort,
		},
		{
			name:     "UsernameTaken",
			username: "alice",
			password: "secret",
			buildStubs: func(repo *MockRepo, portfolios *MockPortfolioRepo) {
				repo.EXPECT().
					Create(gomock.Any(), "alice", gomock.Any()).
					Return(domain.User{}, domain.ErrUsernameTaken)
			},
			wantErr: domain.ErrUsernameTaken,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			portfolios := NewMockPortfolioRepo(ctrl)
			tc.buildStubs(repo, portfolios)

			svc := New(repo, portfolios, "USD", 10000)

			profile, err := svc.Register(context.Background(), tc.username, tc.password)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, testUser.Profile(), profile)
		})
	}
}

func TestCheckPassword(t *testing.T) {
	hashed, err := passpkg.Hash("secret")
	require.NoError(t, err)

	testUser := domain.User{
		ID:             1,
		Username:       "alice",
		HashedPassword: hashed,
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	repo.EXPECT().Get(gomock.Any(), "alice").Return(testUser, nil).Times(2)
	repo.EXPECT().Get(gomock.Any(), "nobody").Return(domain.User{}, domain.ErrUserNotFound)

	svc := New(repo, NewMockPortfolioRepo(ctrl), "USD", 10000)
	ctx := context.Background()

	profile, err := svc.CheckPassword(ctx, "alice", "secret")
	require.NoError(t, err)
	require.Equal(t, testUser.Profile(), profile)

	_, err = svc.CheckPassword(ctx, "alice", "wrong")
	require.ErrorIs(t, err, domain.ErrWrongPassword)

	_, err = svc.CheckPassword(ctx, "nobody", "secret")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestProfile(t *testing.T) {
	testUser := domain.User{ID: 1, Username: "alice", HashedPassword: "hash"}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	repo.EXPECT().Get(gomock.Any(), "alice").Return(testUser, nil)

	svc := New(repo, NewMockPortfolioRepo(ctrl), "USD", 10000)

	profile, err := svc.Profile(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, int64(1), profile.ID)
}
