// Package ledgerdelivery manages delivery layer of trades and portfolios.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/ledger"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/middleware"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/errorspkg"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/tokenpkg"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/web"
)

// Service provides service layer interface needed by trade delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Portfolio(ctx context.Context, userID int64) (domain.Portfolio, error)
	Buy(ctx context.Context, userID int64, currencyCode string, amount float64, baseCurrency string) (ledger.TradeResult, error)
	Sell(ctx context.Context, userID int64, currencyCode string, amount float64, baseCurrency string) (ledger.TradeResult, error)
}

// Users resolves the authenticated username to a user profile.
type Users interface {
	Profile(ctx context.Context, username string) (domain.UserProfile, error)
}

// Handler facilitates trade delivery layer logic.
type Handler struct {
	service      Service
	users        Users
	baseCurrency string
}

// NewHandler returns trade handler.
func NewHandler(s Service, users Users, baseCurrency string) *Handler {
	return &Handler{
		service:      s,
		users:        users,
		baseCurrency: baseCurrency,
	}
}

type tradeRequest struct {
	Currency string `json:"currency" binding:"required,currency"`
	Amount   string `json:"amount" binding:"required"`
	Base     string `json:"base" binding:"omitempty,currency"`
}

// parseAmount validates the decimal amount string and converts it.
func parseAmount(raw string) (float64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, domain.ErrNonPositiveAmount
	}

	if d.LessThanOrEqual(decimal.Zero) {
		return 0, domain.ErrNonPositiveAmount
	}

	return d.InexactFloat64(), nil
}

func (h *Handler) authUserID(gctx *gin.Context) (int64, error) {
	payload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	profile, err := h.users.Profile(gctx.Request.Context(), payload.Username)
	if err != nil {
		return 0, err
	}

	return profile.ID, nil
}

func writeTradeError(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())

	var (
		insufficientErr *domain.InsufficientFundsError
		rateErr         *domain.RateNotFoundError
		unknownErr      *domain.UnknownCurrencyError
	)

	switch {
	case errors.As(err, &insufficientErr), errors.As(err, &rateErr):
		gctx.JSON(http.StatusUnprocessableEntity, web.Error(err))
	case errors.As(err, &unknownErr),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrSameCurrency):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case errors.Is(err, domain.ErrPortfolioNotFound), errors.Is(err, domain.ErrUserNotFound):
		gctx.JSON(http.StatusNotFound, web.Error(err))
	default:
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

func (h *Handler) trade(gctx *gin.Context, op func(ctx context.Context, userID int64, currency string, amount float64, base string) (ledger.TradeResult, error)) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req tradeRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg = "invalid request"
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	base := req.Base
	if base == "" {
		base = h.baseCurrency
	}

	userID, err := h.authUserID(gctx)
	if err != nil {
		writeTradeError(gctx, err)
		return
	}

	result, err := op(ctx, userID, req.Currency, amount, base)
	if err != nil {
		writeTradeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: result})
}

// Buy handles http request to buy currency.
func (h *Handler) Buy(gctx *gin.Context) {
	h.trade(gctx, h.service.Buy)
}

// Sell handles http request to sell currency.
func (h *Handler) Sell(gctx *gin.Context) {
	h.trade(gctx, h.service.Sell)
}

// Portfolio handles http request to get the authenticated user's portfolio.
func (h *Handler) Portfolio(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	userID, err := h.authUserID(gctx)
	if err != nil {
		writeTradeError(gctx, err)
		return
	}

	portfolio, err := h.service.Portfolio(ctx, userID)
	if err != nil {
		writeTradeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: portfolio})
}
