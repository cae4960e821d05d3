// Package ratedelivery manages delivery layer of exchange rates.
package ratedelivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/raterefresh"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/errorspkg"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/web"
)

// Rates provides the rate table interface needed by the delivery layer.
type Rates interface {
	GetRate(from, to string) (float64, error)
	IsFresh() bool
	Age() (time.Duration, bool)
}

// Refresher triggers an on-demand refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context, filter ...string) (domain.RateSnapshot, error)
}

// History reads the retained exchange rate history.
type History interface {
	History(pairKey string, limit int) ([]domain.HistoryRecord, error)
}

// Handler facilitates rate delivery layer logic.
type Handler struct {
	rates     Rates
	refresher Refresher
	history   History
}

// NewHandler returns rate handler.
func NewHandler(rates Rates, refresher Refresher, history History) *Handler {
	return &Handler{
		rates:     rates,
		refresher: refresher,
		history:   history,
	}
}

// humanAge renders the snapshot age the way users read it.
func humanAge(age time.Duration, ok bool) string {
	if !ok {
		return "no data"
	}

	minutes := int(age.Minutes())

	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	default:
		return fmt.Sprintf("%d hours ago", minutes/60)
	}
}

type rateResponse struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Rate      float64 `json:"rate"`
	Fresh     bool    `json:"fresh"`
	UpdatedAt string  `json:"updated"`
}

type rateRequest struct {
	From string `uri:"from" binding:"required,currency"`
	To   string `uri:"to" binding:"required,currency"`
}

// Get handles http request to resolve one exchange rate.
func (h *Handler) Get(gctx *gin.Context) {
	l := zerolog.Ctx(gctx.Request.Context())

	var req rateRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(errors.New("unknown currency pair")))

		return
	}

	rate, err := h.rates.GetRate(req.From, req.To)
	if err != nil {
		var rateErr *domain.RateNotFoundError

		switch {
		case errors.As(err, &rateErr):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, domain.ErrSameCurrency):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		default:
			l.Error().Err(err).Send()
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	age, hasAge := h.rates.Age()

	gctx.JSON(http.StatusOK, web.Response{Data: rateResponse{
		From:      req.From,
		To:        req.To,
		Rate:      rate,
		Fresh:     h.rates.IsFresh(),
		UpdatedAt: humanAge(age, hasAge),
	}})
}

type refreshRequest struct {
	Sources []string `json:"sources" binding:"omitempty"`
}

// Refresh handles http request to refresh rates on demand.
func (h *Handler) Refresh(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req refreshRequest
	if gctx.Request.ContentLength > 0 {
		if err := gctx.ShouldBindJSON(&req); err != nil {
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest, web.Error(errors.New("invalid refresh request")))

			return
		}
	}

	snap, err := h.refresher.Refresh(ctx, req.Sources...)
	if err != nil {
		if errors.Is(err, raterefresh.ErrNoSourcesAvailable) {
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: snap})
}

type historyRequest struct {
	Pair  string `form:"pair"`
	Limit int    `form:"limit,default=100" binding:"omitempty,min=1,max=1000"`
}

// GetHistory handles http request to list retained rate history.
func (h *Handler) GetHistory(gctx *gin.Context) {
	l := zerolog.Ctx(gctx.Request.Context())

	var req historyRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(errors.New("invalid history request")))

		return
	}

	records, err := h.history.History(req.Pair, req.Limit)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: records})
}
