// Package userdelivery manages delivery layer of users.
package userdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/errorspkg"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/tokenpkg"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/web"
)

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	Register(ctx context.Context, username, password string) (domain.UserProfile, error)
	CheckPassword(ctx context.Context, username, password string) (domain.UserProfile, error)
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service       Service
	tokenMaker    tokenpkg.Maker
	tokenDuration time.Duration
}

// NewHandler returns user handler.
func NewHandler(us Service, tm tokenpkg.Maker, tokenDuration time.Duration) *Handler {
	return &Handler{
		service:       us,
		tokenMaker:    tm,
		tokenDuration: tokenDuration,
	}
}

func bindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return field.Field() + web.GetErrorMsg(field)
	}

	return "invalid request"
}

type registerRequest struct {
	Username string `json:"username" binding:"required,alphanum"`
	Password string `json:"password" binding:"required,min=4"`
}

// Register handles http request to create a user.
func (h *Handler) Register(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req registerRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	profile, err := h.service.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			gctx.JSON(http.StatusConflict, web.Error(err))
		case errors.Is(err, domain.ErrPasswordTooShort):
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		default:
			l.Error().Err(err).Send()
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: profile})
}

type loginRequest struct {
	Username string `json:"username" binding:"required,alphanum"`
	Password string `json:"password" binding:"required"`
}

// Login handles http request to open a session.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	profile, err := h.service.CheckPassword(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			gctx.JSON(http.StatusNotFound, web.Error(err))
		case errors.Is(err, domain.ErrWrongPassword):
			gctx.JSON(http.StatusUnauthorized, web.Error(err))
		default:
			l.Error().Err(err).Send()
			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		}

		return
	}

	accessToken, payload, err := h.tokenMaker.CreateToken(profile.Username, h.tokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		AccessToken:          accessToken,
		AccessTokenExpiresAt: payload.ExpiredAt.Format(time.RFC3339),
		Data:                 profile,
	})
}
