package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/tokenpkg"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/pkg/web"
)

const (
	// AuthHeaderKey is the header carrying the access token.
	AuthHeaderKey = "authorization"
	// AuthTypeBearer is the only supported authorization scheme.
	AuthTypeBearer = "bearer"
	// AuthPayloadKey is the gin context key holding the verified payload.
	AuthPayloadKey = "authorization_payload"
)

// AuthMiddleware verifies the bearer token and stores its payload in the
// gin context.
func AuthMiddleware(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader(AuthHeaderKey)
		if len(authHeader) == 0 {
			err := errors.New("authorization header is not provided")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))

			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 {
			err := errors.New("invalid authorization header format")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))

			return
		}

		authType := strings.ToLower(fields[0])
		if authType != AuthTypeBearer {
			err := fmt.Errorf("unsupported authorization type %s", authType)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))

			return
		}

		accessToken := fields[1]

		payload, err := tokenMaker.VerifyToken(accessToken)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		ctx.Set(AuthPayloadKey, payload)
		ctx.Next()
	}
}
