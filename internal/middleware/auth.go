package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/orbitcrm/record_console_app/internal/core/domain"
)

// SessionClaims are the claims the console expects on a bearer token: who is
// acting plus their organisation/branch context. The token itself is issued
// elsewhere; this layer only verifies and forwards it.
type SessionClaims struct {
	OrganisationUID int64 `json:"orgUid,omitempty"`
	BranchUID       int64 `json:"branchUid,omitempty"`
	UserUID         int64 `json:"userUid,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the parsed session and
// the raw token in the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		claims, ok := token.Claims.(*SessionClaims)
		if !ok || !token.Valid {
			logger.Warn("Invalid token claims")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		sess := &domain.Session{
			UserUID:         claims.UserUID,
			OrganisationUID: claims.OrganisationUID,
			BranchUID:       claims.BranchUID,
		}

		ctx := context.WithValue(c.Request.Context(), sessionCtxKey, sess)
		ctx = context.WithValue(ctx, bearerCtxKey, tokenString)

		enrichedLogger := GetLoggerFromCtx(ctx).With(slog.Int64("user_uid", claims.UserUID))
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
