package middleware

import (
	"context"
	"errors"
	"net/http"

	"filesmanager/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenHeader carries the session token.
const TokenHeader = "X-Token"

// ErrUnauthenticated is what an Authenticator returns for a token that does
// not resolve. Any other error is treated as a server failure.
var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves a session token to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// AuthenticatorFunc adapts a function to Authenticator.
type AuthenticatorFunc func(ctx context.Context, token string) (string, error)

func (f AuthenticatorFunc) Authenticate(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

// SessionAuth rejects requests without a valid X-Token and sets user_id and
// token in the context otherwise.
func SessionAuth(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			abortUnauthorized(c, "Missing X-Token header")
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrUnauthenticated) {
				log.Error("session lookup failed", zap.String("request_id", requestID(c)), zap.Error(err))
			}
			abortUnauthorized(c, "Unauthorized")
			return
		}

		c.Set("user_id", userID)
		c.Set("token", token)
		c.Next()
	}
}

// OptionalSessionAuth resolves X-Token when present. Missing or invalid
// tokens continue as anonymous.
func OptionalSessionAuth(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(TokenHeader)
		if token == "" {
			c.Next()
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Debug("ignoring unresolved token", zap.String("request_id", requestID(c)), zap.Error(err))
			c.Next()
			return
		}

		c.Set("user_id", userID)
		c.Set("token", token)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}
