package security

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bcod/campus-market/internal/domain"
	"github.com/bcod/campus-market/internal/repository"
	"github.com/bcod/campus-market/internal/token"
	"github.com/bcod/campus-market/pkg/logger"
	"github.com/bcod/campus-market/pkg/response"
)

// Authenticate returns the request authenticator middleware. It runs once per
// request before route dispatch: extract the session cookie, verify the token
// and resolve the subject to a stored user. Every token failure degrades to
// an anonymous context; rejection is left to RequireRoles so that public
// routes keep working with a stale or missing cookie.
func Authenticate(codec *token.Codec, users repository.UserRepository, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(cookieName)
		if err != nil {
			// No cookie: anonymous request
			c.Next()
			return
		}

		claims, err := codec.Verify(value, time.Now())
		if err != nil {
			if !errors.Is(err, token.ErrAbsent) {
				logger.Get().Debug("session token rejected", zap.Error(err))
			}
			c.Next()
			return
		}

		user, err := users.GetByUsername(c.Request.Context(), claims.Subject)
		if err != nil {
			logger.Get().Error("identity lookup failed", zap.Error(err))
			response.InternalError(c, err)
			c.Abort()
			return
		}
		if user == nil {
			// Identity deleted after issuance: treat as unauthenticated
			c.Next()
			return
		}

		setContext(c, &Context{
			UserID:   user.ID,
			Username: user.Username,
			Roles:    user.Roles,
		})
		c.Next()
	}
}

// RequireRoles returns the authorization gate for a route. With no roles the
// route is public. An anonymous request to a protected route gets 401, an
// authenticated request without any of the required roles gets 403.
func RequireRoles(required ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := FromGin(c)
		if len(required) == 0 {
			c.Next()
			return
		}
		if !sc.Authenticated() {
			response.Unauthorized(c, "Full authentication is required to access this resource")
			c.Abort()
			return
		}
		if !sc.HasAnyRole(required...) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access Denied", "")
			c.Abort()
			return
		}
		c.Next()
	}
}
