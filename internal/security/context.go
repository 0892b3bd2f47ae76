package security

import (
	"github.com/gin-gonic/gin"

	"github.com/bcod/campus-market/internal/domain"
)

// contextKey is the gin context key under which the request's security
// context is stored by the authenticator.
const contextKey = "security_context"

// Context is the per-request resolved identity. The zero value is the
// anonymous context. Instances are request-local and never shared, so no
// locking is needed.
type Context struct {
	UserID   int64
	Username string
	Roles    []domain.Role
}

// Authenticated reports whether an identity was resolved for this request
func (c *Context) Authenticated() bool {
	return c != nil && c.Username != ""
}

// HasAnyRole reports whether the context's role set intersects required.
// An empty requirement always passes.
func (c *Context) HasAnyRole(required ...domain.Role) bool {
	if len(required) == 0 {
		return true
	}
	if !c.Authenticated() {
		return false
	}
	for _, want := range required {
		for _, have := range c.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// setContext attaches the resolved context to the request
func setContext(c *gin.Context, sc *Context) {
	c.Set(contextKey, sc)
}

// FromGin returns the request's security context, or the anonymous context
// if the authenticator has not populated one.
func FromGin(c *gin.Context) *Context {
	if v, ok := c.Get(contextKey); ok {
		if sc, ok := v.(*Context); ok {
			return sc
		}
	}
	return &Context{}
}
