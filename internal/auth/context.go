package auth

import (
	"github.com/gin-gonic/gin"
)

const (
	CtxPrincipal = "principal"
)

// Principal is the authenticated caller, taken from a verified session token.
type Principal struct {
	ID    int64
	Email string
	Admin bool
}

// SetPrincipal stores the caller in the gin context.
// This is set by the auth middleware.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(CtxPrincipal, p)
}

// CurrentUser returns the caller, if the request carried a valid token.
func CurrentUser(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(CtxPrincipal)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok && p.ID > 0
}

// UserID returns the caller's CODPES, or 0 for anonymous requests.
func UserID(c *gin.Context) int64 {
	p, _ := CurrentUser(c)
	return p.ID
}

// CanAccess reports whether the caller may act on records owned by ownerID.
func (p Principal) CanAccess(ownerID int64) bool {
	return p.Admin || (p.ID > 0 && p.ID == ownerID)
}
