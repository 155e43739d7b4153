package http

import (
	"github.com/gin-gonic/gin"

	"github.com/yanqian/itinerary-planner/internal/domain/auth"
	"github.com/yanqian/itinerary-planner/internal/domain/planner"
)

const authClaimsKey = "auth_claims"

func setClaims(c *gin.Context, claims auth.Claims) {
	c.Set(authClaimsKey, claims)
}

func getClaims(c *gin.Context) (auth.Claims, bool) {
	value, ok := c.Get(authClaimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}

// identityOf maps verified token claims to the planner owner identity. The
// zero Identity is returned for anonymous requests.
func identityOf(c *gin.Context) planner.Identity {
	claims, ok := getClaims(c)
	if !ok {
		return planner.Identity{}
	}
	return planner.Identity{UserID: claims.UserID, Email: claims.Email}
}
