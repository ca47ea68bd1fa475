package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridebook/internal/domain"
)

const (
	userIDHeader   = "X-User-ID"
	userRoleHeader = "X-User-Role"

	actorContextKey = "actor"
)

// ActorMiddleware resolves the authenticated actor from the identity
// headers set by the upstream auth gateway. Credential verification
// happens there; by the time a request reaches this service the pair is
// trusted.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(userIDHeader)
		role := domain.Role(c.GetHeader(userRoleHeader))

		if id == "" || !role.IsValid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid identity"})
			return
		}

		c.Set(actorContextKey, domain.Actor{ID: id, Role: role})
		c.Next()
	}
}

// ActorFromContext returns the actor resolved by ActorMiddleware. The
// zero Actor is returned on routes that skip the middleware; the
// authorization policy rejects it.
func ActorFromContext(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(domain.Actor); ok {
			return actor
		}
	}
	return domain.Actor{}
}
