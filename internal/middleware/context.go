package middleware

import (
	"github.com/franra18/ReViews/internal/models"

	"github.com/gin-gonic/gin"
)

// ContextKeyUser is the gin context key of the authenticated identity
const ContextKeyUser = "user"

func setCurrentUser(c *gin.Context, authCtx *models.AuthenticatedContext) {
	c.Set(ContextKeyUser, authCtx)
	c.Request = c.Request.WithContext(models.WithAuthContext(c.Request.Context(), authCtx))
}

// CurrentUser returns the identity stored by RequireBearer, or nil on
// routes without the gate.
func CurrentUser(c *gin.Context) *models.AuthenticatedContext {
	v, ok := c.Get(ContextKeyUser)
	if !ok {
		return nil
	}
	authCtx, _ := v.(*models.AuthenticatedContext)
	return authCtx
}
