package handlers

import (
	"net/http"

	"github.com/franra18/ReViews/internal/middleware"
	"github.com/franra18/ReViews/internal/models"

	"github.com/gin-gonic/gin"
)

// userResponse is the public view of an account
type userResponse struct {
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Disabled bool    `json:"disabled"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		Username: u.Username,
		Email:    u.Email,
		Disabled: u.Disabled,
	}
}

// Me handles GET /users/me
func Me(c *gin.Context) {
	authCtx := middleware.CurrentUser(c)
	if authCtx == nil || authCtx.User == nil {
		respondDetail(c, http.StatusUnauthorized, middleware.CredentialsErrorDetail)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(authCtx.User))
}
