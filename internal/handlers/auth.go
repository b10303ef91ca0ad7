package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/franra18/ReViews/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService *services.UserService
}

func NewAuthHandler(us *services.UserService) *AuthHandler {
	return &AuthHandler{userService: us}
}

// tokenResponse is the body of a successful password login
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, newUserResponse(user))
	case errors.Is(err, services.ErrUsernameTaken):
		respondDetail(c, http.StatusBadRequest, "El nombre de usuario ya está registrado")
	case errors.Is(err, services.ErrEmailTaken):
		respondDetail(c, http.StatusBadRequest, "El email ya está registrado")
	default:
		if respondValidation(c, err) {
			return
		}
		log.Printf("[Auth] Registration failed: %v", err)
		respondDetail(c, http.StatusInternalServerError, "Error interno del servidor")
	}
}

// Token handles POST /auth/token with form fields username and password
func (h *AuthHandler) Token(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		respondDetail(c, http.StatusUnprocessableEntity, gin.H{
			"username": "cannot be blank",
			"password": "cannot be blank",
		})
		return
	}

	result, err := h.userService.Login(c.Request.Context(), username, password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.Header("WWW-Authenticate", "Bearer")
		respondDetail(c, http.StatusUnauthorized, "Usuario o contraseña incorrectos")
		return
	}
	if err != nil {
		log.Printf("[Auth] Login failed for user=%s: %v", username, err)
		respondDetail(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: result.TokenString,
		TokenType:   result.TokenType,
	})
}
