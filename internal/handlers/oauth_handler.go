package handlers

import (
	"log"
	"net/http"

	"github.com/franra18/ReViews/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionOAuthNonce = "oauth_nonce"

// OAuthHandler handles the external identity login
type OAuthHandler struct {
	handshake *services.HandshakeService
}

func NewOAuthHandler(hs *services.HandshakeService) *OAuthHandler {
	return &OAuthHandler{handshake: hs}
}

// Login redirects the browser to the provider and binds the state nonce
// to the cookie session.
func (h *OAuthHandler) Login(c *gin.Context) {
	redirect, err := h.handshake.Begin()
	if err != nil {
		log.Printf("[OAuth] Failed to start login: %v", err)
		h.fail(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionOAuthNonce, redirect.Nonce)
	if err := session.Save(); err != nil {
		log.Printf("[OAuth] Failed to save session: %v", err)
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, redirect.URL)
}

// Callback completes the login and sends the browser to the frontend
// with the access token in the query string.
func (h *OAuthHandler) Callback(c *gin.Context) {
	session := sessions.Default(c)
	nonce, _ := session.Get(sessionOAuthNonce).(string)
	// The nonce is single use
	session.Delete(sessionOAuthNonce)
	if err := session.Save(); err != nil {
		log.Printf("[OAuth] Failed to clear session nonce: %v", err)
	}

	result, err := h.handshake.Complete(c.Request.Context(), services.CallbackParams{
		Code:             c.Query("code"),
		State:            c.Query("state"),
		Error:            c.Query("error"),
		ErrorDescription: c.Query("error_description"),
		SessionNonce:     nonce,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, result.RedirectURL)
}

func (h *OAuthHandler) fail(c *gin.Context, err error) {
	respondDetail(c, http.StatusBadRequest, "Error en login con Google: "+err.Error())
}
