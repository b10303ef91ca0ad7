package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franra18/ReViews/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRejected = errors.New("rejected")

type stubAuthenticator struct {
	tokens map[string]*models.AuthenticatedContext
	seen   []string
}

func (s *stubAuthenticator) Authenticate(
	_ context.Context,
	raw string,
) (*models.AuthenticatedContext, error) {
	s.seen = append(s.seen, raw)
	if authCtx, ok := s.tokens[raw]; ok {
		return authCtx, nil
	}
	return nil, errRejected
}

func newGatedRouter(a TokenAuthenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users/me", RequireBearer(a), func(c *gin.Context) {
		authCtx := CurrentUser(c)
		fromRequest := models.AuthFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"username":     authCtx.Username(),
			"same_context": fromRequest == authCtx,
		})
	})
	return r
}

func TestRequireBearer_Accepts(t *testing.T) {
	stub := &stubAuthenticator{tokens: map[string]*models.AuthenticatedContext{
		"good-token": {User: &models.User{Username: "jane"}},
	}}
	r := newGatedRouter(stub)

	for _, header := range []string{"Bearer good-token", "bearer good-token", "BEARER  good-token "} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, header)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "jane", body["username"])
		assert.Equal(t, true, body["same_context"])
	}
}

func TestRequireBearer_RejectsUniformly(t *testing.T) {
	stub := &stubAuthenticator{}
	r := newGatedRouter(stub)

	headers := []string{
		"",
		"Bearer",
		"Bearer ",
		"Basic dXNlcjpwYXNz",
		"Token abc",
		"Bearer expired-or-garbage",
	}

	var bodies []string
	for _, header := range headers {
		w := httptest.NewRecorder()
		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/users/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"), header)
		bodies = append(bodies, w.Body.String())
	}

	for _, body := range bodies {
		assert.JSONEq(t, `{"detail":"No se pudieron validar las credenciales"}`, body)
	}
	assert.Equal(t, []string{"expired-or-garbage"}, stub.seen,
		"only well-formed bearer headers reach the authenticator")
}

func TestCurrentUser_WithoutGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
}
