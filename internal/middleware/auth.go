package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/franra18/ReViews/internal/models"

	"github.com/gin-gonic/gin"
)

// CredentialsErrorDetail is the body detail of every bearer rejection
const CredentialsErrorDetail = "No se pudieron validar las credenciales"

// TokenAuthenticator resolves a bearer token to an identity
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*models.AuthenticatedContext, error)
}

// RequireBearer is a middleware that requires a valid bearer token.
// Missing, malformed and rejected tokens all yield the same 401.
func RequireBearer(authenticator TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		authCtx, err := authenticator.Authenticate(c.Request.Context(), raw)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		setCurrentUser(c, authCtx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"detail": CredentialsErrorDetail,
	})
}

// bearerToken extracts the credentials of an "Authorization: Bearer x"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, credentials, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	credentials = strings.TrimSpace(credentials)
	if credentials == "" {
		return "", false
	}
	return credentials, true
}
