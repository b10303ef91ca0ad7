// Package fakeoidc runs an in-process OpenID Connect provider for tests.
package fakeoidc

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
)

const (
	keyID       = "fake-key"
	AccessToken = "fake-access-token"
	// ValidCode is the only authorization code the token endpoint accepts
	ValidCode = "valid-code"
)

// Identity is the profile the provider reports for the signed-in user
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// Server is a minimal provider: discovery, JWKS, token and userinfo.
type Server struct {
	URL      string
	ClientID string

	srv *httptest.Server
	key *rsa.PrivateKey

	mu            sync.Mutex
	identity      Identity
	omitIDToken   bool
	idTokenIssuer string
	tokenCalls    int
	userInfoCalls int
}

// New starts a provider for clientID and stops it when the test ends.
func New(t testing.TB, clientID string) *Server {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	s := &Server{
		ClientID: clientID,
		key:      key,
		identity: Identity{
			Subject:       "google-sub-1",
			Email:         "jane@example.com",
			EmailVerified: true,
			Name:          "Jane Doe",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", s.discovery)
	mux.HandleFunc("/keys", s.keys)
	mux.HandleFunc("/token", s.token)
	mux.HandleFunc("/userinfo", s.userInfo)
	mux.HandleFunc("/auth", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.srv = httptest.NewServer(mux)
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// AuthURL is the authorization endpoint advertised by discovery
func (s *Server) AuthURL() string {
	return s.URL + "/auth"
}

// SetIdentity changes the profile returned for subsequent logins
func (s *Server) SetIdentity(id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id
}

// OmitIDToken makes the token endpoint respond without an id_token
func (s *Server) OmitIDToken(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitIDToken = omit
}

// SignIDTokensAs overrides the iss claim of issued id_tokens
func (s *Server) SignIDTokensAs(issuer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idTokenIssuer = issuer
}

// TokenCalls returns how many times the token endpoint was hit
func (s *Server) TokenCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenCalls
}

// UserInfoCalls returns how many times the userinfo endpoint was hit
func (s *Server) UserInfoCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userInfoCalls
}

func (s *Server) discovery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"issuer":                                s.URL,
		"authorization_endpoint":                s.URL + "/auth",
		"token_endpoint":                        s.URL + "/token",
		"userinfo_endpoint":                     s.URL + "/userinfo",
		"jwks_uri":                              s.URL + "/keys",
		"response_types_supported":              []string{"code"},
		"subject_types_supported":               []string{"public"},
		"id_token_signing_alg_values_supported": []string{"RS256"},
	})
}

func (s *Server) keys(w http.ResponseWriter, r *http.Request) {
	jwk := jose.JSONWebKey{Key: &s.key.PublicKey, KeyID: keyID, Algorithm: "RS256", Use: "sig"}
	writeJSON(w, http.StatusOK, struct {
		Keys []jose.JSONWebKey `json:"keys"`
	}{Keys: []jose.JSONWebKey{jwk}})
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.tokenCalls++
	identity := s.identity
	omit := s.omitIDToken
	issuer := s.idTokenIssuer
	s.mu.Unlock()

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil ||
		r.PostForm.Get("grant_type") != "authorization_code" ||
		r.PostForm.Get("code") != ValidCode {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":             "invalid_grant",
			"error_description": "unknown authorization code",
		})
		return
	}

	resp := map[string]any{
		"access_token": AccessToken,
		"token_type":   "Bearer",
		"expires_in":   3600,
	}
	if !omit {
		if issuer == "" {
			issuer = s.URL
		}
		now := time.Now()
		claims := jwt.MapClaims{
			"iss":            issuer,
			"sub":            identity.Subject,
			"aud":            s.ClientID,
			"iat":            now.Unix(),
			"exp":            now.Add(time.Hour).Unix(),
			"email":          identity.Email,
			"email_verified": identity.EmailVerified,
			"name":           identity.Name,
		}
		if identity.Picture != "" {
			claims["picture"] = identity.Picture
		}
		idToken, err := s.sign(claims)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp["id_token"] = idToken
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) userInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.userInfoCalls++
	identity := s.identity
	s.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+AccessToken {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	body := map[string]any{
		"sub":            identity.Subject,
		"email":          identity.Email,
		"email_verified": identity.EmailVerified,
		"name":           identity.Name,
	}
	if identity.Picture != "" {
		body["picture"] = identity.Picture
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) sign(claims jwt.MapClaims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = keyID
	return tok.SignedString(s.key)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
