package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	m := Init(true)
	assert.NotNil(t, m)

	metrics, ok := m.(*Metrics)
	assert.True(t, ok, "Init(true) should return *Metrics")
	assert.NotNil(t, metrics.TokensIssuedTotal)
	assert.NotNil(t, metrics.AuthAttemptsTotal)
	assert.NotNil(t, metrics.HTTPRequestsTotal)

	assert.Same(t, m, Init(true), "Prometheus metrics are registered once")
}

func TestInitNoop(t *testing.T) {
	m := Init(false)
	assert.NotNil(t, m)

	_, ok := m.(*NoopMetrics)
	assert.True(t, ok, "Init(false) should return *NoopMetrics")
}

func TestRecordTokenValidation(t *testing.T) {
	m := Init(true).(*Metrics)

	before := testutil.ToFloat64(m.TokenValidationTotal.WithLabelValues("expired"))
	m.RecordTokenValidation("expired", 40*time.Millisecond)
	m.RecordTokenValidation("valid", 10*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(m.TokenValidationTotal.WithLabelValues("expired")))
}

func TestRecordAuthAttempt(t *testing.T) {
	m := Init(true).(*Metrics)

	before := testutil.ToFloat64(m.AuthAttemptsTotal.WithLabelValues("local", "failure"))
	m.RecordAuthAttempt("local", true, 200*time.Millisecond)
	m.RecordAuthAttempt("local", false, 150*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(m.AuthAttemptsTotal.WithLabelValues("local", "failure")))
}

func TestRecordOAuthCallback(t *testing.T) {
	m := Init(true).(*Metrics)

	before := testutil.ToFloat64(m.AuthOAuthCallbackTotal.WithLabelValues("google", "error"))
	m.RecordOAuthCallback("google", false)
	m.RecordOAuthCallback("google", true)

	assert.Equal(t, before+1, testutil.ToFloat64(m.AuthOAuthCallbackTotal.WithLabelValues("google", "error")))
}

func TestRecordAccountsAndReviews(t *testing.T) {
	m := Init(true).(*Metrics)

	m.RecordTokenIssued("google", time.Millisecond)
	m.RecordLogin("google", true)
	m.RecordExternalAPICall("google", 300*time.Millisecond)
	m.RecordUserCreated("google")
	m.RecordReviewCreated()
	m.RecordDatabaseQueryError("count_users")

	m.SetUsersCount(12)
	m.SetReviewsCount(34)
	assert.Equal(t, float64(12), testutil.ToFloat64(m.UsersTotal))
	assert.Equal(t, float64(34), testutil.ToFloat64(m.ReviewsTotal))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := Init(true).(*Metrics)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(m))
	r.GET("/reviews/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/reviews/:id", "200"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reviews/abc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/reviews/:id", "200")))
}

func TestHTTPMetricsMiddleware_Noop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(HTTPMetricsMiddleware(Init(false)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		fullPath string
		expected string
	}{
		{"empty path", "", "unknown"},
		{"root path", "/", "/"},
		{"health check", "/health", "/health"},
		{"callback", "/auth/google/callback", "/auth/google/callback"},
		{"parameterized", "/reviews/:id", "/reviews/:id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizePath(tt.fullPath))
		})
	}
}
