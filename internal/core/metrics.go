package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Token Operations
	RecordTokenIssued(source string, generationTime time.Duration)
	RecordTokenValidation(result string, duration time.Duration)

	// Authentication
	RecordAuthAttempt(method string, success bool, duration time.Duration)
	RecordLogin(authSource string, success bool)
	RecordOAuthCallback(provider string, success bool)
	RecordExternalAPICall(provider string, duration time.Duration)

	// Accounts
	RecordUserCreated(provider string)

	// Reviews
	RecordReviewCreated()

	// Gauges
	SetUsersCount(count int)
	SetReviewsCount(count int)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}
