package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder used when
// metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordTokenIssued(source string, generationTime time.Duration) {}
func (n *NoopMetrics) RecordTokenValidation(result string, duration time.Duration)  {}

func (n *NoopMetrics) RecordAuthAttempt(method string, success bool, duration time.Duration) {}
func (n *NoopMetrics) RecordLogin(authSource string, success bool)                           {}
func (n *NoopMetrics) RecordOAuthCallback(provider string, success bool)                     {}
func (n *NoopMetrics) RecordExternalAPICall(provider string, duration time.Duration)         {}

func (n *NoopMetrics) RecordUserCreated(provider string) {}
func (n *NoopMetrics) RecordReviewCreated()              {}
func (n *NoopMetrics) SetUsersCount(count int)           {}
func (n *NoopMetrics) SetReviewsCount(count int)         {}

func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
