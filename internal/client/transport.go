package client

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/appleboy/go-httpclient"
)

// CreateOptimizedTransport returns a pooled transport for provider calls
func CreateOptimizedTransport(insecureSkipVerify bool) *http.Transport {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if insecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}
	return transport
}

// NewOAuthHTTPClient creates the client used for discovery, code exchange
// and userinfo requests. timeout bounds every request.
func NewOAuthHTTPClient(timeout time.Duration, insecureSkipVerify bool) *http.Client {
	return httpclient.NewAuthClient(httpclient.AuthModeNone, "",
		httpclient.WithTimeout(timeout),
		httpclient.WithTransport(CreateOptimizedTransport(insecureSkipVerify)),
	)
}
