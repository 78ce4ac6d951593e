// Package network provides the shared HTTP clients.
package network

import (
	"net/http"
	"time"

	"github.com/sdmp3/sdmp3/constant"
	"github.com/sdmp3/sdmp3/key"
	"github.com/sdmp3/sdmp3/log"
	"github.com/spf13/viper"
)

// Client is used for search pages and provider scripts.
// It carries no overall timeout: callers bound requests through their context.
var Client = &http.Client{
	Transport: &userAgent{next: newTransport()},
}

// Media is used for media downloads and never fingerprints.
var Media = &http.Client{
	Transport: newTransport(),
}

// Setup switches Client onto the fingerprinting transport when network.tls_fingerprint is on.
func Setup() {
	if viper.GetBool(key.NetworkTLSFingerprint) {
		log.Debug("using fingerprinted TLS transport for search requests")
		Client.Transport = &userAgent{next: NewFingerprintTransport(nil)}
		return
	}

	Client.Transport = &userAgent{next: newTransport()}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 10
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

// userAgent sets a browser User-Agent on requests that don't carry one.
type userAgent struct {
	next http.RoundTripper
}

func (u *userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", constant.UserAgent)
	return u.next.RoundTrip(clone)
}
