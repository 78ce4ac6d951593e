package network

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sdmp3/sdmp3/log"
	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

var errNotH2 = errors.New("server did not negotiate h2")

// FingerprintTransport dials TLS with a Chrome 120 ClientHello.
//
// It first tries HTTP/2 and falls back to HTTP/1.1 when the server does not
// negotiate h2 or the h2 attempt fails before a response arrives.
type FingerprintTransport struct {
	h2 *http2.Transport
	h1 *http.Transport

	roots *x509.CertPool
}

// NewFingerprintTransport returns a fingerprinting transport.
// roots overrides the system certificate pool when non-nil.
func NewFingerprintTransport(roots *x509.CertPool) *FingerprintTransport {
	t := &FingerprintTransport{roots: roots}

	t.h2 = &http2.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			return t.dial(ctx, network, addr, nil)
		},
	}

	t.h1 = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return t.dial(ctx, network, addr, []string{"http/1.1"})
		},
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	return t
}

// RoundTrip implements http.RoundTripper.
func (t *FingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.h1.RoundTrip(req)
	}

	resp, err := t.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	if req.Context().Err() != nil {
		return nil, err
	}

	retry, rewindErr := rewind(req)
	if rewindErr != nil {
		return nil, err
	}

	if !errors.Is(err, errNotH2) {
		log.Debugf("h2 request to %s failed, retrying over http/1.1: %v", req.URL.Host, err)
	}

	return t.h1.RoundTrip(retry)
}

func rewind(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}

	if req.GetBody == nil {
		return nil, errors.New("request body cannot be replayed")
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}

	clone := req.Clone(req.Context())
	clone.Body = body
	return clone, nil
}

func (t *FingerprintTransport) dial(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	config := &utls.Config{
		ServerName: host,
		RootCAs:    t.roots,
		MinVersion: tls.VersionTLS12,
	}

	tlsConn, err := hello(conn, config, protos)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	if protos == nil && tlsConn.ConnectionState().NegotiatedProtocol != http2.NextProtoTLS {
		tlsConn.Close()
		return nil, errNotH2
	}

	return tlsConn, nil
}

// hello builds a Chrome 120 client, optionally restricting the advertised ALPN protocols.
func hello(conn net.Conn, config *utls.Config, protos []string) (*utls.UConn, error) {
	if protos == nil {
		return utls.UClient(conn, config, utls.HelloChrome_120), nil
	}

	spec, err := utls.UTLSIdToSpec(utls.HelloChrome_120)
	if err != nil {
		return nil, fmt.Errorf("client hello spec: %w", err)
	}

	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = protos
		}
	}

	tlsConn := utls.UClient(conn, config, utls.HelloCustom)
	if err := tlsConn.ApplyPreset(&spec); err != nil {
		return nil, fmt.Errorf("apply client hello: %w", err)
	}
	return tlsConn, nil
}
