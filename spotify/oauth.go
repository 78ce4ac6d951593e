package spotify

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sdmp3/sdmp3/auth"
	"github.com/sdmp3/sdmp3/log"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
	Description  string `json:"error_description"`
}

// AuthorizeURL builds the consent page URL for the authorization code flow.
func (c Config) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.ClientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", c.RedirectURI)
	params.Set("scope", strings.Join(Scopes, " "))
	params.Set("state", state)
	return AccountsURL + "/authorize?" + params.Encode()
}

// Exchange trades an authorization code for a token pair.
func (c Config) Exchange(ctx context.Context, client *http.Client, code string) (*auth.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.RedirectURI)
	return c.token(ctx, client, form)
}

// Refresh obtains a new access token. Spotify may omit the refresh token, in which case the old one is kept.
func (c Config) Refresh(ctx context.Context, client *http.Client, refreshToken string) (*auth.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	token, err := c.token(ctx, client, form)
	if err != nil {
		return nil, err
	}

	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	return token, nil
}

func (c Config) token(ctx context.Context, client *http.Client, form url.Values) (*auth.Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, AccountsURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.ClientID, c.ClientSecret)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || body.AccessToken == "" {
		if body.Error != "" {
			return nil, fmt.Errorf("spotify token: %s (%s)", body.Error, body.Description)
		}
		return nil, fmt.Errorf("spotify token: unexpected status %s", resp.Status)
	}

	return &auth.Token{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		TokenType:    body.TokenType,
		Scope:        body.Scope,
		Expiry:       time.Now().Add(time.Duration(body.ExpiresIn) * time.Second),
	}, nil
}

// Login runs the authorization code flow through a temporary listener on the redirect URI.
//
// browse is called with the consent URL; it usually opens a browser. The
// returned token is also stored in the keyring.
func Login(ctx context.Context, cfg Config, client *http.Client, browse func(string) error) (*auth.Token, error) {
	redirect, err := url.Parse(cfg.RedirectURI)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", redirect.Host, err)
	}

	state, err := randomState()
	if err != nil {
		listener.Close()
		return nil, err
	}

	codes := make(chan string, 1)
	failures := make(chan error, 1)

	callback := redirect.Path
	if callback == "" {
		callback = "/"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, cfg.AuthorizeURL(state), http.StatusFound)
	})
	mux.HandleFunc(callback, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		switch {
		case query.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		case query.Get("error") != "":
			http.Error(w, "authorization denied: "+query.Get("error"), http.StatusForbidden)
			sendOnce(failures, fmt.Errorf("authorization denied: %s", query.Get("error")))
			return
		case query.Get("code") == "":
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		_, _ = fmt.Fprintln(w, "Logged in. You can close this window and return to the terminal.")
		sendOnce(codes, query.Get("code"))
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendOnce(failures, err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	loginURL := cfg.AuthorizeURL(state)
	if err := browse(loginURL); err != nil {
		log.Warnf("open browser: %v", err)
	}

	var code string
	select {
	case code = <-codes:
	case err := <-failures:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := cfg.Exchange(ctx, client, code)
	if err != nil {
		return nil, err
	}

	if err := auth.SetToken(token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	log.Info("spotify login complete")
	return token, nil
}

func sendOnce[T any](ch chan T, value T) {
	select {
	case ch <- value:
	default:
	}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
