// Package spotify reads playlists through the Spotify Web API.
package spotify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/sdmp3/sdmp3/key"
	"github.com/spf13/viper"
)

// Endpoints, overridable in tests.
var (
	AccountsURL = "https://accounts.spotify.com"
	APIURL      = "https://api.spotify.com"
)

// Scopes requested at login.
var Scopes = []string{
	"playlist-read-private",
	"playlist-read-collaborative",
	"user-library-read",
}

// Config holds the registered application credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// MissingConfigError lists the variables that still need a value.
type MissingConfigError struct {
	Missing []string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf(
		"missing spotify configuration: %s\nset them in a .env file or with `sdmp3 config set`",
		strings.Join(e.Missing, ", "),
	)
}

// ConfigFromViper reads the credentials and reports every missing one at once.
func ConfigFromViper() (Config, error) {
	cfg := Config{
		ClientID:     strings.TrimSpace(viper.GetString(key.SpotifyClientID)),
		ClientSecret: strings.TrimSpace(viper.GetString(key.SpotifyClientSecret)),
		RedirectURI:  strings.TrimSpace(viper.GetString(key.SpotifyRedirectURI)),
	}

	var missing []string
	if cfg.ClientID == "" {
		missing = append(missing, "SPOTIFY_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		missing = append(missing, "SPOTIFY_CLIENT_SECRET")
	}
	if cfg.RedirectURI == "" {
		missing = append(missing, "SPOTIFY_REDIRECT_URI")
	}

	if len(missing) > 0 {
		return cfg, &MissingConfigError{Missing: missing}
	}

	if _, err := url.Parse(cfg.RedirectURI); err != nil {
		return cfg, fmt.Errorf("invalid spotify redirect uri: %w", err)
	}

	return cfg, nil
}
