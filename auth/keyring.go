// Package auth keeps the Spotify session in the system keyring.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sdmp3/sdmp3/constant"
	"github.com/zalando/go-keyring"
)

const user = "spotify-token"

// expiryLeeway treats tokens about to expire as expired.
const expiryLeeway = 30 * time.Second

// ErrNoToken is returned when no session has been stored yet.
var ErrNoToken = errors.New("not logged in to spotify")

// Token is an OAuth token pair.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Scope        string    `json:"scope"`
	Expiry       time.Time `json:"expiry"`
}

// Valid reports whether the access token can still be used.
func (t *Token) Valid() bool {
	return t != nil && t.AccessToken != "" && time.Now().Add(expiryLeeway).Before(t.Expiry)
}

// SetToken persists token.
func SetToken(token *Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return keyring.Set(constant.App, user, string(data))
}

// GetToken loads the stored token.
func GetToken() (*Token, error) {
	data, err := keyring.Get(constant.App, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}

	var token Token
	if err := json.Unmarshal([]byte(data), &token); err != nil {
		return nil, fmt.Errorf("stored spotify token is corrupt: %w", err)
	}
	return &token, nil
}

// DeleteToken forgets the session. Deleting a missing token is not an error.
func DeleteToken() error {
	err := keyring.Delete(constant.App, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
