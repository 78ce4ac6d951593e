package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/samber/lo"
	"github.com/sdmp3/sdmp3/auth"
	"github.com/sdmp3/sdmp3/log"
)

// ErrUnauthorized means the stored session was rejected.
var ErrUnauthorized = errors.New("spotify session expired, run `sdmp3 spotify login`")

// Playlist is a summary entry of the user's playlists.
type Playlist struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Owner  string `json:"owner"`
	Tracks int    `json:"tracks"`
}

func (p Playlist) String() string {
	return fmt.Sprintf("%s (%d)", p.Name, p.Tracks)
}

// Client calls the Web API on behalf of the logged in user.
type Client struct {
	config Config
	http   *http.Client

	mu    sync.Mutex
	token *auth.Token
}

// NewClient loads the stored session. It fails with auth.ErrNoToken before the first login.
func NewClient(config Config, httpClient *http.Client) (*Client, error) {
	token, err := auth.GetToken()
	if err != nil {
		return nil, err
	}

	return &Client{config: config, http: httpClient, token: token}, nil
}

// accessToken returns a valid access token, refreshing and persisting it when needed.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.Valid() {
		return c.token.AccessToken, nil
	}

	if c.token.RefreshToken == "" {
		return "", ErrUnauthorized
	}

	log.Debug("refreshing spotify access token")
	token, err := c.config.Refresh(ctx, c.http, c.token.RefreshToken)
	if err != nil {
		return "", err
	}

	c.token = token
	if err := auth.SetToken(token); err != nil {
		log.Warnf("store refreshed token: %v", err)
	}

	return token.AccessToken, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, target any) error {
	access, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, APIURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+access)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("spotify %s: unexpected status %s", path, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}

type playlistsPage struct {
	Items []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Owner struct {
			DisplayName string `json:"display_name"`
		} `json:"owner"`
		Tracks struct {
			Total int `json:"total"`
		} `json:"tracks"`
	} `json:"items"`
}

type trackItem struct {
	Track *struct {
		Name string `json:"name"`
	} `json:"track"`
}

type tracksPage struct {
	Items []trackItem `json:"items"`
}

// Playlists returns up to 50 playlists of the current user.
func (c *Client) Playlists(ctx context.Context) ([]Playlist, error) {
	var page playlistsPage
	if err := c.get(ctx, "/v1/me/playlists", url.Values{"limit": {"50"}}, &page); err != nil {
		return nil, err
	}

	playlists := make([]Playlist, 0, len(page.Items))
	for _, item := range page.Items {
		playlists = append(playlists, Playlist{
			ID:     item.ID,
			Name:   item.Name,
			Owner:  item.Owner.DisplayName,
			Tracks: item.Tracks.Total,
		})
	}

	return playlists, nil
}

// maxTrackLimit is the largest page the Web API serves for playlist tracks.
const maxTrackLimit = 100

// PlaylistTracks returns the names of the first limit tracks of a playlist, in playlist order.
// Entries without a track (removed or local files) are skipped.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	limit = lo.Clamp(limit, 1, maxTrackLimit)

	var page tracksPage
	params := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "/v1/playlists/"+url.PathEscape(playlistID)+"/tracks", params, &page); err != nil {
		return nil, err
	}

	names := lo.FilterMap(page.Items, func(item trackItem, _ int) (string, bool) {
		if item.Track == nil || item.Track.Name == "" {
			return "", false
		}
		return item.Track.Name, true
	})

	return names, nil
}
