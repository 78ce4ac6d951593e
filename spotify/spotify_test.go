package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/sdmp3/sdmp3/auth"
	"github.com/sdmp3/sdmp3/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

// fakeSpotify serves both the accounts and the Web API endpoints.
func fakeSpotify() (*httptest.Server, *int) {
	refreshes := 0
	mux := http.NewServeMux()

	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		id, secret, ok := r.BasicAuth()
		if !ok || id != "client" || secret != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprint(w, `{"error":"invalid_client","error_description":"Invalid client"}`)
			return
		}

		_ = r.ParseForm()
		switch r.Form.Get("grant_type") {
		case "authorization_code":
			if r.Form.Get("code") != "good-code" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = fmt.Fprint(w, `{"error":"invalid_grant","error_description":"Invalid authorization code"}`)
				return
			}
			_, _ = fmt.Fprint(w, `{"access_token":"access-1","refresh_token":"refresh-1","token_type":"Bearer","expires_in":3600}`)
		case "refresh_token":
			refreshes++
			_, _ = fmt.Fprint(w, `{"access_token":"access-2","token_type":"Bearer","expires_in":3600}`)
		}
	})

	authorized := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch r.Header.Get("Authorization") {
			case "Bearer access-1", "Bearer access-2":
				next(w, r)
			default:
				w.WriteHeader(http.StatusUnauthorized)
			}
		}
	}

	mux.HandleFunc("/v1/me/playlists", authorized(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"limit": r.URL.Query().Get("limit"),
			"items": []map[string]any{
				{"id": "p1", "name": "Road Trip", "owner": map[string]any{"display_name": "me"}, "tracks": map[string]any{"total": 3}},
				{"id": "p2", "name": "Focus", "owner": map[string]any{"display_name": "me"}, "tracks": map[string]any{"total": 0}},
			},
		})
	}))

	mux.HandleFunc("/v1/playlists/p1/tracks", authorized(func(w http.ResponseWriter, r *http.Request) {
		if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err != nil || limit < 1 || limit > 100 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = fmt.Fprint(w, `{"items":[
			{"track":{"name":"Song A"}},
			{"track":null},
			{"track":{"name":"Song B"}}
		]}`)
	}))

	server := httptest.NewServer(mux)
	AccountsURL = server.URL
	APIURL = server.URL
	return server, &refreshes
}

var testConfig = Config{ClientID: "client", ClientSecret: "secret", RedirectURI: "http://127.0.0.1:3000/callback"}

func TestConfigFromViper(t *testing.T) {
	Convey("Given no spotify configuration", t, func() {
		viper.Set(key.SpotifyClientID, "")
		viper.Set(key.SpotifyClientSecret, "")
		viper.Set(key.SpotifyRedirectURI, "http://localhost:3000/callback")

		Convey("Every missing variable is listed", func() {
			_, err := ConfigFromViper()

			var missing *MissingConfigError
			So(errors.As(err, &missing), ShouldBeTrue)
			So(missing.Missing, ShouldResemble, []string{"SPOTIFY_CLIENT_ID", "SPOTIFY_CLIENT_SECRET"})
			So(err.Error(), ShouldContainSubstring, ".env")
		})

		Convey("A complete configuration is accepted", func() {
			viper.Set(key.SpotifyClientID, " client ")
			viper.Set(key.SpotifyClientSecret, "secret")
			defer viper.Set(key.SpotifyClientID, "")
			defer viper.Set(key.SpotifyClientSecret, "")

			cfg, err := ConfigFromViper()
			So(err, ShouldBeNil)
			So(cfg.ClientID, ShouldEqual, "client")
		})
	})
}

func TestAuthorizeURL(t *testing.T) {
	Convey("The consent URL carries the app and the scopes", t, func() {
		u, err := url.Parse(testConfig.AuthorizeURL("xyz"))
		So(err, ShouldBeNil)
		q := u.Query()
		So(u.Path, ShouldEqual, "/authorize")
		So(q.Get("client_id"), ShouldEqual, "client")
		So(q.Get("response_type"), ShouldEqual, "code")
		So(q.Get("redirect_uri"), ShouldEqual, testConfig.RedirectURI)
		So(q.Get("scope"), ShouldEqual, "playlist-read-private playlist-read-collaborative user-library-read")
		So(q.Get("state"), ShouldEqual, "xyz")
	})
}

func freePort() int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	So(err, ShouldBeNil)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestLogin(t *testing.T) {
	Convey("Given a fake Spotify", t, func() {
		server, _ := fakeSpotify()
		defer server.Close()
		So(auth.DeleteToken(), ShouldBeNil)

		cfg := testConfig
		cfg.RedirectURI = fmt.Sprintf("http://127.0.0.1:%d/callback", freePort())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// plays the browser: follows the consent URL straight back to the callback
		browse := func(code string) func(string) error {
			return func(consent string) error {
				u, err := url.Parse(consent)
				if err != nil {
					return err
				}
				callback := fmt.Sprintf("%s?code=%s&state=%s", cfg.RedirectURI, code, u.Query().Get("state"))
				go func() {
					resp, err := http.Get(callback)
					if err == nil {
						resp.Body.Close()
					}
				}()
				return nil
			}
		}

		Convey("A granted code is exchanged and stored", func() {
			token, err := Login(ctx, cfg, server.Client(), browse("good-code"))
			So(err, ShouldBeNil)
			So(token.AccessToken, ShouldEqual, "access-1")

			stored, err := auth.GetToken()
			So(err, ShouldBeNil)
			So(stored.RefreshToken, ShouldEqual, "refresh-1")
		})

		Convey("A rejected code fails the login", func() {
			_, err := Login(ctx, cfg, server.Client(), browse("bad-code"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid_grant")
		})
	})
}

func TestClient(t *testing.T) {
	Convey("Given a logged in user", t, func() {
		server, refreshes := fakeSpotify()
		defer server.Close()
		ctx := context.Background()

		So(auth.SetToken(&auth.Token{AccessToken: "access-1", RefreshToken: "refresh-1", Expiry: time.Now().Add(time.Hour)}), ShouldBeNil)

		client, err := NewClient(testConfig, server.Client())
		So(err, ShouldBeNil)

		Convey("Playlists are listed", func() {
			playlists, err := client.Playlists(ctx)
			So(err, ShouldBeNil)
			So(playlists, ShouldHaveLength, 2)
			So(playlists[0], ShouldResemble, Playlist{ID: "p1", Name: "Road Trip", Owner: "me", Tracks: 3})
			So(playlists[0].String(), ShouldEqual, "Road Trip (3)")
		})

		Convey("Track names come back in order without empty entries", func() {
			tracks, err := client.PlaylistTracks(ctx, "p1", 20)
			So(err, ShouldBeNil)
			So(tracks, ShouldResemble, []string{"Song A", "Song B"})
		})

		Convey("Limits beyond the API maximum are clamped", func() {
			tracks, err := client.PlaylistTracks(ctx, "p1", 500)
			So(err, ShouldBeNil)
			So(tracks, ShouldResemble, []string{"Song A", "Song B"})
		})

		Convey("An expired token is refreshed and persisted", func() {
			So(auth.SetToken(&auth.Token{AccessToken: "stale", RefreshToken: "refresh-1", Expiry: time.Now().Add(-time.Minute)}), ShouldBeNil)
			client, err := NewClient(testConfig, server.Client())
			So(err, ShouldBeNil)

			_, err = client.Playlists(ctx)
			So(err, ShouldBeNil)
			So(*refreshes, ShouldEqual, 1)

			stored, _ := auth.GetToken()
			So(stored.AccessToken, ShouldEqual, "access-2")
			So(stored.RefreshToken, ShouldEqual, "refresh-1")
		})

		Convey("A rejected token asks for a new login", func() {
			So(auth.SetToken(&auth.Token{AccessToken: "revoked", Expiry: time.Now().Add(time.Hour)}), ShouldBeNil)
			client, err := NewClient(testConfig, server.Client())
			So(err, ShouldBeNil)

			_, err = client.Playlists(ctx)
			So(err, ShouldEqual, ErrUnauthorized)
		})
	})

	Convey("Given nobody logged in", t, func() {
		So(auth.DeleteToken(), ShouldBeNil)

		_, err := NewClient(testConfig, http.DefaultClient)
		So(errors.Is(err, auth.ErrNoToken), ShouldBeTrue)
	})
}
