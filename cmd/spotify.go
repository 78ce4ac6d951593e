package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/sdmp3/sdmp3/auth"
	"github.com/sdmp3/sdmp3/color"
	"github.com/sdmp3/sdmp3/icon"
	"github.com/sdmp3/sdmp3/network"
	"github.com/sdmp3/sdmp3/open"
	"github.com/sdmp3/sdmp3/spotify"
	"github.com/sdmp3/sdmp3/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(spotifyCmd)
}

// spotifyCmd groups the Spotify account commands.
var spotifyCmd = &cobra.Command{
	Use:   "spotify",
	Short: "Manage the Spotify account used for playlist import",
	Long: `Manage the Spotify account used by "sdmp3 playlist".

Credentials are read from spotify.client_id, spotify.client_secret and
spotify.redirect_uri, or from SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET and
SPOTIFY_REDIRECT_URI in the environment or a .env file.`,
}

func init() {
	spotifyCmd.AddCommand(spotifyLoginCmd)
	spotifyLoginCmd.Flags().BoolP("no-browser", "n", false, "Print the consent URL instead of opening a browser")
}

var spotifyLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize sdmp3 to read your playlists",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := spotify.ConfigFromViper()
		handleErr(err)

		openBrowser := !lo.Must(cmd.Flags().GetBool("no-browser"))
		if openBrowser {
			confirm := survey.Confirm{
				Message: "Open the Spotify consent page in your browser?",
				Default: true,
			}
			handleErr(survey.AskOne(&confirm, &openBrowser))
		}

		browse := func(url string) error {
			fmt.Printf("%s Open this URL to continue:\n%s\n", icon.Get(icon.Link), style.Fg(color.Cyan)(url))
			if !openBrowser {
				return nil
			}
			return open.Start(url)
		}

		_, err = spotify.Login(cmd.Context(), cfg, network.Client, browse)
		handleErr(err)

		fmt.Printf("%s logged in to spotify\n", icon.Get(icon.Success))
	},
}

func init() {
	spotifyCmd.AddCommand(spotifyLogoutCmd)
}

var spotifyLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored Spotify session",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		fmt.Printf("%s logged out\n", icon.Get(icon.Success))
	},
}

func init() {
	spotifyCmd.AddCommand(spotifyPlaylistsCmd)
}

var spotifyPlaylistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "List your playlists",
	Run: func(cmd *cobra.Command, args []string) {
		client := newSpotifyClient()

		playlists, err := client.Playlists(cmd.Context())
		handleErr(err)

		for _, p := range playlists {
			cmd.Printf("%s %s %s\n", style.Fg(color.Purple)(p.ID), p.Name, style.Faint(fmt.Sprintf("(%d tracks, %s)", p.Tracks, p.Owner)))
		}
	},
}

func newSpotifyClient() *spotify.Client {
	cfg, err := spotify.ConfigFromViper()
	handleErr(err)

	client, err := spotify.NewClient(cfg, network.Client)
	handleErr(err)

	return client
}
