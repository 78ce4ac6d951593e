package cmd

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/sdmp3/sdmp3/key"
	"github.com/sdmp3/sdmp3/spotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(playlistCmd)

	playlistCmd.Flags().IntP("limit", "l", 0, "Number of tracks to take from the playlist (defaults to spotify.track_limit)")
	playlistCmd.Flags().Bool("dry-run", false, "Print the track titles without downloading")
	addBatchFlags(playlistCmd)
}

// playlistCmd downloads the tracks of a Spotify playlist.
var playlistCmd = &cobra.Command{
	Use:   "playlist [playlist-id]",
	Short: "Download the tracks of a Spotify playlist",
	Long: `Download the tracks of one of your Spotify playlists.

Without an id you are asked to pick one of your playlists.
Run "sdmp3 spotify login" first.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := newSpotifyClient()

		var id string
		if len(args) == 1 {
			id = args[0]
		} else {
			playlist, err := pickPlaylist(cmd, client)
			handleErr(err)
			id = playlist.ID
		}

		limit := lo.Must(cmd.Flags().GetInt("limit"))
		if limit <= 0 {
			limit = viper.GetInt(key.SpotifyTrackLimit)
		}

		titles, err := client.PlaylistTracks(cmd.Context(), id, limit)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("dry-run")) {
			for _, title := range titles {
				cmd.Println(title)
			}
			return
		}

		runBatch(cmd, titles, batchOptionsFrom(cmd))
	},
}

func pickPlaylist(cmd *cobra.Command, client *spotify.Client) (spotify.Playlist, error) {
	playlists, err := client.Playlists(cmd.Context())
	if err != nil {
		return spotify.Playlist{}, err
	}

	if len(playlists) == 0 {
		return spotify.Playlist{}, errors.New("you have no playlists")
	}

	var index int
	prompt := &survey.Select{
		Message: "Choose a playlist",
		Options: lo.Map(playlists, func(p spotify.Playlist, _ int) string {
			return p.String()
		}),
	}

	if err := survey.AskOne(prompt, &index); err != nil {
		return spotify.Playlist{}, err
	}

	return playlists[index], nil
}
