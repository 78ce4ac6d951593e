package cmd

import (
	"io"
	"os"

	"github.com/samber/lo"
	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/inline"
	"github.com/sdmp3/sdmp3/key"
	"github.com/sdmp3/sdmp3/query"
	"github.com/sdmp3/sdmp3/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringP("file", "f", "", "Read titles from a file, one per line (- for stdin)")
	addBatchFlags(getCmd)
}

// getCmd downloads the given titles in order.
var getCmd = &cobra.Command{
	Use:   "get [title...]",
	Short: "Download tracks by title",
	Long: `Resolve every title with the configured source and download the first result as an audio file.

Titles are processed one after another. A title that cannot be found or downloaded
is reported and does not stop the rest of the batch.`,
	Example: `  sdmp3 get "Song A" "Song B"
  sdmp3 get -f playlist.txt -d ~/Music
  cat titles.txt | sdmp3 get -f - --json`,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if !viper.GetBool(key.SearchShowQuerySuggestions) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		titles := inline.CleanTitles(args)

		if file := lo.Must(cmd.Flags().GetString("file")); file != "" {
			fromFile, err := readTitles(file)
			handleErr(err)
			titles = append(titles, fromFile...)
		}

		runBatch(cmd, titles, batchOptionsFrom(cmd))
	},
}

func readTitles(path string) ([]string, error) {
	var r io.Reader = os.Stdin

	if path != "-" {
		file, err := filesystem.API().Open(path)
		if err != nil {
			return nil, err
		}
		defer util.Ignore(file.Close)
		r = file
	}

	return inline.ParseTitles(r)
}
