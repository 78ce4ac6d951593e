package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/sdmp3/sdmp3/color"
	"github.com/sdmp3/sdmp3/history"
	"github.com/sdmp3/sdmp3/icon"
	"github.com/sdmp3/sdmp3/pipeline"
	"github.com/sdmp3/sdmp3/style"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("count", "n", 20, "Number of most recent entries to show (0 for all)")
	historyCmd.Flags().BoolP("json", "j", false, "Print the entries as JSON")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists recorded download outcomes, newest last.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent download outcomes",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.Get()
		handleErr(err)

		if count := lo.Must(cmd.Flags().GetInt("count")); count > 0 && len(records) > count {
			records = records[len(records)-count:]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("no history yet"))
			return
		}

		for _, r := range records {
			cmd.Printf("%s %s %s\n", historyMark(r.Status), r.Title, style.Faint(humanize.Time(r.FinishedAt)))
			switch {
			case r.Path != "":
				cmd.Println("  " + style.Fg(color.Cyan)(r.Path))
			case r.Error != "":
				cmd.Println("  " + style.Fg(color.Red)(r.Error))
			}
		}
	},
}

func historyMark(status string) string {
	switch pipeline.Status(status) {
	case pipeline.StatusSuccess:
		return icon.Get(icon.Success)
	case pipeline.StatusNotFound:
		return icon.Get(icon.NotFound)
	case pipeline.StatusFetchError:
		return icon.Get(icon.Fail)
	default:
		return fmt.Sprintf("[%s]", status)
	}
}
