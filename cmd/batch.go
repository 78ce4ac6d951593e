package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sdmp3/sdmp3/fetcher"
	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/history"
	"github.com/sdmp3/sdmp3/inline"
	"github.com/sdmp3/sdmp3/key"
	"github.com/sdmp3/sdmp3/log"
	"github.com/sdmp3/sdmp3/network"
	"github.com/sdmp3/sdmp3/pipeline"
	"github.com/sdmp3/sdmp3/provider"
	"github.com/sdmp3/sdmp3/provider/youtube"
	"github.com/sdmp3/sdmp3/resolver"
	"github.com/sdmp3/sdmp3/sink"
	"github.com/sdmp3/sdmp3/tui"
	"github.com/sdmp3/sdmp3/util"
	"github.com/sdmp3/sdmp3/where"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// batchOptions are the flags shared by every command that downloads.
type batchOptions struct {
	dir    mo.Option[string]
	json   bool
	output string
	plain  bool
}

func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("dir", "d", "", "Directory to write audio files to (defaults to downloads.path)")
	cmd.Flags().BoolP("json", "j", false, "Print the batch report as JSON")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().Bool("plain", false, "Print plain lines instead of the live view")
	lo.Must0(cmd.MarkFlagDirname("dir"))
}

func batchOptionsFrom(cmd *cobra.Command) *batchOptions {
	options := &batchOptions{
		json:   lo.Must(cmd.Flags().GetBool("json")),
		output: lo.Must(cmd.Flags().GetString("output")),
		plain:  lo.Must(cmd.Flags().GetBool("plain")),
	}

	if dir := lo.Must(cmd.Flags().GetString("dir")); dir != "" {
		options.dir = mo.Some(dir)
	}

	return options
}

// newSource creates the first configured source. Further entries are ignored.
func newSource() (*provider.Provider, error) {
	names := lo.Compact(viper.GetStringSlice(key.DefaultSources))
	if len(names) == 0 {
		return nil, errors.New("no source set, see `sdmp3 sources list`")
	}

	if len(names) > 1 {
		log.Warnf("only the first source %q is queried, ignoring %v", names[0], names[1:])
	}

	p, ok := provider.Get(names[0])
	if !ok {
		return nil, fmt.Errorf("source not found: %s", names[0])
	}

	return p, nil
}

func newPipeline(options *batchOptions, observers ...pipeline.Observer) (*pipeline.Pipeline, error) {
	p, err := newSource()
	if err != nil {
		return nil, err
	}

	src, err := p.CreateSource()
	if err != nil {
		return nil, err
	}

	res := resolver.New(
		src,
		resolver.WithSearchTimeout(viper.GetDuration(key.NetworkSearchTimeout)),
		resolver.WithSuggestions(viper.GetBool(key.SearchShowQuerySuggestions)),
	)

	extension := mo.None[string]()
	if ext := viper.GetString(key.DownloadsExtension); ext != "" {
		extension = mo.Some(ext)
	}

	fetch := fetcher.New(
		youtube.NewBackend(network.Media),
		&fetcher.HTTP{Client: network.Media},
	).WithExtension(extension)

	pipelineOptions := []pipeline.Option{
		pipeline.WithFetchTimeout(viper.GetDuration(key.NetworkFetchTimeout)),
	}

	if viper.GetBool(key.HistorySave) {
		observers = append(observers, history.Recorder{})
	}

	for _, observer := range observers {
		pipelineOptions = append(pipelineOptions, pipeline.WithObserver(observer))
	}

	dir := options.dir.OrElse(where.Downloads())
	log.Infof("downloading with source %s into %s", p.Name, dir)

	return pipeline.New(res, fetch, sink.New(dir), pipelineOptions...), nil
}

// runBatch downloads titles and prints the outcome.
func runBatch(cmd *cobra.Command, titles []string, options *batchOptions) {
	if len(titles) == 0 {
		handleErr(errors.New("no titles given"))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var out io.Writer = os.Stdout
	if options.output != "" {
		file, err := filesystem.API().Create(options.output)
		handleErr(err)
		defer util.Ignore(file.Close)
		out = file
	}

	live := !options.plain && !options.json && options.output == "" &&
		viper.GetBool(key.CliProgress) && util.IsTerminal()

	var (
		report *pipeline.Report
		err    error
	)

	if live {
		report, err = tui.Run(ctx, &tui.Options{
			Titles: titles,
			Run: func(ctx context.Context, observer pipeline.Observer) (*pipeline.Report, error) {
				p, err := newPipeline(options, observer)
				if err != nil {
					return nil, err
				}
				return p.Run(ctx, titles)
			},
		})
	} else {
		var p *pipeline.Pipeline
		p, err = newPipeline(options, inline.NewPrinter(&inline.Options{Out: out, Json: options.json}))
		handleErr(err)
		report, err = p.Run(ctx, titles)
	}

	handleErr(err)
	log.WithFields(log.Fields{
		"succeeded": report.Count(pipeline.StatusSuccess),
		"failed":    len(report.Failed()),
	}).Debug("batch finished")
}
