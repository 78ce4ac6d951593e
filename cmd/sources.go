package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/sdmp3/sdmp3/color"
	"github.com/sdmp3/sdmp3/constant"
	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/icon"
	"github.com/sdmp3/sdmp3/open"
	"github.com/sdmp3/sdmp3/provider"
	"github.com/sdmp3/sdmp3/provider/custom"
	"github.com/sdmp3/sdmp3/style"
	"github.com/sdmp3/sdmp3/util"
	"github.com/sdmp3/sdmp3/where"
	"github.com/spf13/cobra"
)

const luaExtension = ".lua"

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

// sourcesCmd groups the search source commands.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage built-in and custom search sources",
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Print names only, without headers")
	sourcesListCmd.Flags().BoolP("custom", "c", false, "List only custom Lua sources")
	sourcesListCmd.Flags().BoolP("builtin", "b", false, "List only built-in sources")

	sourcesListCmd.MarkFlagsMutuallyExclusive("custom", "builtin")
	sourcesListCmd.SetOut(os.Stdout)
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available search sources",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader := !lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render
		h := func(s string) {
			if printHeader {
				cmd.Println(headerStyle(s))
			}
		}

		line := func(i icon.Icon, name string) {
			if printHeader {
				cmd.Println(icon.Get(i), name)
				return
			}
			cmd.Println(name)
		}

		printBuiltin := func() {
			h("Builtin:")
			for _, p := range provider.Builtins() {
				line(icon.Go, p.Name)
			}
		}

		printCustom := func() {
			h("Custom:")
			for _, p := range provider.Customs() {
				line(icon.Lua, p.Name)
			}
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("builtin")):
			printBuiltin()
		case lo.Must(cmd.Flags().GetBool("custom")):
			printCustom()
		default:
			printBuiltin()
			if printHeader {
				cmd.Println()
			}
			printCustom()
		}
	},
}

func completionCustomSources(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	sources, err := filesystem.API().ReadDir(where.Sources())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return lo.FilterMap(sources, func(item os.FileInfo, _ int) (string, bool) {
		name := item.Name()
		if !strings.HasSuffix(name, luaExtension) {
			return "", false
		}

		return util.FileStem(name), true
	}), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	sourcesCmd.AddCommand(sourcesRemoveCmd)

	sourcesRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Name of the custom source to remove")
	lo.Must0(sourcesRemoveCmd.RegisterFlagCompletionFunc("name", completionCustomSources))
}

var sourcesRemoveCmd = &cobra.Command{
	Use:               "remove [name...]",
	Short:             "Remove custom Lua sources",
	ValidArgsFunction: completionCustomSources,
	Run: func(cmd *cobra.Command, args []string) {
		names := append(args, lo.Must(cmd.Flags().GetStringArray("name"))...)
		if len(names) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, name := range names {
			path := filepath.Join(where.Sources(), name+luaExtension)
			handleErr(filesystem.API().Remove(path))
			fmt.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesInstallCmd)
}

var sourcesInstallCmd = &cobra.Command{
	Use:     "install <url>",
	Short:   "Download a Lua source into the sources directory",
	Long:    `Download a Lua source script. An existing script with the same name is replaced only when its content differs.`,
	Example: "  sdmp3 sources install https://example.com/sources/bandcamp.lua",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		erase := util.PrintErasable(fmt.Sprintf("%s Downloading %s...", icon.Get(icon.Progress), args[0]))
		dest, updated, err := provider.Install(cmd.Context(), args[0])
		erase()
		handleErr(err)

		if !updated {
			fmt.Printf("%s %s is up to date\n", icon.Get(icon.Success), style.Fg(color.Yellow)(util.FileStem(dest)))
			return
		}

		fmt.Printf("%s installed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(dest))
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesRunCmd)
	sourcesRunCmd.Flags().StringP("query", "q", "", "Title to search for")
}

var sourcesRunCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Load a Lua source and optionally run a search with it",
	Long: `Load a Lua source file to check that it compiles and defines ` + constant.SearchTracksFn + `.
With --query, the search is run and the ranked results are printed.`,
	Args:    cobra.ExactArgs(1),
	Example: "  sdmp3 sources run ./bandcamp.lua -q \"Song A\"",
	Run: func(cmd *cobra.Command, args []string) {
		src, err := custom.LoadSource(args[0])
		handleErr(err)

		query := lo.Must(cmd.Flags().GetString("query"))
		if query == "" {
			fmt.Printf("%s %s loaded\n", icon.Get(icon.Success), src.Name())
			return
		}

		erase := util.PrintErasable(fmt.Sprintf("%s Searching %s...", icon.Get(icon.Search), query))
		candidates, err := src.Search(cmd.Context(), query)
		erase()
		handleErr(err)

		if len(candidates) == 0 {
			fmt.Printf("%s no results\n", icon.Get(icon.NotFound))
			return
		}

		for i, c := range candidates {
			cmd.Printf("%s %s\n  %s\n", style.Faint(fmt.Sprintf("%d.", i+1)), c.Title, style.Fg(color.Cyan)(c.URL))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesGenCmd)

	sourcesGenCmd.Flags().StringP("name", "n", "", "Name of the new source")
	sourcesGenCmd.Flags().StringP("url", "u", "", "Website the source searches")
	sourcesGenCmd.Flags().StringP("editor", "e", "", "Open the new file with this application")

	lo.Must0(sourcesGenCmd.MarkFlagRequired("name"))
	lo.Must0(sourcesGenCmd.MarkFlagRequired("url"))
}

var sourcesGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a new Lua source from a template",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(os.Stdout)

		author := "Anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		s := struct {
			Name           string
			URL            string
			SearchTracksFn string
			Author         string
		}{
			Name:           lo.Must(cmd.Flags().GetString("name")),
			URL:            lo.Must(cmd.Flags().GetString("url")),
			SearchTracksFn: constant.SearchTracksFn,
			Author:         author,
		}

		funcMap := template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}

		tmpl := lo.Must(template.New("source").Funcs(funcMap).Parse(constant.SourceTemplate))

		target := filepath.Join(where.Sources(), util.SanitizeFilename(s.Name)+luaExtension)
		f, err := filesystem.API().Create(target)
		handleErr(err)

		defer util.Ignore(f.Close)
		handleErr(tmpl.Execute(f, s))

		cmd.Println(target)

		if editor := lo.Must(cmd.Flags().GetString("editor")); editor != "" {
			handleErr(open.StartWith(target, editor))
		}
	},
}
