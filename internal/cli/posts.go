package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/audiencepan/internal/page"
	"github.com/ppiankov/audiencepan/internal/render"
	"github.com/ppiankov/audiencepan/internal/source"
)

var (
	postsFormat string
	postsPage   string
	postsFile   string
)

var postsCmd = &cobra.Command{
	Use:   "posts [subreddit...]",
	Short: "Load posts for each source, one request per second",
	Long: "Load posts for each source in order and print them as they arrive.\n\n" +
		"Sources come from the arguments, else from the page's embedded subreddit list\n" +
		"(--page, --file, or sources.page), else from sources.subreddits in config.yaml.",
	RunE: postsAction,
}

func init() {
	postsCmd.Flags().StringVar(&postsFormat, "format", "", "output format: "+strings.Join(render.Formats, ", "))
	postsCmd.Flags().StringVar(&postsPage, "page", "", "server page that embeds the subreddit list")
	postsCmd.Flags().StringVar(&postsFile, "file", "", "local HTML file that embeds the subreddit list")
	rootCmd.AddCommand(postsCmd)
}

func postsAction(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	sources, err := a.resolveSources(cmd, args)
	if err != nil {
		return err
	}

	format := postsFormat
	if format == "" {
		format = a.cfg.Output.Format
	}
	sink, err := render.New(format, cmd.OutOrStdout(), a.color)
	if err != nil {
		return err
	}

	loader, err := source.NewLoader(a.client, a.log)
	if err != nil {
		return err
	}
	progress := cmd.ErrOrStderr()
	loader.OnResult(func(r source.Result) {
		if r.Err != nil {
			fmt.Fprintf(progress, "  r/%s: failed\n", r.Source.Name)
			return
		}
		fmt.Fprintf(progress, "  r/%s: %d posts\n", r.Source.Name, len(r.Posts))
	})

	sum, err := loader.Load(cmd.Context(), sources, sink)
	if err != nil {
		return fmt.Errorf("load posts: %w", err)
	}

	if len(sum.Failed) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d sources failed: %s\n",
			len(sum.Failed), sum.Sources, strings.Join(sum.Failed, ", "))
	}
	return nil
}

func (a *app) resolveSources(cmd *cobra.Command, args []string) ([]source.Source, error) {
	if len(args) > 0 {
		return source.Names(args...), nil
	}

	path := postsPage
	if path == "" {
		path = a.cfg.Sources.Page
	}
	if path != "" || postsFile != "" {
		doc, err := a.loadPage(cmd, path, postsFile)
		if err != nil {
			return nil, fmt.Errorf("load page: %w", err)
		}
		sources, err := page.Sources(doc)
		if err != nil {
			return nil, err
		}
		return sources, nil
	}

	if len(a.cfg.Sources.Subreddits) > 0 {
		return source.Names(a.cfg.Sources.Subreddits...), nil
	}
	return nil, errors.New("no sources: pass subreddit names, set sources.page, or list sources.subreddits in config.yaml")
}
