package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/audiencepan/internal/audience"
	"github.com/ppiankov/audiencepan/internal/flows"
	"github.com/ppiankov/audiencepan/internal/page"
)

var (
	saveAudience audience.Audience

	bulkInterests  string
	bulkSubreddits []string
	bulkSearch     string
	bulkPage       string
	bulkFile       string
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save one audience",
	RunE:  saveAction,
}

var saveSubredditCmd = &cobra.Command{
	Use:   "save-subreddit <name>",
	Short: "Look up a subreddit and save it as an audience",
	Args:  cobra.ExactArgs(1),
	RunE:  saveSubredditAction,
}

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Save several subreddits as one audience",
	Long: "Save several subreddits as one audience under shared interests.\n\n" +
		"Subreddits come from --subreddit, from the subreddit cards of --page or --file,\n" +
		"or from a server search (--search). With cards and --subreddit together, only\n" +
		"the named cards are selected. The CSRF token comes from server.csrf_token_env,\n" +
		"else from the page's csrf-token meta tag.",
	RunE: bulkAction,
}

func init() {
	saveCmd.Flags().StringVar(&saveAudience.Name, "name", "", "audience name (required)")
	saveCmd.Flags().StringVar(&saveAudience.Subreddit, "subreddit", "", "subreddit")
	saveCmd.Flags().StringVar(&saveAudience.Description, "description", "", "description")
	saveCmd.Flags().IntVar(&saveAudience.Subscribers, "subscribers", 0, "subscriber count")
	saveCmd.Flags().StringVar(&saveAudience.Category, "category", "", "category")
	saveCmd.Flags().StringVar(&saveAudience.Theme, "theme", "", "theme")
	saveCmd.Flags().StringVar(&saveAudience.Topic, "topic", "", "topic")
	_ = saveCmd.MarkFlagRequired("name")

	bulkCmd.Flags().StringVar(&bulkInterests, "interests", "", "interests shared by the selected subreddits")
	bulkCmd.Flags().StringArrayVar(&bulkSubreddits, "subreddit", nil, "subreddit to include (repeatable)")
	bulkCmd.Flags().StringVar(&bulkSearch, "search", "", "select every subreddit a server search returns")
	bulkCmd.Flags().StringVar(&bulkPage, "page", "", "server page with subreddit cards")
	bulkCmd.Flags().StringVar(&bulkFile, "file", "", "local HTML file with subreddit cards")

	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(saveSubredditCmd)
	rootCmd.AddCommand(bulkCmd)
}

func saveAction(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return flows.New(a.client, a.notify, a.log).SaveAudience(cmd.Context(), saveAudience)
}

func saveSubredditAction(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return flows.New(a.client, a.notify, a.log).SaveSubreddit(cmd.Context(), args[0])
}

func bulkAction(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	f := flows.New(a.client, a.notify, a.log)

	// Blank interests are rejected before the page or search is requested.
	if strings.TrimSpace(bulkInterests) == "" {
		_, err := f.BulkSave(cmd.Context(), audience.BulkRequest{Interests: bulkInterests}, "")
		return err
	}

	req := audience.BulkRequest{Interests: bulkInterests}
	csrf := a.cfg.Server.CSRFToken

	switch {
	case bulkPage != "" || bulkFile != "":
		doc, err := a.loadPage(cmd, bulkPage, bulkFile)
		if err != nil {
			return fmt.Errorf("load page: %w", err)
		}
		req.Subreddits = selectCards(page.SubredditCards(doc), bulkSubreddits)
		if csrf == "" {
			if csrf, err = page.CSRFToken(doc); err != nil && !errors.Is(err, page.ErrNoCSRFToken) {
				return err
			}
		}
	case bulkSearch != "":
		infos, err := a.client.SearchAudiences(cmd.Context(), bulkSearch)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		req.Subreddits = audience.FromInfo(infos)
	default:
		for _, name := range bulkSubreddits {
			req.Subreddits = append(req.Subreddits, audience.BulkSubreddit{Name: name})
		}
	}

	redirect, err := f.BulkSave(cmd.Context(), req, csrf)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Next: %s\n", redirect)
	return nil
}

// selectCards keeps the cards named in names, or all cards when names is empty.
func selectCards(cards []audience.BulkSubreddit, names []string) []audience.BulkSubreddit {
	if len(names) == 0 {
		return cards
	}
	var out []audience.BulkSubreddit
	for _, c := range cards {
		if slices.Contains(names, c.Name) {
			out = append(out, c)
		}
	}
	return out
}
