package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/ppiankov/audiencepan/internal/audience"
	"github.com/ppiankov/audiencepan/internal/page"
	"github.com/ppiankov/audiencepan/internal/render"
	"github.com/ppiankov/audiencepan/internal/search"
)

const defaultCardsPage = "/audiences/saved"

var (
	filterPage        string
	filterFile        string
	filterInteractive bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search subreddits on the server",
	Args:  cobra.MinimumNArgs(1),
	RunE:  searchAction,
}

var filterCmd = &cobra.Command{
	Use:   "filter [query]",
	Short: "Filter the audience cards of a page by title or subreddit",
	Long: "Filter the audience cards of a page. Matching ignores case and looks at the card\n" +
		"title and subreddit. With --interactive, each line read from stdin is a new query;\n" +
		"the cards are redrawn once typing pauses.",
	Args: cobra.MaximumNArgs(1),
	RunE: filterAction,
}

func init() {
	filterCmd.Flags().StringVar(&filterPage, "page", defaultCardsPage, "server page with audience cards")
	filterCmd.Flags().StringVar(&filterFile, "file", "", "local HTML file with audience cards")
	filterCmd.Flags().BoolVarP(&filterInteractive, "interactive", "i", false, "read queries from stdin")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(filterCmd)
}

func searchAction(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	results, err := a.client.SearchAudiences(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	render.Subreddits(cmd.OutOrStdout(), results)
	return nil
}

func filterAction(cmd *cobra.Command, args []string) error {
	var (
		doc *goquery.Document
		err error
	)
	if filterFile != "" {
		// A local file needs no server.
		doc, err = readPageFile(filterFile)
	} else {
		doc, err = cardsPageFromServer(cmd)
	}
	if err != nil {
		return err
	}
	cards := page.AudienceCards(doc)

	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	out := cmd.OutOrStdout()
	if !filterInteractive {
		render.Cards(out, search.Visible(search.Filter(cards, query)), len(cards))
		if links := page.FilterLinks(doc); len(links) > 0 {
			fmt.Fprintf(out, "Filters (use with audiences --link): %s\n", strings.Join(links, " "))
		}
		return nil
	}
	return filterInteractively(cmd.InOrStdin(), out, cards, search.NewDebouncer(search.DefaultDebounce))
}

func cardsPageFromServer(cmd *cobra.Command) (*goquery.Document, error) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, err
	}
	doc, err := a.loadPage(cmd, filterPage, "")
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	return doc, nil
}

// filterInteractively redraws the cards for the last query typed once input
// pauses. A query still pending at end of input is drawn before returning, and
// no redraw is still running when it returns.
func filterInteractively(in io.Reader, out io.Writer, cards []audience.Card, d *search.Debouncer) error {
	var mu sync.Mutex
	draw := func(q string) func() {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "> %s\n", q)
			render.Cards(out, search.Visible(search.Filter(cards, q)), len(cards))
		}
	}

	var last string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		last = strings.TrimRight(scanner.Text(), "\r")
		d.Trigger(draw(last))
	}
	if d.Stop() {
		draw(last)()
	}
	// A redraw that fired before input ended may still be writing.
	d.Wait()
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read queries: %w", err)
	}
	return nil
}
