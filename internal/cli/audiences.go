package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/ppiankov/audiencepan/internal/client"
	"github.com/ppiankov/audiencepan/internal/render"
	"github.com/ppiankov/audiencepan/internal/search"
)

var (
	listFilter client.ListFilter
	listLinks  []string
)

var audiencesCmd = &cobra.Command{
	Use:   "audiences",
	Short: "List saved audiences",
	Long: "List saved audiences. --search, --theme, --topic, and --category narrow the list.\n" +
		"--link takes the href of a page filter link (for example \"?theme=tech\") and\n" +
		"applies it on top of the other filters.",
	RunE: audiencesAction,
}

func init() {
	audiencesCmd.Flags().StringVar(&listFilter.Search, "search", "", "name contains")
	audiencesCmd.Flags().StringVar(&listFilter.Theme, "theme", "", "theme")
	audiencesCmd.Flags().StringVar(&listFilter.Topic, "topic", "", "topic")
	audiencesCmd.Flags().StringVar(&listFilter.Category, "category", "", "category")
	audiencesCmd.Flags().StringArrayVar(&listLinks, "link", nil, "filter link href to apply (repeatable)")
	rootCmd.AddCommand(audiencesCmd)
}

func audiencesAction(cmd *cobra.Command, _ []string) error {
	f, err := applyLinks(listFilter, listLinks)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	list, err := a.client.ListAudiences(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("list audiences: %w", err)
	}
	render.Audiences(cmd.OutOrStdout(), list)
	return nil
}

// applyLinks applies each filter link in order, the way clicking them one
// after another would.
func applyLinks(f client.ListFilter, links []string) (client.ListFilter, error) {
	if len(links) == 0 {
		return f, nil
	}

	current := "?" + filterQuery(f).Encode()
	for _, href := range links {
		next, err := search.ApplyFilterLink(current, href)
		if err != nil {
			return f, err
		}
		current = next
	}

	u, err := url.Parse(current)
	if err != nil {
		return f, fmt.Errorf("parse filter: %w", err)
	}
	q := u.Query()
	return client.ListFilter{
		Search:   q.Get("search"),
		Theme:    q.Get("theme"),
		Topic:    q.Get("topic"),
		Category: q.Get("category"),
	}, nil
}

func filterQuery(f client.ListFilter) url.Values {
	v := url.Values{}
	for key, val := range map[string]string{
		"search":   f.Search,
		"theme":    f.Theme,
		"topic":    f.Topic,
		"category": f.Category,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v
}
