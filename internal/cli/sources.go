package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/audiencepan/internal/config"
	"github.com/ppiankov/audiencepan/internal/page"
)

var (
	sourcesDryRun bool
	syncPage      string
	syncFile      string
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage the subreddits listed in config.yaml",
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add <subreddit>...",
	Short: "Add subreddits to sources.subreddits",
	Args:  cobra.MinimumNArgs(1),
	RunE:  sourcesAddAction,
}

var sourcesSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Add the subreddits a page embeds to sources.subreddits",
	RunE:  sourcesSyncAction,
}

func init() {
	sourcesCmd.PersistentFlags().BoolVar(&sourcesDryRun, "dry-run", false, "show what would be added without modifying config")
	sourcesSyncCmd.Flags().StringVar(&syncPage, "page", "", "server page with the subreddit list (default sources.page)")
	sourcesSyncCmd.Flags().StringVar(&syncFile, "file", "", "local HTML file with the subreddit list")
	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesSyncCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func sourcesAddAction(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return addSubreddits(cmd, cfg, args)
}

func sourcesSyncAction(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	path := syncPage
	if path == "" {
		path = a.cfg.Sources.Page
	}
	doc, err := a.loadPage(cmd, path, syncFile)
	if err != nil {
		return fmt.Errorf("load page: %w", err)
	}
	sources, err := page.Sources(doc)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name)
	}
	return addSubreddits(cmd, a.cfg, names)
}

func addSubreddits(cmd *cobra.Command, cfg *config.Config, names []string) error {
	out := cmd.OutOrStdout()

	existing := make(map[string]bool)
	for _, s := range cfg.Sources.Subreddits {
		existing[strings.ToLower(s)] = true
	}

	var added []string
	skipped := 0
	for _, n := range names {
		n = strings.TrimPrefix(strings.TrimSpace(n), "r/")
		key := strings.ToLower(n)
		if n == "" || existing[key] {
			skipped++
			continue
		}
		existing[key] = true
		added = append(added, n)
	}

	if len(added) == 0 {
		fmt.Fprintf(out, "All %d subreddits already present, nothing to add.\n", skipped)
		return nil
	}

	if sourcesDryRun {
		fmt.Fprintf(out, "Would add %d subreddits (skipping %d):\n", len(added), skipped)
		for _, n := range added {
			fmt.Fprintf(out, "  + %s\n", n)
		}
		return nil
	}

	configPath := filepath.Join(configDir, config.DefaultConfigFile)
	if err := mergeSubreddits(configPath, added); err != nil {
		return fmt.Errorf("merge subreddits: %w", err)
	}

	fmt.Fprintf(out, "Added %d subreddits, skipped %d.\n", len(added), skipped)
	return nil
}

// mergeSubreddits reads config.yaml as a yaml.Node tree, appends names to
// sources.subreddits, and writes it back. Comments and key order survive.
// Missing sources or subreddits keys are created.
func mergeSubreddits(configPath string, names []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config YAML: %w", err)
	}

	list, err := subredditsNode(&doc)
	if err != nil {
		return err
	}

	for _, n := range names {
		list.Content = append(list.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: n,
		})
	}
	// An empty inline list ("[]") would otherwise stay inline.
	list.Style = 0

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(configPath, out, 0o644)
}

// subredditsNode returns the sequence node at sources.subreddits.
func subredditsNode(doc *yaml.Node) (*yaml.Node, error) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("config.yaml is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config.yaml: top level is not a mapping")
	}

	sources := ensureMapValue(root, "sources", yaml.MappingNode)
	if sources.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config.yaml: sources is not a mapping")
	}
	list := ensureMapValue(sources, "subreddits", yaml.SequenceNode)
	if list.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("config.yaml: sources.subreddits is not a list")
	}
	return list, nil
}

func findMapValue(mapping *yaml.Node, key string) *yaml.Node {
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// ensureMapValue returns the value under key, creating it as an empty node of
// kind when the key is missing or set to null.
func ensureMapValue(mapping *yaml.Node, key string, kind yaml.Kind) *yaml.Node {
	tag := "!!map"
	if kind == yaml.SequenceNode {
		tag = "!!seq"
	}
	if v := findMapValue(mapping, key); v != nil {
		if v.Kind == yaml.ScalarNode && v.Tag == "!!null" {
			v.Kind, v.Tag, v.Value = kind, tag, ""
		}
		return v
	}
	v := &yaml.Node{Kind: kind, Tag: tag}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		v,
	)
	return v
}
