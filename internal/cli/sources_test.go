package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/audiencepan/internal/config"
)

func resetSourcesFlags(t *testing.T) {
	t.Helper()
	oldDry, oldPage, oldFile := sourcesDryRun, syncPage, syncFile
	t.Cleanup(func() { sourcesDryRun, syncPage, syncFile = oldDry, oldPage, oldFile })
	sourcesDryRun, syncPage, syncFile = false, "", ""
}

func TestMergeSubredditsPreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultConfigFile)
	content := `# my config
server:
  base_url: "http://localhost:5000" # local
sources:
  subreddits:
    - golang
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := mergeSubreddits(path, []string{"rust", "kubernetes"}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	requireContains(t, got, "# my config")
	requireContains(t, got, "# local")

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	want := []string{"golang", "rust", "kubernetes"}
	if strings.Join(cfg.Sources.Subreddits, ",") != strings.Join(want, ",") {
		t.Errorf("subreddits = %v, want %v", cfg.Sources.Subreddits, want)
	}
}

func TestMergeSubredditsCreatesMissingKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no sources", content: "server:\n  base_url: http://x.test\n"},
		{name: "null sources", content: "server:\n  base_url: http://x.test\nsources:\n"},
		{name: "no subreddits", content: "sources:\n  page: /home\n"},
		{name: "inline empty list", content: "sources:\n  subreddits: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), config.DefaultConfigFile)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := mergeSubreddits(path, []string{"golang"}); err != nil {
				t.Fatalf("merge: %v", err)
			}

			data, _ := os.ReadFile(path)
			var cfg config.Config
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				t.Fatalf("re-parse: %v\n%s", err, data)
			}
			if len(cfg.Sources.Subreddits) != 1 || cfg.Sources.Subreddits[0] != "golang" {
				t.Errorf("subreddits = %v\n%s", cfg.Sources.Subreddits, data)
			}
		})
	}
}

func TestSubredditsNodeRejectsNonList(t *testing.T) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte("sources:\n  subreddits: golang\n"), &doc); err != nil {
		t.Fatal(err)
	}
	if _, err := subredditsNode(&doc); err == nil {
		t.Error("expected error for scalar subreddits")
	}
}

func TestSourcesAddSkipsExisting(t *testing.T) {
	dir := setupTestConfig(t, "http://localhost:5000", "sources:\n  subreddits: [golang]\n")
	resetSourcesFlags(t)

	cmd, out, _ := newTestCmd()
	if err := sourcesAddAction(cmd, []string{"r/GoLang", "rust", "rust"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out.String(), "Added 1 subreddits, skipped 2.")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(cfg.Sources.Subreddits, ",") != "golang,rust" {
		t.Errorf("subreddits = %v", cfg.Sources.Subreddits)
	}
}

func TestSourcesAddDryRun(t *testing.T) {
	dir := setupTestConfig(t, "http://localhost:5000", "")
	resetSourcesFlags(t)
	sourcesDryRun = true

	before, _ := os.ReadFile(filepath.Join(dir, config.DefaultConfigFile))

	cmd, out, _ := newTestCmd()
	if err := sourcesAddAction(cmd, []string{"golang"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	requireContains(t, out.String(), "Would add 1 subreddits")
	requireContains(t, out.String(), "+ golang")

	after, _ := os.ReadFile(filepath.Join(dir, config.DefaultConfigFile))
	if string(before) != string(after) {
		t.Error("dry run modified config.yaml")
	}
}

func TestSourcesSyncFromPageFile(t *testing.T) {
	dir := setupTestConfig(t, "http://localhost:5000", "")
	resetSourcesFlags(t)
	syncFile = writeTestPage(t, `<div id="subreddit-list" data-subreddits='[{"name":"golang"},{"name":"rust"}]'></div>`)

	cmd, out, _ := newTestCmd()
	if err := sourcesSyncAction(cmd, nil); err != nil {
		t.Fatalf("sync: %v", err)
	}
	requireContains(t, out.String(), "Added 2 subreddits")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(cfg.Sources.Subreddits, ",") != "golang,rust" {
		t.Errorf("subreddits = %v", cfg.Sources.Subreddits)
	}
}
