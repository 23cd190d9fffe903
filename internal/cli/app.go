package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/ppiankov/audiencepan/internal/client"
	"github.com/ppiankov/audiencepan/internal/config"
	"github.com/ppiankov/audiencepan/internal/logging"
	"github.com/ppiankov/audiencepan/internal/notify"
	"github.com/ppiankov/audiencepan/internal/page"
	"github.com/ppiankov/audiencepan/internal/privacy"
)

// app bundles what every server-facing command needs.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	client *client.Client
	notify *notify.Notifier
	color  bool
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Validated by config.Load.
	redact, _ := privacy.Compile(cfg.Log.Redact)
	redact = append(redact, privacy.Literals(cfg.Server.CSRFToken, cfg.Server.SessionCookie)...)

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log := logging.New(cmd.ErrOrStderr(), level, redact)

	c, err := client.New(cfg.Server.BaseURL,
		client.WithTimeout(cfg.Server.Timeout.Duration),
		client.WithSessionCookie(cfg.Server.SessionCookie),
		client.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	out := cmd.OutOrStdout()
	color := notify.UseColor(out, true, noColor || cfg.Output.NoColor)

	return &app{
		cfg:    cfg,
		log:    log,
		client: c,
		notify: notify.New(out, color),
		color:  color,
	}, nil
}

// loadPage returns a parsed page from a local file when file is set, or from
// the server otherwise.
func (a *app) loadPage(cmd *cobra.Command, path, file string) (*goquery.Document, error) {
	if file != "" {
		return readPageFile(file)
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("no page: pass --page or --file")
	}
	return a.client.Page(cmd.Context(), path)
}

func readPageFile(file string) (*goquery.Document, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open page file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return page.Parse(f)
}
