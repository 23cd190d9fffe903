package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/audiencepan/internal/page"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check config and server reachability",
	RunE:  doctorAction,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func doctorAction(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	ok := true

	// Config dir
	if info, err := os.Stat(configDir); err != nil || !info.IsDir() {
		printCheck(out, false, "config directory %s", configDir)
		ok = false
	} else {
		printCheck(out, true, "config directory %s", configDir)
	}

	// Config file, logger, and client
	a, err := newApp(cmd)
	if err != nil {
		printCheck(out, false, "config.yaml: %v", err)
		return fmt.Errorf("some checks failed")
	}
	printCheck(out, true, "config.yaml (server %s, %d subreddits)", a.client.BaseURL(), len(a.cfg.Sources.Subreddits))

	// Secrets
	if a.cfg.Server.SessionCookie == "" {
		printInfo(out, "%s is not set; requests are sent without a session", a.cfg.Server.SessionCookieEnv)
	} else {
		printCheck(out, true, "session cookie from %s", a.cfg.Server.SessionCookieEnv)
	}
	if a.cfg.Server.CSRFToken == "" {
		printInfo(out, "%s is not set; bulk saves need a page with a csrf-token meta tag", a.cfg.Server.CSRFTokenEnv)
	} else {
		printCheck(out, true, "csrf token from %s", a.cfg.Server.CSRFTokenEnv)
	}

	// Server and embedded sources
	path := a.cfg.Sources.Page
	if path == "" {
		path = "/"
	}
	doc, err := a.client.Page(cmd.Context(), path)
	if err != nil {
		printCheck(out, false, "server %s: %v", a.client.BaseURL(), err)
		ok = false
	} else {
		printCheck(out, true, "server reachable (%s)", path)
		if a.cfg.Sources.Page != "" {
			if sources, err := page.Sources(doc); err != nil {
				printCheck(out, false, "page sources: %v", err)
				ok = false
			} else {
				printCheck(out, true, "page sources (%d subreddits)", len(sources))
			}
		}
		if _, err := page.CSRFToken(doc); err == nil {
			printInfo(out, "page carries a csrf-token meta tag")
		}
	}

	if len(a.cfg.Sources.Subreddits) == 0 && a.cfg.Sources.Page == "" {
		printInfo(out, "no sources configured; pass subreddit names to posts or run sources add")
	}

	if !ok {
		return fmt.Errorf("some checks failed")
	}
	fmt.Fprintln(out, "\nAll checks passed.")
	return nil
}

func printCheck(out io.Writer, pass bool, format string, args ...any) {
	mark := "FAIL"
	if pass {
		mark = " OK "
	}
	fmt.Fprintf(out, "[%s] %s\n", mark, fmt.Sprintf(format, args...))
}

func printInfo(out io.Writer, format string, args ...any) {
	fmt.Fprintf(out, "[INFO] %s\n", fmt.Sprintf(format, args...))
}
