package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/ppiankov/audiencepan/internal/config"
)

// setupTestConfig writes a config.yaml pointing at baseURL into a temp dir
// and makes it the active config dir for the test.
func setupTestConfig(t *testing.T, baseURL, extra string) string {
	t.Helper()

	dir := t.TempDir()
	content := "server:\n" +
		"  base_url: \"" + baseURL + "\"\n" +
		extra
	if err := os.WriteFile(filepath.Join(dir, config.DefaultConfigFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(config.DefaultCSRFTokenEnv, "")
	t.Setenv(config.DefaultSessionCookieEnv, "")

	oldConfigDir, oldNoColor, oldLogLevel := configDir, noColor, logLevel
	t.Cleanup(func() {
		configDir, noColor, logLevel = oldConfigDir, oldNoColor, oldLogLevel
	})
	configDir = dir
	noColor = true
	logLevel = ""
	return dir
}

func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	return cmd, &out, &errOut
}

func writeTestPage(t *testing.T, html string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
	return path
}

func requireContains(t *testing.T, got, want string) {
	t.Helper()

	if !strings.Contains(got, want) {
		t.Fatalf("output missing %q\n---\n%s", want, got)
	}
}

func newPageServer(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}
