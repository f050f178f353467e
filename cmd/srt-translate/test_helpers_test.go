package main

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"srttranslate/internal/browser"
	"srttranslate/internal/config"
	"srttranslate/internal/markup"
	"srttranslate/internal/preflight"
	"srttranslate/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	homeDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()
	for _, key := range []string{"LOCAL_SERVER_URL", "TRANSLATED_LOCAL_SERVER_URL", "GITHUB_PAGES_URL", "TRANSLATED_GITHUB_PAGES_URL", "NTFY_TOPIC"} {
		t.Setenv(key, "")
	}

	cfg := testsupport.NewConfig(t, opts...)
	cfg.URLs.LocalServingURL = fmt.Sprintf("http://127.0.0.1:%d/", cfg.Deployment.LocalPort)

	homeDir := filepath.Join(testsupport.BaseDir(cfg), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, homeDir: homeDir}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, []byte(encoded), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// newTestContext wires the translation fake and disables network preflight.
func (e *cliTestEnv) newTestContext() *commandContext {
	ctx := newCommandContext(new(string))
	ctx.newLauncher = func(cfg *config.Config, _ *slog.Logger) browser.Launcher {
		return &mirrorLauncher{source: cfg.ServingURL()}
	}
	ctx.runPreflight = func(context.Context, *config.Config) []preflight.Result { return nil }
	return ctx
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	return runCLIWithContext(t, env.newTestContext(), env.configPath, args...)
}

func runCLIWithContext(t *testing.T, ctx *commandContext, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := buildRootCommand(ctx)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// mirrorLauncher plays the translation service: whatever URL is opened, it
// reads the locally served page over HTTP and returns a translated copy.
type mirrorLauncher struct {
	source string
}

func (l *mirrorLauncher) Open(context.Context) (browser.Page, error) {
	return &mirrorPage{source: l.source}, nil
}

type mirrorPage struct {
	source string
}

func (p *mirrorPage) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.source, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: %s", p.source, resp.Status)
	}
	return string(body), nil
}

func (p *mirrorPage) Navigate(context.Context, string) error { return nil }

func (p *mirrorPage) Reload(context.Context) error { return nil }

func (p *mirrorPage) WaitNetworkIdle(context.Context) error { return nil }

func (p *mirrorPage) WaitSelector(context.Context, string) error { return nil }

func (p *mirrorPage) Text(ctx context.Context, _ string) (string, error) {
	page, err := p.fetch(ctx)
	if err != nil {
		return "", err
	}
	root, err := markup.Parse(page)
	if err != nil {
		return "", err
	}
	return markup.RunID(root), nil
}

func (p *mirrorPage) ViewportHeight(context.Context) (int, error) { return 800, nil }

func (p *mirrorPage) ScrollHeight(context.Context) (int, error) { return 800, nil }

func (p *mirrorPage) ScrollTo(context.Context, int) error { return nil }

func (p *mirrorPage) Content(ctx context.Context) (string, error) {
	page, err := p.fetch(ctx)
	if err != nil {
		return "", err
	}
	root, err := markup.Parse(page)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<html><body><div id="run-id">%s</div>`, html.EscapeString(markup.RunID(root)))
	for _, entry := range markup.Decode(root) {
		fmt.Fprintf(&b, `<div class="srt-object"><div>%s</div><div>%s</div><div><font class="original-text">%s</font>%s</div></div>`,
			html.EscapeString(entry.Index),
			html.EscapeString(entry.Timing),
			html.EscapeString(entry.Text),
			html.EscapeString(translateText(entry.Text)),
		)
	}
	b.WriteString(`</body></html>`)
	return b.String(), nil
}

func (p *mirrorPage) Close() error { return nil }

func translateText(text string) string {
	if text == "" {
		return ""
	}
	return "Hola " + text
}
