package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for unset command: %#v", results[2])
	}
}

func TestResolveChrome(t *testing.T) {
	if got := ResolveChrome("/opt/chrome/chrome"); got != "/opt/chrome/chrome" {
		t.Fatalf("explicit path not honoured: %q", got)
	}

	binDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(binDir, "chromium"), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", binDir)
	if got := ResolveChrome(""); got != filepath.Join(binDir, "chromium") {
		t.Fatalf("ResolveChrome = %q", got)
	}

	t.Setenv("PATH", t.TempDir())
	if got := ResolveChrome(""); got != "" {
		t.Fatalf("expected no browser, got %q", got)
	}
}

func TestCommandName(t *testing.T) {
	cases := map[string]string{
		"npm run deploy": "npm",
		"  ./deploy.sh ": "./deploy.sh",
		"":               "",
	}
	for in, want := range cases {
		if got := CommandName(in); got != want {
			t.Fatalf("CommandName(%q) = %q, want %q", in, got, want)
		}
	}
}
