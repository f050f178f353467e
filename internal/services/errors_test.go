package services_test

import (
	"errors"
	"strings"
	"testing"

	"srttranslate/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "publish", "deploy", "command failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"publish", "deploy", "command failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestIsFatal(t *testing.T) {
	publishErr := services.Wrap(services.ErrPublish, "publish", "remote", "error marker found", nil)
	if services.IsFatal(publishErr) {
		t.Fatal("expected publish error to be non-fatal")
	}
	portErr := services.Wrap(services.ErrPortInUse, "publish", "listen", "127.0.0.1:3333", errors.New("bind"))
	if !services.IsFatal(portErr) {
		t.Fatal("expected port error to be fatal")
	}
	if services.IsFatal(nil) {
		t.Fatal("nil error must not be fatal")
	}
}

func TestMarker(t *testing.T) {
	err := services.Wrap(services.ErrTimeout, "verify", "poll", "", nil)
	if got := services.Marker(err); got != "timeout" {
		t.Fatalf("Marker = %q, want timeout", got)
	}
	if got := services.Marker(errors.New("plain")); got != "unknown" {
		t.Fatalf("Marker = %q, want unknown", got)
	}
}
