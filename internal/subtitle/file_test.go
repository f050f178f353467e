package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"srttranslate/internal/services"
)

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.srt"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected input marker, got %v", err)
	}
}

func TestWriteFileReplacesExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	if err := os.WriteFile(path, []byte("99\nold\nstale content that is much longer\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc := Document{{Index: "1", Timing: "00:00:01,000 --> 00:00:02,000", Text: "Hola"}}
	if err := WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "1\n00:00:01,000 --> 00:00:02,000\nHola\n\n" {
		t.Fatalf("unexpected content %q", got)
	}

	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(back) != 1 || back[0] != doc[0] {
		t.Fatalf("unexpected round trip %#v", back)
	}
}
