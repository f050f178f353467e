package transcoder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"srttranslate/internal/config"
	"srttranslate/internal/services"
	"srttranslate/internal/testsupport"
)

const ffprobeJSON = `{"streams":[
 {"index":2,"codec_name":"subrip","codec_type":"subtitle","tags":{"language":"eng","title":"English"},"disposition":{"default":1,"forced":0}},
 {"index":3,"codec_name":"ass","codec_type":"subtitle","tags":{},"disposition":{"default":0,"forced":1}}
]}`

func TestOutputPath(t *testing.T) {
	cases := map[string]string{
		"/media/Movie.mkv":       "/media/Movie.srt",
		"/media/My.Show.S01.mp4": "/media/My.Show.S01.srt",
		"noext":                  "noext.srt",
	}
	for in, want := range cases {
		if got := OutputPath(in); got != want {
			t.Fatalf("OutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseStreams(t *testing.T) {
	streams, err := parseStreams([]byte(ffprobeJSON))
	if err != nil {
		t.Fatalf("parseStreams: %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(streams))
	}
	if streams[0].Position != 0 || streams[0].Language() != "eng" || !streams[0].IsDefault() {
		t.Fatalf("unexpected first stream: %+v", streams[0])
	}
	if streams[1].Position != 1 || streams[1].Language() != "und" || !streams[1].IsForced() {
		t.Fatalf("unexpected second stream: %+v", streams[1])
	}
}

func TestListSubtitleStreamsRunsFFprobe(t *testing.T) {
	dir := t.TempDir()
	testsupport.StubBinaries(t, dir, "cat <<'JSON'\n"+ffprobeJSON+"\nJSON\n", "ffprobe")

	tr := New(config.Transcoder{}, nil)
	streams, err := tr.ListSubtitleStreams(context.Background(), "/media/movie.mkv")
	if err != nil {
		t.Fatalf("ListSubtitleStreams: %v", err)
	}
	if len(streams) != 2 || streams[0].CodecName != "subrip" {
		t.Fatalf("streams = %+v", streams)
	}
}

func TestExtractWritesSRTBesideMedia(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args.txt")
	// The last argument is the output path.
	body := "echo \"$@\" > " + argsFile + "\nfor last; do :; done\nprintf '1\\n00:00:01,000 --> 00:00:02,000\\nhi\\n\\n' > \"$last\"\n"
	testsupport.StubBinaries(t, filepath.Join(dir, "bin"), body, "ffmpeg")

	media := filepath.Join(dir, "movie.mkv")
	tr := New(config.Transcoder{}, nil)
	out, err := tr.Extract(context.Background(), media)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if out != filepath.Join(dir, "movie.srt") {
		t.Fatalf("out = %q", out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output missing: %v", err)
	}
	args, _ := os.ReadFile(argsFile)
	if !strings.Contains(string(args), "-f srt") {
		t.Fatalf("ffmpeg args = %q", args)
	}

	if _, err := tr.ExtractStream(context.Background(), media, 2); err != nil {
		t.Fatalf("ExtractStream: %v", err)
	}
	args, _ = os.ReadFile(argsFile)
	if !strings.Contains(string(args), "-map 0:s:2") {
		t.Fatalf("ffmpeg args = %q", args)
	}
}

func TestExtractFailureIsExternalToolError(t *testing.T) {
	testsupport.StubBinaries(t, t.TempDir(), "echo 'Invalid data found when processing input' >&2\nexit 1\n", "ffmpeg")

	tr := New(config.Transcoder{}, nil)
	_, err := tr.Extract(context.Background(), "/media/broken.mkv")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("error should carry ffmpeg output: %v", err)
	}
}

func TestExtractStreamRejectsNegative(t *testing.T) {
	tr := New(config.Transcoder{}, nil)
	if _, err := tr.ExtractStream(context.Background(), "/media/movie.mkv", -1); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}
