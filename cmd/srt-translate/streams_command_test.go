package main

import (
	"path/filepath"
	"testing"

	"srttranslate/internal/testsupport"
)

const ffprobeStreams = `{"streams":[
 {"index":2,"codec_name":"subrip","codec_type":"subtitle","tags":{"language":"eng","title":"English"},"disposition":{"default":1,"forced":0}},
 {"index":3,"codec_name":"ass","codec_type":"subtitle","tags":{},"disposition":{"default":0,"forced":1}}
]}`

func TestStreamsCommandRendersTable(t *testing.T) {
	env := setupCLITestEnv(t)
	base := testsupport.BaseDir(env.cfg)
	testsupport.StubBinaries(t, filepath.Join(base, "bin"), "cat <<'JSON'\n"+ffprobeStreams+"\nJSON\n", "ffprobe")

	out, _, err := runCLI(t, env, "streams", filepath.Join(base, "movie.mkv"))
	if err != nil {
		t.Fatalf("streams: %v", err)
	}
	requireContains(t, out, "subrip")
	requireContains(t, out, "English")
	requireContains(t, out, "und")
	requireContains(t, out, "translate --stream")
}

func TestStreamsCommandReportsNone(t *testing.T) {
	env := setupCLITestEnv(t)
	base := testsupport.BaseDir(env.cfg)
	testsupport.StubBinaries(t, filepath.Join(base, "bin"), "echo '{\"streams\":[]}'\n", "ffprobe")

	out, _, err := runCLI(t, env, "streams", filepath.Join(base, "movie.mkv"))
	if err != nil {
		t.Fatalf("streams: %v", err)
	}
	requireContains(t, out, "No subtitle streams found")
}
