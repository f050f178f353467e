package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"srttranslate/internal/services"
	"srttranslate/internal/testsupport"
)

func stubCommand(t *testing.T, name, script string) {
	t.Helper()
	testsupport.StubBinaries(t, t.TempDir(), script, name)
}

func newTestRemote(t *testing.T, command string) (*Remote, string, string) {
	t.Helper()
	base := t.TempDir()
	site := filepath.Join(base, "site")
	dist := filepath.Join(base, "dist")
	if err := os.MkdirAll(site, 0o755); err != nil {
		t.Fatalf("mkdir site: %v", err)
	}
	return NewRemote(RemoteOptions{
		SiteDir:     site,
		DistDir:     dist,
		Command:     command,
		ErrorMarker: "ERROR",
		URL:         "https://user.example.io/site/",
	}), site, dist
}

func TestRemotePublishSuccess(t *testing.T) {
	stubCommand(t, "fake-deploy", "test -f index.html || exit 9\necho published\n")
	remote, site, dist := newTestRemote(t, "fake-deploy --prod")

	if err := remote.Publish(context.Background(), []byte("<html></html>")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(site, IndexFile))
	if err != nil || string(data) != "<html></html>" {
		t.Fatalf("site index = %q, %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(dist, DeploymentLogFile)); !os.IsNotExist(err) {
		t.Fatalf("deployment log should not exist on success: %v", err)
	}
	if remote.RequiresVerification() {
		t.Fatal("remote verification should be off by default")
	}
}

func TestRemotePublishErrorMarkerIsNonFatal(t *testing.T) {
	stubCommand(t, "fake-deploy", "echo 'ERROR: branch rejected' 1>&2\nexit 1\n")
	remote, _, dist := newTestRemote(t, "fake-deploy")

	err := remote.Publish(context.Background(), []byte("page"))
	if !errors.Is(err, services.ErrPublish) {
		t.Fatalf("expected ErrPublish, got %v", err)
	}
	if services.IsFatal(err) {
		t.Fatal("publish marker errors must not be fatal")
	}
	log, readErr := os.ReadFile(filepath.Join(dist, DeploymentLogFile))
	if readErr != nil {
		t.Fatalf("read deployment log: %v", readErr)
	}
	if !strings.Contains(string(log), "branch rejected") {
		t.Fatalf("deployment log = %q", log)
	}
}

func TestRemotePublishExitFailure(t *testing.T) {
	stubCommand(t, "fake-deploy", "echo boom\nexit 3\n")
	remote, _, _ := newTestRemote(t, "fake-deploy")

	err := remote.Publish(context.Background(), []byte("page"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "exit status 3") {
		t.Fatalf("error should carry exit status: %v", err)
	}
}

func TestRemotePublishMissingCommand(t *testing.T) {
	remote, _, _ := newTestRemote(t, "definitely-not-a-real-deploy-command")
	err := remote.Publish(context.Background(), []byte("page"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}
