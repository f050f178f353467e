package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"srttranslate/internal/fileutil"
	"srttranslate/internal/logging"
	"srttranslate/internal/services"
)

// DeploymentLogFile receives publish command output when it reports an error.
const DeploymentLogFile = "deployment.log"

// RemoteOptions configures a Remote target.
type RemoteOptions struct {
	SiteDir       string
	DistDir       string
	Command       string
	ErrorMarker   string
	URL           string
	TranslatedURL string
	Verify        bool
	Logger        *slog.Logger
}

// Remote writes the page into a static-site source tree and runs the
// configured publish command there.
type Remote struct {
	opts   RemoteOptions
	logger *slog.Logger
}

// NewRemote constructs a Remote target.
func NewRemote(opts RemoteOptions) *Remote {
	return &Remote{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "publish.remote"),
	}
}

func (r *Remote) Name() string { return "remote" }

// Publish runs the publish command. Output containing the error marker is
// written to the deployment log and reported as ErrPublish; a command that
// cannot run or exits non-zero is ErrExternalTool.
func (r *Remote) Publish(ctx context.Context, markup []byte) error {
	target := filepath.Join(r.opts.SiteDir, IndexFile)
	if err := fileutil.ReplaceFile(target, markup, 0o644); err != nil {
		return services.Wrap(services.ErrExternalTool, "publish", "write page", target, err)
	}

	fields := strings.Fields(r.opts.Command)
	if len(fields) == 0 {
		return services.Wrap(services.ErrConfiguration, "publish", "run publish command", "publish command is empty", nil)
	}
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...) //nolint:gosec
	cmd.Dir = r.opts.SiteDir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	r.logger.Info("running publish command",
		logging.String("command", r.opts.Command),
		logging.String("dir", r.opts.SiteDir),
	)
	runErr := cmd.Run()

	if marker := r.opts.ErrorMarker; marker != "" && strings.Contains(output.String(), marker) {
		logPath := filepath.Join(r.opts.DistDir, DeploymentLogFile)
		if err := fileutil.ReplaceFile(logPath, output.Bytes(), 0o644); err != nil {
			logging.WarnWithContext(r.logger, "failed to write deployment log", "deployment_log_failed",
				logging.String("path", logPath),
				logging.Error(err),
			)
		}
		return services.Wrap(services.ErrPublish, "publish", "run publish command",
			fmt.Sprintf("output contains %q; see %s", marker, logPath), nil)
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		detail := "command failed"
		if errors.As(runErr, &exitErr) {
			detail = fmt.Sprintf("exit status %d: %s", exitErr.ExitCode(), strings.TrimSpace(tail(output.String(), 512)))
		}
		return services.Wrap(services.ErrExternalTool, "publish", "run publish command", detail, runErr)
	}

	r.logger.Info("page published", logging.String("url", r.opts.URL))
	return nil
}

func (r *Remote) URL() string { return r.opts.URL }

func (r *Remote) TranslatedURL() string { return r.opts.TranslatedURL }

func (r *Remote) RequiresVerification() bool { return r.opts.Verify }

func (r *Remote) Teardown(context.Context) error { return nil }

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
