package transcoder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"srttranslate/internal/config"
	"srttranslate/internal/logging"
	"srttranslate/internal/services"
)

// Stream describes a subtitle stream in a media container.
type Stream struct {
	// Position is the index among subtitle streams, as used by -map 0:s:N.
	Position  int    `json:"-"`
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Tags      struct {
		Language string `json:"language"`
		Title    string `json:"title"`
	} `json:"tags"`
	Disposition struct {
		Default int `json:"default"`
		Forced  int `json:"forced"`
	} `json:"disposition"`
}

// Language returns the stream language tag or "und".
func (s Stream) Language() string {
	if lang := strings.TrimSpace(s.Tags.Language); lang != "" {
		return lang
	}
	return "und"
}

// IsDefault reports the default disposition flag.
func (s Stream) IsDefault() bool { return s.Disposition.Default == 1 }

// IsForced reports the forced disposition flag.
func (s Stream) IsForced() bool { return s.Disposition.Forced == 1 }

// Transcoder runs ffmpeg and ffprobe.
type Transcoder struct {
	ffmpeg  string
	ffprobe string
	logger  *slog.Logger
}

// New binds the configured binaries, defaulting to names on PATH.
func New(cfg config.Transcoder, logger *slog.Logger) *Transcoder {
	ffmpeg := strings.TrimSpace(cfg.FFmpeg)
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	ffprobe := strings.TrimSpace(cfg.FFprobe)
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	return &Transcoder{
		ffmpeg:  ffmpeg,
		ffprobe: ffprobe,
		logger:  logging.NewComponentLogger(logger, "transcoder"),
	}
}

// OutputPath returns where the subtitle track of media is extracted to.
func OutputPath(media string) string {
	return strings.TrimSuffix(media, filepath.Ext(media)) + ".srt"
}

// Extract converts the default subtitle track of media to SRT and returns the
// output path.
func (t *Transcoder) Extract(ctx context.Context, media string) (string, error) {
	out := OutputPath(media)
	if err := t.runFFmpeg(ctx, "-y", "-i", media, "-f", "srt", out); err != nil {
		return "", err
	}
	t.logger.Info("subtitle track extracted",
		logging.String("media", media),
		logging.String("output", out),
	)
	return out, nil
}

// ExtractStream converts the n-th subtitle stream of media to SRT and returns
// the output path.
func (t *Transcoder) ExtractStream(ctx context.Context, media string, n int) (string, error) {
	if n < 0 {
		return "", services.Wrap(services.ErrInput, "extract", "select stream", fmt.Sprintf("invalid stream %d", n), nil)
	}
	out := OutputPath(media)
	if err := t.runFFmpeg(ctx, "-y", "-i", media, "-map", "0:s:"+strconv.Itoa(n), out); err != nil {
		return "", err
	}
	t.logger.Info("subtitle stream extracted",
		logging.String("media", media),
		logging.Int("stream", n),
		logging.String("output", out),
	)
	return out, nil
}

// ListSubtitleStreams returns the subtitle streams of media in container order.
func (t *Transcoder) ListSubtitleStreams(ctx context.Context, media string) ([]Stream, error) {
	cmd := exec.CommandContext(ctx, t.ffprobe, "-v", "error", "-hide_banner", "-select_streams", "s", "-show_streams", "-of", "json", "--", media) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "extract", "ffprobe", media, commandError(err))
	}
	return parseStreams(output)
}

func parseStreams(data []byte) ([]Stream, error) {
	var payload struct {
		Streams []Stream `json:"streams"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "extract", "parse ffprobe output", "", err)
	}
	streams := make([]Stream, 0, len(payload.Streams))
	for _, s := range payload.Streams {
		if s.CodecType != "" && !strings.EqualFold(s.CodecType, "subtitle") {
			continue
		}
		s.Position = len(streams)
		streams = append(streams, s)
	}
	return streams, nil
}

func (t *Transcoder) runFFmpeg(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, t.ffmpeg, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := lastLine(string(output))
		return services.Wrap(services.ErrExternalTool, "extract", "ffmpeg", detail, err)
	}
	return nil
}

func commandError(err error) error {
	if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%w: %s", err, lastLine(string(exitErr.Stderr)))
	}
	return err
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
