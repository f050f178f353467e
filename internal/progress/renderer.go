package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"srttranslate/internal/logging"
	"srttranslate/internal/pipeline"
)

// Renderer prints pipeline events as status lines. Scroll percentages are
// sampled so only bucket crossings are printed.
type Renderer struct {
	mu       sync.Mutex
	w        io.Writer
	colorize bool
	sampler  *logging.ProgressSampler
}

// NewRenderer writes to w, colouring output when w is a terminal.
func NewRenderer(w io.Writer) *Renderer {
	return NewRendererWithColor(w, ShouldColorize(w))
}

// NewRendererWithColor writes to w with explicit colour control.
func NewRendererWithColor(w io.Writer, colorize bool) *Renderer {
	return &Renderer{w: w, colorize: colorize, sampler: logging.NewProgressSampler(20)}
}

// Handle renders one event. It satisfies pipeline.Options.Events.
func (r *Renderer) Handle(ev pipeline.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, ok := r.format(ev)
	if !ok {
		return
	}
	fmt.Fprintln(r.w, line)
}

func (r *Renderer) format(ev pipeline.Event) (string, bool) {
	label := phaseLabel(ev.Phase)
	switch ev.Kind {
	case pipeline.KindStart:
		// A restarted phase scrolls from the top again.
		r.sampler.Reset()
		return StatusLine(label, KindInfo, ev.Message, r.colorize), true
	case pipeline.KindComplete:
		return StatusLine(label, KindOK, ev.Message, r.colorize), true
	case pipeline.KindFail:
		return StatusLine(label, KindError, ev.Message, r.colorize), true
	case pipeline.KindUpdate:
		if ev.Attempt > 0 {
			return StatusLine(label, KindWarn, ev.Message, r.colorize), true
		}
		if !r.sampler.ShouldLog(ev.Percent, string(ev.Phase)) {
			return "", false
		}
		msg := strings.TrimSpace(fmt.Sprintf("%s %.0f%%", ev.Message, ev.Percent))
		return StatusLine(label, KindInfo, msg, r.colorize), true
	default:
		return "", false
	}
}

func phaseLabel(phase pipeline.Phase) string {
	s := string(phase)
	if s == "" {
		return "Run"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
