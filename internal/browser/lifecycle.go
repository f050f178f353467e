package browser

import (
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
)

// lifecycle turns the main frame's lifecycle events into a network-idle
// signal: "init" starts a new document load and "networkIdle" settles it.
// Events from subframes are ignored.
type lifecycle struct {
	mu        sync.Mutex
	mainFrame cdp.FrameID
	idle      chan struct{}
	idleDone  bool
}

func newLifecycle() *lifecycle {
	return &lifecycle{idle: make(chan struct{})}
}

func (l *lifecycle) setMainFrame(id cdp.FrameID) {
	l.mu.Lock()
	l.mainFrame = id
	l.mu.Unlock()
}

func (l *lifecycle) observe(e *page.EventLifecycleEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.mainFrame != "" && e.FrameID != l.mainFrame {
		return
	}
	switch e.Name {
	case "init":
		if l.idleDone {
			l.idle = make(chan struct{})
			l.idleDone = false
		}
	case "networkIdle":
		if !l.idleDone {
			close(l.idle)
			l.idleDone = true
		}
	}
}

// settled returns a channel closed once the current document is idle.
func (l *lifecycle) settled() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.idle
}
