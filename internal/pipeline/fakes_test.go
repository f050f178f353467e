package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"srttranslate/internal/browser"
	"srttranslate/internal/markup"
)

type fakeTarget struct {
	mu         sync.Mutex
	published  []byte
	publishes  int
	teardowns  int
	verify     bool
	publishErr error
}

func (t *fakeTarget) Name() string { return "fake" }

func (t *fakeTarget) Publish(_ context.Context, page []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.publishes++
	t.published = append([]byte(nil), page...)
	return t.publishErr
}

func (t *fakeTarget) URL() string { return "http://published.test/" }

func (t *fakeTarget) TranslatedURL() string { return "http://mirror.test/" }

func (t *fakeTarget) RequiresVerification() bool { return t.verify }

func (t *fakeTarget) Teardown(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.teardowns++
	return nil
}

func (t *fakeTarget) page() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.published)
}

// translationService renders whatever fakeTarget published the way a web
// translator would: source text kept in original-text spans next to the
// translated text.
type translationService struct {
	target  *fakeTarget
	openErr error
}

func (s *translationService) Open(context.Context) (browser.Page, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return &servicePage{target: s.target}, nil
}

type servicePage struct {
	target *fakeTarget
	url    string
}

func (p *servicePage) Navigate(_ context.Context, url string) error {
	p.url = url
	return nil
}

func (p *servicePage) Reload(context.Context) error { return nil }

func (p *servicePage) WaitNetworkIdle(context.Context) error { return nil }

func (p *servicePage) WaitSelector(context.Context, string) error {
	if p.target.page() == "" {
		return errors.New("nothing published")
	}
	return nil
}

func (p *servicePage) Text(context.Context, string) (string, error) {
	root, err := markup.Parse(p.target.page())
	if err != nil {
		return "", err
	}
	return markup.RunID(root), nil
}

func (p *servicePage) ViewportHeight(context.Context) (int, error) { return 500, nil }

func (p *servicePage) ScrollHeight(context.Context) (int, error) { return 1200, nil }

func (p *servicePage) ScrollTo(context.Context, int) error { return nil }

func (p *servicePage) Content(context.Context) (string, error) {
	root, err := markup.Parse(p.target.page())
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(`<html><head><script src="translate.js"></script></head><body>`)
	fmt.Fprintf(&b, `<div id="run-id">%s</div>`, html.EscapeString(markup.RunID(root)))
	for _, entry := range markup.Decode(root) {
		fmt.Fprintf(&b, `<div class="srt-object"><div>%s</div><div>%s</div><div><font class="original-text">%s</font>%s</div></div>`,
			html.EscapeString(entry.Index),
			html.EscapeString(entry.Timing),
			html.EscapeString(entry.Text),
			html.EscapeString(translateText(entry.Text)),
		)
	}
	b.WriteString(`</body></html>`)
	return b.String(), nil
}

func (p *servicePage) Close() error { return nil }

func translateText(text string) string {
	if text == "" {
		return ""
	}
	return "translated: " + text
}
