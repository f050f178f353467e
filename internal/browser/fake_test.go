package browser

import (
	"context"
	"errors"
	"sync"
)

// fakePage serves a scripted sequence of run ids, one per load.
type fakePage struct {
	mu       sync.Mutex
	ids      []string
	loads    int
	content  string
	viewport int
	height   int
	scrolls  []int
	closed   bool
	navErr   error
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.navErr != nil {
		return p.navErr
	}
	p.loads++
	return ctx.Err()
}

func (p *fakePage) Reload(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loads++
	return ctx.Err()
}

func (p *fakePage) WaitNetworkIdle(ctx context.Context) error { return ctx.Err() }

func (p *fakePage) WaitSelector(ctx context.Context, selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.ids) == 0 {
		return errors.New("selector not found")
	}
	return ctx.Err()
}

func (p *fakePage) Text(ctx context.Context, selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := min(p.loads, len(p.ids)) - 1
	if i < 0 {
		return "", errors.New("no page loaded")
	}
	return p.ids[i], nil
}

func (p *fakePage) ViewportHeight(context.Context) (int, error) { return p.viewport, nil }

func (p *fakePage) ScrollHeight(context.Context) (int, error) { return p.height, nil }

func (p *fakePage) ScrollTo(_ context.Context, y int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrolls = append(p.scrolls, y)
	return nil
}

func (p *fakePage) Content(context.Context) (string, error) { return p.content, nil }

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

type fakeLauncher struct {
	page *fakePage
	err  error
}

func (l *fakeLauncher) Open(context.Context) (Page, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.page, nil
}
