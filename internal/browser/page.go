package browser

import "context"

// Page is a single browser tab.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	// WaitNetworkIdle blocks until the page reports no network activity.
	WaitNetworkIdle(ctx context.Context) error
	WaitSelector(ctx context.Context, selector string) error
	Text(ctx context.Context, selector string) (string, error)
	ViewportHeight(ctx context.Context) (int, error)
	ScrollHeight(ctx context.Context) (int, error)
	ScrollTo(ctx context.Context, y int) error
	// Content returns the current rendered DOM serialized as HTML.
	Content(ctx context.Context) (string, error)
	Close() error
}

// Launcher opens browser pages.
type Launcher interface {
	Open(ctx context.Context) (Page, error)
}
