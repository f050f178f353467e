package publish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"srttranslate/internal/fileutil"
	"srttranslate/internal/logging"
	"srttranslate/internal/services"
)

// LocalOptions configures a Local target.
type LocalOptions struct {
	DistDir       string
	StateDir      string
	Port          int
	URL           string
	TranslatedURL string
	Logger        *slog.Logger
}

// Local serves the dist directory on 127.0.0.1:<port> for the lifetime of a run.
type Local struct {
	opts   LocalOptions
	logger *slog.Logger

	mu       sync.Mutex
	lock     *flock.Flock
	listener net.Listener
	server   *http.Server
}

// NewLocal constructs a Local target. Nothing is bound until Publish.
func NewLocal(opts LocalOptions) *Local {
	lockPath := filepath.Join(opts.StateDir, fmt.Sprintf("local-%d.lock", opts.Port))
	return &Local{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "publish.local"),
		lock:   flock.New(lockPath),
	}
}

func (l *Local) Name() string { return "local" }

// Publish writes the page into the dist directory and starts the server if
// it is not already running.
func (l *Local) Publish(ctx context.Context, markup []byte) error {
	target := filepath.Join(l.opts.DistDir, IndexFile)
	if err := fileutil.ReplaceFile(target, markup, 0o644); err != nil {
		return services.Wrap(services.ErrExternalTool, "publish", "write page", target, err)
	}
	if err := l.start(ctx); err != nil {
		return err
	}
	l.logger.Info("page published",
		logging.String("path", target),
		logging.String("url", l.URL()),
	)
	return nil
}

func (l *Local) start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.server != nil {
		return nil
	}

	if err := ensureDir(l.opts.StateDir); err != nil {
		return services.Wrap(services.ErrConfiguration, "publish", "prepare state dir", l.opts.StateDir, err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "publish", "acquire port lock", l.lock.Path(), err)
	}
	if !ok {
		return services.Wrap(services.ErrPortInUse, "publish", "acquire port lock",
			fmt.Sprintf("another srt-translate run is serving port %d", l.opts.Port), nil)
	}

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(l.opts.Port))
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		_ = l.lock.Unlock()
		if errors.Is(err, unix.EADDRINUSE) {
			return services.Wrap(services.ErrPortInUse, "publish", "listen",
				fmt.Sprintf("port %d is already bound", l.opts.Port), err)
		}
		return services.Wrap(services.ErrExternalTool, "publish", "listen", addr, err)
	}

	l.listener = listener
	l.server = &http.Server{
		Handler:           l.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	server := l.server
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.Error("local server error", logging.Error(err))
		}
	}()
	l.logger.Info("local server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Handler returns the router serving the dist directory.
func (l *Local) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.NoCache)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Handle("/*", http.FileServer(http.Dir(l.opts.DistDir)))
	return r
}

// Addr returns the bound listener address, or "" before Publish.
func (l *Local) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listener == nil {
		return ""
	}
	return l.listener.Addr().String()
}

// URL returns the configured serving URL, falling back to the bound port.
func (l *Local) URL() string {
	if l.opts.URL != "" {
		return l.opts.URL
	}
	if addr := l.Addr(); addr != "" {
		_, port, err := net.SplitHostPort(addr)
		if err == nil {
			return "http://localhost:" + port + "/"
		}
	}
	return fmt.Sprintf("http://localhost:%d/", l.opts.Port)
}

func (l *Local) TranslatedURL() string { return l.opts.TranslatedURL }

func (l *Local) RequiresVerification() bool { return true }

// Teardown stops the server and releases the port lock.
func (l *Local) Teardown(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var errs []error
	if l.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := l.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown local server: %w", err))
		}
		l.server = nil
		l.listener = nil
		l.logger.Info("local server stopped")
	}
	if l.lock.Locked() {
		if err := l.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("release port lock: %w", err))
		}
	}
	return errors.Join(errs...)
}

func ensureDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
