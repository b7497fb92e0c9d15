// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formpilot-cli/internal/config"
)

// Manager owns the browser process lifecycle: one exec allocator shared by
// every session (tab) created through it.
type Manager struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	logger      *zap.Logger
	cfg         *config.Config

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// execAllocatorOptions translates the application config into chromedp
// allocator options.
func execAllocatorOptions(cfg *config.Config) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		// Required on hardened systems where the chrome sandbox cannot start.
		chromedp.NoSandbox,
		// Recommended for stability in containers/headless environments.
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	if cfg.Browser.Headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	if cfg.Browser.DisableGPU {
		opts = append(opts, chromedp.DisableGPU)
	}

	// Additional flags from the config file's 'args' slice.
	for _, arg := range cfg.Browser.Args {
		if !strings.Contains(arg, "=") {
			if !strings.HasPrefix(arg, "--") {
				arg = "--" + arg
			}
			opts = append(opts, chromedp.Flag(strings.TrimPrefix(arg, "--"), true))
			continue
		}
		parts := strings.SplitN(arg, "=", 2)
		key := strings.TrimPrefix(parts[0], "--")
		opts = append(opts, chromedp.Flag(key, parts[1]))
	}
	return opts
}

// NewManager creates the allocator context. The browser process itself is
// launched lazily by the first session.
func NewManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) *Manager {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execAllocatorOptions(cfg)...)
	return &Manager{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		logger:      logger.Named("browser_manager"),
		cfg:         cfg,
		sessions:    make(map[string]*Session),
	}
}

// NewSession opens a new tab and connects CDP to it.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	tabCtx, tabCancel := chromedp.NewContext(m.allocCtx)

	// Force target creation now so a broken chrome install fails fast.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("failed to start browser target: %w", err)
	}

	session := newSession(tabCtx, tabCancel, m.cfg, m.logger)

	m.wg.Add(1)
	session.onClose = func() {
		m.mu.Lock()
		delete(m.sessions, session.ID())
		m.mu.Unlock()
		m.wg.Done()
	}

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	m.logger.Info("New browser session created.", zap.String("session_id", session.ID()))
	return session, nil
}

// Shutdown closes all sessions and the browser process.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down browser manager.")

	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	for _, s := range open {
		if err := s.Close(); err != nil {
			m.logger.Warn("Error closing session during shutdown.",
				zap.String("session_id", s.ID()), zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("Timeout waiting for sessions to close.", zap.Error(ctx.Err()))
	}

	m.allocCancel()
	return nil
}
