// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formpilot-cli/internal/config"
)

// Session represents an active browser tab. It satisfies the fill engine's
// document handle, so every engine operation runs against this session's
// live page.
type Session struct {
	id     string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
	cfg    *config.Config

	onClose func()

	mu       sync.Mutex
	isClosed bool
}

func newSession(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, logger *zap.Logger) *Session {
	sessionID := uuid.New().String()
	return &Session{
		id:     sessionID,
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger.Named("session").With(zap.String("session_id", sessionID)),
	}
}

// ID returns the unique identifier for the session.
func (s *Session) ID() string {
	return s.id
}

// Close terminates the browser tab.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing browser session.")
	s.cancel()
	if s.onClose != nil {
		s.onClose()
	}
	return nil
}

// runActions executes chromedp actions against this session's tab,
// respecting both the session lifecycle and the operational context.
func (s *Session) runActions(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	return chromedp.Run(runCtx, actions...)
}

// Navigate loads the target URL and waits for the page to settle. A bare
// host is tried as https first; when that navigation fails, the same host is
// retried over plain http before giving up.
func (s *Session) Navigate(ctx context.Context, target string) error {
	candidates, err := navigationCandidates(target)
	if err != nil {
		return err
	}

	opCtx, opCancel := CombineContext(s.ctx, ctx)
	defer opCancel()

	navTimeout := s.cfg.Network.NavigationTimeout
	if navTimeout <= 0 {
		navTimeout = 90 * time.Second
	}

	var lastErr error
	for _, candidate := range candidates {
		s.logger.Info("Navigating.", zap.String("url", candidate))

		navCtx, navCancel := context.WithTimeout(opCtx, navTimeout)
		err := chromedp.Run(navCtx, chromedp.Navigate(candidate))
		navCancel()
		if err != nil {
			if opCtx.Err() != nil {
				return fmt.Errorf("navigation canceled: %w", opCtx.Err())
			}
			lastErr = fmt.Errorf("navigation to %s failed: %w", candidate, err)
			s.logger.Warn("Navigation attempt failed.", zap.String("url", candidate), zap.Error(err))
			continue
		}

		if err := s.stabilize(opCtx); err != nil {
			if opCtx.Err() != nil {
				return opCtx.Err()
			}
			s.logger.Debug("Page stabilization finished with issues.", zap.Error(err))
		}
		return nil
	}
	return lastErr
}

// navigationCandidates expands a target into the ordered URL list to try.
// Only a scheme-less target earns the http fallback; an explicit scheme is
// respected as given.
func navigationCandidates(target string) ([]string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("navigation target is empty")
	}
	if strings.Contains(target, "://") {
		if _, err := url.Parse(target); err != nil {
			return nil, fmt.Errorf("invalid navigation target %q: %w", target, err)
		}
		return []string{target}, nil
	}
	return []string{"https://" + target, "http://" + target}, nil
}

// stabilize waits for the DOM to be ready and grants page scripts a quiet
// period before the page is treated as usable.
func (s *Session) stabilize(ctx context.Context) error {
	stabCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := chromedp.Run(stabCtx, chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Debug("WaitReady failed during stabilization.", zap.Error(err))
	}

	quiet := s.cfg.Network.PostLoadWait
	if quiet <= 0 {
		return nil
	}
	return chromedp.Run(stabCtx, chromedp.Sleep(quiet))
}

// Screenshot captures the full page as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.runActions(ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}

// CurrentURL reports the page's current location.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var loc string
	if err := s.runActions(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return loc, nil
}
