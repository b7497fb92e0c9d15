// -- cmd/runner.go --
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/formpilot-cli/internal/browser"
	"github.com/xkilldash9x/formpilot-cli/internal/config"
	"github.com/xkilldash9x/formpilot-cli/internal/engine"
)

// engineConfig maps the application config onto the engine's tunables.
func engineConfig(cfg *config.Config) engine.Config {
	return engine.Config{
		WaitTimeout: cfg.Engine.WaitTimeout,
		Pacing: engine.Pacing{
			KeyInterval:   cfg.Engine.KeyInterval,
			SettleWait:    cfg.Engine.SettleWait,
			HighlightHold: cfg.Engine.HighlightHold,
		},
		Credentials: engine.Credentials{
			Username: cfg.Auth.Username,
			Password: cfg.Auth.Password,
		},
	}
}

// withSession boots the browser, opens a single tab, navigates it to the
// target and hands the live session plus an engine to fn. Teardown always
// runs, even when fn fails.
func withSession(ctx context.Context, cfg *config.Config, logger *zap.Logger, target string, fn func(ctx context.Context, sess *browser.Session, eng *engine.Engine) error) error {
	mgr := browser.NewManager(ctx, cfg, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := mgr.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Error during browser manager shutdown", zap.Error(err))
		}
	}()

	sess, err := mgr.NewSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to open browser session: %w", err)
	}
	defer sess.Close()

	if err := sess.Navigate(ctx, target); err != nil {
		return fmt.Errorf("failed to navigate to %q: %w", target, err)
	}

	return fn(ctx, sess, engineFor(cfg, logger))
}

func engineFor(cfg *config.Config, logger *zap.Logger) *engine.Engine {
	return engine.New(logger, engineConfig(cfg))
}

// parseTargetFilter maps the --target flag onto an engine filter.
func parseTargetFilter(s string) (engine.TargetFilter, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return engine.FilterAll, nil
	case "contact":
		return engine.FilterContact, nil
	case "auth":
		return engine.FilterAuth, nil
	}
	return "", fmt.Errorf("invalid --target value %q (expected all, contact or auth)", s)
}

// writeJSON marshals v and writes it to path, pretty-printed.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// saveScreenshot captures the current viewport and writes it to path.
func saveScreenshot(ctx context.Context, sess *browser.Session, path string, logger *zap.Logger) error {
	buf, err := sess.Screenshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	logger.Info("Screenshot saved", zap.String("path", path))
	return nil
}
