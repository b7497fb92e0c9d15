// internal/engine/engine.go
// Package engine implements heuristic form discovery and filling against an
// arbitrary, unknown page: scanning a live document for forms and fields,
// classifying each field's semantic role from weak textual signals,
// synthesizing re-locatable selectors, filling values with verification and
// retry, and triggering submission through a prioritized fallback chain.
//
// Every operation is a pure function of the supplied Document handle's
// current state. The engine keeps no state between calls and never issues
// two concurrent operations against the same handle; sequencing is the
// caller's responsibility.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pacing controls the fixed-duration delays that keep engine actions humanly
// visible and give page scripts room to settle. These delays are cosmetic,
// not correctness barriers: every duration may be zero (tests run that way).
// Condition waits (element visibility, bounded by WaitTimeout) are the
// correctness mechanism and are configured separately on Config.
type Pacing struct {
	// KeyInterval is the pause after each typed character.
	KeyInterval time.Duration
	// SettleWait is the pause after a submission click, letting the page's
	// own scripts react before control returns to the caller.
	SettleWait time.Duration
	// HighlightHold is how long the cosmetic outline stays on a submit
	// candidate before it is clicked.
	HighlightHold time.Duration
}

// DefaultPacing keeps actions visible to a human observer.
func DefaultPacing() Pacing {
	return Pacing{
		KeyInterval:   40 * time.Millisecond,
		SettleWait:    1500 * time.Millisecond,
		HighlightHold: 300 * time.Millisecond,
	}
}

// Credentials are the configured login values substituted for Username,
// Email and Password fields when filling a form flagged as an auth form.
// When unset, auth forms are filled with the same safe static literals as
// everything else.
type Credentials struct {
	Username string
	Password string
}

// Set reports whether both credential halves are configured.
func (c Credentials) Set() bool { return c.Username != "" && c.Password != "" }

// Config carries the engine's tunables.
type Config struct {
	// WaitTimeout bounds each condition wait (element visibility). Expiry is
	// reported as a per-step failure, never a hang.
	WaitTimeout time.Duration
	Pacing      Pacing
	Credentials Credentials
}

// Engine exposes the form discovery and fill operations. It is safe to reuse
// across documents; all page state lives behind the Document handle passed
// into each call.
type Engine struct {
	log         *zap.Logger
	waitTimeout time.Duration
	pacing      Pacing
	creds       Credentials
}

// New builds an Engine. A zero WaitTimeout falls back to a conservative
// default; zero pacing is honored as "no pacing".
func New(logger *zap.Logger, cfg Config) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	wait := cfg.WaitTimeout
	if wait <= 0 {
		wait = 10 * time.Second
	}
	return &Engine{
		log:         logger.Named("engine"),
		waitTimeout: wait,
		pacing:      cfg.Pacing,
		creds:       cfg.Credentials,
	}
}

// pause sleeps for d, honoring context cancellation. A non-positive d is a
// no-op so disabled pacing costs nothing.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitVisible applies the engine's bounded condition wait to a selector.
func (e *Engine) waitVisible(ctx context.Context, doc Document, selector string) error {
	waitCtx, cancel := context.WithTimeout(ctx, e.waitTimeout)
	defer cancel()
	return doc.WaitVisible(waitCtx, selector)
}
