// internal/browser/document.go
package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/xkilldash9x/formpilot-cli/internal/engine"
)

// Session implements the engine's live document handle via CDP. Selectors
// are resolved against the page's current state on every call; nothing is
// cached between operations.
var _ engine.Document = (*Session)(nil)

// Evaluate runs a script in the page and unmarshals its JSON result into
// out. Promises are awaited and results always come back by value.
func (s *Session) Evaluate(ctx context.Context, script string, out any) error {
	return s.runActions(ctx, chromedp.Evaluate(script, out,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
		}))
}

// Click performs a primary-button click on the first matching element.
func (s *Session) Click(ctx context.Context, selector string) error {
	if err := s.runActions(ctx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("click failed for selector %q: %w", selector, err)
	}
	return nil
}

// ScrollIntoView scrolls the first matching element into the viewport.
func (s *Session) ScrollIntoView(ctx context.Context, selector string) error {
	if err := s.runActions(ctx, chromedp.ScrollIntoView(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("scroll failed for selector %q: %w", selector, err)
	}
	return nil
}

// WaitVisible blocks until the first matching element is laid out and
// visible, or the context expires.
func (s *Session) WaitVisible(ctx context.Context, selector string) error {
	if err := s.runActions(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("element %q did not become visible: %w", selector, ctx.Err())
		}
		return fmt.Errorf("wait for %q failed: %w", selector, err)
	}
	return nil
}

// SendKeys emits keystrokes into the matching element, producing the same
// key events a physical keyboard would.
func (s *Session) SendKeys(ctx context.Context, selector, text string) error {
	if err := s.runActions(ctx, chromedp.SendKeys(selector, text, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("sendkeys failed for selector %q: %w", selector, err)
	}
	return nil
}

// SelectAll issues Ctrl+A against the focused element. The selector is only
// used for error reporting; key events always go to the focused node.
func (s *Session) SelectAll(ctx context.Context, selector string) error {
	keyDown := input.DispatchKeyEvent(input.KeyDown).
		WithModifiers(input.ModifierCtrl).
		WithKey("a")
	keyUp := input.DispatchKeyEvent(input.KeyUp).
		WithModifiers(input.ModifierCtrl).
		WithKey("a")

	if err := s.runActions(ctx, keyDown, keyUp); err != nil {
		return fmt.Errorf("select-all failed for selector %q: %w", selector, err)
	}
	return nil
}

// PressDelete issues a single Delete keystroke against the focused element.
func (s *Session) PressDelete(ctx context.Context, selector string) error {
	if err := s.runActions(ctx, chromedp.KeyEvent(kb.Delete)); err != nil {
		return fmt.Errorf("delete keystroke failed for selector %q: %w", selector, err)
	}
	return nil
}

// ReadValue returns the current value of the matching form control.
func (s *Session) ReadValue(ctx context.Context, selector string) (string, error) {
	var value string
	if err := s.runActions(ctx, chromedp.Value(selector, &value, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("value read failed for selector %q: %w", selector, err)
	}
	return value, nil
}

// setValueScript assigns the value directly and fires the input and change
// events frameworks listen for, so the page reacts as if the user typed.
const setValueScript = `((sel, val) => {
	const el = document.querySelector(sel);
	if (!el) return false;
	el.value = val;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
	return true;
})(%s, %s)`

// SetValue assigns value to the matching control in one step.
func (s *Session) SetValue(ctx context.Context, selector, value string) error {
	script := fmt.Sprintf(setValueScript, jsonEncode(selector), jsonEncode(value))
	var ok bool
	if err := s.Evaluate(ctx, script, &ok); err != nil {
		return fmt.Errorf("set value failed for selector %q: %w", selector, err)
	}
	if !ok {
		return fmt.Errorf("no element matching %q to set value on", selector)
	}
	return nil
}

// jsonEncode safely embeds a value (especially strings) in a script.
func jsonEncode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}
