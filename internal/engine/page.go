// internal/engine/page.go
package engine

import "context"

// Document is the live document handle every engine operation runs against.
// It is owned and supplied by a collaborator (a browser session); the engine
// holds no page state of its own between calls. Implementations must resolve
// selectors against the document's *current* state on every call, because
// descriptors are stale snapshots the moment they are built.
//
// The engine never issues two concurrent operations against the same
// Document; implementations may assume sequential access.
type Document interface {
	// Evaluate runs a read-only or side-effecting script in the page and
	// unmarshals its JSON result into out. A nil out discards the result.
	Evaluate(ctx context.Context, script string, out any) error

	// Click performs a primary-button click on the first element matching
	// selector. This is also how the engine gives a field input focus.
	Click(ctx context.Context, selector string) error

	// ScrollIntoView scrolls the first matching element into the viewport.
	ScrollIntoView(ctx context.Context, selector string) error

	// WaitVisible blocks until the first matching element is laid out and
	// visible, or ctx expires. Expiry must surface as an error, not a hang.
	WaitVisible(ctx context.Context, selector string) error

	// SendKeys emits keystrokes into the element matching selector.
	SendKeys(ctx context.Context, selector, text string) error

	// SelectAll issues the platform select-all key combination against the
	// focused element matching selector.
	SelectAll(ctx context.Context, selector string) error

	// PressDelete issues a single delete keystroke against the focused
	// element matching selector.
	PressDelete(ctx context.Context, selector string) error

	// ReadValue returns the current value of the matching form control.
	ReadValue(ctx context.Context, selector string) (string, error)

	// SetValue assigns value to the matching control in one step, firing the
	// input and change events frameworks listen for. Used only by the fill
	// retry path.
	SetValue(ctx context.Context, selector, value string) error
}
