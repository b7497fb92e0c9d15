// internal/engine/doc_test.go
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// fakeDocument is a scripted in-memory Document. Evaluate dispatches on a
// substring marker of the incoming script and replies with canned JSON;
// keystroke and value operations run against a simple selector→value store.
type fakeDocument struct {
	mu sync.Mutex

	// scriptResults maps a script substring marker to the JSON the page
	// would have returned.
	scriptResults map[string]string
	// scriptErrs forces Evaluate to fail for scripts matching a marker.
	scriptErrs map[string]error

	// values is the live control state, keyed by selector.
	values map[string]string
	// missing selectors never become visible.
	missing map[string]bool
	// clickErrs forces Click to fail for specific selectors.
	clickErrs map[string]error
	// misreads makes the next ReadValue of a selector report a wrong value
	// once, simulating a page script rewriting the typed input.
	misreads map[string]string

	// calls records every operation in order, as "op:selector".
	calls []string
}

func newFakeDocument() *fakeDocument {
	return &fakeDocument{
		scriptResults: map[string]string{},
		scriptErrs:    map[string]error{},
		values:        map[string]string{},
		missing:       map[string]bool{},
		clickErrs:     map[string]error{},
		misreads:      map[string]string{},
	}
}

func (d *fakeDocument) record(op, selector string) {
	d.calls = append(d.calls, op+":"+selector)
}

func (d *fakeDocument) Evaluate(_ context.Context, script string, out any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for marker, err := range d.scriptErrs {
		if strings.Contains(script, marker) {
			return err
		}
	}
	for marker, result := range d.scriptResults {
		if strings.Contains(script, marker) {
			if out == nil {
				return nil
			}
			return json.Unmarshal([]byte(result), out)
		}
	}
	return fmt.Errorf("fakeDocument: unscripted evaluate: %.60s", script)
}

func (d *fakeDocument) Click(_ context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("click", selector)
	if err := d.clickErrs[selector]; err != nil {
		return err
	}
	return nil
}

func (d *fakeDocument) ScrollIntoView(_ context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("scroll", selector)
	return nil
}

func (d *fakeDocument) WaitVisible(ctx context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("wait", selector)
	if d.missing[selector] {
		return fmt.Errorf("no visible element matching %q", selector)
	}
	return ctx.Err()
}

func (d *fakeDocument) SendKeys(_ context.Context, selector, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values[selector] += text
	return nil
}

func (d *fakeDocument) SelectAll(_ context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("selectall", selector)
	return nil
}

func (d *fakeDocument) PressDelete(_ context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("delete", selector)
	d.values[selector] = ""
	return nil
}

func (d *fakeDocument) ReadValue(_ context.Context, selector string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if wrong, ok := d.misreads[selector]; ok {
		delete(d.misreads, selector)
		return wrong, nil
	}
	return d.values[selector], nil
}

func (d *fakeDocument) SetValue(_ context.Context, selector, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("setvalue", selector)
	d.values[selector] = value
	return nil
}

// newTestEngine builds an engine with silent logging and pacing disabled, so
// tests run at full speed.
func newTestEngine(cfg Config) *Engine {
	return New(nil, cfg)
}
