// internal/engine/filler.go
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FillField drives one field through the fill sequence:
//
//	Located → Focused → Cleared → Typed → Verified | Mismatched → retry → Done
//
// The field is re-resolved by selector against the live document (the
// descriptor is only a snapshot), waited on until visible, scrolled into
// view, focused with a primary-button click, emptied via select-all plus
// delete, and then typed one character at a time with a pacing pause after
// each keystroke. The value is read back and compared for exact string
// equality; on mismatch exactly one retry is made using a direct whole-value
// set, and whatever value results is final.
//
// Any failure along the way is caught at this scope and reported inside the
// FillResult; FillField never returns an error and never aborts a batch.
func (e *Engine) FillField(ctx context.Context, doc Document, field FieldDescriptor, value string) FillResult {
	res := FillResult{Selector: field.Selector, ExpectedValue: value}
	fail := func(stage string, err error) FillResult {
		res.Error = fmt.Sprintf("%s: %v", stage, err)
		e.log.Debug("Field fill failed.",
			zap.String("selector", field.Selector),
			zap.String("stage", stage),
			zap.Error(err))
		return res
	}

	// Located: bounded condition wait, then bring it on screen.
	if err := e.waitVisible(ctx, doc, field.Selector); err != nil {
		return fail("locate", err)
	}
	if err := doc.ScrollIntoView(ctx, field.Selector); err != nil {
		return fail("locate", err)
	}

	// Focused: the click both grants input focus and produces the visible
	// cursor movement the run is expected to show.
	if err := doc.Click(ctx, field.Selector); err != nil {
		return fail("focus", err)
	}

	// Cleared: select-all + delete empties the field regardless of content.
	// Fields with input masks or custom validation scripts may resist this;
	// that case is deliberately left to the verification step below.
	if err := doc.SelectAll(ctx, field.Selector); err != nil {
		return fail("clear", err)
	}
	if err := doc.PressDelete(ctx, field.Selector); err != nil {
		return fail("clear", err)
	}

	// Typed: character by character, each followed by the pacing pause.
	for _, r := range value {
		if err := doc.SendKeys(ctx, field.Selector, string(r)); err != nil {
			return fail("type", err)
		}
		if err := pause(ctx, e.pacing.KeyInterval); err != nil {
			return fail("type", err)
		}
	}

	// Verified.
	observed, err := doc.ReadValue(ctx, field.Selector)
	if err != nil {
		return fail("verify", err)
	}
	res.ObservedValue = observed
	if observed == value {
		res.Succeeded = true
		return res
	}

	// Mismatched: one direct whole-value retry, then accept the result.
	e.log.Debug("Typed value mismatch, retrying with direct set.",
		zap.String("selector", field.Selector))
	if err := doc.SetValue(ctx, field.Selector, value); err != nil {
		return fail("retry", err)
	}
	observed, err = doc.ReadValue(ctx, field.Selector)
	if err != nil {
		return fail("retry", err)
	}
	res.ObservedValue = observed
	res.Succeeded = observed == value
	if !res.Succeeded {
		res.Error = "value mismatch after direct-set retry"
	}
	return res
}

// FillForm fills every field of a form in document order, choosing values
// via the role table (or configured credentials for auth forms). Individual
// failures never stop the batch: the result slice always has exactly one
// entry per field, and the second return value counts the successes.
func (e *Engine) FillForm(ctx context.Context, doc Document, form FormDescriptor) ([]FillResult, int) {
	results := make([]FillResult, 0, len(form.Fields))
	successes := 0
	for _, field := range form.Fields {
		if err := ctx.Err(); err != nil {
			// The batch contract still wants one result per field.
			results = append(results, FillResult{
				Selector:      field.Selector,
				ExpectedValue: e.valueForField(form, field),
				Error:         fmt.Sprintf("aborted: %v", err),
			})
			continue
		}
		r := e.FillField(ctx, doc, field, e.valueForField(form, field))
		results = append(results, r)
		if r.Succeeded {
			successes++
		}
	}
	e.log.Info("Form fill complete.",
		zap.String("form", form.Selector),
		zap.Int("fields", len(results)),
		zap.Int("succeeded", successes))
	return results, successes
}
