// internal/engine/submitter.go
package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// collectSubmitCandidatesScript enumerates submission controls inside a
// scope (a form selector, or the whole document when the scope is empty) in
// discovery priority order: explicit submit semantics first, then
// non-disabled elements whose class/id/onclick carry a submit-like token.
// The order of the returned array IS the attempt order.
const collectSubmitCandidatesScript = `((scopeSel) => {
	const scope = scopeSel ? document.querySelector(scopeSel) : document;
	if (!scope) return [];
	const nthOfType = (el) => {
		let n = 1;
		for (let sib = el.previousElementSibling; sib; sib = sib.previousElementSibling) {
			if (sib.tagName === el.tagName) n++;
		}
		return n;
	};
	const classMatches = (el) => {
		const cls = (typeof el.className === 'string') ? el.className.trim() : '';
		if (!cls) return 0;
		try { return document.querySelectorAll('.' + CSS.escape(cls.split(/\s+/)[0])).length; } catch (e) { return 0; }
	};
	const formIndex = (el) => {
		const form = el.closest ? el.closest('form') : null;
		if (!form) return -1;
		return Array.prototype.indexOf.call(document.forms, form);
	};
	const describe = (el, kind) => ({
		kind: kind,
		tag: el.tagName.toLowerCase(),
		id: el.id || '',
		class: (typeof el.className === 'string') ? el.className : '',
		text: (el.innerText || el.value || '').trim().substring(0, 80),
		nthOfType: nthOfType(el),
		classMatches: classMatches(el),
		formIndex: formIndex(el)
	});
	const out = [];
	const seen = new Set();
	// Priority 1: explicit submit semantics. An un-typed <button> defaults
	// to type=submit.
	for (const el of scope.querySelectorAll('button[type="submit"], input[type="submit"], button:not([type])')) {
		if (el.disabled) continue;
		seen.add(el);
		out.push(describe(el, 'submit-control'));
	}
	// Priority 2: attribute heuristics, skipping disabled controls.
	const token = /submit|send/i;
	for (const el of scope.querySelectorAll('*')) {
		if (seen.has(el)) continue;
		if (el.disabled === true || el.getAttribute('disabled') !== null) continue;
		const hay = [(typeof el.className === 'string') ? el.className : '', el.id || '', el.getAttribute('onclick') || ''].join(' ');
		if (!token.test(hay)) continue;
		out.push(describe(el, 'heuristic-clickable'));
	}
	return out;
})(%s)`

// highlightScript briefly outlines a candidate before it is clicked. Purely
// cosmetic; failures here never affect the submission outcome.
const highlightScript = `((sel) => {
	const el = document.querySelector(sel);
	if (!el) return false;
	el.style.outline = '3px solid #ff9800';
	el.style.outlineOffset = '2px';
	setTimeout(() => { el.style.outline = ''; el.style.outlineOffset = ''; }, 800);
	return true;
})(%s)`

// programmaticSubmitScript is the last-resort fallback: invoke the form's
// native submission directly. requestSubmit runs constraint validation and
// submit handlers like a real click; plain submit() is the fallback for old
// engines.
const programmaticSubmitScript = `((scopeSel) => {
	let form = scopeSel ? document.querySelector(scopeSel) : document.querySelector('form');
	if (form && form.tagName !== 'FORM') {
		form = form.querySelector('form') || (form.closest ? form.closest('form') : null);
	}
	if (!form || form.tagName !== 'FORM') return false;
	try {
		if (typeof form.requestSubmit === 'function') form.requestSubmit();
		else form.submit();
		return true;
	} catch (e) { return false; }
})(%s)`

type rawCandidate struct {
	Kind         string `json:"kind"`
	Tag          string `json:"tag"`
	ID           string `json:"id"`
	Class        string `json:"class"`
	Text         string `json:"text"`
	NthOfType    int    `json:"nthOfType"`
	ClassMatches int    `json:"classMatches"`
	FormIndex    int    `json:"formIndex"`
}

// FindSubmitCandidates enumerates submission controls for a form scope (or
// the whole document when formSelector is empty), in attempt priority order.
// An empty result is a normal outcome.
func (e *Engine) FindSubmitCandidates(ctx context.Context, doc Document, formSelector string) ([]SubmitCandidate, error) {
	script := fmt.Sprintf(collectSubmitCandidatesScript, jsonEncode(formSelector))
	var raws []rawCandidate
	if err := doc.Evaluate(ctx, script, &raws); err != nil {
		return nil, fmt.Errorf("submit candidate scan failed: %w", err)
	}
	container := formSelector
	if container == "" {
		container = "body"
	}
	candidates := make([]SubmitCandidate, 0, len(raws))
	for _, rc := range raws {
		candidates = append(candidates, SubmitCandidate{
			Selector:  elementSelector(rc.ID, rc.Class, rc.Tag, container, rc.NthOfType, rc.ClassMatches),
			Kind:      CandidateKind(rc.Kind),
			Text:      rc.Text,
			FormIndex: rc.FormIndex,
		})
	}
	return candidates, nil
}

// Submit locates the most plausible submission control for the scope and
// triggers it, walking the candidate list in priority order. Each candidate
// is scrolled into view, briefly highlighted (cosmetic only), clicked, and
// given a bounded settle period; the first click that does not fail ends the
// chain. No correctness check is made on the resulting page state: the
// caller verifies the outcome independently. When every candidate click
// fails (or none exist), the form's native submission is invoked
// programmatically; if that also fails the result carries the last error.
func (e *Engine) Submit(ctx context.Context, doc Document, formSelector string) SubmitResult {
	res := SubmitResult{}

	candidates, err := e.FindSubmitCandidates(ctx, doc, formSelector)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	var lastErr error
	for i := range candidates {
		cand := candidates[i]
		res.Attempted++
		if err := e.trySubmitClick(ctx, doc, cand.Selector); err != nil {
			lastErr = err
			e.log.Debug("Submit candidate failed.",
				zap.String("selector", cand.Selector),
				zap.String("kind", string(cand.Kind)),
				zap.Error(err))
			continue
		}
		res.Succeeded = true
		res.Method = "click"
		res.Candidate = &cand
		e.log.Info("Submission triggered.",
			zap.String("selector", cand.Selector),
			zap.String("kind", string(cand.Kind)))
		return res
	}

	// Fallback: native form submission.
	script := fmt.Sprintf(programmaticSubmitScript, jsonEncode(formSelector))
	var ok bool
	if err := doc.Evaluate(ctx, script, &ok); err != nil {
		lastErr = err
	} else if ok {
		if err := pause(ctx, e.pacing.SettleWait); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Succeeded = true
		res.Method = "programmatic"
		e.log.Info("Submission triggered programmatically.", zap.String("scope", formSelector))
		return res
	} else {
		lastErr = fmt.Errorf("no form available for programmatic submission in scope %q", formSelector)
	}

	if lastErr != nil {
		res.Error = lastErr.Error()
	} else {
		res.Error = "no submission candidates found"
	}
	return res
}

// trySubmitClick performs one candidate attempt: scroll, highlight, click,
// settle. Only the click decides success; the highlight is cosmetic and its
// errors are ignored.
func (e *Engine) trySubmitClick(ctx context.Context, doc Document, selector string) error {
	if err := doc.ScrollIntoView(ctx, selector); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	var highlighted bool
	_ = doc.Evaluate(ctx, fmt.Sprintf(highlightScript, jsonEncode(selector)), &highlighted)
	if err := pause(ctx, e.pacing.HighlightHold); err != nil {
		return err
	}
	if err := doc.Click(ctx, selector); err != nil {
		return fmt.Errorf("click: %w", err)
	}
	return pause(ctx, e.pacing.SettleWait)
}

// jsonEncode safely embeds a value (usually a selector string) in a script.
func jsonEncode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}
