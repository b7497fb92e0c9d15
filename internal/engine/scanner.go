// internal/engine/scanner.go
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// scanFormsScript harvests a raw snapshot of every form and its fillable
// controls in one page round-trip. Submit/button/reset/image/hidden inputs
// and anything not currently laid out are excluded at the source. When the
// document carries fillable controls but no <form>, the whole document is
// reported as a single implicit scope.
const scanFormsScript = `(() => {
	const isVisible = (el) => {
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		return rect.width > 0 && rect.height > 0 && style.display !== 'none' &&
			style.visibility !== 'hidden' && style.opacity !== '0';
	};
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
		const token = cls.split(/\s+/)[0];
		try { return document.querySelectorAll('.' + CSS.escape(token)).length; } catch (e) { return 0; }
	};
	const collectFields = (scope) => {
		const out = [];
		for (const el of scope.querySelectorAll('input, textarea, select')) {
			const type = (el.getAttribute('type') || '').toLowerCase();
			if (el.tagName === 'INPUT' && ['submit', 'button', 'reset', 'image', 'hidden'].includes(type)) continue;
			if (!isVisible(el)) continue;
			out.push({
				tag: el.tagName.toLowerCase(),
				type: type,
				name: el.getAttribute('name') || '',
				id: el.id || '',
				placeholder: el.getAttribute('placeholder') || '',
				required: el.required === true,
				class: (typeof el.className === 'string') ? el.className : '',
				nthOfType: nthOfType(el),
				classMatches: classMatches(el)
			});
		}
		return out;
	};
	const collectForms = () => {
		const result = [];
		const forms = document.querySelectorAll('form');
		forms.forEach((form) => {
			result.push({
				id: form.id || '',
				class: (typeof form.className === 'string') ? form.className : '',
				action: form.getAttribute('action') || '',
				method: form.getAttribute('method') || '',
				nthOfType: nthOfType(form),
				classMatches: classMatches(form),
				implicit: false,
				fields: collectFields(form)
			});
		});
		if (forms.length === 0) {
			const loose = collectFields(document);
			if (loose.length > 0) {
				result.push({ id: '', class: '', action: '', method: '', nthOfType: 1, classMatches: 0, implicit: true, fields: loose });
			}
		}
		return result;
	};
	return collectForms();
})()`

// rawField mirrors one entry of scanFormsScript's field output.
type rawField struct {
	Tag          string `json:"tag"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	ID           string `json:"id"`
	Placeholder  string `json:"placeholder"`
	Required     bool   `json:"required"`
	Class        string `json:"class"`
	NthOfType    int    `json:"nthOfType"`
	ClassMatches int    `json:"classMatches"`
}

// rawForm mirrors one entry of scanFormsScript's form output.
type rawForm struct {
	ID           string     `json:"id"`
	Class        string     `json:"class"`
	Action       string     `json:"action"`
	Method       string     `json:"method"`
	NthOfType    int        `json:"nthOfType"`
	ClassMatches int        `json:"classMatches"`
	Implicit     bool       `json:"implicit"`
	Fields       []rawField `json:"fields"`
}

// Section keyword sets. A form (or container, or link) belongs to a category
// when its roles or raw attribute text match these. Shared with the section
// locators.
var (
	reContactKeywords = regexp.MustCompile(`(?i)contact|enquir|inquir|feedback|support|get[-_ ]?in[-_ ]?touch|reach[-_ ]?out`)
	reAuthKeywords    = regexp.MustCompile(`(?i)log[-_ ]?in|sign[-_ ]?in|sign[-_ ]?up|register|auth|password|credential|account`)
)

var contactRoles = map[Role]bool{RoleMessage: true, RoleSubject: true}
var authRoles = map[Role]bool{RolePassword: true, RoleUsername: true}

// ScanForms snapshots every form on the document (document order) and builds
// descriptors for their fillable fields. An empty result is a normal
// outcome, not an error: a page without forms simply yields nothing.
// The returned descriptors are fresh immutable snapshots; the live DOM may
// diverge from them at any time.
func (e *Engine) ScanForms(ctx context.Context, doc Document, filter TargetFilter) ([]FormDescriptor, error) {
	var raws []rawForm
	if err := doc.Evaluate(ctx, scanFormsScript, &raws); err != nil {
		return nil, fmt.Errorf("form scan failed: %w", err)
	}

	forms := make([]FormDescriptor, 0, len(raws))
	for _, rf := range raws {
		fd := buildFormDescriptor(rf)
		if !matchesFilter(fd, filter) {
			continue
		}
		forms = append(forms, fd)
	}
	e.log.Debug("Form scan complete.",
		zap.Int("forms", len(forms)),
		zap.String("filter", string(filter)))
	return forms, nil
}

// buildFormDescriptor turns a raw harvest record into an immutable snapshot,
// classifying each field and synthesizing selectors.
func buildFormDescriptor(rf rawForm) FormDescriptor {
	formSel := "body"
	if !rf.Implicit {
		formSel = elementSelector(rf.ID, rf.Class, "form", "body", rf.NthOfType, rf.ClassMatches)
	}

	fd := FormDescriptor{
		Selector:  formSel,
		FormID:    rf.ID,
		FormClass: rf.Class,
		Action:    rf.Action,
		Method:    rf.Method,
		Implicit:  rf.Implicit,
		Fields:    make([]FieldDescriptor, 0, len(rf.Fields)),
	}

	formText := strings.Join([]string{rf.ID, rf.Class, rf.Action}, " ")
	fd.IsContactForm = reContactKeywords.MatchString(formText)
	fd.IsAuthForm = reAuthKeywords.MatchString(formText)

	for _, f := range rf.Fields {
		role := ClassifyRole(fieldSignals{
			Tag:         f.Tag,
			InputType:   f.Type,
			Name:        f.Name,
			ID:          f.ID,
			Placeholder: f.Placeholder,
		})
		fd.Fields = append(fd.Fields, FieldDescriptor{
			Tag:         f.Tag,
			InputType:   f.Type,
			Name:        f.Name,
			ID:          f.ID,
			Placeholder: f.Placeholder,
			Required:    f.Required,
			Visible:     true, // hidden controls were excluded at the source
			Role:        role,
			Selector:    elementSelector(f.ID, f.Class, f.Tag, formSel, f.NthOfType, f.ClassMatches),
		})

		fieldText := strings.Join([]string{f.Name, f.ID, f.Placeholder}, " ")
		if contactRoles[role] || reContactKeywords.MatchString(fieldText) {
			fd.IsContactForm = true
		}
		if authRoles[role] || reAuthKeywords.MatchString(fieldText) {
			fd.IsAuthForm = true
		}
	}
	return fd
}

// elementSelector applies the synthesis preference order, escalating a
// colliding class-token selector to the structural fallback when the live
// match count says it is ambiguous (an intentional strengthening of the
// class-token heuristic; the fallback ordering itself is unchanged).
func elementSelector(id, class, tag, container string, nthOfType, classMatches int) string {
	if id == "" && firstClassToken(class) != "" && classMatches > 1 {
		return structuralSelector(tag, container, nthOfType)
	}
	return SynthesizeSelector(id, class, tag, container, nthOfType)
}

func matchesFilter(fd FormDescriptor, filter TargetFilter) bool {
	switch filter {
	case FilterContact:
		return fd.IsContactForm
	case FilterAuth:
		return fd.IsAuthForm
	default:
		return true
	}
}
