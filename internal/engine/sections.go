// internal/engine/sections.go
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// collectSectionsScript gathers container regions and anchors whose
// attributes or visible text match a keyword pattern. Regions are limited to
// sectioning-style containers so a match on a tiny span does not flood the
// report.
const collectSectionsScript = `((patternSrc) => {
	const re = new RegExp(patternSrc, 'i');
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
	const regions = [];
	for (const el of document.querySelectorAll('section, main, article, aside, fieldset, div[id], div[class]')) {
		const id = el.id || '';
		const cls = (typeof el.className === 'string') ? el.className : '';
		const heading = el.querySelector ? el.querySelector('h1, h2, h3, h4, legend') : null;
		const headingText = heading ? (heading.innerText || '').trim() : '';
		let matched = '';
		if (re.test(id)) matched = id;
		else if (re.test(cls)) matched = cls;
		else if (re.test(headingText)) matched = headingText;
		if (!matched) continue;
		regions.push({
			tag: el.tagName.toLowerCase(),
			id: id,
			class: cls,
			nthOfType: nthOfType(el),
			classMatches: classMatches(el),
			matched: matched.substring(0, 80)
		});
		if (regions.length >= 20) break;
	}
	const links = [];
	for (const el of document.querySelectorAll('a[href]')) {
		const text = (el.innerText || '').trim();
		const title = el.getAttribute('title') || '';
		const href = el.getAttribute('href') || '';
		if (!re.test(text) && !re.test(title) && !re.test(href)) continue;
		links.push({
			tag: 'a',
			id: el.id || '',
			class: (typeof el.className === 'string') ? el.className : '',
			nthOfType: nthOfType(el),
			classMatches: classMatches(el),
			text: text.substring(0, 80),
			href: href
		});
		if (links.length >= 20) break;
	}
	return { regions: regions, links: links };
})(%s)`

type rawRegion struct {
	Tag          string `json:"tag"`
	ID           string `json:"id"`
	Class        string `json:"class"`
	NthOfType    int    `json:"nthOfType"`
	ClassMatches int    `json:"classMatches"`
	Matched      string `json:"matched"`
}

type rawLink struct {
	Tag          string `json:"tag"`
	ID           string `json:"id"`
	Class        string `json:"class"`
	NthOfType    int    `json:"nthOfType"`
	ClassMatches int    `json:"classMatches"`
	Text         string `json:"text"`
	Href         string `json:"href"`
}

type rawSections struct {
	Regions []rawRegion `json:"regions"`
	Links   []rawLink   `json:"links"`
}

// FindContactSections reports where contact-related content appears to live
// on the page: matching container regions, matching links, and forms whose
// fields or attributes look contact-like. The report is advisory; the caller
// decides whether to navigate or fill.
func (e *Engine) FindContactSections(ctx context.Context, doc Document) (SectionReport, error) {
	return e.findSections(ctx, doc, "contact", reContactKeywords, FilterContact)
}

// FindAuthSections is the authentication counterpart of FindContactSections.
func (e *Engine) FindAuthSections(ctx context.Context, doc Document) (SectionReport, error) {
	return e.findSections(ctx, doc, "auth", reAuthKeywords, FilterAuth)
}

func (e *Engine) findSections(ctx context.Context, doc Document, category string, keywords *regexp.Regexp, filter TargetFilter) (SectionReport, error) {
	report := SectionReport{Category: category}

	pattern := strings.TrimPrefix(keywords.String(), "(?i)")
	script := fmt.Sprintf(collectSectionsScript, jsonEncode(pattern))
	var raw rawSections
	if err := doc.Evaluate(ctx, script, &raw); err != nil {
		return report, fmt.Errorf("%s section scan failed: %w", category, err)
	}

	for _, rr := range raw.Regions {
		report.Regions = append(report.Regions, RegionCandidate{
			Selector: elementSelector(rr.ID, rr.Class, rr.Tag, "body", rr.NthOfType, rr.ClassMatches),
			Tag:      rr.Tag,
			Matched:  rr.Matched,
		})
	}
	for _, rl := range raw.Links {
		report.Links = append(report.Links, LinkCandidate{
			Selector: elementSelector(rl.ID, rl.Class, rl.Tag, "body", rl.NthOfType, rl.ClassMatches),
			Text:     rl.Text,
			Href:     rl.Href,
		})
	}

	forms, err := e.ScanForms(ctx, doc, filter)
	if err != nil {
		return report, err
	}
	report.Forms = forms

	e.log.Info("Section scan complete.",
		zap.String("category", category),
		zap.Int("regions", len(report.Regions)),
		zap.Int("links", len(report.Links)),
		zap.Int("forms", len(report.Forms)))
	return report, nil
}
