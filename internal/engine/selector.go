// internal/engine/selector.go
package engine

import (
	"fmt"
	"strings"
)

// SynthesizeSelector derives a selector string for an element from its raw id
// and class attributes, falling back to a structural expression built from
// the element's position among same-tag siblings inside its container.
//
// Preference order: "#id" when id is non-empty, then "." + the first
// whitespace-delimited class token, then "container tag:nth-of-type(n)".
//
// The function is total: it always returns a non-empty selector. Uniqueness
// is best-effort only: multiple elements sharing the same first class token
// collide. The scanner checks the class-token selector's live match count
// and escalates to the structural fallback on collision, but the weak
// guarantee is inherent to the class-token strategy and is not otherwise
// papered over.
func SynthesizeSelector(id, className, tag, container string, nthOfType int) string {
	if id != "" {
		return "#" + id
	}
	if token := firstClassToken(className); token != "" {
		return "." + token
	}
	return structuralSelector(tag, container, nthOfType)
}

// structuralSelector builds the positional fallback selector.
func structuralSelector(tag, container string, nthOfType int) string {
	if nthOfType < 1 {
		nthOfType = 1
	}
	if tag == "" {
		tag = "*"
	}
	sel := fmt.Sprintf("%s:nth-of-type(%d)", strings.ToLower(tag), nthOfType)
	if container == "" {
		return sel
	}
	return container + " " + sel
}

// firstClassToken returns the first whitespace-delimited token of a class
// attribute, or "" when the attribute is empty. Only the first token is used;
// this is a known precision loss.
func firstClassToken(className string) string {
	for _, token := range strings.Fields(className) {
		return token
	}
	return ""
}
