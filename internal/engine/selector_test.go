// internal/engine/selector_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynthesizeSelector(t *testing.T) {
	testCases := []struct {
		name      string
		id        string
		className string
		tag       string
		container string
		nthOfType int
		expected  string
	}{
		{
			name:     "id wins over everything",
			id:       "email-field", className: "form-control wide", tag: "input",
			container: "#contact", nthOfType: 3,
			expected: "#email-field",
		},
		{
			name:      "first class token when no id",
			className: "form-control wide", tag: "input",
			container: "#contact", nthOfType: 3,
			expected: ".form-control",
		},
		{
			name: "structural fallback when both absent",
			tag:  "input", container: "#contact form:nth-of-type(1)", nthOfType: 2,
			expected: "#contact form:nth-of-type(1) input:nth-of-type(2)",
		},
		{
			name: "structural without container",
			tag:  "textarea", nthOfType: 1,
			expected: "textarea:nth-of-type(1)",
		},
		{
			name:      "whitespace-only class falls through",
			className: "   ", tag: "select", container: "body", nthOfType: 4,
			expected: "body select:nth-of-type(4)",
		},
		{
			name:     "totality with no signals at all",
			expected: "*:nth-of-type(1)",
		},
		{
			name: "non-positive position clamps to one",
			tag:  "input", container: "body", nthOfType: 0,
			expected: "body input:nth-of-type(1)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SynthesizeSelector(tc.id, tc.className, tc.tag, tc.container, tc.nthOfType)
			assert.Equal(t, tc.expected, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestFirstClassToken(t *testing.T) {
	assert.Equal(t, "btn", firstClassToken("btn btn-primary large"))
	assert.Equal(t, "solo", firstClassToken("  solo  "))
	assert.Equal(t, "", firstClassToken(""))
	assert.Equal(t, "", firstClassToken("   "))
}

// elementSelector escalates an ambiguous class token to the structural form
// but leaves unique tokens and ids alone.
func TestElementSelectorCollisionEscalation(t *testing.T) {
	// Unique token keeps the class selector.
	assert.Equal(t, ".form-control",
		elementSelector("", "form-control", "input", "#f", 2, 1))
	// Colliding token escalates.
	assert.Equal(t, "#f input:nth-of-type(2)",
		elementSelector("", "form-control", "input", "#f", 2, 5))
	// An id is never escalated, collisions or not.
	assert.Equal(t, "#email",
		elementSelector("email", "form-control", "input", "#f", 2, 5))
}
