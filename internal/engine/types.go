// internal/engine/types.go
package engine

// Role is the classified semantic purpose of a form field. Classification is
// heuristic: it is derived from the field's type attribute and weak textual
// signals (name, id, placeholder), never from page semantics the markup does
// not carry.
type Role string

const (
	RoleEmail     Role = "email"
	RolePassword  Role = "password"
	RoleUsername  Role = "username"
	RoleFullName  Role = "full_name"
	RoleFirstName Role = "first_name"
	RoleLastName  Role = "last_name"
	RolePhone     Role = "phone"
	RoleMessage   Role = "message"
	RoleSubject   Role = "subject"
	RoleCompany   Role = "company"
	RoleAddress   Role = "address"
	RoleURL       Role = "url"
	RoleDate      Role = "date"
	RoleNumber    Role = "number"
	RoleGeneric   Role = "generic"
)

// FieldDescriptor is an immutable snapshot of one fillable form control taken
// at scan time. The live DOM may change immediately afterwards; any later
// selector-based operation re-resolves against current document state.
type FieldDescriptor struct {
	Tag         string `json:"tag"`
	InputType   string `json:"input_type,omitempty"`
	Name        string `json:"name,omitempty"`
	ID          string `json:"id,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required"`
	Visible     bool   `json:"visible"`
	Role        Role   `json:"role"`
	Selector    string `json:"selector"`
}

// FormDescriptor is an immutable snapshot of one <form> element, or of the
// whole document treated as a single implicit scope when the page has
// fillable controls outside any form.
type FormDescriptor struct {
	Selector      string            `json:"selector"`
	FormID        string            `json:"form_id,omitempty"`
	FormClass     string            `json:"form_class,omitempty"`
	Action        string            `json:"action,omitempty"`
	Method        string            `json:"method,omitempty"`
	Implicit      bool              `json:"implicit,omitempty"`
	Fields        []FieldDescriptor `json:"fields"`
	IsContactForm bool              `json:"is_contact_form"`
	IsAuthForm    bool              `json:"is_auth_form"`
}

// FillResult records the outcome of one fill attempt. Succeeded is exact
// string equality between the value we intended and the value the field held
// after the attempt (including the single direct-set retry).
type FillResult struct {
	Selector      string `json:"selector"`
	ExpectedValue string `json:"expected_value"`
	ObservedValue string `json:"observed_value"`
	Succeeded     bool   `json:"succeeded"`
	Error         string `json:"error,omitempty"`
}

// CandidateKind distinguishes how a submission control was discovered.
type CandidateKind string

const (
	// KindSubmitControl covers button[type=submit], input[type=submit] and
	// un-typed <button> elements, which default to submit semantics.
	KindSubmitControl CandidateKind = "submit-control"
	// KindHeuristicClickable covers elements whose class/id/onclick carry a
	// submit-like token.
	KindHeuristicClickable CandidateKind = "heuristic-clickable"
)

// SubmitCandidate is a discovered but unconfirmed submission control, ordered
// by discovery priority rather than DOM position.
type SubmitCandidate struct {
	Selector  string        `json:"selector"`
	Kind      CandidateKind `json:"kind"`
	Text      string        `json:"text,omitempty"`
	FormIndex int           `json:"form_index"`
}

// SubmitResult is the outcome of a submission attempt. A click that does not
// throw is treated as success; the caller verifies the resulting page state
// independently.
type SubmitResult struct {
	Succeeded bool             `json:"succeeded"`
	Method    string           `json:"method,omitempty"` // "click" or "programmatic"
	Candidate *SubmitCandidate `json:"candidate,omitempty"`
	Attempted int              `json:"attempted"`
	Error     string           `json:"error,omitempty"`
}

// RegionCandidate is a container element whose id, class or visible text
// matches a section keyword set. Advisory only; nothing acts on it.
type RegionCandidate struct {
	Selector string `json:"selector"`
	Tag      string `json:"tag"`
	Matched  string `json:"matched,omitempty"`
}

// LinkCandidate is an anchor whose text, title or href matches a section
// keyword set.
type LinkCandidate struct {
	Selector string `json:"selector"`
	Text     string `json:"text,omitempty"`
	Href     string `json:"href,omitempty"`
}

// SectionReport bundles everything a section locator found: candidate
// regions, candidate links and candidate forms. These are descriptions of
// what exists on the page, not directives.
type SectionReport struct {
	Category string            `json:"category"`
	Regions  []RegionCandidate `json:"regions"`
	Links    []LinkCandidate   `json:"links"`
	Forms    []FormDescriptor  `json:"forms"`
}

// TargetFilter narrows a scan to forms of one category.
type TargetFilter string

const (
	FilterAll     TargetFilter = "all"
	FilterContact TargetFilter = "contact"
	FilterAuth    TargetFilter = "auth"
)
