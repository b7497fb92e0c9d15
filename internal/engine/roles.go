// internal/engine/roles.go
package engine

import (
	"regexp"
	"strings"
)

// fieldSignals carries the raw textual attributes a role decision is based
// on. All fields are optional; absent attributes are empty strings.
type fieldSignals struct {
	Tag         string
	InputType   string
	Name        string
	ID          string
	Placeholder string
}

// typeRoles maps explicit input type attributes straight to a role. The type
// attribute outranks every keyword heuristic: a password-typed field whose
// name mentions "username" is still a password field.
var typeRoles = map[string]Role{
	"email":    RoleEmail,
	"password": RolePassword,
	"tel":      RolePhone,
	"url":      RoleURL,
	"number":   RoleNumber,
	"date":     RoleDate,
}

var (
	reEmail     = regexp.MustCompile(`(?i)e[-_]?mail`)
	rePassword  = regexp.MustCompile(`(?i)pass(word|wd|code)?`)
	reUsername  = regexp.MustCompile(`(?i)user([-_]?name)?|login`)
	rePhone     = regexp.MustCompile(`(?i)phone|mobile|tel(ephone)?`)
	reMessage   = regexp.MustCompile(`(?i)message|comment|inquiry|enquiry|feedback|description`)
	reFirstName = regexp.MustCompile(`(?i)first[-_ ]?name|fname|given[-_ ]?name`)
	reLastName  = regexp.MustCompile(`(?i)last[-_ ]?name|lname|surname|family[-_ ]?name`)
	reName      = regexp.MustCompile(`(?i)name`)
	reSubject   = regexp.MustCompile(`(?i)subject|topic|title`)
	reCompany   = regexp.MustCompile(`(?i)company|organi[sz]ation|business`)
	reAddress   = regexp.MustCompile(`(?i)address|street|city|zip|postal`)
)

// roleRule pairs a predicate with the role it selects.
type roleRule struct {
	role Role
	test func(sig fieldSignals, text string) bool
}

func matches(re *regexp.Regexp) func(fieldSignals, string) bool {
	return func(_ fieldSignals, text string) bool { return re.MatchString(text) }
}

// roleRules is the ordered rule table for keyword classification. Rules are
// independent regex tests, not mutually exclusive categories, so they are
// evaluated top to bottom and the first match wins. The order is a designed
// tie-break ("email" beats "username" beats "name") and must not be
// reshuffled without changing classification results.
var roleRules = []roleRule{
	{RoleEmail, matches(reEmail)},
	{RolePassword, matches(rePassword)},
	{RoleUsername, matches(reUsername)},
	{RolePhone, matches(rePhone)},
	// A multi-line text area counts as a message field even without a
	// message-like keyword.
	{RoleMessage, func(sig fieldSignals, text string) bool {
		return reMessage.MatchString(text) || strings.EqualFold(sig.Tag, "textarea")
	}},
	{RoleFirstName, matches(reFirstName)},
	{RoleLastName, matches(reLastName)},
	{RoleFullName, matches(reName)},
	{RoleSubject, matches(reSubject)},
	{RoleCompany, matches(reCompany)},
	{RoleAddress, matches(reAddress)},
}

// ClassifyRole maps a field's raw attributes to exactly one Role. It is a
// pure function and cannot fail: anything unmatched is RoleGeneric.
func ClassifyRole(sig fieldSignals) Role {
	if role, ok := typeRoles[strings.ToLower(sig.InputType)]; ok {
		return role
	}
	text := strings.ToLower(strings.Join([]string{sig.Name, sig.ID, sig.Placeholder}, " "))
	for _, rule := range roleRules {
		if rule.test(sig, text) {
			return rule.role
		}
	}
	return RoleGeneric
}
