// internal/engine/values.go
package engine

// testValues is the closed, static table of safe fill literals. One fixed,
// non-sensitive value per role: no randomness, no environment lookups, and
// never real personal data. First/last name sub-roles carry their own
// entries so a split name pair still reads like one coherent person.
var testValues = map[Role]string{
	RoleEmail:     "testuser@example.com",
	RolePassword:  "TestPassword123!",
	RoleUsername:  "testuser",
	RoleFullName:  "Taylor Tester",
	RoleFirstName: "Taylor",
	RoleLastName:  "Tester",
	RolePhone:     "+1-555-123-4567",
	RoleMessage:   "This is an automated test message. Please disregard.",
	RoleSubject:   "Automated test inquiry",
	RoleCompany:   "Example Corp",
	RoleAddress:   "123 Test Street, Example City",
	RoleURL:       "https://example.com",
	RoleDate:      "2024-01-15",
	RoleNumber:    "42",
	RoleGeneric:   "test input",
}

// ValueFor returns the fixed test literal for a role. Deterministic, total,
// side-effect free: an unknown role gets the generic literal.
func ValueFor(role Role) string {
	if v, ok := testValues[role]; ok {
		return v
	}
	return testValues[RoleGeneric]
}

// valueForField picks the value to fill into one field. Configured
// credentials take over the identity fields of an auth form; everything else
// uses the static table.
func (e *Engine) valueForField(form FormDescriptor, field FieldDescriptor) string {
	if form.IsAuthForm && e.creds.Set() {
		switch field.Role {
		case RoleUsername, RoleEmail:
			return e.creds.Username
		case RolePassword:
			return e.creds.Password
		}
	}
	return ValueFor(field.Role)
}
