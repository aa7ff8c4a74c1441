package views

// Data is the auxiliary key-value bag supplied to a template beyond its
// primary model. Keys are unique; insertion order is irrelevant.
type Data map[string]any

// FormErrorKey is the ValidationState key for form-level errors that are
// not tied to a single field.
const FormErrorKey = ""

// ValidationState maps field names to one or more error messages.
// The FormErrorKey entry holds form-level errors.
type ValidationState map[string][]string

// Field returns the error messages for a field, or nil if there are none.
func (s ValidationState) Field(name string) []string {
	return s[name]
}

// Has reports whether the field has at least one error.
func (s ValidationState) Has(name string) bool {
	return len(s[name]) > 0
}

// Any reports whether the state contains any error at all.
func (s ValidationState) Any() bool {
	for _, msgs := range s {
		if len(msgs) > 0 {
			return true
		}
	}
	return false
}

// Form returns the form-level error messages.
func (s ValidationState) Form() []string {
	return s[FormErrorKey]
}

// Scope is the root object a template executes against. The model and the
// view-data bag never collide: user data lives under Data, the reserved
// validation lookup lives under Errors.
type Scope struct {
	Model  any
	Data   Data
	Errors ValidationState
}
