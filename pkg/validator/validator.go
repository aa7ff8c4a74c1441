package validator

import (
	"fmt"
	"net/mail"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValidationError describes a single failed rule on a single field.
type ValidationError struct {
	Field   string
	Message string
	Rule    string
}

// ValidationErrors is a collection of validation errors. A nil or empty
// collection means the input was valid.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validator: no errors"
	}
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = ve.Field + ": " + ve.Message
	}
	return "validator: " + strings.Join(parts, "; ")
}

// IsEmpty reports whether the collection holds no errors.
func (e ValidationErrors) IsEmpty() bool {
	return len(e) == 0
}

// Has reports whether the field has at least one error.
func (e ValidationErrors) Has(field string) bool {
	for _, ve := range e {
		if ve.Field == field {
			return true
		}
	}
	return false
}

// Add appends a manual error for a field. Use an empty field name for
// form-level errors.
func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, ValidationError{Field: field, Message: message, Rule: "manual"})
}

// Fields groups the error messages by field name, the shape template
// validation lookups consume.
func (e ValidationErrors) Fields() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e))
	for _, ve := range e {
		out[ve.Field] = append(out[ve.Field], ve.Message)
	}
	return out
}

// IsValidationError reports whether err carries validation failures as
// opposed to a system error.
func IsValidationError(err error) bool {
	_, ok := err.(ValidationErrors)
	return ok
}

// ExtractValidationErrors returns the ValidationErrors inside err, or nil.
func ExtractValidationErrors(err error) ValidationErrors {
	if ve, ok := err.(ValidationErrors); ok {
		return ve
	}
	return nil
}

// ValidateStruct validates exported fields against their `validate` tag.
// Supported rules, comma-separated: required, email, min=N, max=N (rune
// length for strings, value for integers). Returns ValidationErrors when
// any rule fails, a plain error on misuse, and nil when the struct is
// valid.
func ValidateStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return fmt.Errorf("validator: nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("validator: expected struct, got %s", rv.Kind())
	}

	var errs ValidationErrors
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("validate")
		if tag == "" || tag == "-" {
			continue
		}

		name := fieldName(field)
		fv := rv.Field(i)
		for _, rule := range strings.Split(tag, ",") {
			if ve, ok := checkRule(name, fv, strings.TrimSpace(rule)); !ok {
				errs = append(errs, ve)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// fieldName prefers the form tag so error keys line up with template
// lookups and re-rendered form fields.
func fieldName(field reflect.StructField) string {
	if tag := field.Tag.Get("form"); tag != "" && tag != "-" {
		return strings.Split(tag, ",")[0]
	}
	return field.Name
}

func checkRule(name string, fv reflect.Value, rule string) (ValidationError, bool) {
	arg := ""
	if i := strings.IndexByte(rule, '='); i >= 0 {
		rule, arg = rule[:i], rule[i+1:]
	}

	switch rule {
	case "required":
		if fv.IsZero() {
			return ValidationError{Field: name, Message: name + " is required", Rule: "required"}, false
		}
	case "email":
		s := fv.String()
		if s != "" {
			if _, err := mail.ParseAddress(s); err != nil {
				return ValidationError{Field: name, Message: name + " must be a valid email address", Rule: "email"}, false
			}
		}
	case "min":
		n, _ := strconv.Atoi(arg)
		if !atLeast(fv, n) {
			return ValidationError{Field: name, Message: fmt.Sprintf("%s must be at least %d", name, n), Rule: "min"}, false
		}
	case "max":
		n, _ := strconv.Atoi(arg)
		if !atMost(fv, n) {
			return ValidationError{Field: name, Message: fmt.Sprintf("%s must be at most %d", name, n), Rule: "max"}, false
		}
	}
	return ValidationError{}, true
}

func atLeast(fv reflect.Value, n int) bool {
	switch fv.Kind() {
	case reflect.String:
		return fv.String() == "" || utf8.RuneCountInString(fv.String()) >= n
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fv.Int() >= int64(n)
	case reflect.Slice:
		return fv.Len() >= n
	}
	return true
}

func atMost(fv reflect.Value, n int) bool {
	switch fv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(fv.String()) <= n
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fv.Int() <= int64(n)
	case reflect.Slice:
		return fv.Len() <= n
	}
	return true
}
