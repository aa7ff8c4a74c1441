package sanitizer

import (
	"errors"
	"reflect"
)

// ErrNotStructPointer is returned when SanitizeStruct receives anything
// other than a non-nil pointer to a struct.
var ErrNotStructPointer = errors.New("sanitizer: expected pointer to struct")

// SanitizeStruct sanitizes string fields in place according to their
// `sanitize` tag:
//
//	sanitize:"strict" — strip all HTML (default for untagged strings)
//	sanitize:"safe"   — allow basic formatting tags
//	sanitize:"-"      — leave the field untouched
//
// Non-string fields and unexported fields are skipped. Nested structs are
// sanitized recursively.
func SanitizeStruct(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotStructPointer
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return ErrNotStructPointer
	}

	sanitizeValue(rv)
	return nil
}

func sanitizeValue(rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("sanitize")
		if tag == "-" {
			continue
		}

		fv := rv.Field(i)
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(sanitizeString(fv.String(), tag))
		case reflect.Slice:
			if fv.Type().Elem().Kind() == reflect.String {
				for j := 0; j < fv.Len(); j++ {
					el := fv.Index(j)
					el.SetString(sanitizeString(el.String(), tag))
				}
			}
		case reflect.Struct:
			sanitizeValue(fv)
		case reflect.Pointer:
			if !fv.IsNil() && fv.Elem().Kind() == reflect.Struct {
				sanitizeValue(fv.Elem())
			}
		}
	}
}

func sanitizeString(s, tag string) string {
	if tag == "safe" {
		return SanitizeHTML(s)
	}
	return Strip(s)
}
