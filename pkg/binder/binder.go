// Package binder populates request structs from HTTP form and query
// parameters using struct tags.
package binder

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
)

// Default memory limit for multipart form parsing.
const maxMultipartMemory = 32 << 20

var (
	// ErrNotStructPointer is returned when the bind target is not a
	// non-nil pointer to a struct.
	ErrNotStructPointer = errors.New("binder: target must be a non-nil struct pointer")
	// ErrUnsupportedType is returned for struct fields whose type the
	// binder cannot populate.
	ErrUnsupportedType = errors.New("binder: unsupported field type")
)

// BindFunc binds request data into the target struct.
type BindFunc func(r *http.Request, v any) error

// Form parses the request body (urlencoded or multipart) and binds
// fields tagged `form` into v.
func Form() BindFunc {
	return func(r *http.Request, v any) error {
		if err := parseForm(r); err != nil {
			return fmt.Errorf("binder: parse form: %w", err)
		}
		return bindValues(r.Form, v, "form")
	}
}

// Query binds URL query parameters into fields tagged `query`.
func Query() BindFunc {
	return func(r *http.Request, v any) error {
		return bindValues(r.URL.Query(), v, "query")
	}
}

func parseForm(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if len(ct) >= 19 && ct[:19] == "multipart/form-data" {
		return r.ParseMultipartForm(maxMultipartMemory)
	}
	return r.ParseForm()
}

func bindValues(values url.Values, v any, tag string) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotStructPointer
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return ErrNotStructPointer
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Tag.Get(tag)
		if name == "" || name == "-" {
			continue
		}

		raw, ok := values[name]
		if !ok {
			// Unchecked checkboxes never appear in the payload.
			if field.Type.Kind() == reflect.Bool {
				rv.Field(i).SetBool(false)
			}
			continue
		}

		if err := setField(rv.Field(i), raw); err != nil {
			return fmt.Errorf("binder: field %q: %w", name, err)
		}
	}
	return nil
}

func setField(fv reflect.Value, raw []string) error {
	if len(raw) == 0 {
		return nil
	}
	first := raw[0]

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(first)
	case reflect.Bool:
		// Browsers send "on" for checked boxes without a value attr.
		if first == "on" {
			fv.SetBool(true)
			return nil
		}
		b, err := strconv.ParseBool(first)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if first == "" {
			return nil
		}
		n, err := strconv.ParseInt(first, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Float32, reflect.Float64:
		if first == "" {
			return nil
		}
		f, err := strconv.ParseFloat(first, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return ErrUnsupportedType
		}
		fv.Set(reflect.ValueOf(append([]string(nil), raw...)))
	default:
		return ErrUnsupportedType
	}
	return nil
}
