// Package validate checks struct fields against `validate` tags. Error maps
// are keyed by json field name so forms can mark the offending input.
//
// Rules, comma-separated, first failure per field wins:
//
//	required          not zero; whitespace-only strings count as empty
//	nullable          empty value skips the remaining rules
//	in=a|b            value is one of the listed items
//	min=n             number ≥ n, or string/slice length ≥ n
//	confirmed=field   equal to the sibling with json name field
//
//	type ShippingInput struct {
//	    Address string `json:"address" validate:"required"`
//	}
//	type PasswordInput struct {
//	    Password string `json:"password"`
//	    Confirm  string `json:"confirmPassword" validate:"confirmed=password"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type check func(field string, v, parent reflect.Value, param string) string

var rules = map[string]check{
	"required":  required,
	"in":        oneOf,
	"min":       atLeast,
	"confirmed": confirmed,
}

// Struct validates the tagged exported fields of v (a struct or pointer to
// one). The returned map is empty when v is valid.
func Struct(v any) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("validate")
		if tag == "" || !f.IsExported() {
			continue
		}
		value := rv.Field(i)
		name := jsonName(f)

		for _, rule := range strings.Split(tag, ",") {
			key, param, _ := strings.Cut(strings.TrimSpace(rule), "=")
			if key == "nullable" {
				if isEmpty(value) {
					break
				}
				continue
			}
			fn, ok := rules[key]
			if !ok {
				continue
			}
			if msg := fn(name, value, rv, param); msg != "" {
				errs[name] = msg
				break
			}
		}
	}
	return errs
}

func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func required(field string, v, _ reflect.Value, _ string) string {
	if isEmpty(v) {
		return field + " is required"
	}
	return ""
}

func oneOf(field string, v, _ reflect.Value, param string) string {
	raw := fmt.Sprint(v.Interface())
	allowed := strings.Split(param, "|")
	for _, a := range allowed {
		if raw == a {
			return ""
		}
	}
	return fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", "))
}

func atLeast(field string, v, _ reflect.Value, param string) string {
	n, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return ""
	}
	var got float64
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		got = float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		got = float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		got = v.Float()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		if float64(v.Len()) < n {
			return fmt.Sprintf("%s must have at least %s characters", field, param)
		}
		return ""
	default:
		return ""
	}
	if got < n {
		return fmt.Sprintf("%s must be at least %s", field, param)
	}
	return ""
}

func confirmed(field string, v, parent reflect.Value, param string) string {
	other, ok := sibling(parent, param)
	if !ok || fmt.Sprint(other.Interface()) != fmt.Sprint(v.Interface()) {
		return field + " does not match " + param
	}
	return ""
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	default:
		return v.IsZero()
	}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

func sibling(parent reflect.Value, name string) (reflect.Value, bool) {
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if jsonName(rt.Field(i)) == name {
			return parent.Field(i), true
		}
	}
	return reflect.Value{}, false
}
