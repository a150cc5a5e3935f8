// Package bind decodes a request body into a struct and validates it.
//
// JSON bodies and HTML form posts are both accepted, so the local screens
// can be driven from curl or from a plain <form>.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// maxBodyBytes returns the configured request body size limit (default 1 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return n
}

// Request decodes r by Content-Type and validates dest.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed or too large.
func Request(r *http.Request, dest any) (map[string]string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return Form(r, dest)
	default:
		return JSON(r, dest)
	}
}

// JSON decodes r.Body as JSON into dest and runs validation. An empty body
// decodes to the zero value.
func JSON(r *http.Request, dest any) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return check(dest), nil
}

// Form fills string, bool and int fields of dest from form values keyed by
// each field's json name.
func Form(r *http.Request, dest any) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind: dest must be a pointer to a struct, got %T", dest)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" || !f.IsExported() {
			continue
		}
		if !r.Form.Has(name) {
			continue
		}
		val := r.Form.Get(name)
		fv := rv.Field(i)
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(val)
		case reflect.Bool:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return nil, fmt.Errorf("invalid form: %s: %w", name, err)
			}
			fv.SetBool(b)
		case reflect.Int, reflect.Int64, reflect.Int32:
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid form: %s: %w", name, err)
			}
			fv.SetInt(n)
		}
	}
	return check(dest), nil
}

func check(dest any) map[string]string {
	errs := validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs
	}
	return nil
}
