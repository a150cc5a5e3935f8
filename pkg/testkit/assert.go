package testkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertJSON compares two JSON documents after normalising both, so key
// order and whitespace never matter.
func AssertJSON(t *testing.T, expected, actual []byte, msgAndArgs ...any) bool {
	t.Helper()

	var expVal, actVal any
	require.NoError(t, json.Unmarshal(expected, &expVal), "expected is not valid JSON")
	if !assert.NoError(t, json.Unmarshal(actual, &actVal), "actual is not valid JSON\nbody: %s", string(actual)) {
		return false
	}
	if !assert.Equal(t, expVal, actVal, msgAndArgs...) {
		for _, d := range DiffJSON("", expVal, actVal) {
			t.Log(d)
		}
		return false
	}
	return true
}

// AssertCallBody checks the JSON body of the last call to key.
func AssertCallBody(t *testing.T, b *Backend, key string, expected any) {
	t.Helper()

	call, ok := b.Last(key)
	if !assert.True(t, ok, "no call to %s", key) {
		return
	}
	want, err := json.Marshal(expected)
	require.NoError(t, err)
	AssertJSON(t, want, call.Body, "body of %s", key)
}

// AssertAllCalled fails for each registered route that was never hit.
func (b *Backend) AssertAllCalled(t *testing.T) {
	t.Helper()
	for _, key := range b.Uncalled() {
		assert.Fail(t, "route never called", key)
	}
}

// DiffJSON returns a list of human-readable difference strings between two
// JSON-decoded values.
func DiffJSON(path string, expected, actual interface{}) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprintf("%v", expected) != fmt.Sprintf("%v", actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
