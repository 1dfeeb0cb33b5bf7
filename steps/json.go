package steps

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// parseJSON decodes text into the generic JSON document shape used throughout
// the engine: map[string]any, []any, string, float64, bool or nil.
func parseJSON(text string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, err
	}

	return value, nil
}

// jsonValueMatches reports whether a value evaluated from a JSON path matches
// the expected step text, comparing under JSON semantics rather than the
// runtime type of the actual value.
//
// When the actual value is a string the expected text is compared verbatim
// (and, failing that, as a JSON quoted string) so that the string "42" and
// the number 42 stay distinct. Anything else requires the expected text to
// parse as JSON and compares structurally.
func jsonValueMatches(actual any, expected string) bool {
	if s, ok := actual.(string); ok {
		if s == expected {
			return true
		}

		var quoted string
		if err := json.Unmarshal([]byte(expected), &quoted); err == nil {
			return s == quoted
		}

		return false
	}

	want, err := parseJSON(expected)
	if err != nil {
		return false
	}

	return reflect.DeepEqual(actual, want)
}

// renderJSON renders a value as compact JSON for error messages.
func renderJSON(value any) string {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}

	return string(raw)
}
