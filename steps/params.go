package steps

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/skanderkefi/cucumber-rest-api/scope"
)

// paramPattern matches a dynamic parameter reference: a backtick, a dollar
// sign, the alias, and a closing backtick e.g. `$userId`.
var paramPattern = regexp.MustCompile("`\\$(.*?)`")

// maxResolvePasses bounds the resolution loop so that an alias chain which
// keeps producing new references cannot loop forever.
const maxResolvePasses = 64

// resolveParams replaces every `$alias` reference in s with the value stored
// under that alias in the given scope kind.
//
// References resolve left to right: the leftmost reference is looked up, all
// occurrences of that exact token are replaced, and the result is re-scanned,
// so substituted values may themselves carry further references. A reference
// to an alias that is not in scope is an error.
func resolveParams(s string, sc *scope.Scope, kind scope.Kind) (string, error) {
	for range maxResolvePasses {
		match := paramPattern.FindStringSubmatch(s)
		if match == nil {
			return s, nil
		}

		value, ok := sc.Get(kind, match[1])
		if !ok {
			return "", fmt.Errorf("no scenario variable named %q", match[1])
		}

		s = strings.ReplaceAll(s, match[0], stringify(value))
	}

	return "", fmt.Errorf(
		"dynamic parameters did not settle after %d passes, is there a reference cycle?",
		maxResolvePasses,
	)
}

// stringify renders a scope value for substitution into step text and for
// string comparison against expected step arguments.
//
// Strings are used verbatim, numbers render without an exponent, single
// valued header sequences flatten to their only element and anything else
// renders as JSON.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case []string:
		if len(v) == 1 {
			return v[0]
		}
		return strings.Join(v, ", ")
	default:
		return renderJSON(v)
	}
}
