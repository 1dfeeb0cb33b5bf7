// Package scope implements the scenario scope, a per-scenario store of named
// values captured by earlier steps (response headers and JSON path results)
// so that later steps can refer to them by alias.
package scope

// Kind selects which of the scope's two stores an alias lives in.
type Kind int

const (
	// KindHeader aliases hold response header value sequences.
	KindHeader Kind = iota

	// KindJSONPath aliases hold JSON values extracted from response bodies.
	KindJSONPath
)

// A Scope holds the named results of a single scenario's earlier steps.
//
// One Scope must be created per running scenario so that values never leak
// from one scenario to the next. Storing to an existing alias overwrites it,
// there is no removal.
type Scope struct {
	headers   map[string][]string
	jsonPaths map[string]any
}

// New returns a new empty [Scope].
func New() *Scope {
	return &Scope{
		headers:   make(map[string][]string),
		jsonPaths: make(map[string]any),
	}
}

// PutHeader stores a header value sequence under the given alias.
func (s *Scope) PutHeader(alias string, values []string) {
	s.headers[alias] = values
}

// PutJSONPath stores a JSON value under the given alias.
func (s *Scope) PutJSONPath(alias string, value any) {
	s.jsonPaths[alias] = value
}

// Header looks up a stored header value sequence by alias.
func (s *Scope) Header(alias string) ([]string, bool) {
	values, ok := s.headers[alias]
	return values, ok
}

// JSONPath looks up a stored JSON value by alias.
func (s *Scope) JSONPath(alias string) (any, bool) {
	value, ok := s.jsonPaths[alias]
	return value, ok
}

// Get looks up an alias in the store selected by kind.
func (s *Scope) Get(kind Kind, alias string) (any, bool) {
	switch kind {
	case KindHeader:
		values, ok := s.headers[alias]
		if !ok {
			return nil, false
		}
		return values, true
	case KindJSONPath:
		value, ok := s.jsonPaths[alias]
		return value, ok
	default:
		return nil, false
	}
}
