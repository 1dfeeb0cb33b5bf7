// Package steps implements Cucumber step definitions for driving HTTP
// requests against a REST API and asserting on the responses, without
// writing request or assertion code per test.
//
// Each scenario owns an [Engine] which accumulates request state (base URL,
// headers, query parameters, body) across steps, executes requests and keeps
// the most recent response for later assertions. Values extracted from a
// response can be stored in the scenario scope and referenced from later
// steps as `$alias` dynamic parameters.
package steps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/skanderkefi/cucumber-rest-api/scope"
)

// Doer executes a single HTTP request. It is satisfied by [http.Client] and
// lets callers inject their own transport configuration (timeouts, TLS,
// redirect policy etc.), none of which is handled at this layer.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// writeMethods are the HTTP methods that carry a request body. The pending
// body is never sent for any other method, even if one was set.
var writeMethods = map[string]bool{
	http.MethodPost:  true,
	http.MethodPut:   true,
	http.MethodPatch: true,
}

// A Response is the captured result of the most recent request.
type Response struct {
	Headers    http.Header // Response headers
	Body       string      // Raw response body text
	StatusCode int         // HTTP status code
}

// Engine accumulates HTTP request state over the steps of a single scenario,
// executes requests and evaluates assertions against the captured response.
//
// An Engine (and the scope it owns) must not be shared between concurrently
// running scenarios.
type Engine struct {
	client     Doer
	logger     *zap.Logger
	scope      *scope.Scope
	headers    http.Header
	query      map[string]string
	response   *Response
	baseURL    string
	body       string
	queryOrder []string
	hasBody    bool
}

// New returns a new [Engine], ready to accumulate request state.
func New(options ...Option) *Engine {
	engine := &Engine{
		client:  &http.Client{},
		logger:  zap.NewNop(),
		scope:   scope.New(),
		headers: make(http.Header),
		query:   make(map[string]string),
	}

	for _, option := range options {
		option(engine)
	}

	return engine
}

// Scope returns the scenario scope this engine stores values in and resolves
// dynamic parameters against.
func (e *Engine) Scope() *scope.Scope {
	return e.scope
}

// Response returns the captured response of the most recent request, or an
// error if no request has been made yet.
func (e *Engine) Response() (*Response, error) {
	if e.response == nil {
		return nil, errors.New("no response captured yet, make a request first")
	}

	return e.response, nil
}

// SetBaseURL sets the base URL prepended to relative resource paths.
func (e *Engine) SetBaseURL(base string) error {
	if base == "" {
		return errors.New("base url must not be empty")
	}

	e.baseURL = base
	return nil
}

// SetHeader resolves any `$alias` references in value against stored header
// aliases, then sets the header, replacing any previous values for that name.
func (e *Engine) SetHeader(name, value string) error {
	if name == "" {
		return errors.New("header name must not be empty")
	}
	if value == "" {
		return fmt.Errorf("value for header %q must not be empty", name)
	}

	resolved, err := resolveParams(value, e.scope, scope.KindHeader)
	if err != nil {
		return fmt.Errorf("resolving value for header %q: %w", name, err)
	}

	e.headers.Set(name, resolved)
	return nil
}

// AddHeaders merges the given headers into the accumulated request headers,
// appending to any existing values for each name.
func (e *Engine) AddHeaders(headers map[string]string) error {
	if len(headers) == 0 {
		return errors.New("headers must not be empty")
	}

	for _, name := range slices.Sorted(maps.Keys(headers)) {
		e.headers.Add(name, headers[name])
	}

	return nil
}

// AddQueryParams merges the given parameters into the accumulated query
// parameters. Last write wins per name, a name's first insertion fixes its
// position in the encoded query string.
func (e *Engine) AddQueryParams(params map[string]string) error {
	if len(params) == 0 {
		return errors.New("query parameters must not be empty")
	}

	for _, name := range slices.Sorted(maps.Keys(params)) {
		if _, ok := e.query[name]; !ok {
			e.queryOrder = append(e.queryOrder, name)
		}
		e.query[name] = params[name]
	}

	return nil
}

// SetBody resolves any `$alias` references in raw against stored JSON path
// aliases, validates that the result parses as JSON and stores the resolved
// text as the pending request body.
//
// The body is transmitted byte for byte as resolved, parsing is validation
// only.
func (e *Engine) SetBody(raw string) error {
	if raw == "" {
		return errors.New("request body must not be empty")
	}

	resolved, err := resolveParams(raw, e.scope, scope.KindJSONPath)
	if err != nil {
		return fmt.Errorf("resolving request body: %w", err)
	}

	if _, err := parseJSON(resolved); err != nil {
		return fmt.Errorf("request body is not valid json: %w", err)
	}

	e.body = resolved
	e.hasBody = true
	return nil
}

// Request resolves any `$alias` references in resource against stored JSON
// path aliases, builds the full URL from the base URL, the resource path and
// the accumulated query parameters, executes the request and captures the
// response, discarding any previous one.
//
// The pending body is attached for POST, PUT and PATCH only. Transport
// failures are returned as-is, there is no retry.
func (e *Engine) Request(ctx context.Context, resource, method string) error {
	if resource == "" {
		return errors.New("resource must not be empty")
	}
	if method == "" {
		return errors.New("method must not be empty")
	}

	resolved, err := resolveParams(resource, e.scope, scope.KindJSONPath)
	if err != nil {
		return fmt.Errorf("resolving resource %q: %w", resource, err)
	}

	method = strings.ToUpper(method)

	var body io.Reader
	if e.hasBody && writeMethods[method] {
		body = strings.NewReader(e.body)
	}

	request, err := http.NewRequestWithContext(ctx, method, e.buildURL(resolved), body)
	if err != nil {
		return err
	}

	for name, values := range e.headers {
		for _, value := range values {
			request.Header.Add(name, value)
		}
	}

	e.logger.Debug(
		"sending request",
		zap.String("method", method),
		zap.String("url", request.URL.String()),
		zap.Bool("body", body != nil),
	)

	response, err := e.client.Do(request)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, request.URL, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	e.response = &Response{
		StatusCode: response.StatusCode,
		Headers:    response.Header.Clone(),
		Body:       string(raw),
	}

	e.logger.Debug(
		"received response",
		zap.Int("status", response.StatusCode),
		zap.Int("bytes", len(raw)),
	)

	return nil
}

// buildURL assembles baseURL + resource plus the encoded query parameters in
// first-insertion order.
//
// url.Values is not used here as Encode sorts parameters by key.
func (e *Engine) buildURL(resource string) string {
	full := e.baseURL + resource
	if len(e.queryOrder) == 0 {
		return full
	}

	pairs := make([]string, 0, len(e.queryOrder))
	for _, name := range e.queryOrder {
		pairs = append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(e.query[name]))
	}

	separator := "?"
	if strings.Contains(full, "?") {
		separator = "&"
	}

	return full + separator + strings.Join(pairs, "&")
}
