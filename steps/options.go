package steps

import (
	"go.uber.org/zap"

	"github.com/skanderkefi/cucumber-rest-api/scope"
)

// Option configures an [Engine].
type Option func(*Engine)

// WithBaseURL sets the base URL prepended to relative resource paths, e.g.
// "https://api.example.com". Resources beginning with a scheme may leave it
// empty.
func WithBaseURL(base string) Option {
	return func(e *Engine) {
		e.baseURL = base
	}
}

// WithClient sets the HTTP client used to execute requests. Timeouts, TLS and
// redirect behaviour are all configured on the client, not the engine.
func WithClient(client Doer) Option {
	return func(e *Engine) {
		e.client = client
	}
}

// WithLogger sets the logger used for debug output. The default discards
// everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithScope sets the scenario scope, replacing the fresh one the engine
// creates for itself. Useful for seeding aliases before a scenario runs.
func WithScope(sc *scope.Scope) Option {
	return func(e *Engine) {
		e.scope = sc
	}
}
