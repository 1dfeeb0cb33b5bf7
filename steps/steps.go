package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Register wires the REST API step definitions into a godog scenario context
// and returns the engine backing them.
//
// godog invokes the scenario initializer for every scenario, so calling
// Register from one gives each scenario a fresh [Engine] and scope, and
// values never leak between scenarios:
//
//	suite := godog.TestSuite{
//		ScenarioInitializer: func(sc *godog.ScenarioContext) {
//			steps.Register(sc, steps.WithBaseURL("https://api.example.com"))
//		},
//	}
func Register(sc *godog.ScenarioContext, options ...Option) *Engine {
	engine := New(options...)

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		engine.logger.Debug(
			"starting scenario",
			zap.String("scenario", scenario.Name),
			zap.String("run_id", uuid.NewString()),
		)
		return ctx, nil
	})

	// Request building
	sc.Given(`^the base url is "([^"]*)"$`, engine.SetBaseURL)
	sc.Given(`^I set the header "([^"]*)" to "([^"]*)"$`, engine.SetHeader)
	sc.Given(`^I set the headers:$`, func(table *godog.Table) error {
		pairs, err := tablePairs(table)
		if err != nil {
			return err
		}
		for _, pair := range pairs {
			if err := engine.AddHeaders(map[string]string{pair.name: pair.value}); err != nil {
				return err
			}
		}
		return nil
	})
	sc.Given(`^I set the query parameters:$`, func(table *godog.Table) error {
		pairs, err := tablePairs(table)
		if err != nil {
			return err
		}
		for _, pair := range pairs {
			if err := engine.AddQueryParams(map[string]string{pair.name: pair.value}); err != nil {
				return err
			}
		}
		return nil
	})
	sc.Given(`^I set the request body to:$`, func(body *godog.DocString) error {
		return engine.SetBody(body.Content)
	})

	// Execution
	sc.When(
		`^I send a[n]? (GET|POST|PUT|PATCH|DELETE|HEAD|OPTIONS) request to "([^"]*)"$`,
		func(ctx context.Context, method, resource string) error {
			return engine.Request(ctx, resource, method)
		},
	)

	// Assertions and extraction
	sc.Then(`^the response status code should( not)? be (\d+)$`, func(not string, code int) error {
		return engine.CheckStatus(code, not != "")
	})
	sc.Then(`^the response header "([^"]*)" should exist$`, func(name string) error {
		_, err := engine.CheckHeaderExists(name, false)
		return err
	})
	sc.Then(`^the response header "([^"]*)" should not exist$`, func(name string) error {
		_, err := engine.CheckHeaderExists(name, true)
		return err
	})
	sc.Then(
		`^the response header "([^"]*)" should( not)? contain "([^"]*)"$`,
		func(name, not, value string) error {
			return engine.CheckHeaderEqual(name, value, not != "")
		},
	)
	sc.Then(`^the response body should be valid json$`, engine.CheckJSONBody)
	sc.Then(`^the response body should contain "([^"]*)"$`, engine.CheckBodyContains)
	sc.Then(`^the json path "([^"]*)" should exist$`, func(path string) error {
		_, err := engine.CheckJSONPathExists(path)
		return err
	})
	sc.Then(`^the json path "([^"]*)" should not exist$`, engine.CheckJSONPathDoesntExist)
	sc.Then(
		`^the json path "([^"]*)" should( not)? be "([^"]*)"$`,
		func(path, not, expected string) error {
			return engine.CheckJSONPath(path, expected, not != "")
		},
	)
	sc.Then(`^the json path "([^"]*)" should be an array$`, func(path string) error {
		return engine.CheckJSONPathIsArray(path, -1)
	})
	sc.Then(`^the json path "([^"]*)" should be an array of length (\d+)$`, engine.CheckJSONPathIsArray)
	sc.Then(`^I store the response header "([^"]*)" as "([^"]*)"$`, engine.StoreHeader)
	sc.Then(`^I store the json path "([^"]*)" as "([^"]*)"$`, engine.StoreJSONPath)
	sc.Then(`^the scenario variable "([^"]*)" should be "([^"]*)"$`, engine.CheckScenarioVariable)

	return engine
}

// tablePair is one row of a two column step table.
type tablePair struct {
	name  string
	value string
}

// tablePairs converts a two column godog table into name/value pairs,
// preserving row order.
func tablePairs(table *godog.Table) ([]tablePair, error) {
	if len(table.Rows) == 0 {
		return nil, errors.New("table must not be empty")
	}

	pairs := make([]tablePair, 0, len(table.Rows))
	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			return nil, fmt.Errorf("expected a name and a value per row, got %d cells", len(row.Cells))
		}
		pairs = append(pairs, tablePair{name: row.Cells[0].Value, value: row.Cells[1].Value})
	}

	return pairs, nil
}
