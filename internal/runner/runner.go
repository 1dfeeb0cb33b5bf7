// Package runner wires the step definitions into a godog test suite and runs
// Gherkin feature files against a target REST API.
package runner

import (
	"errors"
	"fmt"
	"io"

	"github.com/cucumber/godog"
	"go.followtheprocess.codes/hue"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/skanderkefi/cucumber-rest-api/steps"
)

// Runner holds the state of the program.
type Runner struct {
	stdout io.Writer // Suite output and the final summary
	stderr io.Writer // Logs and debug info
	logger *zap.Logger
}

// New returns a new [Runner]. If verbose is set, debug logs for every request
// and response are written to stderr.
func New(stdout, stderr io.Writer, verbose bool) Runner {
	logger := zap.NewNop()
	if verbose {
		encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		core := zapcore.NewCore(encoder, zapcore.AddSync(stderr), zapcore.DebugLevel)
		logger = zap.New(core)
	}

	return Runner{
		stdout: stdout,
		stderr: stderr,
		logger: logger,
	}
}

// Options are the settings for a single suite run.
type Options struct {
	BaseURL     string // Prepended to relative resource paths in feature files
	Format      string // godog output format e.g. "pretty", "progress"
	Tags        string // Tag expression filtering scenarios e.g. "@smoke && ~@wip"
	Concurrency int    // Number of scenarios to run in parallel
}

// Run executes the feature files under the given paths, returning an error if
// any scenario failed.
//
// Scenarios are isolated: each one gets its own engine and scope, so feature
// files may safely run concurrently when Concurrency is greater than 1.
func (r Runner) Run(paths []string, options Options) error {
	if len(paths) == 0 {
		return errors.New("no feature paths given")
	}

	format := options.Format
	if format == "" {
		format = "pretty"
	}

	concurrency := options.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	suite := godog.TestSuite{
		Name: "cucumber-rest-api",
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			steps.Register(
				sc,
				steps.WithBaseURL(options.BaseURL),
				steps.WithLogger(r.logger),
			)
		},
		Options: &godog.Options{
			Format:      format,
			Paths:       paths,
			Tags:        options.Tags,
			Concurrency: concurrency,
			Output:      r.stdout,
			Strict:      true,
		},
	}

	if code := suite.Run(); code != 0 {
		return fmt.Errorf("suite failed with exit code %d", code)
	}

	hue.Green.Fprintf(r.stdout, "All scenarios passed\n")
	return nil
}
