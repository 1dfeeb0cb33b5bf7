// Package cmd implements the cucumber-rest CLI.
package cmd

import (
	"fmt"

	"go.followtheprocess.codes/cli"

	"github.com/skanderkefi/cucumber-rest-api/internal/runner"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// Build returns the root cucumber-rest CLI command.
func Build() (*cli.Command, error) {
	return cli.New(
		"cucumber-rest",
		cli.Short("Run Gherkin feature files against a REST API"),
		cli.Allow(cli.NoArgs()),
		cli.Version(version),
		cli.Commit(commit),
		cli.BuildDate(date),
		cli.Run(func(cmd *cli.Command, args []string) error {
			fmt.Fprintln(cmd.Stdout(), "See 'cucumber-rest run --help' to execute feature files")
			return nil
		}),
		cli.SubCommands(run),
	)
}

const runLong = `
Feature files describe requests and assertions with the built in step
definitions, e.g:

  Given I set the header "Accept" to "application/json"
  When I send a GET request to "/users/42"
  Then the response status code should be 200
  And the json path "$.name" should be "Alice"

Values captured with the store steps can be referenced from later steps
of the same scenario as dynamic parameters, e.g. "/users/` + "`$userId`" + `".
`

// run returns the run subcommand.
func run() (*cli.Command, error) {
	var (
		options runner.Options
		verbose bool
	)
	return cli.New(
		"run",
		cli.Short("Run feature files against a REST API"),
		cli.Long(runLong),
		cli.Allow(cli.MinArgs(1)),
		cli.Flag(&options.BaseURL, "base-url", 'b', "", "Base URL prepended to relative resource paths"),
		cli.Flag(&options.Format, "format", 'f', "pretty", "Suite output format"),
		cli.Flag(&options.Tags, "tags", 't', "", "Tag expression to filter scenarios"),
		cli.Flag(&options.Concurrency, "concurrency", 'c', 1, "Number of scenarios to run in parallel"),
		cli.Flag(&verbose, "verbose", 'v', false, "Enable debug logging"),
		cli.Run(func(cmd *cli.Command, args []string) error {
			r := runner.New(cmd.Stdout(), cmd.Stderr(), verbose)
			return r.Run(args, options)
		}),
	)
}
