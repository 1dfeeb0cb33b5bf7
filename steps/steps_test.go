package steps_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/cucumber/godog"
	"go.followtheprocess.codes/test"
	"go.followtheprocess.codes/txtar"

	"github.com/skanderkefi/cucumber-rest-api/steps"
)

// newAPIServer returns a canned users API for the feature files in testdata.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Location", "/users/1")
		w.Header().Set("X-Request-Id", "req-1")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 1}`)
	})

	mux.HandleFunc("GET /users/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": 1, "name": "Alice", "role": "admin", "tags": ["go", "bdd"]}`)
	})

	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(
			w,
			`{"query": %q, "page": %q}`,
			r.URL.Query().Get("q"),
			r.URL.Query().Get("page"),
		)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// runSuite runs a single feature against the test API and returns the godog
// exit code.
func runSuite(t *testing.T, server *httptest.Server, feature string) int {
	t.Helper()

	suite := godog.TestSuite{
		Name: "steps",
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			steps.Register(
				sc,
				steps.WithBaseURL(server.URL),
				steps.WithClient(server.Client()),
			)
		},
		Options: &godog.Options{
			Format: "progress",
			Output: io.Discard,
			Strict: true,
			FeatureContents: []godog.Feature{
				{Name: "inline.feature", Contents: []byte(feature)},
			},
		},
	}

	return suite.Run()
}

func TestSteps(t *testing.T) {
	archive, err := txtar.ParseFile(filepath.Join("testdata", "features.txtar"))
	test.Ok(t, err)

	server := newAPIServer(t)

	t.Run("passing", func(t *testing.T) {
		feature, ok := archive.Read("users.feature")
		test.True(t, ok, test.Context("archive missing users.feature"))

		test.Equal(t, runSuite(t, server, feature), 0)
	})

	t.Run("failing", func(t *testing.T) {
		feature, ok := archive.Read("failing.feature")
		test.True(t, ok, test.Context("archive missing failing.feature"))

		test.True(t, runSuite(t, server, feature) != 0)
	})
}
