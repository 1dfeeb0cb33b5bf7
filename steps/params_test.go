package steps

import (
	"testing"

	"go.followtheprocess.codes/test"

	"github.com/skanderkefi/cucumber-rest-api/scope"
)

func TestResolveParams(t *testing.T) {
	tests := []struct {
		seed    func(sc *scope.Scope) // Populate the scope before resolving
		name    string                // Name of the test case
		in      string                // Input text
		want    string                // Expected resolved text
		errMsg  string                // If we wanted an error, what should it say
		kind    scope.Kind            // Which scope kind to resolve against
		wantErr bool                  // Whether we want an error
	}{
		{
			name: "no references",
			in:   "/users/42",
			kind: scope.KindJSONPath,
			want: "/users/42",
		},
		{
			name: "empty string",
			in:   "",
			kind: scope.KindJSONPath,
			want: "",
		},
		{
			name: "bare dollar is not a reference",
			in:   "/users?currency=$USD",
			kind: scope.KindJSONPath,
			want: "/users?currency=$USD",
		},
		{
			name: "single reference",
			in:   "/users/`$userId`",
			kind: scope.KindJSONPath,
			seed: func(sc *scope.Scope) {
				sc.PutJSONPath("userId", 42.0)
			},
			want: "/users/42",
		},
		{
			name: "reference occurs twice",
			in:   "`$id` and `$id` again",
			kind: scope.KindJSONPath,
			seed: func(sc *scope.Scope) {
				sc.PutJSONPath("id", "abc")
			},
			want: "abc and abc again",
		},
		{
			name: "two distinct references",
			in:   "/orgs/`$orgId`/users/`$userId`",
			kind: scope.KindJSONPath,
			seed: func(sc *scope.Scope) {
				sc.PutJSONPath("orgId", "acme")
				sc.PutJSONPath("userId", 7.0)
			},
			want: "/orgs/acme/users/7",
		},
		{
			name: "nested reference in substituted value",
			in:   "`$outer`",
			kind: scope.KindJSONPath,
			seed: func(sc *scope.Scope) {
				sc.PutJSONPath("outer", "prefix-`$inner`")
				sc.PutJSONPath("inner", "done")
			},
			want: "prefix-done",
		},
		{
			name: "header kind single valued sequence flattens",
			in:   "Bearer `$token`",
			kind: scope.KindHeader,
			seed: func(sc *scope.Scope) {
				sc.PutHeader("token", []string{"tkn999"})
			},
			want: "Bearer tkn999",
		},
		{
			name: "header kind does not see json path aliases",
			in:   "Bearer `$token`",
			kind: scope.KindHeader,
			seed: func(sc *scope.Scope) {
				sc.PutJSONPath("token", "tkn999")
			},
			wantErr: true,
			errMsg:  `no scenario variable named "token"`,
		},
		{
			name:    "missing alias",
			in:      "/users/`$nope`",
			kind:    scope.KindJSONPath,
			wantErr: true,
			errMsg:  `no scenario variable named "nope"`,
		},
		{
			name: "cycle is caught",
			in:   "`$a`",
			kind: scope.KindJSONPath,
			seed: func(sc *scope.Scope) {
				sc.PutJSONPath("a", "`$b`")
				sc.PutJSONPath("b", "`$a`")
			},
			wantErr: true,
			errMsg:  "dynamic parameters did not settle after 64 passes, is there a reference cycle?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := scope.New()
			if tt.seed != nil {
				tt.seed(sc)
			}

			got, err := resolveParams(tt.in, sc, tt.kind)
			test.WantErr(t, err, tt.wantErr)

			if err != nil {
				test.Equal(t, err.Error(), tt.errMsg)
				return
			}

			test.Equal(t, got, tt.want)
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		value any    // Value to render
		name  string // Name of the test case
		want  string // Expected rendering
	}{
		{name: "string", value: "hello", want: "hello"},
		{name: "integral number", value: 42.0, want: "42"},
		{name: "fractional number", value: 1.5, want: "1.5"},
		{name: "large number no exponent", value: 1200000.0, want: "1200000"},
		{name: "bool", value: true, want: "true"},
		{name: "null", value: nil, want: "null"},
		{name: "single valued header", value: []string{"abc-123"}, want: "abc-123"},
		{name: "multi valued header", value: []string{"a", "b"}, want: "a, b"},
		{name: "array", value: []any{"a", 1.0}, want: `["a",1]`},
		{name: "object", value: map[string]any{"id": 1.0}, want: `{"id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.Equal(t, stringify(tt.value), tt.want)
		})
	}
}
