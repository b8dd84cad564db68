package executor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	language "github.com/hanpama/schoolgraph/internal/language"
)

// mustParseQuery parses a GraphQL query and fails the test on error.
func mustParseQuery(t *testing.T, q string) *language.QueryDocument {
	t.Helper()
	d, err := language.ParseQuery(q)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return d
}

// diffResult compares execution results, ignoring the recorded field order.
func diffResult(want, got *ExecutionResult) string {
	return cmp.Diff(want, got, cmpopts.IgnoreFields(ExecutionResult{}, "Order"))
}
