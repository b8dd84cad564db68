package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	resolver "github.com/hanpama/schoolgraph/internal/resolver"
)

const school = `
departments:
  - {id: 1, name: CS}
teachers:
  - {id: 1, email: ada@x.com, fullName: Ada, type: FULLTIME}
courses:
  - {id: 1, code: CS101, title: Intro, teacher: 1, dept: 1}
students:
  - {id: 1, email: a@x.com, fullName: A, dept: 1}
`

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "school.yaml")
	require.NoError(t, os.WriteFile(path, []byte(school), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "", "schema")
	require.NoError(t, err)
	require.Equal(t, resolver.SDL(), out)
}

func TestQueryCommand(t *testing.T) {
	out, err := run(t, "", "query", "--store.seed", writeSeed(t),
		`{ department(id: 1) { name courses { code teacher { fullName } } } }`)
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"department":{"name":"CS","courses":[{"code":"CS101","teacher":{"fullName":"Ada"}}]}}}`, out)
	require.Less(t, strings.Index(out, `"name"`), strings.Index(out, `"courses"`))
}

func TestQueryCommand_StdinAndVariables(t *testing.T) {
	t.Setenv("SCHOOLGRAPH_STORE_SEED", writeSeed(t))
	out, err := run(t, "query($id: Int!) { student(id: $id) { email } }\n", "query", "-v", `{"id": 1}`)
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"student":{"email":"a@x.com"}}}`, out)
}

func TestQueryCommand_FieldErrorsFailTheCommand(t *testing.T) {
	out, err := run(t, "", "query",
		`mutation { registerStudent(email: "b@x.com", fullName: "B", deptId: 9) { id } }`)
	require.EqualError(t, err, "operation finished with 1 error(s)")
	require.Contains(t, out, `"REFERENTIAL"`)
}

func TestQueryCommand_Rejects(t *testing.T) {
	_, err := run(t, "", "query", "{ students { nickname } }")
	require.ErrorContains(t, err, "nickname")

	_, err = run(t, "", "query")
	require.ErrorContains(t, err, "no document provided")

	_, err = run(t, "", "query", "-v", "{", "{ students { id } }")
	require.ErrorContains(t, err, "invalid variables JSON")

	_, err = run(t, "", "query", "--store.seed", filepath.Join(t.TempDir(), "absent.yaml"), "{ students { id } }")
	require.ErrorContains(t, err, "opening dataset")
}

func TestMigrateCommand_NeedsPostgres(t *testing.T) {
	_, err := run(t, "", "migrate", "up")
	require.ErrorContains(t, err, "migrate needs --store.driver=postgres")

	_, err = run(t, "", "migrate")
	require.Error(t, err)
}

func TestServeCommand_InvalidConfig(t *testing.T) {
	_, err := run(t, "", "serve", "--store.driver", "sqlite")
	require.ErrorContains(t, err, `unknown store.driver "sqlite"`)

	_, err = run(t, "", "serve", "--log.level", "loud")
	require.ErrorContains(t, err, "configuring logger")
}
