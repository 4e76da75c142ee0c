package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/baserowgen"
	"github.com/shibukawa/baserowgen/pull"
)

func newFakeBaserow(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/database/tables/all-tables/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token db-token", r.Header.Get("Authorization"))
		io.WriteString(w, `[
			{"id":1,"name":"Customers","order":1,"database_id":10},
			{"id":2,"name":"Broken","order":2,"database_id":10},
			{"id":3,"name":"Payroll","order":1,"database_id":99}
		]`)
	})
	mux.HandleFunc("/api/database/fields/table/1/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"id":11,"table_id":1,"name":"Name","order":0,"type":"text","primary":true},
			{"id":12,"table_id":1,"name":"Amount","order":1,"type":"number","number_decimal_places":2}
		]`)
	})
	mux.HandleFunc("/api/database/fields/table/2/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"ERROR_INTERNAL","detail":"boom"}`)
	})
	mux.HandleFunc("/api/database/fields/table/3/", func(w http.ResponseWriter, r *http.Request) {
		t.Error("fields of an unconfigured database were fetched")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeProject(t *testing.T, config string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(baserowgen.EnvToken, "")
	t.Setenv(baserowgen.EnvBaseURL, "")

	path := filepath.Join(dir, "baserowgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))
	return path
}

func projectConfig(baseURL string) string {
	return `token: db-token
base_url: ` + baseURL + `
output: ./gen
package: bindings
import_base: example.com/app/gen
databases:
  - name: CRM
    id: 10
`
}

func TestGenerateCmd(t *testing.T) {
	server := newFakeBaserow(t)
	configPath := writeProject(t, projectConfig(server.URL))
	out := filepath.Join(filepath.Dir(configPath), "gen")

	cmd := &GenerateCmd{}
	require.NoError(t, cmd.Run(&Context{Config: configPath, Quiet: true}))

	records, err := os.ReadFile(filepath.Join(out, "crm", "records_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(records), "type Customers struct")
	assert.Contains(t, string(records), "baserow.Float")
	assert.NotContains(t, string(records), "Payroll")
	assert.NotContains(t, string(records), "Broken")

	manifest, err := os.ReadFile(filepath.Join(out, "manifest_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "package bindings")
	assert.Contains(t, string(manifest), `"example.com/app/gen/crm"`)

	snapshot, err := pull.LoadSnapshot(filepath.Join(out, pull.SnapshotFileName))
	require.NoError(t, err)
	require.Len(t, snapshot.Databases, 1)
	require.Len(t, snapshot.Databases[0].Tables, 2)
	assert.True(t, snapshot.Databases[0].Tables[0].HasFields())
	assert.False(t, snapshot.Databases[0].Tables[1].HasFields())

	t.Run("strict fails on skipped tables", func(t *testing.T) {
		cmd := &GenerateCmd{Strict: true}
		err := cmd.Run(&Context{Config: configPath, Quiet: true})
		assert.ErrorIs(t, err, ErrTablesSkipped)
	})

	t.Run("offline from the snapshot", func(t *testing.T) {
		offlinePath := writeProject(t, `output: ./offline
databases:
  - {name: CRM, id: 10, package: crm_offline}
`)
		offline := filepath.Join(filepath.Dir(offlinePath), "offline")

		cmd := &GenerateCmd{Schema: filepath.Join(out, pull.SnapshotFileName)}
		require.NoError(t, cmd.Run(&Context{Config: offlinePath, Quiet: true}))

		generated, err := os.ReadFile(filepath.Join(offline, "crm_offline", "records_gen.go"))
		require.NoError(t, err)
		assert.Contains(t, string(generated), "type Customers struct")

		_, err = os.Stat(filepath.Join(offline, pull.SnapshotFileName))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestGenerateCmdRequiresToken(t *testing.T) {
	configPath := writeProject(t, "databases:\n  - {name: CRM, id: 10}\n")

	cmd := &GenerateCmd{}
	err := cmd.Run(&Context{Config: configPath, Quiet: true})
	assert.ErrorIs(t, err, baserowgen.ErrConfigValidation)
}

func TestGenerateCmdFetchAbort(t *testing.T) {
	server := newFakeBaserow(t)
	configPath := writeProject(t, projectConfig(server.URL)+"schema:\n  on_fetch_error: abort\n")

	cmd := &GenerateCmd{}
	err := cmd.Run(&Context{Config: configPath, Quiet: true})
	assert.ErrorIs(t, err, pull.ErrFetchFailed)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(configPath), "gen", "manifest_gen.go"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPullCmd(t *testing.T) {
	server := newFakeBaserow(t)
	configPath := writeProject(t, projectConfig(server.URL))
	out := t.TempDir()

	cmd := &PullCmd{Output: out}
	require.NoError(t, cmd.Run(&Context{Config: configPath, Quiet: true}))

	snapshot, err := pull.LoadSnapshot(filepath.Join(out, pull.SnapshotFileName))
	require.NoError(t, err)
	assert.Equal(t, "CRM", snapshot.Databases[0].Name)
	assert.Equal(t, "Customers", snapshot.Databases[0].Tables[0].Name)

	_, err = os.Stat(filepath.Join(out, "crm"))
	assert.True(t, os.IsNotExist(err))
}

func TestContextLogger(t *testing.T) {
	quiet := &Context{Quiet: true}
	assert.False(t, quiet.Logger().Enabled(quiet.Context(), -8))

	verbose := &Context{Verbose: true}
	assert.True(t, verbose.Logger().Enabled(verbose.Context(), -4))
	assert.Same(t, verbose.Logger(), verbose.Logger())
}
