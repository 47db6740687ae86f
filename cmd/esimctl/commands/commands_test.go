package commands

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /esim-packages/7", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"id": 7, "country_code": "FR", "price": "9.90", "currency": "EUR"}}`))
	})
	mux.HandleFunc("GET /orders/status/CMD-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": {"id": 1, "ref_command": "CMD-1", "payment_status": "paid"}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, backendURL, stateDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--state-dir", stateDir, "--backend", backendURL, "--timeout", "5s"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestLoginLogout(t *testing.T) {
	dir := t.TempDir()
	srv := fakeBackend(t)

	out, err := run(t, srv.URL, dir, "login", "tok-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in")

	data, err := os.ReadFile(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "tok-1")

	_, err = run(t, srv.URL, dir, "logout")
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(dir, "session.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "tok-1")
}

func TestPackage(t *testing.T) {
	srv := fakeBackend(t)

	out, err := run(t, srv.URL, t.TempDir(), "package", "7")
	require.NoError(t, err)
	assert.Contains(t, out, `"country_code": "FR"`)

	_, err = run(t, srv.URL, t.TempDir(), "package", "8")
	assert.ErrorContains(t, err, "not found")
}

func TestStatus(t *testing.T) {
	srv := fakeBackend(t)

	out, err := run(t, srv.URL, t.TempDir(), "status", "CMD-1")
	require.NoError(t, err)
	assert.Contains(t, out, `"state": "found"`)
	assert.Contains(t, out, `"reference": "CMD-1"`)

	_, err = run(t, srv.URL, t.TempDir(), "status", "CMD-2")
	assert.Error(t, err)
}
