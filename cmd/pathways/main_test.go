package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `{"data":[{"courses":{"g1":[{"course_id":"C1","subject":"CS","catalog_number":"101"}]}}]}`

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"PATHFINDER_BASE_URL", "PATHFINDER_TOKEN", "LOG_LEVEL", "SFTP_HOST", "SFTP_USER", "SFTP_PASS"} {
		if _, set := os.LookupEnv(k); !set {
			t.Setenv(k, "")
		}
	}

	var out bytes.Buffer
	cmd := newRootCmd(log.New(io.Discard), &out)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "topics.json", sampleExport)
	out := filepath.Join(dir, "courses.csv")

	_, err := run(t, in, out)
	require.NoError(t, err)

	_, err = run(t, in, out)
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "C1,UGRD,CS101\r\n", string(b))
}

func TestMergeCommandArgs(t *testing.T) {
	_, err := run(t, "only-one.json")
	assert.Error(t, err)

	_, err = run(t)
	assert.Error(t, err)
}

func TestMergeCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "topics.json", sampleExport)
	out := filepath.Join(dir, "courses.csv")

	_, err := run(t, "--dry-run", in, out)
	require.NoError(t, err)

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestMergeCommandMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, filepath.Join(dir, "absent.json"), filepath.Join(dir, "courses.csv"))
	assert.Error(t, err)
}

func TestMergeCommandBadLogLevel(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "topics.json", sampleExport)

	_, err := run(t, "--log-level", "chatty", in, filepath.Join(dir, "courses.csv"))
	assert.Error(t, err)
}

func TestMergeCommandSFTPWithoutCredentials(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "topics.json", sampleExport)
	out := filepath.Join(dir, "courses.csv")

	_, err := run(t, "--sftp", in, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sftp: missing")

	// the merge itself already happened
	b, readErr := os.ReadFile(out)
	require.NoError(t, readErr)
	assert.Equal(t, "C1,UGRD,CS101\r\n", string(b))
}

func TestLookupCommand(t *testing.T) {
	dir := t.TempDir()
	catalogPath := writeTemp(t, dir, "courses.csv", "004544,UGRD,CSE115\r\n001122,GRAD,CSE510\r\n")

	stdout, err := run(t, "lookup", "--catalog", catalogPath, "cse 115", "001122")
	require.NoError(t, err)
	assert.Equal(t, "CSE115,004544,UGRD,Undergraduate\nCSE510,001122,GRAD,Graduate\n", stdout)

	stdout, err = run(t, "lookup", "--catalog", catalogPath, "CSE115", "NOPE101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOPE101")
	assert.Equal(t, "CSE115,004544,UGRD,Undergraduate\n", stdout)
}

func TestFetchCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(sampleExport))
	}))
	defer srv.Close()

	t.Setenv("PATHFINDER_BASE_URL", srv.URL)
	t.Setenv("PATHFINDER_TOKEN", "secret")

	dir := t.TempDir()
	saved := filepath.Join(dir, "topics.json")
	catalogPath := filepath.Join(dir, "courses.csv")

	_, err := run(t, "fetch", "--out", saved, "--merge", catalogPath)
	require.NoError(t, err)

	b, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, sampleExport, string(b))

	b, err = os.ReadFile(catalogPath)
	require.NoError(t, err)
	assert.Equal(t, "C1,UGRD,CS101\r\n", string(b))

	_, err = run(t, "fetch")
	assert.NoError(t, err)
}

func TestFetchCommandMissingToken(t *testing.T) {
	t.Setenv("PATHFINDER_TOKEN", "")

	_, err := run(t, "fetch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing token")
}
