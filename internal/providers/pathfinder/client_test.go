package pathfinder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathways-sync/internal/domain"
	"pathways-sync/internal/httpx"
)

const testExport = `{"data":[{"courses":{"Core":[{"course_id":"004544","subject":"CSE","catalog_number":"115"}]}}]}`

func newTestClient(baseURL string) *Client {
	c := New(baseURL, "test-token")
	c.Logger = log.New(io.Discard)
	c.Retry = httpx.RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
	return c
}

func TestNew(t *testing.T) {
	c := New("https://path-finder.example.edu/", "tok")

	assert.Equal(t, "https://path-finder.example.edu", c.BaseURL)
	assert.Equal(t, "tok", c.Token)
	assert.NotNil(t, c.HTTP)
	assert.NotNil(t, c.Logger)
}

func TestFetchTopicsMissingToken(t *testing.T) {
	c := New("https://path-finder.example.edu", "")

	_, err := c.FetchTopics(context.Background())
	assert.True(t, errors.Is(err, ErrMissingToken))
}

func TestFetchTopics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cached/topics", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "br, gzip", r.Header.Get("Accept-Encoding"))

		var buf bytes.Buffer
		bw := brotli.NewWriter(&buf)
		bw.Write([]byte(testExport))
		bw.Close()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "br")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	body, err := newTestClient(srv.URL).FetchTopics(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, testExport, string(body))
}

func TestFetchTopicsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"login required"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchTopics(context.Background())
	require.Error(t, err)

	var herr *httpx.HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusUnauthorized, herr.StatusCode)
}

func TestProviderPathways(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testExport))
	}))
	defer srv.Close()

	saveTo := filepath.Join(t.TempDir(), "topics.json")
	p := Provider{C: newTestClient(srv.URL), SaveTo: saveTo}
	assert.Equal(t, srv.URL+"/api/cached/topics", p.Name())

	doc, err := p.Pathways(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Data, 1)
	assert.Equal(t, "Core", doc.Data[0].Courses[0].Name)

	saved, err := os.ReadFile(saveTo)
	require.NoError(t, err)
	assert.Equal(t, testExport, string(saved))
}

func TestProviderPathwaysBadShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"topics": []}`))
	}))
	defer srv.Close()

	_, err := Provider{C: newTestClient(srv.URL)}.Pathways(context.Background())
	var perr *domain.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "data", perr.Path)
}
