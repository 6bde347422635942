package updater

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newFakeGitHub 模拟 GitHub REST API，handlers 的键为 "/repos/acme/start-page" 之后的路径
func newFakeGitHub(t *testing.T, handlers map[string]http.HandlerFunc) *GitHubClient {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "/repos/acme/start-page"
		if len(r.URL.Path) < len(prefix) || r.URL.Path[:len(prefix)] != prefix {
			http.NotFound(w, r)
			return
		}
		if h, ok := handlers[r.URL.Path[len(prefix):]]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	gh, err := NewGitHubClient(srv.URL, "acme/start-page", "secret", 2*time.Second)
	require.NoError(t, err)
	return gh
}

func writeJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestNewGitHubClient_InvalidRepository(t *testing.T) {
	for _, repo := range []string{"", "acme", "acme/", "/start-page", "a/b/c"} {
		_, err := NewGitHubClient("", repo, "", time.Second)
		assert.Error(t, err, repo)
	}
}

func TestGitHubClient_Endpoints(t *testing.T) {
	manifest := base64.StdEncoding.EncodeToString([]byte(`{"version":"1.4.2","patch":7}`))

	gh := newFakeGitHub(t, map[string]http.HandlerFunc{
		"/tags": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			writeJSON(`[{"name":"v1.4.2"},{"name":"v1.4.1"}]`)(w, r)
		},
		"/contents/package.json": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "v1.4.2", r.URL.Query().Get("ref"))
			writeJSON(`{"encoding":"base64","content":"` + manifest[:10] + `\n` + manifest[10:] + `"}`)(w, r)
		},
		"/releases/tags/v1.4.2": writeJSON(`{"body":"fixes","published_at":"2024-05-01T10:00:00Z"}`),
		"/compare/v1.4.1...v1.4.2": writeJSON(`{"files":[{"filename":"backend/src/a.ts"},{"filename":"README.md"}]}`),
	})

	ctx := context.Background()

	tag, err := gh.LatestTag(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1.4.2", tag)

	data, err := gh.FileAt(ctx, "package.json", "v1.4.2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.4.2","patch":7}`, string(data))

	rel, err := gh.ReleaseByTag(ctx, "v1.4.2")
	require.NoError(t, err)
	assert.Equal(t, "fixes", rel.Body)
	require.NotNil(t, rel.PublishedAt)
	assert.True(t, rel.PublishedAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))

	files, err := gh.CompareFiles(ctx, "v1.4.1", "v1.4.2")
	require.NoError(t, err)
	assert.Equal(t, []string{"backend/src/a.ts", "README.md"}, files)
}

func TestGitHubClient_StatusError(t *testing.T) {
	gh := newFakeGitHub(t, map[string]http.HandlerFunc{
		"/tags": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		},
	})

	_, err := gh.LatestTag(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
}

func TestReleaseLocator_LatestRelease(t *testing.T) {
	manifest := base64.StdEncoding.EncodeToString([]byte(`{"version":"2.0.0","patch":3}`))

	t.Run("all queries succeed", func(t *testing.T) {
		gh := newFakeGitHub(t, map[string]http.HandlerFunc{
			"/tags":                  writeJSON(`[{"name":"v2.0.0"}]`),
			"/contents/package.json": writeJSON(`{"encoding":"base64","content":"` + manifest + `"}`),
			"/releases/tags/v2.0.0":  writeJSON(`{"body":"notes","published_at":"2024-06-01T00:00:00Z"}`),
		})
		info := NewReleaseLocator(gh, "package.json", zap.NewNop()).LatestRelease(context.Background())
		require.NotNil(t, info)
		assert.Equal(t, "2.0.0", info.Version)
		assert.Equal(t, "v2.0.0", info.Tag)
		assert.Equal(t, 3, info.Patch)
		assert.Equal(t, "notes", info.Notes)
		assert.NotNil(t, info.PublishedAt)
	})

	t.Run("manifest and release failures keep the tag", func(t *testing.T) {
		gh := newFakeGitHub(t, map[string]http.HandlerFunc{
			"/tags": writeJSON(`[{"name":"v2.0.0"}]`),
		})
		info := NewReleaseLocator(gh, "package.json", zap.NewNop()).LatestRelease(context.Background())
		require.NotNil(t, info)
		assert.Equal(t, "2.0.0", info.Version)
		assert.Equal(t, 0, info.Patch)
		assert.Empty(t, info.Notes)
		assert.Nil(t, info.PublishedAt)
	})

	t.Run("empty tag list is absent", func(t *testing.T) {
		gh := newFakeGitHub(t, map[string]http.HandlerFunc{
			"/tags": writeJSON(`[]`),
		})
		assert.Nil(t, NewReleaseLocator(gh, "package.json", zap.NewNop()).LatestRelease(context.Background()))
	})

	t.Run("tag failure is absent", func(t *testing.T) {
		gh := newFakeGitHub(t, nil)
		assert.Nil(t, NewReleaseLocator(gh, "package.json", zap.NewNop()).LatestRelease(context.Background()))
	})

	t.Run("unparsable manifest keeps patch zero", func(t *testing.T) {
		gh := newFakeGitHub(t, map[string]http.HandlerFunc{
			"/tags":                  writeJSON(`[{"name":"2.1.0"}]`),
			"/contents/package.json": writeJSON(`{"encoding":"base64","content":"bm90IGpzb24="}`),
		})
		info := NewReleaseLocator(gh, "package.json", zap.NewNop()).LatestRelease(context.Background())
		require.NotNil(t, info)
		assert.Equal(t, "2.1.0", info.Version)
		assert.Equal(t, 0, info.Patch)
	})
}
