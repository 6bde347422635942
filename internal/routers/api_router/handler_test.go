package api_router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/start-page-service/internal/app"
	"github.com/haierkeys/start-page-service/internal/updater"
	pkgapp "github.com/haierkeys/start-page-service/pkg/app"
	"github.com/haierkeys/start-page-service/pkg/code"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRegistry struct {
	tag      string
	manifest string
	files    []string
}

func (s *stubRegistry) LatestTag(ctx context.Context) (string, error) { return s.tag, nil }

func (s *stubRegistry) FileAt(ctx context.Context, path, ref string) ([]byte, error) {
	return []byte(s.manifest), nil
}

func (s *stubRegistry) ReleaseByTag(ctx context.Context, tag string) (*updater.Release, error) {
	return &updater.Release{Body: "notes for " + tag}, nil
}

func (s *stubRegistry) CompareFiles(ctx context.Context, base, head string) ([]string, error) {
	return s.files, nil
}

type stubRunner struct {
	mu    sync.Mutex
	calls []string
	fail  string
}

func (s *stubRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, name+" "+strings.Join(args, " "))
	s.mu.Unlock()
	if name == s.fail {
		return name + " failed output", errors.New("exit status 1")
	}
	return name + " ok", nil
}

type stubRespawner struct {
	mu    sync.Mutex
	calls int
}

func (s *stubRespawner) Respawn(workDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return nil
}

type handlerEnv struct {
	app       *app.App
	engine    *gin.Engine
	registry  *stubRegistry
	runner    *stubRunner
	respawner *stubRespawner
}

func newHandlerEnv(t *testing.T, withGit bool) *handlerEnv {
	t.Helper()

	deployDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(deployDir, "package.json"), []byte(`{"version":"1.0.0","patch":0}`), 0644))

	lookPath := func(string) (string, error) { return "", errors.New("not found") }
	if withGit {
		_, err := git.PlainInit(deployDir, false)
		require.NoError(t, err)
		lookPath = func(string) (string, error) { return "/usr/bin/git", nil }
	}

	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("update:\n  deploy-dir: "+deployDir+"\n  repository: acme/start-page\n"), 0644))
	cfg, _, err := app.LoadConfig(cfgFile)
	require.NoError(t, err)

	env := &handlerEnv{
		registry:  &stubRegistry{tag: "v1.1.0", manifest: `{"version":"1.1.0","patch":2}`, files: []string{"backend/package.json"}},
		runner:    &stubRunner{},
		respawner: &stubRespawner{},
	}

	env.app, err = app.NewApp(cfg, zap.NewNop(),
		updater.WithRegistry(env.registry),
		updater.WithRunner(env.runner),
		updater.WithLookPath(lookPath),
		updater.WithRespawner(env.respawner),
	)
	require.NoError(t, err)

	update := NewUpdateHandler(env.app)
	r := gin.New()
	r.GET("/check", update.Check)
	r.POST("/pull", update.Pull)
	r.POST("/install", update.Install)
	r.POST("/restart", update.Restart)
	r.POST("/full", update.Full)
	r.GET("/version", NewVersionHandler(env.app).ServerVersion)
	r.GET("/health", NewHealthHandler(env.app).Check)
	env.engine = r
	return env
}

func (e *handlerEnv) do(t *testing.T, method, path, body string) pkgapp.Res {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var res pkgapp.Res
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func (e *handlerEnv) waitRestart(t *testing.T) {
	t.Helper()
	select {
	case <-e.app.RestartSignal():
	case <-time.After(2 * time.Second):
		t.Fatal("restart signal not received")
	}
}

func TestUpdateHandler_Check(t *testing.T) {
	env := newHandlerEnv(t, true)

	res := env.do(t, http.MethodGet, "/check", "")
	require.Equal(t, code.Success.Code(), res.Code)

	data := res.Data.(map[string]any)
	assert.Equal(t, "1.0.0", data["currentVersion"])
	assert.Equal(t, "1.1.0", data["latestVersion"])
	assert.Equal(t, true, data["hasUpdate"])
	assert.Equal(t, true, data["needsDeps"])
	assert.Equal(t, true, data["versionControlAvailable"])
	assert.Equal(t, "notes for v1.1.0", data["releaseNotes"])

	// 手动检查会刷新版本接口的缓存
	version := env.do(t, http.MethodGet, "/version", "")
	vdata := version.Data.(map[string]any)
	assert.Equal(t, true, vdata["versionIsNew"])
	assert.Equal(t, "1.1.0", vdata["versionNewName"])
	assert.Equal(t, "1.0.0", vdata["deployed"])
}

func TestUpdateHandler_Pull(t *testing.T) {
	t.Run("no version control", func(t *testing.T) {
		env := newHandlerEnv(t, false)
		res := env.do(t, http.MethodPost, "/pull", "")
		assert.Equal(t, code.ErrorNoVersionControl.Code(), res.Code)
		assert.False(t, res.Status)
	})

	t.Run("success returns output", func(t *testing.T) {
		env := newHandlerEnv(t, true)
		res := env.do(t, http.MethodPost, "/pull", "")
		assert.Equal(t, code.SuccessPull.Code(), res.Code)
		assert.Equal(t, "git ok", res.Data.(map[string]any)["output"])
	})

	t.Run("git failure", func(t *testing.T) {
		env := newHandlerEnv(t, true)
		env.runner.fail = "git"
		res := env.do(t, http.MethodPost, "/pull", "")
		assert.Equal(t, code.ErrorUpdatePull.Code(), res.Code)
		assert.Equal(t, "git failed output", res.Data.(map[string]any)["output"])
	})
}

func TestUpdateHandler_Install(t *testing.T) {
	env := newHandlerEnv(t, false)
	res := env.do(t, http.MethodPost, "/install", "")
	assert.Equal(t, code.SuccessInstall.Code(), res.Code)
	assert.Len(t, env.runner.calls, 2)

	env.runner.fail = "npm"
	res = env.do(t, http.MethodPost, "/install", "")
	assert.Equal(t, code.ErrorUpdateInstall.Code(), res.Code)
	assert.Contains(t, res.Details, "backend")
	assert.Contains(t, res.Details, "frontend")
}

func TestUpdateHandler_Restart(t *testing.T) {
	env := newHandlerEnv(t, false)

	res := env.do(t, http.MethodPost, "/restart", "")
	assert.Equal(t, code.SuccessRestart.Code(), res.Code)

	env.waitRestart(t)
	assert.Equal(t, 1, env.respawner.calls)
}

func TestUpdateHandler_Full(t *testing.T) {
	t.Run("empty body means no deps and no restart", func(t *testing.T) {
		env := newHandlerEnv(t, true)
		res := env.do(t, http.MethodPost, "/full", "")
		assert.Equal(t, code.SuccessNoRestart.Code(), res.Code)
		assert.Equal(t, []string{"git pull origin main"}, env.runner.calls)
	})

	t.Run("deps and restart", func(t *testing.T) {
		env := newHandlerEnv(t, true)
		res := env.do(t, http.MethodPost, "/full", `{"needsDeps":true,"needsRestart":true}`)
		assert.Equal(t, code.SuccessRestarting.Code(), res.Code)
		assert.Equal(t, true, res.Data.(map[string]any)["restarting"])

		env.waitRestart(t)
		assert.Len(t, env.runner.calls, 3)
	})

	t.Run("install failure", func(t *testing.T) {
		env := newHandlerEnv(t, true)
		env.runner.fail = "npm"
		res := env.do(t, http.MethodPost, "/full", `{"needsDeps":true,"needsRestart":true}`)
		assert.Equal(t, code.ErrorUpdateInstall.Code(), res.Code)
		assert.Zero(t, env.respawner.calls)
	})

	t.Run("pull failure", func(t *testing.T) {
		env := newHandlerEnv(t, false)
		res := env.do(t, http.MethodPost, "/full", `{"needsDeps":true}`)
		assert.Equal(t, code.ErrorNoVersionControl.Code(), res.Code)
		assert.Empty(t, env.runner.calls)
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newHandlerEnv(t, true)
		res := env.do(t, http.MethodPost, "/full", `{"needsDeps":"yes"`)
		assert.Equal(t, code.ErrorInvalidParams.Code(), res.Code)
		assert.Empty(t, env.runner.calls)
	})
}

func TestHealthHandler_Check(t *testing.T) {
	env := newHandlerEnv(t, false)

	res := env.do(t, http.MethodGet, "/health", "")
	data := res.Data.(map[string]any)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, string(updater.StateIdle), data["updateState"])
	assert.Equal(t, "1.0.0", data["deployed"])
}
