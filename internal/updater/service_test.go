package updater

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	svc       *Service
	dir       string
	registry  *fakeRegistry
	runner    *fakeRunner
	respawner *fakeRespawner
	log       *eventLog
	exited    chan struct{}
}

func newTestEnv(t *testing.T, withGit bool) *testEnv {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"version":"1.0.0","patch":0}`), 0644))
	if withGit {
		_, err := git.PlainInit(dir, false)
		require.NoError(t, err)
	}

	env := &testEnv{
		dir:      dir,
		registry: &fakeRegistry{},
		runner:   &fakeRunner{},
		log:      &eventLog{},
		exited:   make(chan struct{}),
	}
	env.respawner = &fakeRespawner{log: env.log}

	lookPath := missingGit
	if withGit {
		lookPath = foundGit
	}

	cfg := DefaultConfig()
	cfg.DeployDir = dir
	cfg.WorkDir = dir
	cfg.Repository = "acme/start-page"

	var once sync.Once
	svc, err := NewService(cfg, zap.NewNop(),
		WithRegistry(env.registry),
		WithRunner(env.runner),
		WithLookPath(lookPath),
		WithRespawner(env.respawner),
		WithRestartFunc(func() {
			env.log.add("exit")
			once.Do(func() { close(env.exited) })
		}),
	)
	require.NoError(t, err)
	env.svc = svc
	return env
}

func (e *testEnv) waitExit(t *testing.T) {
	t.Helper()
	select {
	case <-e.exited:
	case <-time.After(2 * time.Second):
		t.Fatal("restart did not finish")
	}
}

func TestService_Check(t *testing.T) {
	t.Run("newer release is classified", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.registry.tag = "v1.1.0"
		env.registry.manifest = []byte(`{"version":"1.1.0","patch":2}`)
		env.registry.files = []string{"backend/src/index.ts", "backend/package.json"}

		plan, err := env.svc.Check(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "1.0.0", plan.CurrentVersion)
		assert.Equal(t, "1.1.0", plan.LatestVersion)
		assert.Equal(t, 2, plan.LatestPatch)
		assert.True(t, plan.HasUpdate)
		assert.True(t, plan.NeedsRestart)
		assert.True(t, plan.NeedsDeps)
		assert.False(t, plan.NeedsMigration)
		assert.False(t, plan.FrontendOnly)
		assert.False(t, plan.VersionControlAvailable)
		assert.Equal(t, StateIdle, plan.State)
		assert.Equal(t, [2]string{"v1.0.0", "v1.1.0"}, env.registry.compared)
	})

	t.Run("patch counter breaks the tie", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.registry.tag = "v1.0.0"
		env.registry.manifest = []byte(`{"version":"1.0.0","patch":3}`)
		env.registry.files = []string{"frontend/src/App.tsx"}

		plan, err := env.svc.Check(context.Background())
		require.NoError(t, err)
		assert.True(t, plan.HasUpdate)
		assert.True(t, plan.FrontendOnly)
	})

	t.Run("up to date skips classification", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.registry.tag = "v1.0.0"

		plan, err := env.svc.Check(context.Background())
		require.NoError(t, err)
		assert.False(t, plan.HasUpdate)
		assert.False(t, plan.NeedsRestart)
		assert.Equal(t, [2]string{}, env.registry.compared)
	})

	t.Run("registry failure means no known update", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.registry.tagErr = errors.New("dial tcp: timeout")

		plan, err := env.svc.Check(context.Background())
		require.NoError(t, err)
		assert.False(t, plan.HasUpdate)
		assert.Empty(t, plan.LatestVersion)
		assert.Equal(t, "1.0.0", plan.CurrentVersion)
	})

	t.Run("diff failure is conservative", func(t *testing.T) {
		env := newTestEnv(t, false)
		env.registry.tag = "v2.0.0"
		env.registry.compareErr = errors.New("502")

		plan, err := env.svc.Check(context.Background())
		require.NoError(t, err)
		assert.True(t, plan.NeedsDeps)
		assert.True(t, plan.NeedsRestart)
		assert.True(t, plan.NeedsMigration)
		assert.False(t, plan.FrontendOnly)
	})

	t.Run("unknown current version", func(t *testing.T) {
		env := newTestEnv(t, false)
		require.NoError(t, os.Remove(filepath.Join(env.dir, "package.json")))
		env.registry.tag = "v0.0.1"

		plan, err := env.svc.Check(context.Background())
		require.NoError(t, err)
		assert.Equal(t, UnknownVersion, plan.CurrentVersion)
		assert.True(t, plan.HasUpdate)
		assert.True(t, plan.NeedsRestart)
	})

	t.Run("version control detected", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.registry.tag = "v1.0.0"

		plan, err := env.svc.Check(context.Background())
		require.NoError(t, err)
		assert.True(t, plan.VersionControlAvailable)
	})
}

func TestService_CheckSharesInflightQuery(t *testing.T) {
	env := newTestEnv(t, false)
	env.registry.tag = "v1.0.0"
	env.registry.tagBlock = make(chan struct{})

	const callers = 8
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.Check(context.Background())
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return env.registry.TagHits() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	close(env.registry.tagBlock)
	wg.Wait()

	assert.Less(t, env.registry.TagHits(), callers)
}

func TestService_CheckCancelledCallerDoesNotFailSharedQuery(t *testing.T) {
	env := newTestEnv(t, false)
	env.registry.tag = "v1.1.0"
	env.registry.manifest = []byte(`{"version":"1.1.0","patch":0}`)
	env.registry.tagBlock = make(chan struct{})

	// 第一个调用方（例如关闭中的定时任务）发起查询后被取消
	taskCtx, cancel := context.WithCancel(context.Background())
	taskErr := make(chan error, 1)
	go func() {
		_, err := env.svc.Check(taskCtx)
		taskErr <- err
	}()
	require.Eventually(t, func() bool { return env.registry.TagHits() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		plan *UpdatePlan
		err  error
	}
	adminRes := make(chan result, 1)
	go func() {
		plan, err := env.svc.Check(context.WithoutCancel(context.Background()))
		adminRes <- result{plan, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case err := <-taskErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(env.registry.tagBlock)
	select {
	case res := <-adminRes:
		require.NoError(t, res.err)
		assert.Equal(t, "1.1.0", res.plan.LatestVersion)
		assert.True(t, res.plan.HasUpdate)
	case <-time.After(2 * time.Second):
		t.Fatal("joined caller did not return")
	}
	assert.Equal(t, 1, env.registry.TagHits())
}

func TestService_PullWithoutVersionControl(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.svc.Pull(context.Background())
	assert.ErrorIs(t, err, ErrNoVersionControl)
	assert.Equal(t, StateIdle, env.svc.State())
}

func TestService_InstallDependenciesPartialFailure(t *testing.T) {
	env := newTestEnv(t, false)
	env.runner.fn = func(ctx context.Context, dir, name string, args ...string) (string, error) {
		if filepath.Base(dir) == "frontend" {
			return "", errors.New("exit status 1")
		}
		return "", nil
	}

	assert.Error(t, env.svc.InstallDependencies(context.Background()))
	assert.Len(t, env.runner.Calls(), 2)
}

func TestService_FullUpdate(t *testing.T) {
	t.Run("pull failure aborts", func(t *testing.T) {
		env := newTestEnv(t, false)

		var replies int
		env.svc.FullUpdate(context.Background(), FullUpdateOptions{NeedsDeps: true, NeedsRestart: true},
			func(res FullUpdateResult, err error) {
				replies++
				assert.ErrorIs(t, err, ErrNoVersionControl)
				assert.False(t, res.Restarting)
				assert.Equal(t, StatePulling, res.FailedStage)
			})

		assert.Equal(t, 1, replies)
		assert.Empty(t, env.runner.Calls())
		assert.Zero(t, env.respawner.calls.Load())
	})

	t.Run("install failure aborts before restart", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.runner.fn = func(ctx context.Context, dir, name string, args ...string) (string, error) {
			if name == "npm" {
				return "", errors.New("exit status 1")
			}
			return "Updating 1a2b..3c4d", nil
		}

		var replies int
		env.svc.FullUpdate(context.Background(), FullUpdateOptions{NeedsDeps: true, NeedsRestart: true},
			func(res FullUpdateResult, err error) {
				replies++
				assert.Error(t, err)
				assert.Equal(t, "Updating 1a2b..3c4d", res.Output)
				assert.Equal(t, StateInstalling, res.FailedStage)
			})

		assert.Equal(t, 1, replies)
		assert.Len(t, env.runner.Calls(), 3)
		assert.Zero(t, env.respawner.calls.Load())
	})

	t.Run("no restart needed", func(t *testing.T) {
		env := newTestEnv(t, true)

		var got FullUpdateResult
		env.svc.FullUpdate(context.Background(), FullUpdateOptions{}, func(res FullUpdateResult, err error) {
			require.NoError(t, err)
			got = res
		})

		assert.False(t, got.Restarting)
		assert.Len(t, env.runner.Calls(), 1)
		assert.Zero(t, env.respawner.calls.Load())
	})

	t.Run("restart replies before respawn", func(t *testing.T) {
		env := newTestEnv(t, true)

		env.svc.FullUpdate(context.Background(), FullUpdateOptions{NeedsRestart: true}, func(res FullUpdateResult, err error) {
			require.NoError(t, err)
			assert.True(t, res.Restarting)
			env.log.add("reply")
		})

		env.waitExit(t)
		assert.Equal(t, []string{"reply", "respawn", "exit"}, env.log.Events())
	})
}

func TestService_RestartRepliesBeforeRespawn(t *testing.T) {
	env := newTestEnv(t, false)

	env.svc.Restart(func() { env.log.add("reply") })
	env.waitExit(t)

	assert.Equal(t, []string{"reply", "respawn", "exit"}, env.log.Events())
	assert.Equal(t, StateRestarting, env.svc.State())
}

func TestService_RestartIsSerialized(t *testing.T) {
	env := newTestEnv(t, false)
	env.respawner.block = make(chan struct{})

	var replies int
	for i := 0; i < 3; i++ {
		env.svc.Restart(func() { replies++ })
	}
	assert.Equal(t, 3, replies)

	close(env.respawner.block)
	env.waitExit(t)

	assert.Equal(t, int32(1), env.respawner.calls.Load())
}

func TestService_RetireDuringRestartIsRefused(t *testing.T) {
	env := newTestEnv(t, false)
	env.respawner.block = make(chan struct{})

	env.svc.Restart(func() {})
	require.Eventually(t, func() bool { return env.respawner.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	// 交接进行中，不能替换当前实例
	assert.False(t, env.svc.Retire())

	close(env.respawner.block)
	env.waitExit(t)
}

func TestService_RetiredServiceDoesNotRespawn(t *testing.T) {
	env := newTestEnv(t, false)

	require.True(t, env.svc.Retire())

	replied := false
	env.svc.Restart(func() { replied = true })
	assert.True(t, replied)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), env.respawner.calls.Load())
	select {
	case <-env.exited:
		t.Fatal("retired service requested exit")
	default:
	}
}

func TestService_RespawnFailureKeepsServing(t *testing.T) {
	env := newTestEnv(t, false)
	env.respawner.err = ErrChildExited

	env.svc.Restart(func() {})
	require.Eventually(t, func() bool { return env.svc.State() == StateIdle }, 2*time.Second, 5*time.Millisecond)

	select {
	case <-env.exited:
		t.Fatal("process exit requested after failed respawn")
	default:
	}

	// 失败后允许再次重启
	env.respawner.err = nil
	env.svc.Restart(func() {})
	env.waitExit(t)
	assert.Equal(t, int32(2), env.respawner.calls.Load())
}
