package updater

import (
	"context"
	"sync"
	"sync/atomic"
)

type fakeRegistry struct {
	mu sync.Mutex

	tag      string
	tagErr   error
	tagHits  int
	tagBlock chan struct{}

	manifest    []byte
	manifestErr error

	release    *Release
	releaseErr error

	files      []string
	compareErr error
	compared   [2]string
}

func (f *fakeRegistry) LatestTag(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.tagHits++
	block := f.tagBlock
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.tag, f.tagErr
}

func (f *fakeRegistry) TagHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tagHits
}

func (f *fakeRegistry) FileAt(ctx context.Context, path, ref string) ([]byte, error) {
	return f.manifest, f.manifestErr
}

func (f *fakeRegistry) ReleaseByTag(ctx context.Context, tag string) (*Release, error) {
	if f.releaseErr != nil {
		return nil, f.releaseErr
	}
	if f.release == nil {
		return &Release{}, nil
	}
	return f.release, nil
}

func (f *fakeRegistry) CompareFiles(ctx context.Context, base, head string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compared = [2]string{base, head}
	return f.files, f.compareErr
}

type runCall struct {
	dir  string
	name string
	args []string
}

type fakeRunner struct {
	mu    sync.Mutex
	calls []runCall
	// fn 决定每次调用的结果，为空时返回成功
	fn func(ctx context.Context, dir, name string, args ...string) (string, error)
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, runCall{dir: dir, name: name, args: args})
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(ctx, dir, name, args...)
	}
	return "ok", nil
}

func (f *fakeRunner) Calls() []runCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runCall(nil), f.calls...)
}

// eventLog 记录事件顺序
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (e *eventLog) add(ev string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *eventLog) Events() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.events...)
}

type fakeRespawner struct {
	log   *eventLog
	err   error
	block chan struct{}
	calls atomic.Int32
}

func (f *fakeRespawner) Respawn(workDir string) error {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	f.log.add("respawn")
	return f.err
}
