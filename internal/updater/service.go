// Package updater checks the upstream registry for new releases and applies them to the deployment directory
// Package updater 检查上游发布并将更新应用到部署目录
package updater

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/haierkeys/start-page-service/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State 更新执行器状态
type State string

const (
	StateIdle        State = "idle"
	StateChecking    State = "checking"
	StateClassifying State = "classifying"
	StatePulling     State = "pulling"
	StateInstalling  State = "installing"
	StateRestarting  State = "restarting"
)

// UpdatePlan is the transient report of one check
// UpdatePlan 单次检查的结果报告
type UpdatePlan struct {
	CurrentVersion          string     `json:"currentVersion"`
	CurrentPatch            int        `json:"currentPatch"`
	LatestVersion           string     `json:"latestVersion"`
	LatestPatch             int        `json:"latestPatch"`
	LatestTag               string     `json:"latestTag"`
	HasUpdate               bool       `json:"hasUpdate"`
	ReleaseNotes            string     `json:"releaseNotes"`
	ReleaseDate             *time.Time `json:"releaseDate"`
	NeedsRestart            bool       `json:"needsRestart"`
	NeedsDeps               bool       `json:"needsDeps"`
	NeedsMigration          bool       `json:"needsMigration"`
	FrontendOnly            bool       `json:"frontendOnly"`
	VersionControlAvailable bool       `json:"versionControlAvailable"`
	CurrentCommit           string     `json:"currentCommit,omitempty"`
	CurrentBranch           string     `json:"currentBranch,omitempty"`
	State                   State      `json:"state"`
	CheckedAt               time.Time  `json:"checkedAt"`
}

// FullUpdateOptions 完整更新的步骤开关，通常取自上一次检查结果
type FullUpdateOptions struct {
	NeedsDeps    bool `json:"needsDeps"`
	NeedsRestart bool `json:"needsRestart"`
}

// FullUpdateResult 完整更新的结果
type FullUpdateResult struct {
	Output     string `json:"output"`
	Restarting bool   `json:"restarting"`
	// FailedStage 失败的阶段，成功时为空
	FailedStage State `json:"failedStage,omitempty"`
}

// Option 更新服务可选项
type Option func(*options)

type options struct {
	registry  Registry
	runner    Runner
	lookPath  func(string) (string, error)
	respawner Respawner
	onRestart func()
}

// WithRegistry replaces the GitHub client
func WithRegistry(r Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithRunner replaces the os/exec command runner
func WithRunner(r Runner) Option {
	return func(o *options) { o.runner = r }
}

// WithLookPath replaces exec.LookPath for the git presence check
func WithLookPath(fn func(string) (string, error)) Option {
	return func(o *options) { o.lookPath = fn }
}

// WithRespawner replaces the process respawner
func WithRespawner(r Respawner) Option {
	return func(o *options) { o.respawner = r }
}

// WithRestartFunc is called once the replacement process is running; it should make the current process exit
// WithRestartFunc 新进程启动成功后调用，用于让当前进程退出
func WithRestartFunc(fn func()) Option {
	return func(o *options) { o.onRestart = fn }
}

// Service 更新服务
type Service struct {
	cfg    Config
	logger *zap.Logger

	reader     *ManifestReader
	locator    *ReleaseLocator
	classifier *Classifier
	repo       *GitRepo
	installer  *Installer
	respawner  Respawner
	onRestart  func()

	group      singleflight.Group
	restarting atomic.Bool
	state      atomic.Value
}

func NewService(cfg Config, lg *zap.Logger, opts ...Option) (*Service, error) {
	if lg == nil {
		return nil, errors.New("logger is required")
	}

	o := &options{runner: ExecRunner{}}
	for _, opt := range opts {
		opt(o)
	}

	deployDir, err := filepath.Abs(cfg.DeployDir)
	if err != nil {
		return nil, errors.Wrap(err, "resolve deploy dir failed")
	}
	cfg.DeployDir = deployDir

	if cfg.WorkDir == "" {
		if cfg.WorkDir, err = os.Getwd(); err != nil {
			return nil, errors.Wrap(err, "resolve working dir failed")
		}
	}

	if o.registry == nil {
		gh, err := NewGitHubClient(cfg.RegistryURL, cfg.Repository, cfg.Token, cfg.RequestTimeout)
		if err != nil {
			return nil, err
		}
		o.registry = gh
	}
	if o.respawner == nil {
		o.respawner = NewProcessRespawner(cfg.PreSpawnDelay, cfg.PostSpawnDelay, lg)
	}
	if o.onRestart == nil {
		o.onRestart = func() { os.Exit(0) }
	}

	roots := make([]string, 0, len(cfg.InstallRoots))
	for _, r := range cfg.InstallRoots {
		if !filepath.IsAbs(r) {
			r = filepath.Join(deployDir, r)
		}
		roots = append(roots, r)
	}

	repo := NewGitRepo(deployDir, cfg.Remote, cfg.Branch, o.runner)
	if o.lookPath != nil {
		repo.lookPath = o.lookPath
	}

	s := &Service{
		cfg:        cfg,
		logger:     lg,
		reader:     NewManifestReader(deployDir, cfg.Manifest, lg),
		locator:    NewReleaseLocator(o.registry, cfg.Manifest, lg),
		classifier: NewClassifier(o.registry, cfg.Rules, lg),
		repo:       repo,
		installer:  NewInstaller(o.runner, cfg.InstallCommand, cfg.InstallTimeout, roots, lg),
		respawner:  o.respawner,
		onRestart:  o.onRestart,
	}
	s.state.Store(StateIdle)
	return s, nil
}

// State 当前执行器状态
func (s *Service) State() State {
	return s.state.Load().(State)
}

func (s *Service) setState(st State) {
	// 重启一旦开始，只有失败回退才能离开 restarting
	if s.restarting.Load() && st != StateRestarting {
		return
	}
	s.state.Store(st)
}

// CurrentVersion 当前部署的版本
func (s *Service) CurrentVersion() Version {
	return s.reader.CurrentVersion()
}

// Check compares the deployment with the latest release without touching the deployment.
// Concurrent calls share one registry round trip.
// Check 对比部署版本与最新发布，不修改部署目录；并发调用共享同一次查询
//
// 共享的查询不继承任何调用方的取消，各调用方只在自己的 ctx 结束时提前返回；
// 查询本身受仓库请求超时约束。
func (s *Service) Check(ctx context.Context) (*UpdatePlan, error) {
	if err := ctx.Err(); err != nil {
		observe("check", err)
		return nil, err
	}

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan("check", func() (any, error) {
		return s.check(shared)
	})

	select {
	case res := <-ch:
		observe("check", res.Err)
		if res.Err != nil {
			return nil, res.Err
		}
		plan := *res.Val.(*UpdatePlan)
		return &plan, nil
	case <-ctx.Done():
		observe("check", ctx.Err())
		return nil, ctx.Err()
	}
}

func (s *Service) check(ctx context.Context) (*UpdatePlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.setState(StateChecking)
	defer s.setState(StateIdle)

	current := s.reader.CurrentVersion()
	plan := &UpdatePlan{
		CurrentVersion: current.Version,
		CurrentPatch:   current.Patch,
		CheckedAt:      time.Now(),
	}

	if s.repo.Available() {
		plan.VersionControlAvailable = true
		if commit, branch, err := s.repo.Head(); err == nil {
			plan.CurrentCommit, plan.CurrentBranch = commit, branch
		}
	}

	release := s.locator.LatestRelease(ctx)
	if release == nil {
		updateAvailable.Set(0)
		plan.State = StateIdle
		return plan, nil
	}

	plan.LatestVersion = release.Version
	plan.LatestPatch = release.Patch
	plan.LatestTag = release.Tag
	plan.ReleaseNotes = release.Notes
	plan.ReleaseDate = release.PublishedAt
	plan.HasUpdate = HasUpdate(current, Version{Version: release.Version, Patch: release.Patch})

	if plan.HasUpdate {
		updateAvailable.Set(1)

		s.setState(StateClassifying)
		var cs ChangeSet
		if current.Version == UnknownVersion {
			cs = ConservativeChangeSet()
		} else {
			cs = s.classifier.Classify(ctx, tagFor(current.Version, release.Tag), release.Tag)
		}
		plan.NeedsDeps = cs.NeedsDependencyInstall
		plan.NeedsRestart = cs.NeedsProcessRestart
		plan.NeedsMigration = cs.NeedsDataMigration
		plan.FrontendOnly = cs.FrontendOnly
	} else {
		updateAvailable.Set(0)
	}

	s.logger.Info("update check finished",
		zap.String("current", current.Version),
		zap.Int("currentPatch", current.Patch),
		zap.String(logger.FieldTag, release.Tag),
		zap.Int("latestPatch", release.Patch),
		zap.Bool("hasUpdate", plan.HasUpdate))

	plan.State = StateIdle
	return plan, nil
}

// tagFor 按最新标签的前缀格式构造当前版本的标签
func tagFor(version, latestTag string) string {
	if strings.HasPrefix(latestTag, "v") || strings.HasPrefix(latestTag, "V") {
		return latestTag[:1] + version
	}
	return version
}

// Pull synchronizes the deployment with upstream and returns the raw git output
// Pull 同步部署目录并返回 git 原始输出
func (s *Service) Pull(ctx context.Context) (string, error) {
	opID := uuid.NewString()
	s.setState(StatePulling)
	defer s.setState(StateIdle)

	start := time.Now()
	out, err := s.repo.Pull(ctx)
	observe("pull", err)
	if err != nil {
		s.logger.Error("pull failed",
			zap.String(logger.FieldOperationID, opID),
			zap.String("output", out),
			zap.Error(err))
		return out, err
	}
	s.logger.Info("pull finished",
		zap.String(logger.FieldOperationID, opID),
		zap.Duration(logger.FieldDuration, time.Since(start)))
	return out, nil
}

// InstallDependencies fails if any root fails; nothing is rolled back
// InstallDependencies 任一目录失败即整体失败，不做回滚
func (s *Service) InstallDependencies(ctx context.Context) error {
	opID := uuid.NewString()
	s.setState(StateInstalling)
	defer s.setState(StateIdle)

	err := s.installer.Install(ctx)
	observe("install", err)
	if err != nil {
		s.logger.Error("install dependencies failed", zap.String(logger.FieldOperationID, opID), zap.Error(err))
		return err
	}
	s.logger.Info("install dependencies finished", zap.String(logger.FieldOperationID, opID))
	return nil
}

// FullUpdate pulls, optionally installs and optionally restarts.
// reply is called exactly once and always before any restart work begins.
// FullUpdate 拉取、按需安装依赖、按需重启；reply 只调用一次且一定在重启开始前
func (s *Service) FullUpdate(ctx context.Context, opts FullUpdateOptions, reply func(FullUpdateResult, error)) {
	res := FullUpdateResult{}

	out, err := s.Pull(ctx)
	res.Output = out
	if err != nil {
		res.FailedStage = StatePulling
		observe("full", err)
		reply(res, err)
		return
	}

	if opts.NeedsDeps {
		if err := s.InstallDependencies(ctx); err != nil {
			res.FailedStage = StateInstalling
			observe("full", err)
			reply(res, err)
			return
		}
	}

	observe("full", nil)
	if !opts.NeedsRestart {
		reply(res, nil)
		return
	}

	res.Restarting = true
	s.Restart(func() { reply(res, nil) })
}

// Restart replies first and then respawns in the background.
// While a restart is in flight further calls only reply.
// Restart 先回复再在后台重启；重启进行中时后续调用只回复
func (s *Service) Restart(reply func()) {
	if !s.restarting.CompareAndSwap(false, true) {
		s.logger.Info("restart already in progress")
		reply()
		return
	}
	s.state.Store(StateRestarting)

	reply()

	go s.respawn()
}

// Retire takes the restart guard so this Service never starts a respawn, used before the
// Service is replaced (config reload). It returns false while a restart is already running:
// the caller must keep this Service alive so the handoff can finish.
// Retire 占用重启锁，使本实例不再发起重启（配置热重载替换前调用）；重启进行中时返回 false，调用方不得替换本实例
func (s *Service) Retire() bool {
	return s.restarting.CompareAndSwap(false, true)
}

func (s *Service) respawn() {
	opID := uuid.NewString()
	s.logger.Info("respawning service", zap.String(logger.FieldOperationID, opID), zap.String(logger.FieldPath, s.cfg.WorkDir))

	err := s.respawner.Respawn(s.cfg.WorkDir)
	observe("restart", err)
	if err != nil {
		s.logger.Error("respawn failed, keep serving", zap.String(logger.FieldOperationID, opID), zap.Error(err))
		s.restarting.Store(false)
		s.state.Store(StateIdle)
		return
	}

	s.logger.Info("replacement process running, shutting down", zap.String(logger.FieldOperationID, opID))
	s.onRestart()
}
