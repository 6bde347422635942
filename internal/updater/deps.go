package updater

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrInstallTimeout 依赖安装超时
var ErrInstallTimeout = errors.New("dependency install timed out")

// Installer installs dependencies in every configured root, one after another
// Installer 依次在每个配置的目录中安装依赖
type Installer struct {
	runner  Runner
	command []string
	timeout time.Duration
	roots   []string
	logger  *zap.Logger
}

func NewInstaller(runner Runner, command []string, timeout time.Duration, roots []string, logger *zap.Logger) *Installer {
	return &Installer{
		runner:  runner,
		command: command,
		timeout: timeout,
		roots:   roots,
		logger:  logger,
	}
}

// Install runs every root even after a failure; changes already made are kept
// Install 某个目录失败后仍继续其余目录，已完成的安装不回滚
func (i *Installer) Install(ctx context.Context) error {
	if len(i.command) == 0 {
		return errors.New("install command is empty")
	}

	var err error
	for _, root := range i.roots {
		err = multierr.Append(err, i.installIn(ctx, root))
	}
	return err
}

func (i *Installer) installIn(ctx context.Context, root string) error {
	runCtx := ctx
	if i.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := i.runner.Run(runCtx, root, i.command[0], i.command[1:]...)
	if err == nil {
		i.logger.Info("dependencies installed", zap.String("path", root), zap.Duration("duration", time.Since(start)))
		return nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		err = errors.Wrapf(ErrInstallTimeout, "install in %s after %s", root, i.timeout)
	} else {
		err = errors.Wrapf(err, "install in %s", root)
	}
	i.logger.Error("dependency install failed", zap.String("path", root), zap.String("output", out), zap.Error(err))
	return err
}
