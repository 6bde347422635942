package updater

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

// ErrChildExited 新进程在交接前已退出
var ErrChildExited = errors.New("respawned process is not running")

// Respawner starts a detached replacement of the running service
// Respawner 启动一个脱离当前进程的替代实例
type Respawner interface {
	Respawn(workDir string) error
}

// ProcessRespawner relaunches the current executable with the same arguments
// ProcessRespawner 以相同参数重新启动当前可执行文件
type ProcessRespawner struct {
	preSpawnDelay  time.Duration
	postSpawnDelay time.Duration
	logger         *zap.Logger
	sleep          func(time.Duration)
}

func NewProcessRespawner(preSpawnDelay, postSpawnDelay time.Duration, logger *zap.Logger) *ProcessRespawner {
	return &ProcessRespawner{
		preSpawnDelay:  preSpawnDelay,
		postSpawnDelay: postSpawnDelay,
		logger:         logger,
		sleep:          time.Sleep,
	}
}

// Respawn returns nil only when the child is still alive after the post spawn delay.
// The caller is expected to exit after that so the child can take over the port.
// Respawn 仅在子进程存活时返回 nil，调用方随后退出以便子进程接管端口
func (p *ProcessRespawner) Respawn(workDir string) error {
	p.sleep(p.preSpawnDelay)

	exe, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "resolve executable failed")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	pid, err := startDetached(exe, os.Args[1:], workDir)
	if err != nil {
		return errors.Wrap(err, "start replacement process failed")
	}
	p.logger.Info("replacement process started", zap.Int("pid", pid), zap.String("path", exe))

	p.sleep(p.postSpawnDelay)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !childAlive(ctx, int32(pid), exe) {
		return ErrChildExited
	}
	return nil
}

// childAlive 子进程可能是中间启动器，已退出时按可执行文件路径查找替代实例
func childAlive(ctx context.Context, pid int32, exe string) bool {
	if p, err := process.NewProcessWithContext(ctx, pid); err == nil {
		if status, err := p.StatusWithContext(ctx); err == nil && !slices.Contains(status, process.Zombie) {
			return true
		}
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false
	}
	self := int32(os.Getpid())
	for _, p := range procs {
		if p.Pid == self || p.Pid == pid {
			continue
		}
		path, err := p.ExeWithContext(ctx)
		if err != nil {
			continue
		}
		if sameFile(path, exe) {
			return true
		}
	}
	return false
}

func sameFile(a, b string) bool {
	sa, err := os.Stat(a)
	if err != nil {
		return false
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(sa, sb)
}
