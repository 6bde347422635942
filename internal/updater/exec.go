package updater

import (
	"context"
	"os/exec"
	"time"
)

// Runner runs an external command and returns its combined output
// Runner 执行外部命令并返回合并后的输出
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	// 超时杀掉进程后，子进程可能仍持有输出管道
	cmd.WaitDelay = 5 * time.Second
	out, err := cmd.CombinedOutput()
	return string(out), err
}
