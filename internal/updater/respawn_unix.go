//go:build !windows

package updater

import (
	"os"
	"os/exec"
	"syscall"
)

// startDetached 在新会话中启动进程，标准输入输出指向空设备
func startDetached(exe string, args []string, dir string) (int, error) {
	cmd := exec.Command(exe, args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}
