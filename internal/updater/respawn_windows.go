//go:build windows

package updater

import (
	"os"
	"os/exec"
	"syscall"
)

const (
	createNoWindow  = 0x08000000
	detachedProcess = 0x00000008
)

// startDetached 通过隐藏的 cmd start /B 启动，避免弹出控制台窗口
func startDetached(exe string, args []string, dir string) (int, error) {
	cmd := exec.Command("cmd", append([]string{"/C", "start", "/B", "", exe}, args...)...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: createNoWindow | detachedProcess,
	}

	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	_ = cmd.Process.Release()
	return pid, nil
}
