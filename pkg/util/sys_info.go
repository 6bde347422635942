package util

import (
	"bufio"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// GetOSPrettyName returns a readable OS name such as "Ubuntu 24.04.1 LTS" or "windows 10.0.22631"
// GetOSPrettyName 返回可读的操作系统名称与版本
func GetOSPrettyName() string {
	if runtime.GOOS == "linux" {
		if name := osReleaseName("/etc/os-release"); name != "" {
			return name
		}
	}

	info, err := host.Info()
	if err != nil || info.Platform == "" {
		return runtime.GOOS
	}
	if info.PlatformVersion == "" {
		return info.Platform
	}
	return info.Platform + " " + info.PlatformVersion
}

// osReleaseName reads PRETTY_NAME from an os-release file
func osReleaseName(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if v, ok := strings.CutPrefix(scanner.Text(), "PRETTY_NAME="); ok {
			return strings.Trim(v, `"'`)
		}
	}
	return ""
}
