package util

import (
	"os"
	"strings"
	"sync"

	"github.com/denisbrodbeck/machineid"
)

const machineIDAppKey = "start-page-service"

var (
	machineID     string
	machineIDOnce sync.Once
)

// GetMachineID returns a stable per-host identifier, hashed with the app key so the raw id never leaves the host
// GetMachineID 返回稳定的主机标识；使用应用 key 做 HMAC，原始 ID 不会外泄
// Falls back to the DMI board serial, then the hostname; empty only if all three fail
// 依次回退到主板序列号和主机名，全部失败时返回空字符串
func GetMachineID() string {
	machineIDOnce.Do(func() {
		if id, err := machineid.ProtectedID(machineIDAppKey); err == nil && id != "" {
			machineID = id
			return
		}
		if b, err := os.ReadFile("/sys/class/dmi/id/board_serial"); err == nil {
			if id := strings.TrimSpace(string(b)); id != "" {
				machineID = id
				return
			}
		}
		if h, err := os.Hostname(); err == nil {
			machineID = h
		}
	})
	return machineID
}
