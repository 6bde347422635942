package api_router

import (
	"os"
	"runtime"
	"time"

	"github.com/haierkeys/start-page-service/internal/app"
	pkgapp "github.com/haierkeys/start-page-service/pkg/app"
	"github.com/haierkeys/start-page-service/pkg/code"
	"github.com/haierkeys/start-page-service/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// SystemHandler host and process information for the administrator
// SystemHandler 管理员查看主机与进程信息
type SystemHandler struct {
	*Handler
}

// NewSystemHandler creates SystemHandler instance
// NewSystemHandler 创建 SystemHandler 实例
func NewSystemHandler(a *app.App) *SystemHandler {
	return &SystemHandler{
		Handler: NewHandler(a),
	}
}

// SystemInfo system information response structure
// SystemInfo 系统信息响应结构
type SystemInfo struct {
	StartTime time.Time   `json:"startTime"` // Start time // 启动时间
	Uptime    float64     `json:"uptime"`    // Uptime (seconds) // 运行时间（秒）
	GoVersion string      `json:"goVersion"`
	Goroutine int         `json:"goroutine"`
	CPU       CPUInfo     `json:"cpu"`
	Memory    MemoryInfo  `json:"memory"`
	Host      HostInfo    `json:"host"`
	Process   ProcessInfo `json:"process"`
}

// CPUInfo CPU 信息
type CPUInfo struct {
	ModelName    string `json:"modelName"`
	LogicalCores int    `json:"logicalCores"`
}

// MemoryInfo 内存信息
type MemoryInfo struct {
	Total       uint64  `json:"total"`
	Available   uint64  `json:"available"`
	UsedPercent float64 `json:"usedPercent"`
}

// HostInfo 主机信息
type HostInfo struct {
	Hostname      string `json:"hostname"`
	OSPretty      string `json:"osPretty"`
	Platform      string `json:"platform"`
	Arch          string `json:"arch"`
	KernelVersion string `json:"kernelVersion"`
	Uptime        uint64 `json:"uptime"`
}

// ProcessInfo 当前进程信息，重启后 PID 会变化
type ProcessInfo struct {
	PID           int32   `json:"pid"`
	PPID          int32   `json:"ppid"`
	Name          string  `json:"name"`
	Executable    string  `json:"executable"`
	MemoryPercent float32 `json:"memoryPercent"`
}

// GetSystemInfo 获取系统信息
// gopsutil 的单项失败只会让对应字段为空
//
// @Summary Get system info
// @Description Host, CPU, memory and current process information, requires admin privileges
// @Tags System
// @Security UserAuthToken
// @Param token header string true "Auth Token"
// @Produce json
// @Success 200 {object} pkgapp.Res{data=SystemInfo} "Success"
// @Failure 403 {object} pkgapp.Res "Insufficient privileges"
// @Router /api/admin/system [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	cpuModel := ""
	if cpuInfoList, _ := cpu.Info(); len(cpuInfoList) > 0 {
		cpuModel = cpuInfoList[0].ModelName
	}
	logicCores, _ := cpu.Counts(true)

	data := SystemInfo{
		StartTime: h.App.StartTime,
		Uptime:    time.Since(h.App.StartTime).Seconds(),
		GoVersion: runtime.Version(),
		Goroutine: runtime.NumGoroutine(),
		CPU: CPUInfo{
			ModelName:    cpuModel,
			LogicalCores: logicCores,
		},
		Host: HostInfo{
			OSPretty: util.GetOSPrettyName(),
			Arch:     runtime.GOARCH,
		},
		Process: ProcessInfo{
			PID: int32(os.Getpid()),
		},
	}

	if vMem, err := mem.VirtualMemory(); err == nil {
		data.Memory = MemoryInfo{Total: vMem.Total, Available: vMem.Available, UsedPercent: vMem.UsedPercent}
	}

	if hInfo, err := host.Info(); err == nil {
		data.Host.Hostname = hInfo.Hostname
		data.Host.Platform = hInfo.Platform
		data.Host.KernelVersion = hInfo.KernelVersion
		data.Host.Uptime = hInfo.Uptime
	}

	if p, err := process.NewProcess(data.Process.PID); err == nil {
		data.Process.PPID, _ = p.Ppid()
		data.Process.Name, _ = p.Name()
		data.Process.Executable, _ = p.Exe()
		data.Process.MemoryPercent, _ = p.MemoryPercent()
	}

	response.ToResponse(code.Success.Clone().WithData(data))
}
