package updater

import (
	"time"
)

// Config 更新服务配置
type Config struct {
	// DeployDir 部署目录
	DeployDir string
	// WorkDir 新进程的工作目录，为空时使用当前工作目录
	WorkDir string
	// Manifest 部署清单文件名
	Manifest string
	// RegistryURL 发布仓库 API 地址
	RegistryURL string
	// Repository 上游仓库 owner/repo
	Repository string
	// Token 访问令牌，可选
	Token string
	// RequestTimeout 单次仓库请求超时
	RequestTimeout time.Duration
	// Remote git 远程名
	Remote string
	// Branch git 分支名
	Branch string
	// InstallCommand 依赖安装命令
	InstallCommand []string
	// InstallTimeout 单个目录的安装超时
	InstallTimeout time.Duration
	// InstallRoots 需要安装依赖的目录，相对路径基于 DeployDir
	InstallRoots []string
	// Rules 变更分类规则
	Rules ClassifyRules
	// PreSpawnDelay 启动新进程前的等待
	PreSpawnDelay time.Duration
	// PostSpawnDelay 启动新进程后、退出前的等待
	PostSpawnDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		DeployDir:      ".",
		Manifest:       "package.json",
		RegistryURL:    DefaultRegistryURL,
		RequestTimeout: 10 * time.Second,
		Remote:         "origin",
		Branch:         "main",
		InstallCommand: []string{"npm", "install"},
		InstallTimeout: 5 * time.Minute,
		InstallRoots:   []string{"backend", "frontend"},
		Rules:          DefaultClassifyRules(),
		PreSpawnDelay:  500 * time.Millisecond,
		PostSpawnDelay: 500 * time.Millisecond,
	}
}
