// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/start-page-service/internal/updater"
	"github.com/haierkeys/start-page-service/pkg/util"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File     string         `yaml:"-"` // 配置文件路径，不序列化
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	App      AppSettings    `yaml:"app"`
	User     UserConfig     `yaml:"user"`
	Security SecurityConfig `yaml:"security"`
	Tracer   TracerConfig   `yaml:"tracer"`
	Update   UpdateConfig   `yaml:"update"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，为空时只输出到控制台
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
	// MaxSize 单个日志文件最大尺寸（MB）
	MaxSize int `yaml:"max-size" default:"100"`
	// MaxBackups 保留的历史日志文件数
	MaxBackups int `yaml:"max-backups" default:"5"`
	// MaxAge 历史日志保留天数
	MaxAge int `yaml:"max-age" default:"30"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒），需要覆盖依赖安装的耗时
	WriteTimeout int `yaml:"write-timeout" default:"660"`
	// PrivateHttpListen 私有 HTTP 监听地址，为空时不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
	// PrivateAuthToken 私有监听的访问令牌，为空时不校验
	PrivateAuthToken string `yaml:"private-auth-token"`
	// ListenRetry 端口被占用时重试绑定的最长时间，用于重启交接
	ListenRetry string `yaml:"listen-retry" default:"15s"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AuthTokenKey string `yaml:"auth-token-key" default:"start-page-Auth-Token"`
	TokenExpiry  string `yaml:"token-expiry" default:"365d"` // Token 过期时间，支持格式：7d（天）、24h（小时）、30m（分钟）
}

// UserConfig 用户配置
type UserConfig struct {
	// AdminUID 管理员 UID，0 表示不限制管理员访问
	AdminUID int `yaml:"admin-uid" default:"0"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 默认上下文超时时间（秒），更新接口不受此限制
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// IsReturnSussess 是否返回成功信息
	IsReturnSussess bool `yaml:"is-return-sussess" default:"false"`
	// CheckVersionInterval 后台检查更新的间隔，0 表示只在启动时检查
	CheckVersionInterval string `yaml:"check-version-interval" default:"30m"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// UpdateConfig 自更新配置
type UpdateConfig struct {
	// DeployDir 部署目录
	DeployDir string `yaml:"deploy-dir" default:"."`
	// Manifest 部署清单文件，记录 version 与 patch
	Manifest string `yaml:"manifest" default:"package.json"`
	// RegistryURL 发布仓库 API 地址
	RegistryURL string `yaml:"registry-url" default:"https://api.github.com"`
	// Repository 上游仓库，格式 owner/repo
	Repository string `yaml:"repository" default:"haierkeys/start-page"`
	// Token 仓库访问令牌，可选
	Token string `yaml:"token"`
	// RequestTimeout 单次仓库请求超时
	RequestTimeout string `yaml:"request-timeout" default:"10s"`
	// Remote git 远程名
	Remote string `yaml:"remote" default:"origin"`
	// Branch git 分支
	Branch string `yaml:"branch" default:"main"`
	// InstallCommand 依赖安装命令
	InstallCommand string `yaml:"install-command" default:"npm install"`
	// InstallTimeout 单个目录的安装超时
	InstallTimeout string `yaml:"install-timeout" default:"5m"`
	// InstallRoots 需要安装依赖的目录，相对于部署目录
	InstallRoots []string `yaml:"install-roots" default:"[\"backend\",\"frontend\"]"`
	// PreSpawnDelay 启动新进程前的等待
	PreSpawnDelay string `yaml:"pre-spawn-delay" default:"500ms"`
	// PostSpawnDelay 启动新进程后、旧进程退出前的等待
	PostSpawnDelay string `yaml:"post-spawn-delay" default:"500ms"`
	// Rules 变更分类规则，留空使用内置规则
	Rules *updater.ClassifyRules `yaml:"rules,omitempty"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	c := new(AppConfig)
	c.File = realpath

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "set default config failed")
	}

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	err = yaml.Unmarshal(file, c)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "parse config file failed")
	}

	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	// defaults.Set 只有在字段为该类型的零值时才会填充
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "re-set default config failed")
	}

	return c, realpath, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	err = os.WriteFile(c.File, data, 0644)
	if err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetTokenExpiry 获取 Token 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	if expiry, err := util.ParseDuration(c.Security.TokenExpiry); err == nil {
		return expiry
	}
	return 365 * 24 * time.Hour // 理论上不会走到这里，因为有默认值
}

// GetListenRetry 获取端口绑定重试时长
func (c *AppConfig) GetListenRetry() time.Duration {
	if d, err := util.ParseDuration(c.Server.ListenRetry); err == nil {
		return d
	}
	return 15 * time.Second
}

// GetCheckVersionInterval 获取后台检查更新间隔
func (c *AppConfig) GetCheckVersionInterval() time.Duration {
	if d, err := util.ParseDuration(c.App.CheckVersionInterval); err == nil {
		return d
	}
	return 30 * time.Minute
}

// GetUpdaterConfig 转换为更新服务配置
func (c *AppConfig) GetUpdaterConfig() (updater.Config, error) {
	cfg := updater.DefaultConfig()
	u := c.Update

	cfg.DeployDir = u.DeployDir
	cfg.Manifest = u.Manifest
	cfg.RegistryURL = u.RegistryURL
	cfg.Repository = u.Repository
	cfg.Token = u.Token
	cfg.Remote = u.Remote
	cfg.Branch = u.Branch
	cfg.InstallCommand = strings.Fields(u.InstallCommand)
	cfg.InstallRoots = u.InstallRoots
	if u.Rules != nil {
		cfg.Rules = *u.Rules
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"request-timeout", u.RequestTimeout, &cfg.RequestTimeout},
		{"install-timeout", u.InstallTimeout, &cfg.InstallTimeout},
		{"pre-spawn-delay", u.PreSpawnDelay, &cfg.PreSpawnDelay},
		{"post-spawn-delay", u.PostSpawnDelay, &cfg.PostSpawnDelay},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		v, err := util.ParseDuration(d.value)
		if err != nil {
			return cfg, errors.Wrapf(err, "parse update.%s failed", d.name)
		}
		*d.dst = v
	}

	if len(cfg.InstallCommand) == 0 {
		return cfg, errors.New("update.install-command is empty")
	}
	return cfg, nil
}
