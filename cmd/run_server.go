package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	internalApp "github.com/haierkeys/start-page-service/internal/app"
	"github.com/haierkeys/start-page-service/internal/routers"
	"github.com/haierkeys/start-page-service/internal/task"
	"github.com/haierkeys/start-page-service/pkg/logger"
	"github.com/haierkeys/start-page-service/pkg/safe_close"
	"github.com/haierkeys/start-page-service/pkg/validator"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	ut "github.com/go-playground/universal-translator"
	validatorV10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// defaultSecretKeys defines the list of default secret keys to be detected
// defaultSecretKeys 定义需要检测的默认密钥列表
var defaultSecretKeys = []string{
	"start-page-Auth-Token",
	"",
}

// securityWarnOnce 配置热重载会重建 Server，默认密钥警告每个进程只输出一次
var securityWarnOnce sync.Once

// DefaultShutdownTimeout default shutdown timeout duration
// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

type Server struct {
	logger            *zap.Logger             // Logger // 日志对象
	config            *internalApp.AppConfig  // App configuration (injected dependency) // 应用配置（注入的依赖）
	ut                *ut.UniversalTranslator // Translator // 翻译器
	httpServer        *http.Server
	privateHttpServer *http.Server
	sc                *safe_close.SafeClose
	app               *internalApp.App // App Container
}

// checkSecurityConfigWithConfig checks security configuration, outputs warning if using default keys
// checkSecurityConfig 检查安全配置，如果使用默认密钥则输出警告
func checkSecurityConfigWithConfig(cfg *internalApp.AppConfig, lg *zap.Logger) {
	isDefault := false
	for _, key := range defaultSecretKeys {
		if cfg.Security.AuthTokenKey == key {
			isDefault = true
			break
		}
	}

	if !isDefault {
		return
	}

	securityWarnOnce.Do(func() {
		// Output to console
		// 输出到控制台
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		fmt.Println("⚠️  SECURITY WARNING: Using default secret key!")
		fmt.Println()
		fmt.Println("Please modify 'security.auth-token-key' in config.yaml")
		fmt.Println("Generate a secure key with:")
		fmt.Println("  openssl rand -base64 32")
		fmt.Println(strings.Repeat("=", 60))
		fmt.Println()

		if lg != nil {
			lg.Warn("Using default secret key - please change security.auth-token-key in config.yaml")
		}
	})
}

func NewServer(runEnv *runFlags) (*Server, error) {

	// Use LoadConfig to directly load config into AppConfig
	// 使用 LoadConfig 直接加载配置到 AppConfig
	appConfig, configRealpath, err := internalApp.LoadConfig(runEnv.config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if len(runEnv.port) > 0 {
		if !strings.Contains(runEnv.port, ":") {
			runEnv.port = ":" + runEnv.port
		}
		appConfig.Server.HttpPort = runEnv.port
	}

	// Determine run mode
	// 确定运行模式
	runMode := runEnv.runMode
	if len(runMode) <= 0 {
		runMode = appConfig.Server.RunMode
	}

	if len(runMode) > 0 {
		gin.SetMode(runMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	appConfig.Server.RunMode = gin.Mode()

	s := &Server{
		config: appConfig,
		sc:     safe_close.NewSafeClose(),
	}

	// Initialize logger (using injected config)
	// 初始化日志器（使用注入的配置）
	if err := initLoggerWithConfig(s, appConfig); err != nil {
		return nil, fmt.Errorf("initLogger: %w", err)
	}

	checkSecurityConfigWithConfig(appConfig, s.logger)

	// Initialize App Container (using AppConfig directly)
	// 初始化 App Container（直接使用 AppConfig）
	app, err := internalApp.NewApp(appConfig, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create app container: %w", err)
	}
	s.app = app

	// Initialize validator
	// 初始化验证器
	uni, err := initValidator()
	if err != nil {
		return nil, fmt.Errorf("initValidator: %w", err)
	}
	s.ut = uni

	// Start scheduler
	// 启动调度器
	initScheduler(s)

	banner := `
   _____ __             __     ____
  / ___// /_____ ______/ /_   / __ \____ _____ ____
  \__ \/ __/ __ \/ ___/ __/  / /_/ / __ \/ __ \/ _ \
 ___/ / /_/ /_/ / /  / /_   / ____/ /_/ / /_/ /  __/
/____/\__/\__,_/_/   \__/  /_/    \__,_/\__, /\___/
                                       /____/      `
	s.logger.Warn(fmt.Sprintf("%s\n\n%s v%s\nGit: %s\nBuildTime: %s\n", banner, internalApp.Name, internalApp.Version, internalApp.GitTag, internalApp.BuildTime))

	s.logger.Warn("config loaded", zap.String("path", configRealpath))

	// Start HTTP API server
	// 启动 HTTP API 服务器
	if httpAddr := appConfig.Server.HttpPort; len(httpAddr) > 0 {
		s.logger.Warn("api_router", zap.String("config.server.HttpPort", appConfig.Server.HttpPort))
		s.httpServer = &http.Server{
			Addr:           appConfig.Server.HttpPort,
			Handler:        routers.NewRouter(s.app, s.ut),
			ReadTimeout:    time.Duration(appConfig.Server.ReadTimeout) * time.Second,
			WriteTimeout:   time.Duration(appConfig.Server.WriteTimeout) * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		s.attachServer("api service", s.httpServer)
	}

	if httpAddr := appConfig.Server.PrivateHttpListen; len(httpAddr) > 0 {
		s.logger.Info("api_router", zap.String("config.server.PrivateHttpListen", appConfig.Server.PrivateHttpListen))
		s.privateHttpServer = &http.Server{
			Addr:           appConfig.Server.PrivateHttpListen,
			Handler:        routers.NewPrivateRouterWithLogger(appConfig.Server.RunMode, appConfig.Server.PrivateAuthToken, s.logger),
			ReadTimeout:    time.Duration(appConfig.Server.ReadTimeout) * time.Second,
			WriteTimeout:   time.Duration(appConfig.Server.WriteTimeout) * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		s.attachServer("private api service", s.privateHttpServer)
	}

	// Register App Container graceful shutdown (using Shutdown method)
	// 注册 App Container 的优雅关闭（使用 Shutdown 方法）
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		if s.app != nil {
			// Use graceful shutdown with timeout
			// 使用带超时的优雅关闭
			ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
			defer cancel()

			if err := s.app.Shutdown(ctx); err != nil {
				s.logger.Error("failed to shutdown app container", zap.Error(err))
			} else {
				s.logger.Info("App container shutdown gracefully")
			}
		}
	})

	return s, nil
}

// attachServer binds the listener with retry and serves until the close signal
// attachServer 带重试地绑定端口并提供服务，直到收到关闭信号
func (s *Server) attachServer(name string, srv *http.Server) {
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-closeSignal:
				cancel()
			case <-ctx.Done():
			}
		}()

		ln, err := listenWithRetry(ctx, srv.Addr, s.config.GetListenRetry(), s.logger)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Error(name+" listen err", zap.String("addr", srv.Addr), zap.Error(err))
				s.sc.SendCloseSignal(err)
			}
			return
		}

		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.Serve(ln)
		}()

		select {
		case err := <-errChan:
			s.logger.Error(name+" err", zap.Error(err))
			s.sc.SendCloseSignal(err)
		case <-closeSignal:
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()

			// Stop HTTP server
			// 停止 HTTP 服务器
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Error(name+" shutdown error", zap.Error(err))
			}
		}
	})
}

// listenWithRetry 端口仍被上一个进程占用时按指数退避重试，直到 maxElapsed
// 重启交接时旧进程在新进程确认存活后才释放端口
func listenWithRetry(ctx context.Context, addr string, maxElapsed time.Duration, lg *zap.Logger) (net.Listener, error) {
	if maxElapsed <= 0 {
		return net.Listen("tcp", addr)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = maxElapsed

	var ln net.Listener
	err := backoff.RetryNotify(func() error {
		l, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		ln = l
		return nil
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		lg.Warn("listen failed, retrying", zap.String("addr", addr), zap.Duration("next", next), zap.Error(err))
	})
	return ln, err
}

func initScheduler(s *Server) {
	// Create task manager
	// 创建任务管理器
	manager := task.NewManager(s.logger, s.sc, s.app)

	// Register all tasks (business layer control)
	// 注册所有任务(业务层控制)
	if err := manager.RegisterTasks(); err != nil {
		s.logger.Error("failed to register tasks", zap.Error(err))
		return
	}

	// Start task scheduler
	// 启动任务调度器
	manager.Start()
}

// initLoggerWithConfig initializes logger (using injected config)
// initLoggerWithConfig 初始化日志器（使用注入的配置）
func initLoggerWithConfig(s *Server, cfg *internalApp.AppConfig) error {
	lg, err := logger.NewLogger(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		Production: cfg.Log.Production,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	s.logger = lg

	return nil
}

// initValidator installs the gin validator and returns its translator
// initValidator 安装 gin 校验器并返回翻译器
func initValidator() (*ut.UniversalTranslator, error) {
	customValidator := validator.NewCustomValidator()
	binding.Validator = customValidator

	validate, ok := customValidator.Engine().(*validatorV10.Validate)
	if !ok {
		return nil, fmt.Errorf("unexpected validator engine %T", customValidator.Engine())
	}
	return validator.NewTranslator(validate)
}

// GetApp gets App Container
// GetApp 获取 App Container
func (s *Server) GetApp() *internalApp.App {
	return s.app
}

// GetConfig gets app configuration
// GetConfig 获取应用配置
func (s *Server) GetConfig() *internalApp.AppConfig {
	return s.config
}
