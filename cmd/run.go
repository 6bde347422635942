package cmd

import (
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/haierkeys/start-page-service/pkg/fileurl"
	"github.com/haierkeys/start-page-service/pkg/util"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	dir     string // Project root directory // 项目根目录
	port    string // Startup port // 启动端口
	runMode string // Startup mode // 启动模式
	config  string // Specified configuration file path // 指定要使用的配置文件路径
}

func init() {
	runEnv := new(runFlags)

	var runCommand = &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Run service",
		Run: func(cmd *cobra.Command, args []string) {
			if len(runEnv.dir) > 0 {
				err := os.Chdir(runEnv.dir)
				if err != nil {
					bootstrapLogger.Error("failed to change the current working directory", zap.Error(err))
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			if len(runEnv.config) <= 0 {
				runEnv.config = fileurl.FirstExisting("config/config-dev.yaml", "config.yaml", defaultConfigPath)
			}
			if runEnv.config == "" {
				runEnv.config = defaultConfigPath
				if err := writeDefaultConfig(runEnv.config); err != nil {
					bootstrapLogger.Error("config file auto create error", zap.Error(err))
					return
				}
				bootstrapLogger.Info("config file auto create successfully", zap.String("path", runEnv.config))
			}

			s, err := NewServer(runEnv)
			if err != nil {
				bootstrapLogger.Error("api service start err", zap.Error(err))
				return
			}

			// 配置热重载会替换 Server，主循环通过 current 读取最新实例
			var mu sync.Mutex
			current := func() *Server {
				mu.Lock()
				defer mu.Unlock()
				return s
			}

			// 任一 Server 的替代进程就绪后都会通知 restarted
			restarted := make(chan struct{}, 1)
			watchRestart := func(srv *Server) {
				go func() {
					select {
					case <-srv.GetApp().RestartSignal():
						select {
						case restarted <- struct{}{}:
						default:
						}
					case <-srv.GetApp().ShutdownCh():
					}
				}()
			}
			watchRestart(s)

			w := watcher.New()

			// Set MaxEvents to 1 to receive at most 1 event in each listening cycle
			// 将 SetMaxEvents 设置为 1，以便在每个监听周期中至多接收 1 个事件
			w.SetMaxEvents(1)

			// Only notify write events.
			// 只通知写入事件。
			w.FilterOps(watcher.Write)

			go func() {
				for {
					select {
					case event := <-w.Event:
						old := current()
						old.logger.Info("config watcher change", zap.String("event", event.Op.String()), zap.String("file", event.Path))

						// 重启交接期间不替换 Server，否则重启信号和重启锁会随旧实例一起丢失
						if !old.GetApp().Updater.Retire() {
							old.logger.Warn("restart in progress, config reload skipped", zap.String("file", event.Path))
							continue
						}
						old.sc.SendCloseSignal(nil)
						if err := old.sc.WaitClosed(); err != nil {
							old.logger.Error("shutdown before reload failed", zap.Error(err))
						}

						// Re-initialize server
						// 重新初始化 server
						next, err := NewServer(runEnv)
						if err != nil {
							bootstrapLogger.Error("service start err", zap.Error(err))
							continue
						}
						mu.Lock()
						s = next
						mu.Unlock()
						watchRestart(next)

					case err := <-w.Error:
						current().logger.Error("config watcher error", zap.Error(err))
					case <-w.Closed:
						bootstrapLogger.Info("config watcher closed")
						return
					}
				}
			}()

			// Watch config.yaml file
			// 监听 config.yaml 文件
			if err := w.Add(runEnv.config); err != nil {
				s.logger.Error("config watcher file error", zap.Error(err))
			}

			// Start watching
			// 启动监听
			go func() {
				if err := w.Start(time.Second * 5); err != nil {
					current().logger.Error("config watcher start error", zap.Error(err))
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case <-quit:
				current().logger.Info("Received shutdown signal, initiating graceful shutdown...")
			case <-restarted:
				current().logger.Info("Replacement process is running, releasing ports and exiting...")
			}

			w.Close()
			srv := current()
			srv.sc.SendCloseSignal(nil)

			// Wait for all shutdown handlers to complete (including App Container graceful shutdown)
			// 等待所有关闭处理器完成（包括 App Container 的优雅关闭）
			if err := srv.sc.WaitClosed(); err != nil {
				srv.logger.Error("Shutdown completed with error", zap.Error(err))
			} else {
				srv.logger.Info("Service has been shut down gracefully.")
			}
			_ = srv.logger.Sync()
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "run dir")
	fs.StringVarP(&runEnv.port, "port", "p", "", "run port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "run mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}

const defaultConfigPath = "config/config.yaml"

// writeDefaultConfig 首次运行时写入内置的默认配置，并替换为随机密钥
func writeDefaultConfig(path string) error {
	bootstrapLogger.Warn("config file not found, creating default config")

	content := strings.Replace(configDefault, "start-page-Auth-Token", util.GetRandomString(32), 1)

	if err := fileurl.CreatePath(path, os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
