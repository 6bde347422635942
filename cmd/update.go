package cmd

import (
	"context"
	"fmt"
	"os"

	internalApp "github.com/haierkeys/start-page-service/internal/app"
	"github.com/haierkeys/start-page-service/internal/updater"
	"github.com/haierkeys/start-page-service/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for, download or install updates without the HTTP server",
	Long: `Check for, download or install updates without the HTTP server.

Restart is not offered here: stop the running service and start it again
after "update pull" and "update install".`,
}

func newUpdateSubCommand(use, short string, run func(ctx context.Context, svc *updater.Service) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			configPath, _ := cmd.Flags().GetString("config")
			svc, err := loadUpdater(configPath)
			if err != nil {
				fmt.Printf("Failed to init updater: %v\n", err)
				os.Exit(1)
			}
			if err := run(cmd.Context(), svc); err != nil {
				fmt.Printf("%s failed: %v\n", use, err)
				os.Exit(1)
			}
		},
	}
}

// loadUpdater 使用配置文件构建更新服务，日志只输出到控制台
func loadUpdater(configPath string) (*updater.Service, error) {
	if len(configPath) <= 0 {
		configPath = "config/config.yaml"
	}

	appConfig, _, err := internalApp.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	lg, err := logger.NewLogger(logger.Config{Level: appConfig.Log.Level})
	if err != nil {
		return nil, err
	}

	cfg, err := appConfig.GetUpdaterConfig()
	if err != nil {
		return nil, err
	}
	return updater.NewService(cfg, lg)
}

func printJSON(v any) error {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	checkCmd := newUpdateSubCommand("check", "Compare the deployed version with the latest release", func(ctx context.Context, svc *updater.Service) error {
		plan, err := svc.Check(ctx)
		if err != nil {
			return err
		}
		return printJSON(plan)
	})

	pullCmd := newUpdateSubCommand("pull", "Synchronize the deployment directory with upstream", func(ctx context.Context, svc *updater.Service) error {
		out, err := svc.Pull(ctx)
		fmt.Print(out)
		return err
	})

	installCmd := newUpdateSubCommand("install", "Install backend and frontend dependencies", func(ctx context.Context, svc *updater.Service) error {
		return svc.InstallDependencies(ctx)
	})

	for _, c := range []*cobra.Command{checkCmd, pullCmd, installCmd} {
		c.Flags().StringP("config", "c", "", "config file path")
		updateCmd.AddCommand(c)
	}
	rootCmd.AddCommand(updateCmd)
}
