package cmd

import (
	"fmt"
	"runtime"

	"github.com/haierkeys/start-page-service/internal/app"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build version info and exit // 打印构建版本信息并退出",
	Long: "Prints the version compiled into the binary. The deployed release version is read " +
		"from the manifest and reported by `update check`.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s v%s (git %s) built %s %s/%s\n",
			app.Name, app.Version, app.GitTag, app.BuildTime, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
