package cmd

import (
	"fmt"
	"os"

	internalApp "github.com/haierkeys/start-page-service/internal/app"
	pkgapp "github.com/haierkeys/start-page-service/pkg/app"

	"github.com/spf13/cobra"
)

type tokenFlags struct {
	config   string
	uid      int64
	nickname string
}

func init() {
	flags := new(tokenFlags)

	var tokenCmd = &cobra.Command{
		Use:   "token [-c config_file] --uid uid",
		Short: "Issue an auth token for the admin update API // 签发管理接口使用的授权令牌",
		Long: `Issue an auth token for the admin update API.

Tokens are bound to security.auth-token-key and to this machine,
so run the command on the host that serves the API.`,
		Run: func(cmd *cobra.Command, args []string) {
			configPath := flags.config
			if len(configPath) <= 0 {
				configPath = "config/config.yaml"
			}

			appConfig, _, err := internalApp.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Failed to load config: %v\n", err)
				os.Exit(1)
			}

			uid := flags.uid
			if uid == 0 {
				uid = int64(appConfig.User.AdminUID)
			}

			tm := pkgapp.NewTokenManager(pkgapp.TokenConfig{
				SecretKey: appConfig.Security.AuthTokenKey,
				Issuer:    pkgapp.DefaultTokenIssuer,
				Expiry:    appConfig.GetTokenExpiry(),
			})
			token, err := tm.Generate(uid, flags.nickname, "127.0.0.1")
			if err != nil {
				fmt.Printf("Failed to generate token: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(token)
		},
	}

	rootCmd.AddCommand(tokenCmd)
	fs := tokenCmd.Flags()
	fs.StringVarP(&flags.config, "config", "c", "", "config file")
	fs.Int64VarP(&flags.uid, "uid", "u", 0, "user id, defaults to user.admin-uid")
	fs.StringVarP(&flags.nickname, "nickname", "n", "admin", "nickname stored in the token")
}
