package main

// @title Review Replier API
// @version 1.0
// @description Review reply assistant for marketplace sellers: registration, accounts and reviews.

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
// @schemes http
import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "review-replier/docs"

	"review-replier/configs"
	protocol "review-replier/protocal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	env        string
)

var rootCmd = &cobra.Command{
	Use:   "replier",
	Short: "Marketplace review reply assistant",
	Long: `Replier helps marketplace sellers answer buyer reviews from a chat.

Run "replier api" for the web API and "replier bot" for the chat bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configs.InitViper(configPath, env)
	},
}

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the web API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return protocol.ServeHTTP(cmd.Context())
	},
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the chat bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return protocol.ServeBot(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./configs", "directory holding config.yaml")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "the environment to use")
	rootCmd.AddCommand(apiCmd, botCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Println(err)
		stop()
		os.Exit(1)
	}
}
