package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"classechat/config"
	"classechat/internal/prompt"
	"classechat/pkg/client"
	"classechat/pkg/httpx"
	"classechat/pkg/logger"
	"classechat/pkg/metrics"
	"classechat/pkg/models"
)

var (
	version = "dev"
	commit  = "unknown"
)

var cfgPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "classechat",
	Short: "Terminal client for the classroom messaging API",
	Long: `classechat is a terminal client for the classroom messaging API:
class feeds, private conversations, contacts and the unread counter.`,
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file path (default is $HOME/.classechat.yaml)")
	rootCmd.PersistentFlags().Int64("user", 0, "acting user id (overrides config)")
	rootCmd.PersistentFlags().String("api-base", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().Bool("ask-key", false, "prompt for the API key instead of reading it from config")
}

// loadConfig merges file/env config with flag overrides, then initializes
// logging and the optional metrics listener.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return cfg, err
	}
	if v, _ := cmd.Flags().GetString("api-base"); v != "" {
		cfg.APIBase = v
	}
	if v, _ := cmd.Flags().GetInt64("user"); v > 0 {
		cfg.User.ID = v
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}
	if ask, _ := cmd.Flags().GetBool("ask-key"); ask {
		key, err := prompt.APIKey(bufio.NewReader(os.Stdin))
		if err != nil {
			return cfg, err
		}
		cfg.APIKey = key
	}
	logger.InitWithLevel(cfg.Logging.Level)
	if cfg.MetricsAddr != "" {
		metrics.Serve(cfg.MetricsAddr)
	}
	return cfg, nil
}

func newClient(cfg config.Config) (*client.Client, error) {
	doer, err := httpx.New(cfg.Transport, httpx.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	return client.New(client.Config{BaseURL: cfg.APIBase, Doer: doer, APIKey: cfg.APIKey}), nil
}

func session(cfg config.Config) models.Session {
	return models.Session{UserID: cfg.User.ID, Name: cfg.User.Name, Role: cfg.User.Role}
}
