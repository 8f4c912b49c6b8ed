package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"classechat/internal/prompt"
	"classechat/pkg/logger"
)

var unreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Print the number of unread private messages",
	RunE:  runUnread,
}

func init() {
	rootCmd.AddCommand(unreadCmd)
}

func runUnread(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := prompt.FillMissing(&cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cl, err := newClient(cfg)
	if err != nil {
		return err
	}

	count, err := cl.UnreadCount(cmd.Context(), cfg.User.ID)
	if err != nil {
		// Unknown renders as zero; the failure is not fatal.
		logger.Log.Warn("could not load unread count", "err", err)
		count = 0
	}
	fmt.Fprintln(cmd.OutOrStdout(), count)
	return nil
}
