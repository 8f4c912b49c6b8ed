package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"classechat/internal/prompt"
	"classechat/internal/render"
	"classechat/pkg/logger"
	"classechat/pkg/models"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List your private-message contacts and unread count",
	RunE:  runContacts,
}

func init() {
	rootCmd.AddCommand(contactsCmd)
}

func runContacts(cmd *cobra.Command, args []string) error {
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

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	// Both figures degrade to "unknown" independently; the screen stays
	// usable either way.
	contacts, err := cl.Contacts(ctx, cfg.User.ID)
	if err != nil {
		logger.Log.Warn("could not load contacts", "err", err)
		fmt.Fprintln(out, "Could not load contacts.")
		contacts = []models.Contact{}
	}
	unread, err := cl.UnreadCount(ctx, cfg.User.ID)
	if err != nil {
		logger.Log.Warn("could not load unread count", "err", err)
		unread = 0
	}

	render.Contacts(out, contacts, unread)
	return nil
}
