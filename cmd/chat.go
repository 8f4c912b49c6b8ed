package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"classechat/internal/prompt"
	"classechat/internal/render"
	"classechat/pkg/client"
	"classechat/pkg/logger"
	"classechat/pkg/models"
	"classechat/pkg/poller"
)

var (
	chatClassID  int64
	chatPeerID   int64
	chatPeerName string
	chatInterval time.Duration
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open a conversation view and send messages from stdin",
	Long: `Open a class feed (--classe) or a private conversation (--avec) and
keep it fresh by polling. Lines typed on stdin are sent as messages;
/quit exits.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Int64Var(&chatClassID, "classe", 0, "class id for the public feed")
	chatCmd.Flags().Int64Var(&chatPeerID, "avec", 0, "user id for a private conversation")
	chatCmd.Flags().StringVar(&chatPeerName, "nom", "", "display name of the private peer")
	chatCmd.Flags().DurationVar(&chatInterval, "interval", 0, "poll interval (default from config, 5s)")
}

func runChat(cmd *cobra.Command, args []string) error {
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
	if (chatClassID > 0) == (chatPeerID > 0) {
		return fmt.Errorf("specify exactly one of --classe or --avec")
	}

	var key models.ConversationKey
	if chatClassID > 0 {
		key = models.ClassKey(chatClassID)
	} else {
		key = models.PrivateKey(cfg.User.ID, chatPeerID)
	}

	cl, err := newClient(cfg)
	if err != nil {
		return err
	}
	sess := session(cfg)
	interval := chatInterval
	if interval <= 0 {
		interval = cfg.Interval()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	title := render.Title(key, chatPeerName)

	pres, err := poller.New(poller.Config{
		Source:   cl,
		Session:  sess,
		Key:      key,
		Interval: interval,
		OnChange: func(snap poller.Snapshot) {
			fmt.Fprintln(out)
			render.Feed(out, snap, sess, title)
			fmt.Fprint(out, "> ")
		},
	})
	if err != nil {
		return err
	}
	if err := pres.Start(ctx); err != nil {
		return err
	}
	defer pres.Stop()

	fmt.Fprintln(out, "Type a message and press enter to send; /quit to exit.")
	fmt.Fprint(out, "> ")

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "/quit" {
				return nil
			}
			if strings.TrimSpace(line) == "" {
				fmt.Fprint(out, "> ")
				continue
			}
			if err := pres.Send(ctx, line); err != nil {
				switch {
				case errors.Is(err, poller.ErrSendInFlight):
					fmt.Fprintln(out, "previous message still sending; not sent:")
					fmt.Fprintln(out, "  "+line)
				case errors.Is(err, client.ErrEmptyBody):
					// nothing went out
				default:
					// The composed text is echoed back so it is not lost.
					logger.Log.Warn("send failed", "key", key.String(), "err", err)
					fmt.Fprintf(out, "could not send message: %v\nyour text: %s\n", err, line)
				}
				fmt.Fprint(out, "> ")
			}
		}
	}
}
