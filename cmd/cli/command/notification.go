package command

import (
	"context"
	"fmt"
	"io"
	"time"

	"revivalhub/cmd/cli/command/client"
	"revivalhub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

// notification.go reads and follows the caller's notifications.

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "Read your notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show your newest notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		list, err := c.Notifications(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("failed to list notifications: %w", err)
		}
		printNotifications(cmd.OutOrStdout(), list)
		return nil
	},
}

var notificationsUnreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Show the number of unread notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		count, err := c.UnreadCount(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d unread\n", count)
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := authedClient()
		if err != nil {
			return err
		}
		if _, err := c.MarkRead(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to mark notification read: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Marked as read")
		return nil
	},
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll for new notifications until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval <= 0 {
			return fmt.Errorf("invalid --interval %s: must be greater than zero", interval)
		}
		c, err := authedClient()
		if err != nil {
			return err
		}
		return watchNotifications(cmd.Context(), c, interval, cmd.OutOrStdout())
	},
}

// watchNotifications prints notifications it has not printed before, polling
// every interval until ctx is done.
func watchNotifications(ctx context.Context, c *client.HTTPClient, interval time.Duration, out io.Writer) error {
	seen := map[string]bool{}
	first := true

	poll := func() error {
		list, err := c.Notifications(ctx, 0)
		if err != nil {
			return err
		}
		// the feed is newest first, print oldest first
		for i := len(list) - 1; i >= 0; i-- {
			n := list[i]
			if seen[n.ID] {
				continue
			}
			seen[n.ID] = true
			if first && n.Read {
				continue
			}
			printNotification(out, n)
		}
		first = false
		return nil
	}

	if err := poll(); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := poll(); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				fmt.Fprintf(out, "! poll failed: %v\n", err)
			}
		}
	}
}

func printNotifications(out io.Writer, list []dto.NotificationResponse) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No notifications.")
		return
	}
	for _, n := range list {
		printNotification(out, n)
	}
}

func printNotification(out io.Writer, n dto.NotificationResponse) {
	marker := "●"
	if n.Read {
		marker = " "
	}
	fmt.Fprintf(out, "%s %s  %s  %s\n", marker, n.CreatedAt.Local().Format("2006-01-02 15:04"), n.Title, n.ID)
	fmt.Fprintf(out, "    %s\n", n.Body)
}

func init() {
	notificationsCmd.AddCommand(notificationsListCmd)
	notificationsCmd.AddCommand(notificationsUnreadCmd)
	notificationsCmd.AddCommand(notificationsReadCmd)
	notificationsCmd.AddCommand(notificationsWatchCmd)

	notificationsListCmd.Flags().IntP("limit", "n", 0, "Maximum notifications to show (server default when 0)")
	notificationsWatchCmd.Flags().Duration("interval", 10*time.Second, "Polling interval")
}
