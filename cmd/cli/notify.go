package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gabsakura/Projeto-siteProfissional/internal/client"
)

func newNotifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Read and send notifications",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "send <text>...",
			Short: "Broadcast a notification to every user",
			Args:  cobra.MinimumNArgs(1),
			RunE: protected(routeFor("/notifications/send"), func(ctx context.Context, c *client.Client, _ *cobra.Command, args []string) error {
				n, err := c.SendNotification(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Printf("Sent notification %d.\n", n.ID)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "Show notifications, newest first",
			Args:  cobra.NoArgs,
			RunE: protected(routeFor("/notifications"), func(ctx context.Context, c *client.Client, _ *cobra.Command, _ []string) error {
				list, err := c.ListNotifications(ctx)
				if err != nil {
					return err
				}
				for _, n := range list {
					mark := "*"
					if n.Read {
						mark = " "
					}
					fmt.Printf("%s %d\t%s\t%s\n", mark, n.ID, n.Timestamp.Local().Format("02/01/2006 15:04"), n.Text)
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "read <id>...",
			Short: "Mark notifications as read",
			Args:  cobra.MinimumNArgs(1),
			RunE: protected(routeFor("/notifications"), func(ctx context.Context, c *client.Client, _ *cobra.Command, args []string) error {
				ids, err := parseInts(args...)
				if err != nil {
					return err
				}
				for _, id := range ids {
					if err := c.MarkNotificationRead(ctx, id); err != nil {
						return fmt.Errorf("notification %d: %w", id, err)
					}
				}
				return nil
			}),
		},
	)
	return cmd
}
