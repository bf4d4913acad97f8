package client

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/propconnect/propconnect/config"
	sdk "github.com/propconnect/propconnect/pkg/client"
	"github.com/propconnect/propconnect/pkg/logs"
)

// NewSyncCommand runs one full synchronization pass and prints the result.
// Useful for checking connectivity and for demoing fixture mode offline.
func NewSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch maintenance requests and contacts once and print them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}

			slog.SetDefault(logs.New(cfg))

			c, err := sdk.New(cfg.Client, slog.Default())
			if err != nil {
				return fmt.Errorf("build client: %w", err)
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := c.Requests.FetchAll(ctx); err != nil {
				return fmt.Errorf("fetch maintenance requests: %w", err)
			}
			for _, t := range c.Requests.Tickets() {
				fmt.Printf("%-40s %-12s %-10s %s\n", t.Title, t.Status, t.Priority, t.ID)
			}

			if err := c.Conversations.LoadContacts(ctx); err != nil {
				return fmt.Errorf("load contacts: %w", err)
			}
			for _, contact := range c.Conversations.Contacts() {
				kind := "contact"
				if contact.Assistant {
					kind = "assistant"
				}
				fmt.Printf("%-30s %-10s unread=%d\n", contact.Name, kind, contact.Unread)
			}

			return nil
		},
	}

	return cmd
}
