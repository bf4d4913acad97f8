package client

import "github.com/spf13/cobra"

func NewClientCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Client SDK commands",
	}

	cmd.AddCommand(NewSyncCommand())

	return cmd
}
