package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	clientcmd "github.com/propconnect/propconnect/cmd/client"
	httpcmd "github.com/propconnect/propconnect/cmd/http"
	systemcmd "github.com/propconnect/propconnect/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "propconnect",
	Short: "PropConnect property management platform.",
	Long: `PropConnect connects tenants, owners and property managers in one place:
maintenance requests, conversations with contacts and assistants, and
notifications, served from a single deployment.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(clientcmd.NewClientCommand())
}
