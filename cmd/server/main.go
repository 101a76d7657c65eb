package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"churchsite/internal/config"
	"churchsite/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var (
	verbose bool
	cfg     config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Church website and content API",
	Long: `server runs the church website, its JSON content API and the
background workers that deliver queued email.

Configuration comes from CHURCH_* environment variables and an optional .env file.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logging.Setup(cfg.Env, verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	createAdminCmd.Flags().StringVarP(&newUsername, "username", "u", "", "Account username (required)")
	createAdminCmd.Flags().StringVar(&newEmail, "email", "", "Contact email")
	createAdminCmd.Flags().StringVar(&newPassword, "password", "", "Password (or set CHURCH_NEW_PASSWORD)")
	createAdminCmd.Flags().StringVar(&newRole, "role", "admin", "Role: admin or editor")
	createAdminCmd.MarkFlagRequired("username")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
