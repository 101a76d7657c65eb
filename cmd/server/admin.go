package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"churchsite/internal/adapters/storage"
	accountStore "churchsite/internal/adapters/storage/account"
	"churchsite/internal/application/orchestrators"
)

var (
	newUsername string
	newEmail    string
	newPassword string
	newRole     string
)

// migrateCmd applies pending schema migrations and exits
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Bring the database at CHURCH_DB_PATH up to the latest schema.
A file backup is taken before each pending step.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

// createAdminCmd adds a CMS account directly in the database
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a CMS account",
	Long: `Create an admin or editor account without going through the API.
Useful to recover access when every admin password is lost.`,
	Args: cobra.NoArgs,
	RunE: runCreateAdmin,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	before, err := storage.SchemaVersion(db)
	if err != nil {
		return err
	}
	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d -> %d\n", before, storage.LatestSchemaVersion())
	return nil
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	password := newPassword
	if password == "" {
		password = os.Getenv("CHURCH_NEW_PASSWORD")
	}
	if password == "" {
		return errors.New("a password is required: use --password or CHURCH_NEW_PASSWORD")
	}

	db, err := openMigrated(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	acct, err := orchestrators.ExecuteCreateAccount(commandContext(cmd), orchestrators.CreateAccountInput{
		Username: newUsername,
		Email:    newEmail,
		Password: password,
		Role:     newRole,
	}, orchestrators.CreateAccountDeps{
		AccountStore: accountStore.NewSQLiteStore(db),
		Now:          time.Now,
	})
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s account %q\n", acct.Role, acct.Username)
	return nil
}
