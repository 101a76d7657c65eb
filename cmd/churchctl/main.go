package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"churchsite/internal/adapters/apiclient"
	"churchsite/internal/logging"
)

var (
	// Global flags
	serverURL   string
	sessionPath string
	timeout     time.Duration
	cacheTTL    time.Duration
	verbose     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "churchctl",
	Short: "Manage church site content from the terminal",
	Long: `churchctl talks to a running church site over its JSON API.

Log in once with 'churchctl login'; the session token is kept in a file
under your config directory until 'churchctl logout' or until it expires.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetupWriter(os.Stderr, "cli", verbose)
		if sessionPath == "" {
			p, err := apiclient.DefaultSessionPath()
			if err != nil {
				return err
			}
			sessionPath = p
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOr("CHURCH_SERVER", "http://localhost:8080"), "Site base URL (or set CHURCH_SERVER)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "Session file (default: <config dir>/churchsite/session.json)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", apiclient.DefaultTimeout, "Per-request timeout")
	rootCmd.PersistentFlags().DurationVar(&cacheTTL, "cache-ttl", apiclient.DefaultCacheTTL, "How long reads may be served from cache")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	loginCmd.Flags().StringVarP(&loginUser, "username", "u", "", "Account username (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (or set CHURCH_PASSWORD; prompted otherwise)")
	loginCmd.MarkFlagRequired("username")

	eventsListCmd.Flags().StringVar(&eventCategory, "category", "", "Only list events in this category")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsDeleteCmd)
	campaignsCmd.AddCommand(campaignsListCmd)
	menuCmd.AddCommand(menuTreeCmd)

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(campaignsCmd)
	rootCmd.AddCommand(menuCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds a client carrying the saved session, if any.
func newClient() (*apiclient.Client, apiclient.Session, error) {
	sess, err := apiclient.LoadSession(sessionPath)
	if err != nil && err != apiclient.ErrNoSession {
		return nil, apiclient.Session{}, err
	}
	if sess.Expired(time.Now()) {
		if err := apiclient.ClearSession(sessionPath); err != nil {
			return nil, apiclient.Session{}, err
		}
		sess = apiclient.Session{}
	}
	c := apiclient.New(serverURL, sess, apiclient.Options{Timeout: timeout, CacheTTL: cacheTTL})
	return c, sess, nil
}

// requireSession is newClient for commands that need to be logged in.
func requireSession() (*apiclient.Client, apiclient.Session, error) {
	c, sess, err := newClient()
	if err != nil {
		return nil, sess, err
	}
	if sess.Token == "" {
		return nil, sess, fmt.Errorf("%w: run 'churchctl login' first", apiclient.ErrNoSession)
	}
	return c, sess, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
