package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"churchsite/internal/adapters/apiclient"
)

var (
	loginUser     string
	loginPassword string
)

// loginCmd stores a session for later commands
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session token",
	Long: `Log in with a CMS account. The password is taken from --password,
then CHURCH_PASSWORD, then read from standard input.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// logoutCmd ends the session on the server and removes the local file
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// whoamiCmd shows the account behind the saved session
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := resolvePassword(cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c, _, err := newClient()
	if err != nil {
		return err
	}
	sess, err := c.Login(commandContext(cmd), loginUser, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := sess.Save(sessionPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.User.Username, sess.User.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	c, sess, err := newClient()
	if err != nil {
		return err
	}
	if sess.Token != "" {
		// The local file goes regardless; a dead server session is already logged out.
		if err := c.Logout(commandContext(cmd)); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: server logout failed: %v\n", err)
		}
	}
	if err := apiclient.ClearSession(sessionPath); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	c, _, err := requireSession()
	if err != nil {
		return err
	}
	u, err := c.Me(commandContext(cmd))
	if apiclient.IsStatus(err, http.StatusUnauthorized) {
		_ = apiclient.ClearSession(sessionPath)
		return errors.New("session expired: run 'churchctl login' again")
	}
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", u.Username, u.Role)
	if u.Email != "" {
		fmt.Fprintln(out, u.Email)
	}
	return nil
}

func resolvePassword(in io.Reader, prompt io.Writer) (string, error) {
	if loginPassword != "" {
		return loginPassword, nil
	}
	if p := os.Getenv("CHURCH_PASSWORD"); p != "" {
		return p, nil
	}
	fmt.Fprint(prompt, "Password: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
