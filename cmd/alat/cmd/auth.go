package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarpras/alatclient/core/session"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store the session on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		username := loginUsername
		reader := bufio.NewReader(cmd.InOrStdin())
		if username == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Username: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return err
			}
			username = strings.TrimSpace(line)
		}

		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		password := strings.TrimSpace(line)

		sess, err := e.shell.Login(cmd.Context(), username, password)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s), session valid until %s\n",
			sess.User.Nama, sess.User.Role, sess.ExpiresAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and remove local credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.shell.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session state",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		sess, future, ok := e.shell.Startup(cmd.Context())
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.User.Nama, sess.User.Role)
		fmt.Fprintf(cmd.OutOrStdout(), "Session expires %s\n", sess.ExpiresAt.Format("2006-01-02 15:04"))

		// The probe answers from cached state; wait briefly so an already
		// revoked token is reported instead of discovered on the next call.
		if err := future.AwaitWithTimeout(e.cfg.API.Timeout); err != nil {
			if errors.Is(err, session.ErrAuthRejected) && !e.sessions.IsValid(cmd.Context()) {
				fmt.Fprintln(cmd.OutOrStdout(), "Session was rejected by the server; please log in again.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Could not confirm the session with the server (working offline).")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Session confirmed by the server.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd)
}
