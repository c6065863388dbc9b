package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alfredjeanlab/automa/internal/forms"
	"github.com/alfredjeanlab/automa/internal/session"
	"github.com/alfredjeanlab/automa/internal/ui"
	"github.com/alfredjeanlab/automa/internal/view"
)

var (
	loginUsername      string
	loginPassword      string
	loginPasswordStdin bool
)

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Log in and store the session token",
	GroupID: "session",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		form := forms.NewForm(forms.FormLogin, url.Values{
			"username": {loginUsername},
			"password": {password},
		})
		if err := app.Forms().SubmitLogin(context.Background(), form); err != nil {
			return err
		}

		snap := board.Snapshot()
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, map[string]any{"status": snap.LoginStatus, "session": snap.Session})
		}
		fmt.Fprintf(out, "Login: %s\n", snap.LoginStatus)
		if snap.Session.Visible {
			fmt.Fprintln(out, snap.Session.Text)
		}
		return nil
	},
}

// readPassword takes the password from the flag, from stdin, or from an
// interactive prompt, in that order.
func readPassword(cmd *cobra.Command) (string, error) {
	if loginPassword != "" {
		return loginPassword, nil
	}
	in := cmd.InOrStdin()
	if loginPasswordStdin {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	f, ok := in.(*os.File)
	if !ok || !ui.IsTerminal(f) {
		return "", fmt.Errorf("password required: use --password or --password-stdin")
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Forget the stored session token",
	GroupID: "session",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Sessions().Invalidate(); err != nil {
			return fmt.Errorf("logging out: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]string{"state": app.Sessions().State().String()})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the logged-in user",
	GroupID: "session",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := app.Sessions().Refresh(context.Background())
		if errors.Is(err, session.ErrAnonymous) {
			return fmt.Errorf("not logged in")
		}
		if err != nil {
			return fmt.Errorf("session is no longer valid, log in again: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), u)
		}
		fmt.Fprintln(cmd.OutOrStdout(), view.RenderSession(u).Text)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account e-mail (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "read the password from stdin")
	_ = loginCmd.MarkFlagRequired("username")
}
