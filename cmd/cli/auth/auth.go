package auth

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/crucial707/staybook/cmd/cli/client"
	"github.com/crucial707/staybook/cmd/cli/config"
	"github.com/crucial707/staybook/cmd/cli/output"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// User is the account as returned by the API.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// InitAuth registers auth-related CLI commands on the root command.
func InitAuth(rootCmd *cobra.Command) {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign up, log in and manage the current session",
	}
	authCmd.AddCommand(signupCmd(), loginCmd(), logoutCmd(), profileCmd())
	rootCmd.AddCommand(authCmd)
}

func signupCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" {
				return errors.New("--name and --email are required")
			}
			password, err := promptPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var user User
			payload := map[string]string{"name": name, "email": email, "password": password}
			if _, err := client.Call("POST", "/api/v1/user/signUp", payload, &user, false); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %d created for %s. You can now log in.\n", user.ID, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	return cmd
}

// loginCmd logs in and stores the session token from the response cookie.
func loginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			password, err := promptPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			var out struct {
				User User `json:"user"`
			}
			resp, err := client.Call("POST", "/api/v1/user/login",
				map[string]string{"email": email, "password": password}, &out, false)
			if err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			token := client.SessionToken(resp)
			if token == "" {
				return errors.New("login succeeded but no session cookie returned")
			}
			if err := config.SaveToken(token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s. Token stored locally.\n", out.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email to authenticate as")
	return cmd
}

// logoutCmd revokes the session on the server and removes the local token.
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and remove the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.LoadToken(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			if _, err := client.Call("POST", "/api/v1/user/logout", nil, nil, true); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: server logout failed:", err)
			}
			if _, err := config.RemoveToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
			return nil
		},
	}
}

func profileCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the logged in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			var user User
			if _, err := client.Call("GET", "/api/v1/user/profile", nil, &user, true); err != nil {
				return err
			}
			if asJSON {
				return output.RenderJSON(user)
			}
			output.RenderTable([]string{"ID", "Name", "Email"}, [][]interface{}{{user.ID, user.Name, user.Email}})
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

func promptPassword(w io.Writer) (string, error) {
	fmt.Fprint(w, "Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
