package users

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/crucial707/staybook/cmd/cli/client"
	"github.com/crucial707/staybook/cmd/cli/config"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage your account",
	}
	usersCmd.AddCommand(updateUserCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// Update Profile
// ==========================
// updateUserCmd changes name and email. The API re-issues the session, so the stored token is
// replaced with the new one.
func updateUserCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update your name and email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			if name == "" || email == "" {
				return errors.New("--name and --email are required")
			}

			var user struct {
				ID    int    `json:"id"`
				Name  string `json:"name"`
				Email string `json:"email"`
			}
			resp, err := client.Call("PUT", "/api/v1/users/"+strconv.Itoa(id),
				map[string]string{"name": name, "email": email}, &user, true)
			if err != nil {
				return err
			}
			if token := client.SessionToken(resp); token != "" {
				if err := config.SaveToken(token); err != nil {
					return fmt.Errorf("failed to save token: %w", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile updated: %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&email, "email", "", "New email address")
	return cmd
}
