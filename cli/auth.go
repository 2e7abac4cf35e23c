package cli

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"hotelbook/models"

	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				password = strings.TrimRight(line, "\r\n")
			}
			sess, err := application.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd, map[string]any{"role": sess.Role})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", sess.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when empty)")
	return cmd
}

func registerCmd() *cobra.Command {
	var req models.RegistrationRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a customer account",
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := application.Auth.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			if message == "" {
				message = "Registered. You can now log in."
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password")
	cmd.Flags().StringVar(&req.PhoneNumber, "phone", "", "Phone number")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := application.Auth.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ok := application.Oracle.Current()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			out := map[string]any{"role": sess.Role}
			if claims, err := application.Auth.Claims(); err == nil {
				out["subject"] = claims.Subject
				if !claims.ExpiresAt.IsZero() {
					out["expiresAt"] = claims.ExpiresAt.Format(time.RFC3339)
					out["expired"] = claims.Expired(time.Now())
				}
			}
			if jsonOutput {
				return printJSON(cmd, out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Role: %s\n", sess.Role)
			if sub, ok := out["subject"]; ok {
				fmt.Fprintf(cmd.OutOrStdout(), "User: %s\n", sub)
			}
			if exp, ok := out["expiresAt"]; ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Expires: %s\n", exp)
			}
			return nil
		},
	}
}
