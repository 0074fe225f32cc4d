package command

import (
	"fmt"
	"time"

	"revivalhub/cmd/cli/authentication"
	"revivalhub/cmd/cli/command/client"
	"revivalhub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

// auth.go handles authentication commands: register, login, logout and status.

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the RevivalHub API server. Supports login, registration, logout.`,
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new RevivalHub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.RegisterRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")
		req.Email, _ = cmd.Flags().GetString("email")

		response, err := client.NewHTTPClient(apiURL).Register(cmd.Context(), &req)
		if err != nil {
			return fmt.Errorf("registration process failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "✓ Registration successful! Please login to continue.")
		fmt.Fprintf(out, "UserID: %s\n", response.UserID)
		return nil
	},
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your RevivalHub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")

		response, err := client.NewHTTPClient(apiURL).Login(cmd.Context(), &req)
		if err != nil {
			return fmt.Errorf("login process failed: %w", err)
		}

		creds := &authentication.StoredCredentials{
			AccessToken: response.AccessToken,
			UserID:      response.UserID,
			Username:    response.Username,
			ExpiresAt:   time.Now().Add(time.Duration(response.ExpiresIn) * time.Second).Unix(),
		}
		if err := authentication.StoreTokens(creds); err != nil {
			return fmt.Errorf("failed to store token in keyring: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s\n", response.Username)
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from your RevivalHub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteTokens(); err != nil {
			return fmt.Errorf("failed to remove stored token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Successfully logged out.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the logged in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s), token expires %s\n",
			creds.Username, creds.UserID, time.Unix(creds.ExpiresAt, 0).Format(time.RFC1123))
		return nil
	},
}

// init function to add auth commands to root command
func init() {
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)

	registerCmd.Flags().StringP("username", "u", "", "Username for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account")
	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")
	registerCmd.MarkFlagRequired("email")

	loginCmd.Flags().StringP("username", "u", "", "Username for the account")
	loginCmd.Flags().StringP("password", "p", "", "Password for the account")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")
}
