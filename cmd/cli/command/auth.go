package command

import (
	"fmt"
	"time"

	"bookhub/cmd/cli/authentication"
	"bookhub/cmd/cli/command/client"
	"bookhub/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

// auth.go handles register, login and logout for the bookhub CLI.

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the bookhub API server. Supports register, login and logout.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new bookhub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.RegisterRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")
		req.Email, _ = cmd.Flags().GetString("email")

		resp, err := client.NewHTTPClient(apiURL).Register(cmd.Context(), &req)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		printOK("Registration successful! Please login to continue.")
		fmt.Printf("UserID: %s\n", resp.UserID)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your bookhub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")

		resp, err := client.NewHTTPClient(apiURL).Login(cmd.Context(), &req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		creds := &authentication.StoredCredentials{
			RefreshToken: resp.RefreshToken,
			Username:     resp.Username,
			Lifetime:     resp.ExpiresIn,
		}
		creds.Renew(resp.AccessToken, time.Now())
		if err := authentication.StoreTokens(creds); err != nil {
			return fmt.Errorf("store session: %w", err)
		}

		printOK("Logged in as %s", resp.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from your bookhub account",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			printOK("Already logged out.")
			return nil
		}

		// the local session is dropped even when the server cannot be reached
		if err := client.NewHTTPClient(apiURL).Logout(cmd.Context(), creds.RefreshToken); err != nil {
			warnColor.Println("! Server logout failed:", err)
		}
		if err := authentication.DeleteTokens(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		printOK("Logged out.")
		return nil
	},
}

func init() {
	authCmd.AddCommand(registerCmd, loginCmd, logoutCmd)

	registerCmd.Flags().StringP("username", "u", "", "Username for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account")
	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("password")
	_ = registerCmd.MarkFlagRequired("email")

	loginCmd.Flags().StringP("username", "u", "", "Username for the account")
	loginCmd.Flags().StringP("password", "p", "", "Password for the account")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")
}
