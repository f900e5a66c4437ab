package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"energy-cli/internal/router"
	"energy-cli/internal/session"
	"energy-cli/pkg/models"
)

// Variables to hold flag values
var (
	host string
	user string
	pass string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:         "login",
	Short:       "Authenticate with the energy API",
	Annotations: viewAnnotation(router.LoginPath),
	Long: `Authenticates with username and password and saves the returned token and
role locally, so later commands are authorized.

Example:
  energy-cli login --host "http://10.0.0.5:8080" --username admin --password pass`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current

		// Persist the base URL so subsequent commands know where to connect.
		if host != "" {
			host = strings.TrimRight(host, "/")
			a.file.Set("base_url", host)
			a.client.HTTP.SetBaseURL(host)
		}

		fmt.Printf("Authenticating against %s as user '%s'...\n", a.client.HTTP.BaseURL, user)

		res, err := a.client.Login(cmd.Context(), models.LoginForm{Username: user, Password: pass})
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Printf("Login successful (role: %s). Session saved.\n", session.Role(res.Role))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.client.Logout(); err != nil {
			return err
		}
		current.router.Push(router.LoginPath)
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)

	loginCmd.Flags().StringVar(&host, "host", "", "API base URL to save (e.g. http://localhost:8080)")
	loginCmd.Flags().StringVarP(&user, "username", "u", "admin", "Username")
	loginCmd.Flags().StringVarP(&pass, "password", "p", "", "Password")

	_ = loginCmd.MarkFlagRequired("password")
}
