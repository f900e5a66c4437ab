package cmd

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

// sessionInfo is what whoami prints. Claims are decoded without verifying
// the signature; the server remains the only judge of a token.
type sessionInfo struct {
	BaseURL   string `json:"baseUrl"`
	LoggedIn  bool   `json:"loggedIn"`
	Role      string `json:"role"`
	Token     string `json:"token,omitempty"`
	Subject   string `json:"subject,omitempty"`
	IssuedAt  string `json:"issuedAt,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := describeSession(current.client.HTTP.BaseURL, current.session.Token(), current.session.Role().String())

		if jsonOutput {
			return printJSON(info)
		}

		w := newTable("FIELD", "VALUE")
		fmt.Fprintf(w, "base url\t%s\n", info.BaseURL)
		fmt.Fprintf(w, "logged in\t%t\n", info.LoggedIn)
		fmt.Fprintf(w, "role\t%s\n", info.Role)
		fmt.Fprintf(w, "token\t%s\n", orDash(info.Token))
		if info.Subject != "" {
			fmt.Fprintf(w, "subject\t%s\n", info.Subject)
		}
		if info.IssuedAt != "" {
			fmt.Fprintf(w, "issued at\t%s\n", info.IssuedAt)
		}
		if info.ExpiresAt != "" {
			fmt.Fprintf(w, "expires at\t%s\n", info.ExpiresAt)
		}
		return w.Flush()
	},
}

func describeSession(baseURL, token, role string) sessionInfo {
	info := sessionInfo{
		BaseURL:  baseURL,
		LoggedIn: token != "",
		Role:     role,
		Token:    maskToken(token),
	}
	if token == "" {
		return info
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return info // opaque token
	}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Local().Format(time.DateTime)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Local().Format(time.DateTime)
	}
	return info
}

func maskToken(token string) string {
	if len(token) <= 12 {
		if token == "" {
			return ""
		}
		return "****"
	}
	return token[:6] + "..." + token[len(token)-4:]
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
