package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/identity/pkg/identitysdk"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var (
		serverURL, login, password string
		passwordStdin, asJSON      bool
		retries                    int
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain a bearer token from the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd.InOrStdin(), password, passwordStdin)
			if err != nil {
				return err
			}

			client := identitysdk.NewClient(serverURL)
			client.MaxRetries = retries

			tok, err := client.Login(cmd.Context(), login, pw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tok)
			}
			fmt.Fprintln(out, tok.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", tok.Expires.Format(time.RFC3339))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&serverURL, "url", envOrDefault("IDENTITY_URL", "http://localhost:8080"), "Identity service base URL")
	f.StringVar(&login, "login", "", "Login name")
	f.StringVar(&password, "password", "", "Password")
	f.BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	f.BoolVar(&asJSON, "json", false, "Print the full token response as JSON")
	f.IntVar(&retries, "retries", 3, "Retries on transient failures")
	_ = cmd.MarkFlagRequired("login")

	return cmd
}
