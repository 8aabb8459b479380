package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/spf13/cobra"
)

func newKeygenCmd() *cobra.Command {
	var (
		size      int
		seal      bool
		masterKey string
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random token signing key",
		Long: `Prints a random HMAC signing key.

Without --seal the output is "base64:<key>", suitable for AUTH_SIGNING_KEY or
an unsealed AUTH_SIGNING_KEY_FILE. With --seal the key is encrypted with the
master key (--master-key or AUTH_MASTER_KEY) and printed as base64 for a file
used with AUTH_SIGNING_KEY_SEALED=true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size < jwtx.MinHMACKeySize {
				return fmt.Errorf("--size must be at least %d bytes", jwtx.MinHMACKeySize)
			}

			raw, err := cryptox.GenerateSecret(size)
			if err != nil {
				return err
			}

			if !seal {
				fmt.Fprintln(cmd.OutOrStdout(), jwtx.FormatKeyMaterial(raw))
				return nil
			}

			if masterKey != "" {
				cryptox.SetMasterKeyPath(masterKey)
			}
			sealed, err := cryptox.SealSecret(raw)
			if err != nil {
				return fmt.Errorf("seal key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(sealed))
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", jwtx.MinHMACKeySize, "Key size in bytes")
	cmd.Flags().BoolVar(&seal, "seal", false, "Encrypt the key with the master key")
	cmd.Flags().StringVar(&masterKey, "master-key", envOrDefault("AUTH_MASTER_KEY_PATH", ""), "Master key file (falls back to AUTH_MASTER_KEY)")
	return cmd
}
