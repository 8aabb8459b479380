package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the identityctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "identityctl",
		Short: "Identity service CLI - keys, users and tokens",
		Long: `identityctl manages an identity token service: it generates signing keys,
creates users directly in the service database, and obtains tokens over HTTP.`,
		SilenceUsage: true,
	}

	root.AddCommand(newKeygenCmd())
	root.AddCommand(newUserCmd())
	root.AddCommand(newLoginCmd())
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readPassword returns flagValue, or the first line of in when fromStdin
// is set.
func readPassword(in io.Reader, flagValue string, fromStdin bool) (string, error) {
	if !fromStdin {
		return flagValue, nil
	}
	if flagValue != "" {
		return "", errors.New("use either --password or --password-stdin, not both")
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
