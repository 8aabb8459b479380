package cmd

import (
	"fmt"

	"github.com/aussiebroadwan/identity/internal/identity/domain"
	"github.com/aussiebroadwan/identity/internal/identity/service"
	"github.com/aussiebroadwan/identity/internal/identity/store/drivers/sqlite"
	"github.com/aussiebroadwan/identity/pkg/cryptox"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users in the service database",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var (
		dbPath, pepperPath string
		nu                 domain.NewUser
		passwordStdin      bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long: `Creates a user directly in the SQLite database used by the service.

The pepper file must be the one the service uses, otherwise the new user
cannot log in. Roles that do not exist yet are created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(cmd.InOrStdin(), nu.Password, passwordStdin)
			if err != nil {
				return err
			}
			nu.Password = pw

			cryptox.SetPepperPath(pepperPath)

			st, err := sqlite.NewStore(sqlite.DSN(dbPath))
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer st.Close()

			if err := st.ApplyMigrations(); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			users := &service.UserService{Store: st}
			u, err := users.CreateUser(cmd.Context(), nu)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Login, u.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&dbPath, "db", envOrDefault("AUTH_DATABASE_FILE", "identity.db"), "SQLite database file")
	f.StringVar(&pepperPath, "pepper", envOrDefault("AUTH_PEPPER_FILE", "pepper"), "Pepper file")
	f.StringVar(&nu.Login, "login", "", "Login name")
	f.StringVar(&nu.Email, "email", "", "Email address")
	f.StringVar(&nu.DisplayName, "display-name", "", "Display name")
	f.StringVar(&nu.Password, "password", "", "Password")
	f.BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	f.StringArrayVar(&nu.Roles, "role", nil, "Role to grant (repeatable, order is kept)")
	_ = cmd.MarkFlagRequired("login")

	return cmd
}
