package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/gabsakura/Projeto-siteProfissional/internal/client"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
	"github.com/gabsakura/Projeto-siteProfissional/internal/store"
	"github.com/gabsakura/Projeto-siteProfissional/internal/validation"
)

const (
	nomeFlag     = "nome"
	emailFlag    = "email"
	passwordFlag = "password"
	tipoFlag     = "tipo"
)

var addUserFlags = map[string]cobraflags.Flag{
	nomeFlag: &cobraflags.StringFlag{
		Name:  nomeFlag,
		Usage: "Full name of the new user",
	},
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Usage: "Email used to log in",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Usage: "Password for the new user",
	},
	tipoFlag: &cobraflags.StringFlag{
		Name:  tipoFlag,
		Value: models.RoleAdmin,
		Usage: "Account type (admin or user)",
	},
}

// newAddUserCommand writes straight to the database, so the first admin
// can be created before the server has any account.
func newAddUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Create a user directly in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nome := addUserFlags[nomeFlag].GetString()
			email := addUserFlags[emailFlag].GetString()
			password := addUserFlags[passwordFlag].GetString()
			tipo := addUserFlags[tipoFlag].GetString()

			in := validation.UserInput{Nome: &nome, Email: &email, Password: &password, Tipo: &tipo}
			if msgs := validation.ValidateUser(in, true).ErrorMessages(); len(msgs) > 0 {
				return errors.New(strings.Join(msgs, "; "))
			}
			return addUser(cmd.Context(), getEnv("DB_PATH", "./app.db"), &models.User{
				Nome: nome, Email: email, Password: password, Tipo: tipo, Verified: true,
			})
		},
	}
	cobraflags.RegisterMap(cmd, addUserFlags)
	return cmd
}

func addUser(ctx context.Context, dbPath string, u *models.User) error {
	db, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	// The CLI may run before the server ever has.
	if err := db.Migrate(ctx, store.Migrations); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.Password = string(hashed)
	if err := db.CreateUser(ctx, u); err != nil {
		return err
	}
	fmt.Printf("User '%s' created successfully (id %d, %s).\n", u.Email, u.ID, u.Tipo)
	return nil
}

var loginFlags = map[string]cobraflags.Flag{
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Usage: "Account email",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Usage: "Account password",
	},
}

func newLoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email := loginFlags[emailFlag].GetString()
			password := loginFlags[passwordFlag].GetString()
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			c, err := newClient()
			if err != nil {
				return err
			}
			u, err := c.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s).\n", u.Nome, u.Tipo)
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, loginFlags)
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			if err := c.Session().Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account as the server sees it",
		Args:  cobra.NoArgs,
		RunE: protected(routeFor("/profile"), func(ctx context.Context, c *client.Client, _ *cobra.Command, _ []string) error {
			u, err := c.Me(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%d\t%s\t%s\t%s\n", u.ID, u.Nome, u.Email, u.Tipo)
			return nil
		}),
	}
}

func newUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (admin only)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show every account",
		Args:  cobra.NoArgs,
		RunE: protected(routeFor("/users"), func(ctx context.Context, c *client.Client, cmd *cobra.Command, _ []string) error {
			users, err := c.ListUsers(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNome\tEmail\tTipo\tVerificado")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Nome, u.Email, u.Tipo, u.Verified)
			}
			return tw.Flush()
		}),
	})
	return cmd
}
