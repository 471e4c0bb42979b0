// Command bizpanel is the terminal client for the business panel API. It
// keeps the login session in a file between runs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/gabsakura/Projeto-siteProfissional/internal/client"
	"github.com/gabsakura/Projeto-siteProfissional/internal/report"
	"github.com/gabsakura/Projeto-siteProfissional/internal/session"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "bizpanel",
		Short: "Manage users, inventory, finances, the kanban board and notifications",
		Long: `bizpanel talks to the business panel API.

Environment:
  API_URL       API base URL (default http://localhost:5000)
  SESSION_FILE  where the login session is kept (default ~/.bizpanel/session.json)
  DB_PATH       database file used by add-user (default ./app.db)`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newAddUserCommand(),
		newLoginCommand(),
		newLogoutCommand(),
		newWhoamiCommand(),
		newUsersCommand(),
		newInventoryCommand(),
		newFinancialCommand(),
		newDashboardCommand(),
		newKanbanCommand(),
		newNotifyCommand(),
	)
	return root
}

func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return defaultValue
}

func sessionPath() string {
	if p := os.Getenv("SESSION_FILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bizpanel-session.json"
	}
	return filepath.Join(home, ".bizpanel", "session.json")
}

// newClient restores the saved session and binds an API client to it.
func newClient() (*client.Client, error) {
	sess, err := session.New(session.FileStorage{Path: sessionPath()})
	if err != nil {
		return nil, err
	}
	return client.New(getEnv("API_URL", "http://localhost:5000"), sess), nil
}

type runFunc func(ctx context.Context, c *client.Client, cmd *cobra.Command, args []string) error

// protected runs fn only when the session gate lets the current user open
// route.
func protected(route session.Route, fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		if d := c.Session().Guard(route); !d.Allowed {
			if d.Redirect == session.LoginPath {
				return fmt.Errorf("not logged in, run 'bizpanel login' first")
			}
			return fmt.Errorf("%s requires an admin account", route.Path)
		}
		return fn(cmd.Context(), c, cmd, args)
	}
}

func formatter() *report.Formatter {
	return report.NewFormatter(language.BrazilianPortuguese)
}

func parseInts(args ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		out[i] = n
	}
	return out, nil
}

// adminRoutes mirrors the admin-only screens of the web panel.
var adminRoutes = map[string]bool{
	"/users":              true,
	"/notifications/send": true,
}

func routeFor(path string) session.Route {
	return session.Route{Path: path, AdminOnly: adminRoutes[path]}
}
