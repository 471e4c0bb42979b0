package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"golang.org/x/crypto/bcrypt"

	"github.com/gabsakura/Projeto-siteProfissional/internal/auth"
	"github.com/gabsakura/Projeto-siteProfissional/internal/handlers"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
	"github.com/gabsakura/Projeto-siteProfissional/internal/store"
)

// newAPI starts the server over a temporary database and points the CLI
// at it. Board 1 is the seeded one; board 2 is "Vendas" with one card.
func newAPI(c *qt.C) {
	ctx, cancel := context.WithCancel(context.Background())
	c.Cleanup(cancel)

	s, err := store.NewStore(filepath.Join(c.TempDir(), "cli.db"))
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { s.Close() })
	c.Assert(s.Migrate(ctx, store.Migrations), qt.IsNil)

	for _, u := range []struct{ email, tipo string }{
		{"admin@empresa.com", models.RoleAdmin},
		{"ana@empresa.com", models.RoleUser},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte("senha123"), bcrypt.MinCost)
		c.Assert(err, qt.IsNil)
		c.Assert(s.CreateUser(ctx, &models.User{Nome: "Usuária", Email: u.email, Password: string(hash), Tipo: u.tipo, Verified: true}), qt.IsNil)
	}

	b, err := s.CreateBoard(ctx, "Vendas")
	c.Assert(err, qt.IsNil)
	c.Assert(b.ID, qt.Equals, 2)
	col, err := s.CreateColumn(ctx, b.ID, "Prospecção", nil)
	c.Assert(err, qt.IsNil)
	c.Assert(s.CreateCard(ctx, col.ID, &models.Card{Title: "Ligar para cliente"}, nil), qt.IsNil)

	srv := httptest.NewServer(handlers.NewRouter(ctx, handlers.RouterConfig{
		Users:         s,
		Inventory:     s,
		Financial:     s,
		Kanban:        s,
		Notifications: s,
		Issuer:        auth.NewIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Hour),
		CORSOrigins:   []string{"*"},
		HashCost:      bcrypt.MinCost,
	}))
	c.Cleanup(srv.Close)

	c.Setenv("API_URL", srv.URL)
	c.Setenv("SESSION_FILE", filepath.Join(c.TempDir(), "session.json"))
}

func run(c *qt.C, args ...string) (string, error) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestKanbanShowUsesBoardFlag(t *testing.T) {
	c := qt.New(t)
	newAPI(c)

	_, err := run(c, "kanban", "show")
	c.Assert(err, qt.ErrorMatches, "not logged in.*")

	_, err = run(c, "login", "--email", "ana@empresa.com", "--password", "senha123")
	c.Assert(err, qt.IsNil)

	out, err := run(c, "kanban", "show", "--board", "2")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Prospecção")
	c.Assert(out, qt.Contains, "Ligar para cliente")
	c.Assert(out, qt.Not(qt.Contains), "A Fazer")

	out, err = run(c, "kanban", "show")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "A Fazer")
	c.Assert(out, qt.Not(qt.Contains), "Prospecção")

	_, err = run(c, "kanban", "show", "--board", "dois")
	c.Assert(err, qt.ErrorMatches, "--board must be a number")
}

func TestUsersListIsAdminOnly(t *testing.T) {
	c := qt.New(t)
	newAPI(c)

	_, err := run(c, "login", "--email", "ana@empresa.com", "--password", "senha123")
	c.Assert(err, qt.IsNil)
	_, err = run(c, "users", "list")
	c.Assert(err, qt.ErrorMatches, "/users requires an admin account")

	_, err = run(c, "login", "--email", "admin@empresa.com", "--password", "senha123")
	c.Assert(err, qt.IsNil)
	out, err := run(c, "users", "list")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "admin@empresa.com")
	c.Assert(out, qt.Contains, "ana@empresa.com")
}
