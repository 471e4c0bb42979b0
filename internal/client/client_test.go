package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"golang.org/x/crypto/bcrypt"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/auth"
	"github.com/gabsakura/Projeto-siteProfissional/internal/client"
	"github.com/gabsakura/Projeto-siteProfissional/internal/handlers"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
	"github.com/gabsakura/Projeto-siteProfissional/internal/session"
	"github.com/gabsakura/Projeto-siteProfissional/internal/store"
)

// newServer runs the real API over a temporary database with one admin
// (admin@empresa.com / admin123) and one user (ana@empresa.com / senha123).
func newServer(c *qt.C) (*httptest.Server, *store.Store) {
	ctx, cancel := context.WithCancel(context.Background())
	c.Cleanup(cancel)

	s, err := store.NewStore(filepath.Join(c.TempDir(), "client.db"))
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { s.Close() })
	c.Assert(s.Migrate(ctx, store.Migrations), qt.IsNil)

	for _, u := range []struct{ nome, email, password, tipo string }{
		{"Administrador", "admin@empresa.com", "admin123", models.RoleAdmin},
		{"Ana Souza", "ana@empresa.com", "senha123", models.RoleUser},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.MinCost)
		c.Assert(err, qt.IsNil)
		c.Assert(s.CreateUser(ctx, &models.User{Nome: u.nome, Email: u.email, Password: string(hash), Tipo: u.tipo, Verified: true}), qt.IsNil)
	}

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
	return srv, s
}

func loggedIn(c *qt.C, srv *httptest.Server, email, password string) *client.Client {
	sess, err := session.New(&session.MemoryStorage{})
	c.Assert(err, qt.IsNil)
	cl := client.New(srv.URL, sess)
	_, err = cl.Login(context.Background(), email, password)
	c.Assert(err, qt.IsNil)
	return cl
}

func TestLoginStoresSession(t *testing.T) {
	c := qt.New(t)
	srv, _ := newServer(c)
	ctx := context.Background()

	sess, err := session.New(&session.MemoryStorage{})
	c.Assert(err, qt.IsNil)
	cl := client.New(srv.URL+"/", sess)

	_, err = cl.Login(ctx, "ana@empresa.com", "errada")
	c.Assert(errors.Is(err, apperr.ErrInvalidToken), qt.IsTrue)
	var apiErr *client.APIError
	c.Assert(errors.As(err, &apiErr), qt.IsTrue)
	c.Assert(apiErr.Status, qt.Equals, http.StatusUnauthorized)
	c.Assert(apiErr.Message, qt.Equals, "invalid email or password")
	c.Assert(sess.IsAuthenticated(), qt.IsFalse)

	u, err := cl.Login(ctx, "ana@empresa.com", "senha123")
	c.Assert(err, qt.IsNil)
	c.Assert(u.Email, qt.Equals, "ana@empresa.com")
	c.Assert(sess.IsAuthenticated(), qt.IsTrue)
	c.Assert(sess.IsAdmin(), qt.IsFalse)

	me, err := cl.Me(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(me.ID, qt.Equals, u.ID)
}

func TestUnauthorizedResponseLogsOut(t *testing.T) {
	c := qt.New(t)
	srv, _ := newServer(c)

	sess, err := session.New(&session.MemoryStorage{})
	c.Assert(err, qt.IsNil)
	c.Assert(sess.Login("stale-token", &models.User{ID: 2, Tipo: models.RoleUser}), qt.IsNil)

	_, err = client.New(srv.URL, sess).ListInventory(context.Background())
	c.Assert(errors.Is(err, apperr.ErrInvalidToken), qt.IsTrue)
	c.Assert(sess.IsAuthenticated(), qt.IsFalse)
	c.Assert(sess.User(), qt.IsNil)
}

func TestForbiddenKeepsSession(t *testing.T) {
	c := qt.New(t)
	srv, _ := newServer(c)
	cl := loggedIn(c, srv, "ana@empresa.com", "senha123")

	_, err := cl.ListUsers(context.Background())
	c.Assert(errors.Is(err, apperr.ErrForbidden), qt.IsTrue)
	c.Assert(cl.Session().IsAuthenticated(), qt.IsTrue)

	_, err = cl.SendNotification(context.Background(), "Olá")
	c.Assert(errors.Is(err, apperr.ErrForbidden), qt.IsTrue)
}

func TestValidationDetailsSurface(t *testing.T) {
	c := qt.New(t)
	srv, _ := newServer(c)
	cl := loggedIn(c, srv, "admin@empresa.com", "admin123")

	_, err := cl.RegisterUser(context.Background(), client.NewUser{Nome: "Jo", Email: "jo@empresa.com", Password: "123456", Tipo: "user"})
	c.Assert(errors.Is(err, apperr.ErrInvalidInput), qt.IsTrue)
	var apiErr *client.APIError
	c.Assert(errors.As(err, &apiErr), qt.IsTrue)
	c.Assert(apiErr.Details, qt.DeepEquals, []string{"nome: must be at least 3 characters"})

	u, err := cl.RegisterUser(context.Background(), client.NewUser{Nome: "Joana", Email: "joana@empresa.com", Password: "123456", Tipo: "user"})
	c.Assert(err, qt.IsNil)
	c.Assert(u.Nome, qt.Equals, "Joana")

	_, err = cl.RegisterUser(context.Background(), client.NewUser{Nome: "Joana", Email: "joana@empresa.com", Password: "123456", Tipo: "user"})
	c.Assert(errors.Is(err, apperr.ErrConflict), qt.IsTrue)
}

func TestInventoryBulkUpdateAndDashboard(t *testing.T) {
	c := qt.New(t)
	srv, s := newServer(c)
	cl := loggedIn(c, srv, "ana@empresa.com", "senha123")
	ctx := context.Background()

	want := map[int]int{}
	for i, name := range []string{"Caneta", "Caderno", "Grampeador", "Clips", "Pasta"} {
		item, err := cl.CreateInventoryItem(ctx, models.InventoryItem{Item: name, Quantity: i, Preco: 1.5})
		c.Assert(err, qt.IsNil)
		want[item.ID] = 100 + i
	}
	c.Assert(cl.SetInventoryQuantities(ctx, want), qt.IsNil)

	items, err := cl.ListInventory(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(items, qt.HasLen, 5)
	for _, item := range items {
		c.Assert(item.Quantity, qt.Equals, want[item.ID], qt.Commentf("item %s", item.Item))
	}

	err = cl.SetInventoryQuantities(ctx, map[int]int{items[0].ID: 1, 999: 3})
	c.Assert(errors.Is(err, apperr.ErrNotFound), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, `item 999: .*`)

	c.Assert(s.CreateFinancialRecord(ctx, &models.FinancialRecord{Sales: 40, TotalMoney: 900}), qt.IsNil)
	d, err := cl.Dashboard(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(d.Summary.Records, qt.Equals, 1)
	c.Assert(d.Summary.TotalMoney, qt.Equals, 900.0)
	c.Assert(d.Inventory, qt.HasLen, 5)

	c.Assert(cl.DeleteInventoryItem(ctx, items[0].ID), qt.IsNil)
	c.Assert(errors.Is(cl.DeleteInventoryItem(ctx, items[0].ID), apperr.ErrNotFound), qt.IsTrue)
}

func TestFinancialRange(t *testing.T) {
	c := qt.New(t)
	srv, s := newServer(c)
	cl := loggedIn(c, srv, "ana@empresa.com", "senha123")
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC) }
	for d := 1; d <= 5; d++ {
		c.Assert(s.CreateFinancialRecord(ctx, &models.FinancialRecord{Timestamp: day(d), Sales: float64(d)}), qt.IsNil)
	}
	start, end := day(2), day(4)
	records, err := cl.ListFinancial(ctx, &start, &end)
	c.Assert(err, qt.IsNil)
	c.Assert(records, qt.HasLen, 3)
	c.Assert(records[0].Sales, qt.Equals, 2.0)
}

func TestNotificationsRoundTrip(t *testing.T) {
	c := qt.New(t)
	srv, _ := newServer(c)
	ctx := context.Background()
	admin := loggedIn(c, srv, "admin@empresa.com", "admin123")
	ana := loggedIn(c, srv, "ana@empresa.com", "senha123")

	n, err := admin.SendNotification(ctx, "Inventário fechado amanhã")
	c.Assert(err, qt.IsNil)
	c.Assert(ana.MarkNotificationRead(ctx, n.ID), qt.IsNil)

	list, err := ana.ListNotifications(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 1)
	c.Assert(list[0].Read, qt.IsTrue)
}
