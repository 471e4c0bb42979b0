package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

// Login exchanges credentials for a token and stores both in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	if c.session == nil {
		return nil, errors.New("client has no session to log in to")
	}
	var resp struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/login", nil, map[string]string{"email": email, "password": password}, &resp); err != nil {
		return nil, err
	}
	if err := c.session.Login(resp.Token, resp.User); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/api/users/me", nil, nil, &resp)
	return resp.User, err
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var resp struct {
		Users []models.User `json:"users"`
	}
	err := c.do(ctx, http.MethodGet, "/api/users", nil, nil, &resp)
	return resp.Users, err
}

// NewUser is the registration payload.
type NewUser struct {
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Tipo     string `json:"tipo"`
}

func (c *Client) RegisterUser(ctx context.Context, u NewUser) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/users/register", nil, u, &resp)
	return resp.User, err
}

func (c *Client) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	var resp struct {
		Data []models.InventoryItem `json:"data"`
	}
	err := c.do(ctx, http.MethodGet, "/api/inventory", nil, nil, &resp)
	return resp.Data, err
}

func (c *Client) CreateInventoryItem(ctx context.Context, item models.InventoryItem) (*models.InventoryItem, error) {
	var out models.InventoryItem
	body := map[string]any{"item": item.Item, "quantity": item.Quantity, "descricao": item.Descricao, "preco": item.Preco}
	if err := c.do(ctx, http.MethodPost, "/api/inventory", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetInventoryQuantity(ctx context.Context, id, quantity int) (*models.InventoryItem, error) {
	var out models.InventoryItem
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/inventory/%d", id), nil, map[string]int{"quantity": quantity}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetInventoryQuantities updates several rows concurrently, at most four
// requests at a time. The first failure cancels the rest.
func (c *Client) SetInventoryQuantities(ctx context.Context, quantities map[int]int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for id, q := range quantities {
		g.Go(func() error {
			if _, err := c.SetInventoryQuantity(ctx, id, q); err != nil {
				return fmt.Errorf("item %d: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Client) DeleteInventoryItem(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/inventory/%d", id), nil, nil, nil)
}

func dateRange(start, end *time.Time) url.Values {
	q := url.Values{}
	if start != nil {
		q.Set("startDate", start.Format(time.RFC3339))
	}
	if end != nil {
		q.Set("endDate", end.Format(time.RFC3339))
	}
	return q
}

func (c *Client) ListFinancial(ctx context.Context, start, end *time.Time) ([]models.FinancialRecord, error) {
	var resp struct {
		Data []models.FinancialRecord `json:"data"`
	}
	err := c.do(ctx, http.MethodGet, "/api/financial_data", dateRange(start, end), nil, &resp)
	return resp.Data, err
}

func (c *Client) FinancialSummary(ctx context.Context, start, end *time.Time) (*models.FinancialSummary, error) {
	var out models.FinancialSummary
	if err := c.do(ctx, http.MethodGet, "/api/financial_data/summary", dateRange(start, end), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard is what the landing view shows.
type Dashboard struct {
	Summary   *models.FinancialSummary
	Inventory []models.InventoryItem
}

// Dashboard fetches the financial summary and the inventory in parallel.
func (c *Client) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Summary, err = c.FinancialSummary(ctx, nil, nil)
		return err
	})
	g.Go(func() error {
		var err error
		d.Inventory, err = c.ListInventory(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Columns returns a board with its cards. It satisfies kanban.Backend.
func (c *Client) Columns(ctx context.Context, boardID int) ([]models.Column, error) {
	var resp struct {
		Columns []models.Column `json:"columns"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/kanban/boards/%d/columns", boardID), nil, nil, &resp)
	return resp.Columns, err
}

func (c *Client) MoveCard(ctx context.Context, cardID, columnID, position int) (*models.Card, error) {
	var out models.Card
	body := map[string]int{"columnId": columnID, "position": position}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/kanban/cards/%d/move", cardID), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var resp struct {
		Notifications []models.Notification `json:"notifications"`
	}
	err := c.do(ctx, http.MethodGet, "/api/notifications", nil, nil, &resp)
	return resp.Notifications, err
}

func (c *Client) SendNotification(ctx context.Context, text string) (*models.Notification, error) {
	var out models.Notification
	if err := c.do(ctx, http.MethodPost, "/api/notifications", nil, map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", id), nil, nil, nil)
}
