package handlers

import (
	"context"
	"net/http"

	"github.com/gabsakura/Projeto-siteProfissional/internal/auth"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
	"github.com/gabsakura/Projeto-siteProfissional/internal/store"
)

// The interfaces below are what the handlers need from persistence.
// *store.Store satisfies all of them.

type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, id int, p store.UserPatch) (*models.User, error)
	UpdateUserAvatar(ctx context.Context, id int, avatarURL string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	DeleteUser(ctx context.Context, id int) error
}

type InventoryStore interface {
	ListInventory(ctx context.Context) ([]models.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id int) (*models.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error
	UpdateInventoryItem(ctx context.Context, id int, p store.InventoryPatch) (*models.InventoryItem, error)
	DeleteInventoryItem(ctx context.Context, id int) error
}

type FinancialStore interface {
	ListFinancial(ctx context.Context, f store.FinancialFilter) ([]models.FinancialRecord, error)
	CreateFinancialRecord(ctx context.Context, r *models.FinancialRecord) error
	FinancialSummary(ctx context.Context, f store.FinancialFilter) (*models.FinancialSummary, error)
}

type KanbanStore interface {
	ListBoards(ctx context.Context) ([]models.Board, error)
	CreateBoard(ctx context.Context, title string) (*models.Board, error)
	ListColumns(ctx context.Context, boardID int) ([]models.Column, error)
	CreateColumn(ctx context.Context, boardID int, title string, orderIndex *int) (*models.Column, error)
	UpdateColumn(ctx context.Context, id int, p store.ColumnPatch) (*models.Column, error)
	DeleteColumn(ctx context.Context, id int) error
	CreateCard(ctx context.Context, columnID int, card *models.Card, position *int) error
	UpdateCard(ctx context.Context, id int, p store.CardPatch) (*models.Card, error)
	MoveCard(ctx context.Context, id, columnID, position int) (*models.Card, error)
	DeleteCard(ctx context.Context, id int) error
}

type NotificationStore interface {
	ListNotifications(ctx context.Context, userID int) ([]models.Notification, error)
	CreateNotification(ctx context.Context, text string, createdBy int) (*models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID int) error
	DeleteNotification(ctx context.Context, id int) error
}

// Hub is the live notification fan-out, implemented by notify.Hub.
type Hub interface {
	Broadcast(n models.Notification)
	ServeWS(w http.ResponseWriter, r *http.Request, claims *auth.Claims)
}
