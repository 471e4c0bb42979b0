package models

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type User struct {
	ID        int       `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`    // bcrypt hash
	Tipo      string    `json:"tipo"` // "admin" or "user"
	Verified  bool      `json:"verified"`
	Descricao string    `json:"descricao"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Tipo == RoleAdmin
}

type InventoryItem struct {
	ID        int     `json:"id"`
	Item      string  `json:"item"`
	Quantity  int     `json:"quantity"`
	Descricao string  `json:"descricao"`
	Preco     float64 `json:"preco"`
}

type FinancialRecord struct {
	ID             int       `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	TotalMoney     float64   `json:"total_money"`
	Profit         float64   `json:"profit"`
	Sales          float64   `json:"sales"`
	Expenses       float64   `json:"expenses"`
	TotalCustomers int       `json:"total_customers"`
	NewCustomers   int       `json:"new_customers"`
}

type FinancialSummary struct {
	Records        int        `json:"records"`
	Sales          float64    `json:"sales"`
	Expenses       float64    `json:"expenses"`
	Profit         float64    `json:"profit"`
	NewCustomers   int        `json:"new_customers"`
	TotalMoney     float64    `json:"total_money"`     // latest value in range
	TotalCustomers int        `json:"total_customers"` // latest value in range
	From           *time.Time `json:"from,omitempty"`
	To             *time.Time `json:"to,omitempty"`
}

type Board struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type Column struct {
	ID         int    `json:"id"`
	BoardID    int    `json:"board_id"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index"`
	Cards      []Card `json:"cards"`
}

type Card struct {
	ID          int        `json:"id"`
	ColumnID    int        `json:"column_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	Position    int        `json:"position"`
}

type Notification struct {
	ID        int       `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"` // for the requesting user
}
