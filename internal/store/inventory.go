package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gabsakura/Projeto-siteProfissional/internal/apperr"
	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

// InventoryPatch is a partial update; nil fields are left unchanged.
type InventoryPatch struct {
	Item      *string
	Quantity  *int
	Descricao *string
	Preco     *float64
}

func scanInventory(row interface{ Scan(...any) error }) (*models.InventoryItem, error) {
	var i models.InventoryItem
	if err := row.Scan(&i.ID, &i.Item, &i.Quantity, &i.Descricao, &i.Preco); err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *Store) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, item, quantity, descricao, preco FROM inventory ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	items := []models.InventoryItem{}
	for rows.Next() {
		i, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

func (s *Store) GetInventoryItem(ctx context.Context, id int) (*models.InventoryItem, error) {
	return getInventoryItem(ctx, s.DB, id)
}

func getInventoryItem(ctx context.Context, q queryer, id int) (*models.InventoryItem, error) {
	i, err := scanInventory(q.QueryRowContext(ctx, `SELECT id, item, quantity, descricao, preco FROM inventory WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("item")
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory item %d: %w", id, err)
	}
	return i, nil
}

func (s *Store) CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	res, err := s.DB.ExecContext(ctx, `INSERT INTO inventory (item, quantity, descricao, preco) VALUES (?, ?, ?, ?)`,
		strings.TrimSpace(item.Item), item.Quantity, item.Descricao, item.Preco)
	if err != nil {
		return fmt.Errorf("create inventory item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = int(id)
	item.Item = strings.TrimSpace(item.Item)
	return nil
}

func (s *Store) UpdateInventoryItem(ctx context.Context, id int, p InventoryPatch) (*models.InventoryItem, error) {
	var updated *models.InventoryItem
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := getInventoryItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if p.Item != nil {
			cur.Item = strings.TrimSpace(*p.Item)
		}
		if p.Quantity != nil {
			cur.Quantity = *p.Quantity
		}
		if p.Descricao != nil {
			cur.Descricao = *p.Descricao
		}
		if p.Preco != nil {
			cur.Preco = *p.Preco
		}
		if _, err := tx.ExecContext(ctx, `UPDATE inventory SET item = ?, quantity = ?, descricao = ?, preco = ? WHERE id = ?`,
			cur.Item, cur.Quantity, cur.Descricao, cur.Preco, id); err != nil {
			return fmt.Errorf("update inventory item %d: %w", id, err)
		}
		updated = cur
		return nil
	})
	return updated, err
}

func (s *Store) DeleteInventoryItem(ctx context.Context, id int) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM inventory WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("item")
	}
	return nil
}
