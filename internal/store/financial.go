package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabsakura/Projeto-siteProfissional/internal/models"
)

// FinancialFilter bounds are inclusive; nil means unbounded.
type FinancialFilter struct {
	Start *time.Time
	End   *time.Time
}

func (f FinancialFilter) where() (string, []any) {
	var conds []string
	var args []any
	if f.Start != nil {
		conds = append(conds, "timestamp >= ?")
		args = append(args, formatTime(*f.Start))
	}
	if f.End != nil {
		conds = append(conds, "timestamp <= ?")
		args = append(args, formatTime(*f.End))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListFinancial returns the records in range ordered by timestamp ascending.
func (s *Store) ListFinancial(ctx context.Context, f FinancialFilter) ([]models.FinancialRecord, error) {
	where, args := f.where()
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, timestamp, total_money, profit, sales, expenses, total_customers, new_customers
		FROM financial_data`+where+` ORDER BY timestamp ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list financial data: %w", err)
	}
	defer rows.Close()

	records := []models.FinancialRecord{}
	for rows.Next() {
		var r models.FinancialRecord
		var ts string
		if err := rows.Scan(&r.ID, &ts, &r.TotalMoney, &r.Profit, &r.Sales, &r.Expenses, &r.TotalCustomers, &r.NewCustomers); err != nil {
			return nil, err
		}
		if r.Timestamp, err = parseTime(ts); err != nil {
			return nil, fmt.Errorf("financial record %d: bad timestamp %q: %w", r.ID, ts, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// CreateFinancialRecord stores r. A zero Timestamp is replaced by the
// current time.
func (s *Store) CreateFinancialRecord(ctx context.Context, r *models.FinancialRecord) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = s.now()
	}
	r.Timestamp = r.Timestamp.UTC().Truncate(time.Second)
	res, err := s.DB.ExecContext(ctx, `
		INSERT INTO financial_data (timestamp, total_money, profit, sales, expenses, total_customers, new_customers)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		formatTime(r.Timestamp), r.TotalMoney, r.Profit, r.Sales, r.Expenses, r.TotalCustomers, r.NewCustomers)
	if err != nil {
		return fmt.Errorf("create financial record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = int(id)
	return nil
}

// FinancialSummary aggregates the records in range. Flow values are summed;
// stock values (total money, total customers) come from the latest record.
func (s *Store) FinancialSummary(ctx context.Context, f FinancialFilter) (*models.FinancialSummary, error) {
	records, err := s.ListFinancial(ctx, f)
	if err != nil {
		return nil, err
	}
	sum := &models.FinancialSummary{Records: len(records)}
	for _, r := range records {
		sum.Sales += r.Sales
		sum.Expenses += r.Expenses
		sum.Profit += r.Profit
		sum.NewCustomers += r.NewCustomers
	}
	if n := len(records); n > 0 {
		first, last := records[0].Timestamp, records[n-1].Timestamp
		sum.From, sum.To = &first, &last
		sum.TotalMoney = records[n-1].TotalMoney
		sum.TotalCustomers = records[n-1].TotalCustomers
	}
	return sum, nil
}
