package split

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Repository handles split data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new split repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const splitColumns = `id, order_id, user_id, item_ids, amount_owed, paid_status, reminder_sent, reminder_sent_at, message_sid`

func scanSplit(row interface {
	Scan(dest ...interface{}) error
}) (*Split, error) {
	s := &Split{}
	var itemIDs pq.Int64Array
	err := row.Scan(
		&s.ID,
		&s.OrderID,
		&s.UserID,
		&itemIDs,
		&s.AmountOwed,
		&s.PaidStatus,
		&s.ReminderSent,
		&s.ReminderSentAt,
		&s.MessageSID,
	)
	if err != nil {
		return nil, err
	}
	s.ItemIDs = []int64(itemIDs)
	return s, nil
}

// ReplaceForOrder deletes the order's existing splits and inserts the new set
// in one transaction, so re-assigning items is idempotent
func (r *Repository) ReplaceForOrder(ctx context.Context, orderID int64, splits []*Split) ([]*Split, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM splits WHERE order_id = $1`, orderID); err != nil {
		return nil, fmt.Errorf("failed to clear existing splits: %w", err)
	}

	insertQuery := `
		INSERT INTO splits (order_id, user_id, item_ids, amount_owed)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + splitColumns

	created := make([]*Split, 0, len(splits))
	for _, s := range splits {
		row := tx.QueryRowContext(ctx, insertQuery, s.OrderID, s.UserID, pq.Array(s.ItemIDs), s.AmountOwed)
		inserted, err := scanSplit(row)
		if err != nil {
			return nil, fmt.Errorf("failed to create split: %w", err)
		}
		created = append(created, inserted)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return created, nil
}

// GetByID retrieves a split by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Split, error) {
	query := `SELECT ` + splitColumns + ` FROM splits WHERE id = $1`

	s, err := scanSplit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get split: %w", err)
	}

	return s, nil
}

// ListByOrderID retrieves all splits for an order
func (r *Repository) ListByOrderID(ctx context.Context, orderID int64) ([]*Split, error) {
	query := `SELECT ` + splitColumns + ` FROM splits WHERE order_id = $1 ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	var splits []*Split
	for rows.Next() {
		s, err := scanSplit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, s)
	}

	return splits, nil
}

// UpdatePaidStatus sets the paid flag on a split
func (r *Repository) UpdatePaidStatus(ctx context.Context, id int64, paid bool) (*Split, error) {
	query := `
		UPDATE splits
		SET paid_status = $2
		WHERE id = $1
		RETURNING ` + splitColumns

	s, err := scanSplit(r.db.QueryRowContext(ctx, query, id, paid))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update split: %w", err)
	}

	return s, nil
}

// MarkReminderSent records a successful reminder dispatch on the split
func (r *Repository) MarkReminderSent(ctx context.Context, id int64, sentAt time.Time, messageSID string) (*Split, error) {
	query := `
		UPDATE splits
		SET reminder_sent = TRUE,
		    reminder_sent_at = $2,
		    message_sid = $3
		WHERE id = $1
		RETURNING ` + splitColumns

	s, err := scanSplit(r.db.QueryRowContext(ctx, query, id, sentAt, messageSID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	return s, nil
}

// Delete removes a split from the database
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM splits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete split: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("split not found")
	}

	return nil
}
