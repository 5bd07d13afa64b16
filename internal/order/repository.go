package order

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles order and item data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new order repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithItems inserts an order and its items in a single transaction
func (r *Repository) CreateWithItems(ctx context.Context, req *CreateOrderRequest) (*Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (restaurant, total, subtotal, tax, delivery_fee, tip, discount, paid_by_user_id, image_url, ocr_raw_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, restaurant, total, subtotal, tax, delivery_fee, tip, discount, date, paid_by_user_id, image_url, ocr_raw_text
	`

	order := &Order{}
	err = tx.QueryRowContext(ctx, orderQuery,
		req.Restaurant, req.Total, req.Subtotal, req.Tax, req.DeliveryFee,
		req.Tip, req.Discount, req.PaidByUserID, req.ImageURL, req.OCRRawText,
	).Scan(
		&order.ID,
		&order.Restaurant,
		&order.Total,
		&order.Subtotal,
		&order.Tax,
		&order.DeliveryFee,
		&order.Tip,
		&order.Discount,
		&order.Date,
		&order.PaidByUserID,
		&order.ImageURL,
		&order.OCRRawText,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO items (order_id, name, price, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, order_id, name, price, quantity
	`

	for _, itemReq := range req.Items {
		item := &Item{}
		err := tx.QueryRowContext(ctx, itemQuery, order.ID, itemReq.Name, itemReq.Price, itemReq.Quantity).Scan(
			&item.ID,
			&item.OrderID,
			&item.Name,
			&item.Price,
			&item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return order, nil
}

// GetByID retrieves an order with its items
func (r *Repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := `
		SELECT id, restaurant, total, subtotal, tax, delivery_fee, tip, discount, date, paid_by_user_id, image_url, ocr_raw_text
		FROM orders
		WHERE id = $1
	`

	order := &Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.Restaurant,
		&order.Total,
		&order.Subtotal,
		&order.Tax,
		&order.DeliveryFee,
		&order.Tip,
		&order.Discount,
		&order.Date,
		&order.PaidByUserID,
		&order.ImageURL,
		&order.OCRRawText,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.GetItemsByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// GetItemsByOrderID retrieves all items belonging to an order
func (r *Repository) GetItemsByOrderID(ctx context.Context, orderID int64) ([]*Item, error) {
	query := `
		SELECT id, order_id, name, price, quantity
		FROM items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.Name,
			&item.Price,
			&item.Quantity,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

// List retrieves all orders with pagination (items not populated)
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Order, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM orders`
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := `
		SELECT id, restaurant, total, subtotal, tax, delivery_fee, tip, discount, date, paid_by_user_id, image_url, ocr_raw_text
		FROM orders
		ORDER BY date DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		order := &Order{}
		if err := rows.Scan(
			&order.ID,
			&order.Restaurant,
			&order.Total,
			&order.Subtotal,
			&order.Tax,
			&order.DeliveryFee,
			&order.Tip,
			&order.Discount,
			&order.Date,
			&order.PaidByUserID,
			&order.ImageURL,
			&order.OCRRawText,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, total, nil
}

// Delete removes an order; items and splits cascade at the database level
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM orders WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("order not found")
	}

	return nil
}
