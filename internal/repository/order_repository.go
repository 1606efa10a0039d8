package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/zenithmfg/order-tracking/internal/model"
)

// OrderRepo provides access to the `orders` and `order_timeline`
// tables. Writes that touch both tables (create, status update, delete)
// run in a single transaction so a reader can never observe an order
// whose timeline is out of step with its status column.
type OrderRepo struct{ DB *sql.DB }

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

const orderColumns = "id,user_id,status,customer_name,amount_cents,details,suggestion,created_at,updated_at"

type rowScanner interface{ Scan(dest ...any) error }

func scanOrder(row rowScanner) (model.Order, error) {
	var o model.Order
	var suggestion sql.NullString
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.CustomerName, &o.AmountCents,
		&o.Details, &suggestion, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	if suggestion.Valid {
		s := suggestion.String
		o.Suggestion = &s
	}
	return o, nil
}

func (r *OrderRepo) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// GetAll returns the full order set ordered by creation time.
func (r *OrderRepo) GetAll(ctx context.Context) ([]model.Order, error) {
	return r.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC, id DESC")
}

// GetByUserID returns the orders owned by a user.
func (r *OrderRepo) GetByUserID(ctx context.Context, userID uint64) ([]model.Order, error) {
	return r.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id=? ORDER BY created_at DESC, id DESC", userID)
}

// GetByStatus returns orders in the exact given status.
func (r *OrderRepo) GetByStatus(ctx context.Context, status string) ([]model.Order, error) {
	return r.queryOrders(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE status=? ORDER BY created_at DESC, id DESC", status)
}

// GetByID fetches one order. Returns ErrNotFound when absent.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (model.Order, error) {
	return scanOrder(r.DB.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=? LIMIT 1", id))
}

// Timeline returns an order's timeline events ascending by creation
// time. The id tie-break keeps events written in the same millisecond
// in insertion order.
func (r *OrderRepo) Timeline(ctx context.Context, orderID uint64) ([]model.TimelineEvent, error) {
	// Distinguish "no events" from "no such order".
	if _, err := r.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,order_id,status,description,created_at FROM order_timeline WHERE order_id=? ORDER BY created_at ASC, id ASC",
		orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.TimelineEvent
	for rows.Next() {
		var e model.TimelineEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Create inserts an order together with the timeline event recording
// its initial status, in one transaction, and returns the stored row.
func (r *OrderRepo) Create(ctx context.Context, userID uint64, status, customerName string, amountCents uint64, details, description string) (model.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (user_id, status, customer_name, amount_cents, details) VALUES (?,?,?,?,?)",
		userID, status, customerName, amountCents, details)
	if err != nil {
		return model.Order{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Order{}, err
	}
	if description == "" {
		description = "order created"
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO order_timeline (order_id, status, description) VALUES (?,?,?)",
		id, status, description); err != nil {
		return model.Order{}, err
	}

	// Read the row back inside the transaction to pick up generated
	// timestamps.
	o, err := scanOrder(tx.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=?", id))
	if err != nil {
		return model.Order{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// UpdateStatus moves an order to a new status and appends exactly one
// timeline event, atomically. The current row is locked for the
// duration of the transaction so concurrent updates to the same order
// serialize at the store; the returned previous status is the one read
// under that lock, never a stale earlier snapshot. Returns ErrNotFound
// when the order does not exist and ErrInvalidTransition when the
// lifecycle forbids the move.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint64, newStatus, description string) (model.Order, string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, "", err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM orders WHERE id=? FOR UPDATE", id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, "", ErrNotFound
	}
	if err != nil {
		return model.Order{}, "", err
	}
	if !model.CanTransition(current, newStatus) {
		return model.Order{}, "", ErrInvalidTransition
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status=? WHERE id=?", newStatus, id); err != nil {
		return model.Order{}, "", err
	}
	if description == "" {
		description = "status changed to " + newStatus
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO order_timeline (order_id, status, description) VALUES (?,?,?)",
		id, newStatus, description); err != nil {
		return model.Order{}, "", err
	}

	o, err := scanOrder(tx.QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id=?", id))
	if err != nil {
		return model.Order{}, "", err
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, "", err
	}
	return o, current, nil
}

// SetSuggestion overwrites the factory suggestion on an order. At most
// one suggestion is retained; repeated calls replace the previous text.
func (r *OrderRepo) SetSuggestion(ctx context.Context, id uint64, text string) error {
	// Probe first: RowsAffected cannot distinguish "missing row" from
	// "same value written twice" on MySQL.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE orders SET suggestion=? WHERE id=?", text, id)
	return err
}

// Delete removes an order and its timeline. Events go first to satisfy
// the foreign key.
func (r *OrderRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM order_timeline WHERE order_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// CountByStatus groups all orders by status. Statuses with no orders
// are absent from the map.
func (r *OrderRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
