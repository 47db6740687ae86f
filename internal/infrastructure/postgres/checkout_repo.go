package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/checkout"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const checkoutColumns = `
	id,
	COALESCE(order_id, ''),
	ref_command,
	package_id,
	email,
	COALESCE(phone, ''),
	amount,
	status,
	COALESCE(payment_status, ''),
	created_at,
	updated_at`

type CheckoutRepository struct {
	pool *pgxpool.Pool
}

func NewCheckoutRepository(pool *pgxpool.Pool) *CheckoutRepository {
	return &CheckoutRepository{pool: pool}
}

func (r *CheckoutRepository) Create(ctx context.Context, c *checkout.Record) error {
	const sql = `
		INSERT INTO checkouts (
			id, order_id, ref_command, package_id, email, phone,
			amount, status, payment_status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := executor(ctx, r.pool).Exec(ctx, sql,
		c.ID, nullIfEmpty(c.OrderID), c.RefCommand, c.PackageID, c.Email, nullIfEmpty(c.Phone),
		c.Amount.String(), c.Status, nullIfEmpty(c.PaymentStatus), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert checkout: %w", err)
	}

	return nil
}

func (r *CheckoutRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	const sql = `
		UPDATE checkouts
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`
	return r.update(ctx, sql, id, status)
}

// Reconcile stores the payment status the backend reported for a checkout.
func (r *CheckoutRepository) Reconcile(ctx context.Context, id string, paymentStatus string) error {
	const sql = `
		UPDATE checkouts
		SET payment_status = $2, status = 'reconciled', updated_at = NOW()
		WHERE id = $1
	`
	return r.update(ctx, sql, id, paymentStatus)
}

func (r *CheckoutRepository) update(ctx context.Context, sql string, args ...any) error {
	cmdTag, err := executor(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update checkout: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return checkout.ErrNotFound
	}
	return nil
}

func (r *CheckoutRepository) GetByRef(ctx context.Context, ref string) (*checkout.Record, error) {
	return r.getOne(ctx, `SELECT`+checkoutColumns+` FROM checkouts WHERE ref_command = $1`, ref)
}

func (r *CheckoutRepository) GetByOrderID(ctx context.Context, orderID string) (*checkout.Record, error) {
	return r.getOne(ctx, `SELECT`+checkoutColumns+` FROM checkouts WHERE order_id = $1 ORDER BY created_at DESC LIMIT 1`, orderID)
}

func (r *CheckoutRepository) ListRecent(ctx context.Context, limit int) ([]*checkout.Record, error) {
	rows, err := r.pool.Query(ctx, `SELECT`+checkoutColumns+` FROM checkouts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent checkouts: %w", err)
	}
	defer rows.Close()

	var out []*checkout.Record
	for rows.Next() {
		c, err := scanCheckout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CheckoutRepository) getOne(ctx context.Context, sql string, arg string) (*checkout.Record, error) {
	c, err := scanCheckout(r.pool.QueryRow(ctx, sql, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, checkout.ErrNotFound
	}
	return c, err
}

func scanCheckout(row pgx.Row) (*checkout.Record, error) {
	var c checkout.Record
	err := row.Scan(
		&c.ID, &c.OrderID, &c.RefCommand, &c.PackageID, &c.Email, &c.Phone,
		&c.Amount, &c.Status, &c.PaymentStatus, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan checkout: %w", err)
	}
	return &c, nil
}
