package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/domain/outbox"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// claimLease is how long a claimed event may stay in 'processing' before
// another poller may claim it again.
const claimLease = 2 * time.Minute

const outboxColumns = `
	id,
	event_type,
	payload,
	status,
	COALESCE(correlation_id::text, ''),
	COALESCE(causation_id::text, ''),
	COALESCE(producer, 'unknown'),
	created_at,
	updated_at`

type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) Create(ctx context.Context, e *outbox.Event) error {
	const sql = `
		INSERT INTO outbox (id, event_type, payload, status, correlation_id, causation_id, producer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	_, err := executor(ctx, r.pool).Exec(ctx, sql,
		e.ID, e.EventType, e.Payload, nullIfEmptyDefault(e.Status, outbox.StatusNew),
		nullIfEmpty(e.CorrelationID), nullIfEmpty(e.CausationID), nullIfEmptyDefault(e.Producer, "unknown"), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}

	return nil
}

// FetchBatch claims up to limit publishable events: new ones, plus ones whose
// claim has outlived claimLease because a poller died mid-batch.
func (r *OutboxRepository) FetchBatch(ctx context.Context, limit int) ([]*outbox.Event, error) {
	const sql = `
		WITH claimed_events AS (
			SELECT id
			FROM outbox
			WHERE status = 'new'
			   OR (status = 'processing' AND updated_at < NOW() - make_interval(secs => $2))
			ORDER BY created_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE outbox
		SET status = 'processing', updated_at = NOW()
		WHERE id IN (SELECT id FROM claimed_events)
		RETURNING` + outboxColumns

	rows, err := r.pool.Query(ctx, sql, limit, claimLease.Seconds())
	if err != nil {
		return nil, fmt.Errorf("claim outbox batch: %w", err)
	}
	return scanOutbox(rows)
}

func (r *OutboxRepository) MarkProcessed(ctx context.Context, ids []string) error {
	return r.setStatus(ctx, ids, outbox.StatusProcessed)
}

// MarkFailed hands events back to the next poll.
func (r *OutboxRepository) MarkFailed(ctx context.Context, ids []string) error {
	return r.setStatus(ctx, ids, outbox.StatusNew)
}

func (r *OutboxRepository) setStatus(ctx context.Context, ids []string, status string) error {
	const sql = `
		UPDATE outbox
		SET status = $2, updated_at = NOW()
		WHERE id = ANY($1)
	`
	if _, err := r.pool.Exec(ctx, sql, ids, status); err != nil {
		return fmt.Errorf("mark outbox %s: %w", status, err)
	}
	return nil
}

// ResetProcessing returns every claimed event to 'new'.
func (r *OutboxRepository) ResetProcessing(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE outbox SET status = 'new', updated_at = NOW() WHERE status = 'processing'`)
	if err != nil {
		return 0, fmt.Errorf("reset processing outbox: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OutboxRepository) ListByCorrelationID(ctx context.Context, correlationID string) ([]*outbox.Event, error) {
	const sql = `SELECT` + outboxColumns + `
		FROM outbox
		WHERE correlation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, sql, nullIfEmpty(correlationID))
	if err != nil {
		return nil, fmt.Errorf("query outbox by correlation_id: %w", err)
	}
	return scanOutbox(rows)
}

func (r *OutboxRepository) ListRecent(ctx context.Context, limit int) ([]*outbox.Event, error) {
	const sql = `SELECT` + outboxColumns + `
		FROM outbox
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent outbox: %w", err)
	}
	return scanOutbox(rows)
}

func scanOutbox(rows pgx.Rows) ([]*outbox.Event, error) {
	defer rows.Close()

	var events []*outbox.Event
	for rows.Next() {
		e := &outbox.Event{}
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &e.Status, &e.CorrelationID, &e.CausationID, &e.Producer, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

var _ outbox.Repository = (*OutboxRepository)(nil)
