package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retentionhub/churn-console/internal/domain"
)

type pgWorkQueueRepository struct {
	pool *pgxpool.Pool
}

// NewPgWorkQueueRepository returns a WorkQueueRepository backed by PostgreSQL.
func NewPgWorkQueueRepository(pool *pgxpool.Pool) WorkQueueRepository {
	return &pgWorkQueueRepository{pool: pool}
}

const itemColumns = `
	id, customer_id, customer_name, customer_email, action_type, title,
	description, priority, confidence, potential_value, churn_score,
	last_activity_at, status, snoozed_until, created_at, updated_at, payload`

const actionColumns = `
	id, item_id, kind, priority, status, snooze_until, retry_count,
	max_retries, next_retry_at, sent_at, upstream_ref, error_message,
	created_at, updated_at`

const upsertItemSQL = `
	INSERT INTO work_queue_items (` + itemColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,'pending',NULL,$13,NOW(),$14)
	ON CONFLICT (id) DO UPDATE SET
		customer_id      = EXCLUDED.customer_id,
		customer_name    = EXCLUDED.customer_name,
		customer_email   = EXCLUDED.customer_email,
		action_type      = EXCLUDED.action_type,
		title            = EXCLUDED.title,
		description      = EXCLUDED.description,
		priority         = EXCLUDED.priority,
		confidence       = EXCLUDED.confidence,
		potential_value  = EXCLUDED.potential_value,
		churn_score      = EXCLUDED.churn_score,
		last_activity_at = EXCLUDED.last_activity_at,
		created_at       = EXCLUDED.created_at,
		payload          = EXCLUDED.payload,
		updated_at       = NOW(),
		status = CASE WHEN work_queue_items.status = 'resolved'
		              THEN 'pending' ELSE work_queue_items.status END`

func (r *pgWorkQueueRepository) UpsertItems(ctx context.Context, items []*domain.WorkQueueItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, it := range items {
		var priority *string
		if it.Priority != nil {
			p := string(*it.Priority)
			priority = &p
		}
		var payload []byte
		if len(it.Payload) > 0 {
			payload = it.Payload
		}
		batch.Queue(upsertItemSQL,
			it.ID, it.CustomerID, it.CustomerName, it.CustomerEmail, it.ActionType, it.Title,
			it.Description, priority, it.Confidence, it.PotentialValue, it.ChurnScore,
			it.LastActivityAt, it.CreatedAt, payload,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range items {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("upsert item %s: %w", items[i].ID, err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return len(items), nil
}

func (r *pgWorkQueueRepository) ResolveMissing(ctx context.Context, keep []string) (int, error) {
	if keep == nil {
		keep = []string{}
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE work_queue_items
		SET status = 'resolved', updated_at = NOW()
		WHERE status = 'pending' AND NOT (id = ANY($1))`, keep)
	if err != nil {
		return 0, fmt.Errorf("resolve missing items: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *pgWorkQueueRepository) GetItem(ctx context.Context, id string) (*domain.WorkQueueItem, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM work_queue_items WHERE id = $1`, id)
	it, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return it, err
}

func (r *pgWorkQueueRepository) ListPending(ctx context.Context, now time.Time) ([]*domain.WorkQueueItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM work_queue_items
		WHERE status = 'pending'
		   OR (status = 'snoozed' AND snoozed_until <= $1)
		ORDER BY created_at`, now)
	if err != nil {
		return nil, fmt.Errorf("list pending items: %w", err)
	}
	defer rows.Close()

	var items []*domain.WorkQueueItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *pgWorkQueueRepository) RecordDecision(ctx context.Context, a *domain.Action, now time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Compare-and-set on the pending state; a concurrent decision on the
	// same item finds no matching row.
	tag, err := tx.Exec(ctx, `
		UPDATE work_queue_items
		SET status = $1, snoozed_until = $2, updated_at = NOW()
		WHERE id = $3
		  AND (status = 'pending' OR (status = 'snoozed' AND snoozed_until <= $4))`,
		a.Kind.ItemStatus(), a.SnoozeUntil, a.ItemID, now)
	if err != nil {
		return fmt.Errorf("set item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM work_queue_items WHERE id = $1)`, a.ItemID).Scan(&exists); err != nil {
			return fmt.Errorf("check item: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrItemNotPending
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO work_queue_actions
			(id, item_id, kind, priority, status, snooze_until, retry_count,
			 max_retries, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.ItemID, a.Kind, a.Priority, a.Status, a.SnoozeUntil, a.RetryCount,
		a.MaxRetries, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit decision: %w", err)
	}
	return nil
}

func (r *pgWorkQueueRepository) GetAction(ctx context.Context, id string) (*domain.Action, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+actionColumns+` FROM work_queue_actions WHERE id = $1`, id)
	a, err := scanAction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

func (r *pgWorkQueueRepository) UpdateActionStatus(ctx context.Context, id string, status domain.ActionStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE work_queue_actions SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return err
}

func (r *pgWorkQueueRepository) MarkActionSent(ctx context.Context, id, upstreamRef string, sentAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE work_queue_actions
		SET status = 'sent', upstream_ref = $1, sent_at = $2,
		    error_message = NULL, next_retry_at = NULL, updated_at = NOW()
		WHERE id = $3`, upstreamRef, sentAt, id)
	return err
}

func (r *pgWorkQueueRepository) MarkActionFailed(ctx context.Context, id, errMsg string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE work_queue_actions
		SET status = 'failed', error_message = $1, next_retry_at = NULL, updated_at = NOW()
		WHERE id = $2`, errMsg, id)
	return err
}

func (r *pgWorkQueueRepository) ScheduleActionRetry(ctx context.Context, id string, retryCount int, nextRetry time.Time, errMsg string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE work_queue_actions
		SET status = 'failed', retry_count = $1, next_retry_at = $2,
		    error_message = $3, updated_at = NOW()
		WHERE id = $4`, retryCount, nextRetry, errMsg, id)
	return err
}

func (r *pgWorkQueueRepository) ParkAction(ctx context.Context, id string, at time.Time, reason string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE work_queue_actions
		SET status = 'pending', next_retry_at = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3`, at, reason, id)
	return err
}

func (r *pgWorkQueueRepository) FindDueRetries(ctx context.Context, now time.Time) ([]*domain.Action, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+actionColumns+`
		FROM work_queue_actions
		WHERE ((status = 'failed' AND retry_count < max_retries) OR status = 'pending')
		  AND next_retry_at <= $1
		ORDER BY next_retry_at
		LIMIT 500`, now)
	if err != nil {
		return nil, fmt.Errorf("find due retries: %w", err)
	}
	defer rows.Close()

	var actions []*domain.Action
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// ---- scan helpers ----

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*domain.WorkQueueItem, error) {
	var (
		it       domain.WorkQueueItem
		priority *string
		payload  []byte
	)
	err := row.Scan(
		&it.ID, &it.CustomerID, &it.CustomerName, &it.CustomerEmail, &it.ActionType, &it.Title,
		&it.Description, &priority, &it.Confidence, &it.PotentialValue, &it.ChurnScore,
		&it.LastActivityAt, &it.Status, &it.SnoozedUntil, &it.CreatedAt, &it.UpdatedAt, &payload,
	)
	if err != nil {
		return nil, err
	}
	if priority != nil {
		p := domain.Priority(*priority)
		it.Priority = &p
	}
	it.Payload = payload
	it.CreatedAt = it.CreatedAt.UTC()
	return &it, nil
}

func scanAction(row scanner) (*domain.Action, error) {
	var a domain.Action
	err := row.Scan(
		&a.ID, &a.ItemID, &a.Kind, &a.Priority, &a.Status, &a.SnoozeUntil, &a.RetryCount,
		&a.MaxRetries, &a.NextRetryAt, &a.SentAt, &a.UpstreamRef, &a.ErrorMessage,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
