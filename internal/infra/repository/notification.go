package repository

import (
	"context"
	"time"

	"marketfill/internal/infra"
	"marketfill/internal/infra/db"
	"marketfill/internal/usecase/readmodel"
	"marketfill/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	createNotificationJobSQL = `
		INSERT INTO notification_jobs (kind, topic, payload, run_at, status)
		VALUES ($1, $2, $3, $4, 'queued')`

	// SKIP LOCKED lets concurrent workers claim disjoint job sets
	// without blocking each other.
	claimQueuedJobsSQL = `
		UPDATE notification_jobs
		SET status = 'processing', attempts = attempts + 1, updated_at = now()
		WHERE id IN (
			SELECT id FROM notification_jobs
			WHERE status = 'queued' AND run_at <= now()
			ORDER BY run_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, topic, payload, run_at, attempts, status, created_at`

	updateJobStatusSQL = `
		UPDATE notification_jobs
		SET status = $2, last_error = $3, updated_at = now()
		WHERE id = $1`
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

var _ shared.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := tx.Exec(ctx, createNotificationJobSQL, kind, topic, payload, runAt)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

// ClaimQueued moves up to limit due jobs into processing and returns
// them. Jobs written by an uncommitted transaction are invisible here,
// so nothing is delivered before its order commits.
func (r *NotificationRepository) ClaimQueued(ctx context.Context, tx db.DBTX, limit int) ([]readmodel.NotificationJobRM, error) {
	rows, err := tx.Query(ctx, claimQueuedJobsSQL, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (readmodel.NotificationJobRM, error) {
		var j readmodel.NotificationJobRM
		err := row.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.RunAt, &j.Attempts, &j.Status, &j.CreatedAt)
		return j, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to collect claimed notification jobs", err)
	}

	return jobs, nil
}

func (r *NotificationRepository) UpdateJobStatus(ctx context.Context, tx db.DBTX, jobID uuid.UUID, status string, lastError *string) error {
	_, err := tx.Exec(ctx, updateJobStatusSQL, jobID, status, lastError)
	if err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}
	return nil
}
