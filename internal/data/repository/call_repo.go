package repository

import (
	"context"
	"fmt"
	"time"

	"opentalk/internal/data/entity"
	"opentalk/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CallRepository interface {
	Create(ctx context.Context, call *entity.Call) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Call, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.CallStatus, endedAt *time.Time) error
	FindHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Call, error)
}

type callRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCallRepository(db database.PgxIface, log *zap.Logger) CallRepository {
	return &callRepository{
		db:  db,
		log: log.With(zap.String("repository", "call")),
	}
}

func (r *callRepository) Create(ctx context.Context, call *entity.Call) error {
	query := `
		INSERT INTO calls (id, caller_id, receiver_id, status, call_type, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		call.ID,
		call.CallerID,
		call.ReceiverID,
		call.Status,
		call.CallType,
		call.StartedAt,
		call.EndedAt,
	)

	if err != nil {
		r.log.Error("Failed to create call",
			zap.Error(err),
			zap.String("caller_id", call.CallerID.String()),
			zap.String("receiver_id", call.ReceiverID.String()),
		)
		return fmt.Errorf("create call: %w", err)
	}

	return nil
}

func (r *callRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Call, error) {
	query := `
		SELECT id, caller_id, receiver_id, status, call_type, started_at, ended_at
		FROM calls
		WHERE id = $1
	`

	var call entity.Call
	err := r.db.QueryRow(ctx, query, id).Scan(
		&call.ID,
		&call.CallerID,
		&call.ReceiverID,
		&call.Status,
		&call.CallType,
		&call.StartedAt,
		&call.EndedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find call", zap.Error(err))
		return nil, fmt.Errorf("find call %s: %w", id.String(), err)
	}

	return &call, nil
}

func (r *callRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.CallStatus, endedAt *time.Time) error {
	query := `
		UPDATE calls
		SET status = $2, ended_at = COALESCE($3, ended_at)
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, status, endedAt)
	if err != nil {
		r.log.Error("Failed to update call status",
			zap.Error(err),
			zap.String("call_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update call %s status: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("call %s not found", id.String())
	}

	return nil
}

func (r *callRepository) FindHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Call, error) {
	query := `
		SELECT id, caller_id, receiver_id, status, call_type, started_at, ended_at
		FROM calls
		WHERE caller_id = $1 OR receiver_id = $1
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to query call history", zap.Error(err))
		return nil, fmt.Errorf("query call history for %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var calls []*entity.Call
	for rows.Next() {
		var call entity.Call
		err := rows.Scan(
			&call.ID,
			&call.CallerID,
			&call.ReceiverID,
			&call.Status,
			&call.CallType,
			&call.StartedAt,
			&call.EndedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan call row: %w", err)
		}
		calls = append(calls, &call)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls rows: %w", err)
	}

	return calls, nil
}
