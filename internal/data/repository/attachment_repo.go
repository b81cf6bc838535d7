package repository

import (
	"context"
	"fmt"

	"opentalk/internal/data/entity"
	"opentalk/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AttachmentRepository interface {
	Create(ctx context.Context, attachment *entity.Attachment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Attachment, error)
}

type attachmentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAttachmentRepository(db database.PgxIface, log *zap.Logger) AttachmentRepository {
	return &attachmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "attachment")),
	}
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *entity.Attachment) error {
	query := `
		INSERT INTO attachments (id, uploader_id, file_name, file_type, file_size, url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		attachment.ID,
		attachment.UploaderID,
		attachment.FileName,
		attachment.FileType,
		attachment.FileSize,
		attachment.URL,
		attachment.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create attachment",
			zap.Error(err),
			zap.String("uploader_id", attachment.UploaderID.String()),
		)
		return fmt.Errorf("create attachment: %w", err)
	}

	return nil
}

func (r *attachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Attachment, error) {
	query := `
		SELECT id, uploader_id, file_name, file_type, file_size, url, created_at
		FROM attachments
		WHERE id = $1
	`

	var a entity.Attachment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.UploaderID,
		&a.FileName,
		&a.FileType,
		&a.FileSize,
		&a.URL,
		&a.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find attachment", zap.Error(err), zap.String("attachment_id", id.String()))
		return nil, fmt.Errorf("find attachment %s: %w", id.String(), err)
	}

	return &a, nil
}
