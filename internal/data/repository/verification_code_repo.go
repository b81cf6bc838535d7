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

type VerificationCodeRepository interface {
	Create(ctx context.Context, code *entity.VerificationCode) error
	MarkAllUsedByPhone(ctx context.Context, phone string) error
	FindValidCode(ctx context.Context, phone, code string) (*entity.VerificationCode, error)
	MarkAsUsed(ctx context.Context, codeID uuid.UUID) error
}

type verificationCodeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVerificationCodeRepository(db database.PgxIface, log *zap.Logger) VerificationCodeRepository {
	return &verificationCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "verification_code")),
	}
}

func (r *verificationCodeRepository) Create(ctx context.Context, code *entity.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (id, phone, code, expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID,
		code.Phone,
		code.Code,
		code.ExpiresAt,
		code.IsUsed,
		code.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create verification code",
			zap.Error(err),
			zap.String("phone", code.Phone),
		)
		return fmt.Errorf("create verification code for %s: %w", code.Phone, err)
	}

	return nil
}

// MarkAllUsedByPhone invalidates every outstanding code for the phone so
// that only the most recently issued code is ever valid. Idempotent.
func (r *verificationCodeRepository) MarkAllUsedByPhone(ctx context.Context, phone string) error {
	query := `
		UPDATE verification_codes
		SET is_used = true
		WHERE phone = $1 AND is_used = false
	`

	_, err := r.db.Exec(ctx, query, phone)
	if err != nil {
		r.log.Error("Failed to invalidate previous codes",
			zap.Error(err),
			zap.String("phone", phone),
		)
		return fmt.Errorf("invalidate codes for %s: %w", phone, err)
	}

	return nil
}

// FindValidCode returns the newest unused, unexpired code matching
// phone+code, or nil when there is none.
func (r *verificationCodeRepository) FindValidCode(ctx context.Context, phone, code string) (*entity.VerificationCode, error) {
	query := `
		SELECT id, phone, code, expires_at, is_used, created_at
		FROM verification_codes
		WHERE phone = $1
		  AND code = $2
		  AND is_used = false
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var vc entity.VerificationCode
	err := r.db.QueryRow(ctx, query, phone, code).Scan(
		&vc.ID,
		&vc.Phone,
		&vc.Code,
		&vc.ExpiresAt,
		&vc.IsUsed,
		&vc.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid code",
			zap.Error(err),
			zap.String("phone", phone),
		)
		return nil, fmt.Errorf("find valid code for %s: %w", phone, err)
	}

	return &vc, nil
}

func (r *verificationCodeRepository) MarkAsUsed(ctx context.Context, codeID uuid.UUID) error {
	query := `
		UPDATE verification_codes
		SET is_used = true
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, codeID)
	if err != nil {
		r.log.Error("Failed to mark code as used",
			zap.Error(err),
			zap.String("code_id", codeID.String()),
		)
		return fmt.Errorf("mark code %s as used: %w", codeID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("verification code %s not found", codeID.String())
	}

	return nil
}
