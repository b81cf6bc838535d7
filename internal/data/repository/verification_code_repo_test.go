package repository

import (
	"context"
	"testing"
	"time"

	"opentalk/internal/data/entity"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVerificationCodeRepository_Create(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewVerificationCodeRepository(mockPool, zap.NewNop())

	now := time.Now()
	code := &entity.VerificationCode{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		Phone:      "79990001122",
		Code:       "123456",
		ExpiresAt:  now.Add(10 * time.Minute),
	}

	mockPool.ExpectExec("INSERT INTO verification_codes").
		WithArgs(code.ID, code.Phone, code.Code, code.ExpiresAt, code.IsUsed, code.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), code)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestVerificationCodeRepository_MarkAllUsedByPhone(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewVerificationCodeRepository(mockPool, zap.NewNop())

	mockPool.ExpectExec("UPDATE verification_codes").
		WithArgs("79990001122").
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	err = repo.MarkAllUsedByPhone(context.Background(), "79990001122")
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestVerificationCodeRepository_FindValidCode(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewVerificationCodeRepository(mockPool, zap.NewNop())

	id := uuid.New()
	now := time.Now()
	expiresAt := now.Add(10 * time.Minute)

	rows := pgxmock.NewRows([]string{"id", "phone", "code", "expires_at", "is_used", "created_at"}).
		AddRow(id, "79990001122", "123456", expiresAt, false, now)

	mockPool.ExpectQuery("SELECT id, phone, code, expires_at, is_used, created_at").
		WithArgs("79990001122", "123456").
		WillReturnRows(rows)

	found, err := repo.FindValidCode(context.Background(), "79990001122", "123456")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, "123456", found.Code)
	assert.False(t, found.IsUsed)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestVerificationCodeRepository_FindValidCode_NoMatch(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewVerificationCodeRepository(mockPool, zap.NewNop())

	mockPool.ExpectQuery("SELECT id, phone, code, expires_at, is_used, created_at").
		WithArgs("79990001122", "000000").
		WillReturnRows(pgxmock.NewRows([]string{"id", "phone", "code", "expires_at", "is_used", "created_at"}))

	found, err := repo.FindValidCode(context.Background(), "79990001122", "000000")
	assert.NoError(t, err)
	assert.Nil(t, found)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestVerificationCodeRepository_MarkAsUsed(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewVerificationCodeRepository(mockPool, zap.NewNop())

	id := uuid.New()
	mockPool.ExpectExec("UPDATE verification_codes").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.MarkAsUsed(context.Background(), id)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestVerificationCodeRepository_MarkAsUsed_NotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewVerificationCodeRepository(mockPool, zap.NewNop())

	id := uuid.New()
	mockPool.ExpectExec("UPDATE verification_codes").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.MarkAsUsed(context.Background(), id)
	assert.Error(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
