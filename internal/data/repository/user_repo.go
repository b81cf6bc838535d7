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

const userColumns = `id, username, email, password, phone, full_name, avatar, bio,
	       status, location, theme_preference, is_premium, is_verified,
	       last_login, created_at, updated_at, deleted_at`

// qualified variant for joined queries
const userColumnsQualified = `users.id, users.username, users.email, users.password,
	       users.phone, users.full_name, users.avatar, users.bio, users.status,
	       users.location, users.theme_preference, users.is_premium,
	       users.is_verified, users.last_login, users.created_at,
	       users.updated_at, users.deleted_at`

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByPhone(ctx context.Context, phone string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*entity.User, error)
	CountSearch(ctx context.Context, query string) (int64, error)
	FindSuggested(ctx context.Context, forUser uuid.UUID, limit int) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error
	SetPremium(ctx context.Context, id uuid.UUID, premium bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, password, phone, full_name, avatar,
		                   bio, status, location, theme_preference, is_premium,
		                   is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.FullName,
		user.Avatar,
		user.Bio,
		user.Status,
		user.Location,
		user.Theme,
		user.IsPremium,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`

	return ur.scanOne(ctx, query, id)
}

func (ur *userRepository) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE phone = $1 AND deleted_at IS NULL
	`

	return ur.scanOne(ctx, query, phone)
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = $1 AND deleted_at IS NULL
	`

	return ur.scanOne(ctx, query, username)
}

func (ur *userRepository) scanOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var user entity.User
	err := ur.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.FullName,
		&user.Avatar,
		&user.Bio,
		&user.Status,
		&user.Location,
		&user.Theme,
		&user.IsPremium,
		&user.IsVerified,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user", zap.Error(err))
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &user, nil
}

// Search matches the query against username, full name, and bio.
func (ur *userRepository) Search(ctx context.Context, search string, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR username ILIKE '%' || $1 || '%'
		       OR full_name ILIKE '%' || $1 || '%'
		       OR bio ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := ur.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		ur.log.Error("Failed to search users", zap.Error(err), zap.String("search", search))
		return nil, fmt.Errorf("search users %q: %w", search, err)
	}
	defer rows.Close()

	return ur.scanMany(rows)
}

func (ur *userRepository) CountSearch(ctx context.Context, search string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM users
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR username ILIKE '%' || $1 || '%'
		       OR full_name ILIKE '%' || $1 || '%'
		       OR bio ILIKE '%' || $1 || '%')
	`

	var count int64
	if err := ur.db.QueryRow(ctx, query, search).Scan(&count); err != nil {
		ur.log.Error("Failed to count users", zap.Error(err))
		return 0, fmt.Errorf("count users: %w", err)
	}

	return count, nil
}

// FindSuggested returns random users the given user does not follow yet.
func (ur *userRepository) FindSuggested(ctx context.Context, forUser uuid.UUID, limit int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		  AND id != $1
		  AND id NOT IN (
		      SELECT followed_id FROM subscriptions WHERE follower_id = $1
		  )
		ORDER BY RANDOM()
		LIMIT $2
	`

	rows, err := ur.db.Query(ctx, query, forUser, limit)
	if err != nil {
		ur.log.Error("Failed to find suggested users",
			zap.Error(err),
			zap.String("user_id", forUser.String()),
		)
		return nil, fmt.Errorf("find suggested users for %s: %w", forUser.String(), err)
	}
	defer rows.Close()

	return ur.scanMany(rows)
}

func (ur *userRepository) scanMany(rows pgx.Rows) ([]*entity.User, error) {
	var users []*entity.User
	for rows.Next() {
		var user entity.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Phone,
			&user.FullName,
			&user.Avatar,
			&user.Bio,
			&user.Status,
			&user.Location,
			&user.Theme,
			&user.IsPremium,
			&user.IsVerified,
			&user.LastLogin,
			&user.CreatedAt,
			&user.UpdatedAt,
			&user.DeletedAt,
		)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, password = $4, phone = $5, full_name = $6,
		    avatar = $7, bio = $8, status = $9, location = $10,
		    theme_preference = $11, is_premium = $12, is_verified = $13,
		    last_login = $14, updated_at = $15
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.FullName,
		user.Avatar,
		user.Bio,
		user.Status,
		user.Location,
		user.Theme,
		user.IsPremium,
		user.IsVerified,
		user.LastLogin,
		user.UpdatedAt,
	)

	if err != nil {
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found or already deleted", user.ID.String())
	}

	return nil
}

func (ur *userRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error {
	query := `
		UPDATE users
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := ur.db.Exec(ctx, query, id, status)
	if err != nil {
		ur.log.Error("Failed to update user status",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update status for %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}

func (ur *userRepository) SetPremium(ctx context.Context, id uuid.UUID, premium bool) error {
	query := `
		UPDATE users
		SET is_premium = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := ur.db.Exec(ctx, query, id, premium)
	if err != nil {
		ur.log.Error("Failed to set premium flag",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("set premium for %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}

func (ur *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to delete user",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("delete user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	ur.log.Info("User deleted", zap.String("id", id.String()))
	return nil
}
