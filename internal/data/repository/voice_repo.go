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

type VoiceChannelRepository interface {
	Create(ctx context.Context, channel *entity.VoiceChannel) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.VoiceChannel, error)
	FindActive(ctx context.Context, limit, offset int) ([]*entity.VoiceChannel, error)
	Close(ctx context.Context, id uuid.UUID) error
	AddMember(ctx context.Context, member *entity.VoiceChannelMember) error
	RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error
	FindMember(ctx context.Context, channelID, userID uuid.UUID) (*entity.VoiceChannelMember, error)
	FindMembers(ctx context.Context, channelID uuid.UUID) ([]*entity.VoiceChannelMember, error)
	CountMembers(ctx context.Context, channelID uuid.UUID) (int64, error)
	UpdateMemberStatus(ctx context.Context, channelID, userID uuid.UUID, mic, speaker bool) error
}

type voiceChannelRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVoiceChannelRepository(db database.PgxIface, log *zap.Logger) VoiceChannelRepository {
	return &voiceChannelRepository{
		db:  db,
		log: log.With(zap.String("repository", "voice_channel")),
	}
}

func (r *voiceChannelRepository) Create(ctx context.Context, channel *entity.VoiceChannel) error {
	query := `
		INSERT INTO voice_channels (id, name, creator_id, is_active, max_participants, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		channel.ID,
		channel.Name,
		channel.CreatorID,
		channel.IsActive,
		channel.MaxParticipants,
		channel.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create voice channel",
			zap.Error(err),
			zap.String("name", channel.Name),
		)
		return fmt.Errorf("create voice channel: %w", err)
	}

	return nil
}

func (r *voiceChannelRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.VoiceChannel, error) {
	query := `
		SELECT id, name, creator_id, is_active, max_participants, created_at
		FROM voice_channels
		WHERE id = $1
	`

	var channel entity.VoiceChannel
	err := r.db.QueryRow(ctx, query, id).Scan(
		&channel.ID,
		&channel.Name,
		&channel.CreatorID,
		&channel.IsActive,
		&channel.MaxParticipants,
		&channel.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find voice channel", zap.Error(err))
		return nil, fmt.Errorf("find voice channel %s: %w", id.String(), err)
	}

	return &channel, nil
}

func (r *voiceChannelRepository) FindActive(ctx context.Context, limit, offset int) ([]*entity.VoiceChannel, error) {
	query := `
		SELECT id, name, creator_id, is_active, max_participants, created_at
		FROM voice_channels
		WHERE is_active = true
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to query voice channels", zap.Error(err))
		return nil, fmt.Errorf("query voice channels: %w", err)
	}
	defer rows.Close()

	var channels []*entity.VoiceChannel
	for rows.Next() {
		var channel entity.VoiceChannel
		err := rows.Scan(
			&channel.ID,
			&channel.Name,
			&channel.CreatorID,
			&channel.IsActive,
			&channel.MaxParticipants,
			&channel.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan voice channel row: %w", err)
		}
		channels = append(channels, &channel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate voice channels rows: %w", err)
	}

	return channels, nil
}

func (r *voiceChannelRepository) Close(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE voice_channels SET is_active = false WHERE id = $1`,
		id,
	)
	if err != nil {
		r.log.Error("Failed to close voice channel",
			zap.Error(err),
			zap.String("channel_id", id.String()),
		)
		return fmt.Errorf("close voice channel %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("voice channel %s not found", id.String())
	}

	return nil
}

func (r *voiceChannelRepository) AddMember(ctx context.Context, member *entity.VoiceChannelMember) error {
	query := `
		INSERT INTO voice_channel_members (id, channel_id, user_id, joined_at, mic_status, speaker_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (channel_id, user_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		member.ID,
		member.ChannelID,
		member.UserID,
		member.JoinedAt,
		member.MicStatus,
		member.SpeakerStatus,
	)

	if err != nil {
		r.log.Error("Failed to add voice channel member",
			zap.Error(err),
			zap.String("channel_id", member.ChannelID.String()),
			zap.String("user_id", member.UserID.String()),
		)
		return fmt.Errorf("add voice channel member: %w", err)
	}

	return nil
}

func (r *voiceChannelRepository) RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error {
	query := `
		DELETE FROM voice_channel_members
		WHERE channel_id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query, channelID, userID)
	if err != nil {
		r.log.Error("Failed to remove voice channel member",
			zap.Error(err),
			zap.String("channel_id", channelID.String()),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("remove voice channel member: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("member %s not in channel %s", userID.String(), channelID.String())
	}

	return nil
}

func (r *voiceChannelRepository) FindMember(ctx context.Context, channelID, userID uuid.UUID) (*entity.VoiceChannelMember, error) {
	query := `
		SELECT id, channel_id, user_id, joined_at, mic_status, speaker_status
		FROM voice_channel_members
		WHERE channel_id = $1 AND user_id = $2
	`

	var member entity.VoiceChannelMember
	err := r.db.QueryRow(ctx, query, channelID, userID).Scan(
		&member.ID,
		&member.ChannelID,
		&member.UserID,
		&member.JoinedAt,
		&member.MicStatus,
		&member.SpeakerStatus,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find voice channel member", zap.Error(err))
		return nil, fmt.Errorf("find voice channel member: %w", err)
	}

	return &member, nil
}

func (r *voiceChannelRepository) FindMembers(ctx context.Context, channelID uuid.UUID) ([]*entity.VoiceChannelMember, error) {
	query := `
		SELECT id, channel_id, user_id, joined_at, mic_status, speaker_status
		FROM voice_channel_members
		WHERE channel_id = $1
		ORDER BY joined_at ASC
	`

	rows, err := r.db.Query(ctx, query, channelID)
	if err != nil {
		r.log.Error("Failed to query voice channel members", zap.Error(err))
		return nil, fmt.Errorf("query members of channel %s: %w", channelID.String(), err)
	}
	defer rows.Close()

	var members []*entity.VoiceChannelMember
	for rows.Next() {
		var member entity.VoiceChannelMember
		err := rows.Scan(
			&member.ID,
			&member.ChannelID,
			&member.UserID,
			&member.JoinedAt,
			&member.MicStatus,
			&member.SpeakerStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("scan voice channel member row: %w", err)
		}
		members = append(members, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate voice channel members rows: %w", err)
	}

	return members, nil
}

func (r *voiceChannelRepository) CountMembers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM voice_channel_members WHERE channel_id = $1`,
		channelID,
	).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count voice channel members", zap.Error(err))
		return 0, fmt.Errorf("count members of channel %s: %w", channelID.String(), err)
	}
	return count, nil
}

func (r *voiceChannelRepository) UpdateMemberStatus(ctx context.Context, channelID, userID uuid.UUID, mic, speaker bool) error {
	query := `
		UPDATE voice_channel_members
		SET mic_status = $3, speaker_status = $4
		WHERE channel_id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query, channelID, userID, mic, speaker)
	if err != nil {
		r.log.Error("Failed to update voice channel member status", zap.Error(err))
		return fmt.Errorf("update status for member %s: %w", userID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("member %s not in channel %s", userID.String(), channelID.String())
	}

	return nil
}
