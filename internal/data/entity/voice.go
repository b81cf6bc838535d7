package entity

import (
	"time"

	"github.com/google/uuid"
)

type VoiceChannel struct {
	BaseSimple
	Name            string    `db:"name"`
	CreatorID       uuid.UUID `db:"creator_id"`
	IsActive        bool      `db:"is_active"`
	MaxParticipants int       `db:"max_participants"`
}

type VoiceChannelMember struct {
	ID            uuid.UUID `db:"id"`
	ChannelID     uuid.UUID `db:"channel_id"`
	UserID        uuid.UUID `db:"user_id"`
	JoinedAt      time.Time `db:"joined_at"`
	MicStatus     bool      `db:"mic_status"`
	SpeakerStatus bool      `db:"speaker_status"`
}

type CallStatus string

const (
	CallMissed   CallStatus = "missed"
	CallAnswered CallStatus = "answered"
	CallDeclined CallStatus = "declined"
)

type CallType string

const (
	CallAudio CallType = "audio"
	CallVideo CallType = "video"
)

type Call struct {
	ID         uuid.UUID  `db:"id"`
	CallerID   uuid.UUID  `db:"caller_id"`
	ReceiverID uuid.UUID  `db:"receiver_id"`
	StartedAt  time.Time  `db:"started_at"`
	EndedAt    *time.Time `db:"ended_at"`
	Status     CallStatus `db:"status"`
	CallType   CallType   `db:"call_type"`
}
