package response

import (
	"time"

	"opentalk/internal/data/entity"
)

type VoiceChannelResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	CreatorID       string    `json:"creator_id"`
	IsActive        bool      `json:"is_active"`
	MaxParticipants int       `json:"max_participants"`
	MemberCount     int64     `json:"member_count"`
	CreatedAt       time.Time `json:"created_at"`
}

type VoiceMemberResponse struct {
	User          *UserResponse `json:"user,omitempty"`
	UserID        string        `json:"user_id"`
	MicStatus     bool          `json:"mic_status"`
	SpeakerStatus bool          `json:"speaker_status"`
	JoinedAt      time.Time     `json:"joined_at"`
}

type CallResponse struct {
	ID         string     `json:"id"`
	CallerID   string     `json:"caller_id"`
	ReceiverID string     `json:"receiver_id"`
	Status     string     `json:"status"`
	CallType   string     `json:"call_type"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

func VoiceChannelToResponse(ch *entity.VoiceChannel, memberCount int64) *VoiceChannelResponse {
	return &VoiceChannelResponse{
		ID:              ch.ID.String(),
		Name:            ch.Name,
		CreatorID:       ch.CreatorID.String(),
		IsActive:        ch.IsActive,
		MaxParticipants: ch.MaxParticipants,
		MemberCount:     memberCount,
		CreatedAt:       ch.CreatedAt,
	}
}

func VoiceMemberToResponse(m *entity.VoiceChannelMember, user *entity.User) *VoiceMemberResponse {
	resp := &VoiceMemberResponse{
		UserID:        m.UserID.String(),
		MicStatus:     m.MicStatus,
		SpeakerStatus: m.SpeakerStatus,
		JoinedAt:      m.JoinedAt,
	}

	if user != nil {
		resp.User = UserToResponse(user)
	}

	return resp
}

func CallToResponse(call *entity.Call) *CallResponse {
	return &CallResponse{
		ID:         call.ID.String(),
		CallerID:   call.CallerID.String(),
		ReceiverID: call.ReceiverID.String(),
		Status:     string(call.Status),
		CallType:   string(call.CallType),
		StartedAt:  call.StartedAt,
		EndedAt:    call.EndedAt,
	}
}
