package request

type CreateVoiceChannelRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=100"`
	MaxParticipants int    `json:"max_participants" validate:"omitempty,min=2,max=50"`
}

type UpdateVoiceStatusRequest struct {
	MicStatus     bool `json:"mic_status"`
	SpeakerStatus bool `json:"speaker_status"`
}

type StartCallRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required,uuid4"`
	CallType   string `json:"call_type" validate:"required,oneof=audio video"`
}

type EndCallRequest struct {
	Status string `json:"status" validate:"required,oneof=missed answered declined"`
}
