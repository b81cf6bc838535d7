package usecase

import (
	"context"
	"fmt"
	"time"

	"opentalk/internal/data/entity"
	"opentalk/internal/data/repository"
	"opentalk/internal/dto/request"
	"opentalk/internal/dto/response"
	"opentalk/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultMaxParticipants = 10

type VoiceService interface {
	CreateChannel(ctx context.Context, userID uuid.UUID, req *request.CreateVoiceChannelRequest) (*response.VoiceChannelResponse, error)
	ListChannels(ctx context.Context, page, perPage int) ([]*response.VoiceChannelResponse, error)
	JoinChannel(ctx context.Context, userID, channelID uuid.UUID) error
	LeaveChannel(ctx context.Context, userID, channelID uuid.UUID) error
	ChannelMembers(ctx context.Context, channelID uuid.UUID) ([]*response.VoiceMemberResponse, error)
	UpdateMemberStatus(ctx context.Context, userID, channelID uuid.UUID, req *request.UpdateVoiceStatusRequest) error
	CloseChannel(ctx context.Context, userID, channelID uuid.UUID) error
	StartCall(ctx context.Context, callerID uuid.UUID, req *request.StartCallRequest) (*response.CallResponse, error)
	EndCall(ctx context.Context, userID, callID uuid.UUID, req *request.EndCallRequest) (*response.CallResponse, error)
	CallHistory(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*response.CallResponse, error)
}

type voiceService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewVoiceService(repo *repository.Repository, log *zap.Logger) VoiceService {
	return &voiceService{
		repo: repo,
		log:  log,
	}
}

func (s *voiceService) CreateChannel(ctx context.Context, userID uuid.UUID, req *request.CreateVoiceChannelRequest) (*response.VoiceChannelResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	maxParticipants := req.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = defaultMaxParticipants
	}

	channel := &entity.VoiceChannel{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		Name:            req.Name,
		CreatorID:       userID,
		IsActive:        true,
		MaxParticipants: maxParticipants,
	}

	if err := s.repo.VoiceChannel.Create(ctx, channel); err != nil {
		return nil, err
	}

	// The creator joins their own channel immediately; a channel whose
	// creator is not a member is never surfaced.
	if err := s.JoinChannel(ctx, userID, channel.ID); err != nil {
		return nil, err
	}

	s.log.Info("Voice channel created",
		zap.String("channel_id", channel.ID.String()),
		zap.String("creator_id", userID.String()))

	return response.VoiceChannelToResponse(channel, 1), nil
}

func (s *voiceService) ListChannels(ctx context.Context, page, perPage int) ([]*response.VoiceChannelResponse, error) {
	channels, err := s.repo.VoiceChannel.FindActive(ctx, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, err
	}

	out := make([]*response.VoiceChannelResponse, 0, len(channels))
	for _, ch := range channels {
		count, err := s.repo.VoiceChannel.CountMembers(ctx, ch.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, response.VoiceChannelToResponse(ch, count))
	}
	return out, nil
}

func (s *voiceService) JoinChannel(ctx context.Context, userID, channelID uuid.UUID) error {
	channel, err := s.repo.VoiceChannel.FindByID(ctx, channelID)
	if err != nil {
		return err
	}
	if channel == nil || !channel.IsActive {
		return fmt.Errorf("%w: voice channel", ErrNotFound)
	}

	count, err := s.repo.VoiceChannel.CountMembers(ctx, channelID)
	if err != nil {
		return err
	}
	if count >= int64(channel.MaxParticipants) {
		return fmt.Errorf("%w: channel is full", ErrConflict)
	}

	member := &entity.VoiceChannelMember{
		ID:            uuid.New(),
		ChannelID:     channelID,
		UserID:        userID,
		JoinedAt:      time.Now(),
		MicStatus:     true,
		SpeakerStatus: true,
	}
	return s.repo.VoiceChannel.AddMember(ctx, member)
}

func (s *voiceService) LeaveChannel(ctx context.Context, userID, channelID uuid.UUID) error {
	if err := s.repo.VoiceChannel.RemoveMember(ctx, channelID, userID); err != nil {
		return fmt.Errorf("%w: not a channel member", ErrNotFound)
	}
	return nil
}

func (s *voiceService) ChannelMembers(ctx context.Context, channelID uuid.UUID) ([]*response.VoiceMemberResponse, error) {
	channel, err := s.repo.VoiceChannel.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, fmt.Errorf("%w: voice channel", ErrNotFound)
	}

	members, err := s.repo.VoiceChannel.FindMembers(ctx, channelID)
	if err != nil {
		return nil, err
	}

	out := make([]*response.VoiceMemberResponse, 0, len(members))
	for _, m := range members {
		user, err := s.repo.User.FindByID(ctx, m.UserID)
		if err != nil {
			return nil, err
		}
		out = append(out, response.VoiceMemberToResponse(m, user))
	}
	return out, nil
}

func (s *voiceService) UpdateMemberStatus(ctx context.Context, userID, channelID uuid.UUID, req *request.UpdateVoiceStatusRequest) error {
	member, err := s.repo.VoiceChannel.FindMember(ctx, channelID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("%w: not a channel member", ErrForbidden)
	}

	return s.repo.VoiceChannel.UpdateMemberStatus(ctx, channelID, userID, req.MicStatus, req.SpeakerStatus)
}

func (s *voiceService) CloseChannel(ctx context.Context, userID, channelID uuid.UUID) error {
	channel, err := s.repo.VoiceChannel.FindByID(ctx, channelID)
	if err != nil {
		return err
	}
	if channel == nil {
		return fmt.Errorf("%w: voice channel", ErrNotFound)
	}
	if channel.CreatorID != userID {
		return fmt.Errorf("%w: only the creator can close the channel", ErrForbidden)
	}

	return s.repo.VoiceChannel.Close(ctx, channelID)
}

func (s *voiceService) StartCall(ctx context.Context, callerID uuid.UUID, req *request.StartCallRequest) (*response.CallResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	receiverID, err := utils.ParseUUID(req.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed receiver_id", ErrValidation)
	}
	if receiverID == callerID {
		return nil, fmt.Errorf("%w: cannot call yourself", ErrValidation)
	}

	receiver, err := s.repo.User.FindByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, fmt.Errorf("%w: receiver", ErrNotFound)
	}

	call := &entity.Call{
		ID:         uuid.New(),
		CallerID:   callerID,
		ReceiverID: receiverID,
		StartedAt:  time.Now(),
		Status:     entity.CallMissed,
		CallType:   entity.CallType(req.CallType),
	}

	if err := s.repo.Call.Create(ctx, call); err != nil {
		return nil, err
	}

	s.log.Info("Call started",
		zap.String("call_id", call.ID.String()),
		zap.String("caller_id", callerID.String()),
		zap.String("receiver_id", receiverID.String()))

	return response.CallToResponse(call), nil
}

func (s *voiceService) EndCall(ctx context.Context, userID, callID uuid.UUID, req *request.EndCallRequest) (*response.CallResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	call, err := s.repo.Call.FindByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if call == nil {
		return nil, fmt.Errorf("%w: call", ErrNotFound)
	}
	if call.CallerID != userID && call.ReceiverID != userID {
		return nil, fmt.Errorf("%w: not a call participant", ErrForbidden)
	}
	if call.EndedAt != nil {
		return nil, fmt.Errorf("%w: call already ended", ErrConflict)
	}

	now := time.Now()
	status := entity.CallStatus(req.Status)
	if err := s.repo.Call.UpdateStatus(ctx, callID, status, &now); err != nil {
		return nil, err
	}

	call.Status = status
	call.EndedAt = &now
	return response.CallToResponse(call), nil
}

func (s *voiceService) CallHistory(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*response.CallResponse, error) {
	calls, err := s.repo.Call.FindHistory(ctx, userID, perPage, utils.CalculateOffset(page, perPage))
	if err != nil {
		return nil, err
	}

	out := make([]*response.CallResponse, 0, len(calls))
	for _, call := range calls {
		out = append(out, response.CallToResponse(call))
	}
	return out, nil
}
