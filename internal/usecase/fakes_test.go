package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"opentalk/internal/data/entity"
	"opentalk/internal/data/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory fakes implementing the repository interfaces the services
// depend on. They reproduce the store semantics the SQL relies on
// (newest-first code selection, expiry checks, uniqueness).

type fakeCodeRepo struct {
	mu    sync.Mutex
	codes []*entity.VerificationCode
}

func (f *fakeCodeRepo) Create(_ context.Context, code *entity.VerificationCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *code
	f.codes = append(f.codes, &cp)
	return nil
}

func (f *fakeCodeRepo) MarkAllUsedByPhone(_ context.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.codes {
		if c.Phone == phone {
			c.IsUsed = true
		}
	}
	return nil
}

func (f *fakeCodeRepo) FindValidCode(_ context.Context, phone, code string) (*entity.VerificationCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []*entity.VerificationCode
	now := time.Now()
	for _, c := range f.codes {
		if c.Phone == phone && c.Code == code && !c.IsUsed && c.ExpiresAt.After(now) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	cp := *matches[0]
	return &cp, nil
}

func (f *fakeCodeRepo) MarkAsUsed(_ context.Context, codeID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.codes {
		if c.ID == codeID {
			c.IsUsed = true
			return nil
		}
	}
	return nil
}

// unusedFor counts codes still actionable for the phone.
func (f *fakeCodeRepo) unusedFor(phone string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.codes {
		if c.Phone == phone && !c.IsUsed {
			n++
		}
	}
	return n
}

// latestFor returns the newest stored code for the phone.
func (f *fakeCodeRepo) latestFor(phone string) *entity.VerificationCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *entity.VerificationCode
	for _, c := range f.codes {
		if c.Phone != phone {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil
	}
	cp := *latest
	return &cp
}

// expireAll pushes every stored code for the phone past its expiry.
func (f *fakeCodeRepo) expireAll(phone string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.codes {
		if c.Phone == phone {
			c.ExpiresAt = time.Now().Add(-time.Second)
		}
	}
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Phone != nil && *u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Search(_ context.Context, _ string, _, _ int) ([]*entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) CountSearch(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func (f *fakeUserRepo) FindSuggested(_ context.Context, _ uuid.UUID, _ int) ([]*entity.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.UserStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.Status = status
	}
	return nil
}

func (f *fakeUserRepo) SetPremium(_ context.Context, id uuid.UUID, premium bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.IsPremium = premium
	}
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *n
	f.notifications = append(f.notifications, &cp)
	return nil
}

func (f *fakeNotificationRepo) FindByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]*entity.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, notif := range f.notifications {
		if notif.UserID == userID && !notif.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) MarkAsRead(_ context.Context, id, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs []*entity.Subscription
}

func (f *fakeSubscriptionRepo) Create(_ context.Context, sub *entity.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *sub
	f.subs = append(f.subs, &cp)
	return nil
}

func (f *fakeSubscriptionRepo) Find(_ context.Context, followerID, followedID uuid.UUID) (*entity.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.FollowerID == followerID && s.FollowedID == followedID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) Delete(_ context.Context, followerID, followedID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.subs {
		if s.FollowerID == followerID && s.FollowedID == followedID {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeSubscriptionRepo) FindFollowers(_ context.Context, _ uuid.UUID, _, _ int) ([]*entity.User, error) {
	return nil, nil
}

func (f *fakeSubscriptionRepo) FindFollowing(_ context.Context, _ uuid.UUID, _, _ int) ([]*entity.User, error) {
	return nil, nil
}

func (f *fakeSubscriptionRepo) CountFollowers(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.subs {
		if s.FollowedID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSubscriptionRepo) CountFollowing(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.subs {
		if s.FollowerID == userID {
			n++
		}
	}
	return n, nil
}

// fakeSink records deliveries and can be told to fail.
type fakeSink struct {
	mu   sync.Mutex
	sent []string
	fail error
}

func (f *fakeSink) SendCode(_ context.Context, phone, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, phone+":"+code)
	return nil
}

type fakeChatRepo struct {
	mu      sync.Mutex
	chats   map[uuid.UUID]*entity.Chat
	members []*entity.ChatMember
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[uuid.UUID]*entity.Chat)}
}

func (f *fakeChatRepo) Create(_ context.Context, _ pgx.Tx, chat *entity.Chat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *chat
	f.chats[chat.ID] = &cp
	return nil
}

func (f *fakeChatRepo) AddMember(_ context.Context, _ pgx.Tx, member *entity.ChatMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *member
	f.members = append(f.members, &cp)
	return nil
}

func (f *fakeChatRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.chats[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeChatRepo) FindDirectChat(_ context.Context, userA, userB uuid.UUID) (*entity.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.chats {
		if c.IsGroup {
			continue
		}
		var hasA, hasB bool
		for _, m := range f.members {
			if m.ChatID != c.ID {
				continue
			}
			if m.UserID == userA {
				hasA = true
			}
			if m.UserID == userB {
				hasB = true
			}
		}
		if hasA && hasB {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepo) FindMember(_ context.Context, chatID, userID uuid.UUID) (*entity.ChatMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.ChatID == chatID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeChatRepo) FindMembers(_ context.Context, chatID uuid.UUID) ([]*entity.ChatMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.ChatMember
	for _, m := range f.members {
		if m.ChatID == chatID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]*repository.ChatSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repository.ChatSummary
	for _, m := range f.members {
		if m.UserID != userID {
			continue
		}
		if c, ok := f.chats[m.ChatID]; ok {
			out = append(out, &repository.ChatSummary{Chat: *c})
		}
	}
	return out, nil
}

func (f *fakeChatRepo) MarkRead(_ context.Context, chatID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, m := range f.members {
		if m.ChatID == chatID && m.UserID == userID {
			m.LastReadAt = &now
			return nil
		}
	}
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*entity.Message
	links    map[uuid.UUID][]uuid.UUID
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{links: make(map[uuid.UUID][]uuid.UUID)}
}

func (f *fakeMessageRepo) Create(_ context.Context, message *entity.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *message
	f.messages = append(f.messages, &cp)
	return nil
}

func (f *fakeMessageRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMessageRepo) FindByChat(_ context.Context, chatID uuid.UUID, _, _ int) ([]*entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Message
	for _, m := range f.messages {
		if m.ChatID == chatID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) FindLastByChat(_ context.Context, chatID uuid.UUID) (*entity.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *entity.Message
	for _, m := range f.messages {
		if m.ChatID != chatID {
			continue
		}
		if latest == nil || m.CreatedAt.After(latest.CreatedAt) {
			latest = m
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeMessageRepo) LinkAttachment(_ context.Context, messageID, attachmentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links[messageID] = append(f.links[messageID], attachmentID)
	return nil
}

func (f *fakeMessageRepo) FindAttachments(_ context.Context, _ uuid.UUID) ([]*entity.Attachment, error) {
	return nil, nil
}

type fakeAttachmentRepo struct {
	mu          sync.Mutex
	attachments map[uuid.UUID]*entity.Attachment
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{attachments: make(map[uuid.UUID]*entity.Attachment)}
}

func (f *fakeAttachmentRepo) Create(_ context.Context, attachment *entity.Attachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *attachment
	f.attachments[attachment.ID] = &cp
	return nil
}

func (f *fakeAttachmentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.attachments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

type fakeVoiceRepo struct {
	mu           sync.Mutex
	channels     map[uuid.UUID]*entity.VoiceChannel
	members      []*entity.VoiceChannelMember
	addMemberErr error
}

func newFakeVoiceRepo() *fakeVoiceRepo {
	return &fakeVoiceRepo{channels: make(map[uuid.UUID]*entity.VoiceChannel)}
}

func (f *fakeVoiceRepo) Create(_ context.Context, channel *entity.VoiceChannel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *channel
	f.channels[channel.ID] = &cp
	return nil
}

func (f *fakeVoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.VoiceChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.channels[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeVoiceRepo) FindActive(_ context.Context, _, _ int) ([]*entity.VoiceChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.VoiceChannel
	for _, c := range f.channels {
		if c.IsActive {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeVoiceRepo) Close(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.channels[id]; ok {
		c.IsActive = false
	}
	return nil
}

func (f *fakeVoiceRepo) AddMember(_ context.Context, member *entity.VoiceChannelMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addMemberErr != nil {
		return f.addMemberErr
	}
	for _, m := range f.members {
		if m.ChannelID == member.ChannelID && m.UserID == member.UserID {
			return nil
		}
	}
	cp := *member
	f.members = append(f.members, &cp)
	return nil
}

func (f *fakeVoiceRepo) RemoveMember(_ context.Context, channelID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.members {
		if m.ChannelID == channelID && m.UserID == userID {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeVoiceRepo) FindMember(_ context.Context, channelID, userID uuid.UUID) (*entity.VoiceChannelMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.ChannelID == channelID && m.UserID == userID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeVoiceRepo) FindMembers(_ context.Context, channelID uuid.UUID) ([]*entity.VoiceChannelMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.VoiceChannelMember
	for _, m := range f.members {
		if m.ChannelID == channelID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeVoiceRepo) CountMembers(_ context.Context, channelID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.members {
		if m.ChannelID == channelID {
			n++
		}
	}
	return n, nil
}

func (f *fakeVoiceRepo) UpdateMemberStatus(_ context.Context, channelID, userID uuid.UUID, mic, speaker bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.ChannelID == channelID && m.UserID == userID {
			m.MicStatus = mic
			m.SpeakerStatus = speaker
		}
	}
	return nil
}
