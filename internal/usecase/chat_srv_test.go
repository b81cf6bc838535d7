package usecase

import (
	"context"
	"testing"
	"time"

	"opentalk/internal/data/entity"
	"opentalk/internal/data/repository"
	"opentalk/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type chatFixture struct {
	srv           ChatService
	users         *fakeUserRepo
	chats         *fakeChatRepo
	messages      *fakeMessageRepo
	notifications *fakeNotificationRepo
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	users := newFakeUserRepo()
	chats := newFakeChatRepo()
	messages := newFakeMessageRepo()
	notifications := &fakeNotificationRepo{}

	repo := &repository.Repository{
		User:         users,
		Chat:         chats,
		Message:      messages,
		Attachment:   newFakeAttachmentRepo(),
		Notification: notifications,
	}

	return &chatFixture{
		srv:           NewChatService(repo, nil, zap.NewNop()),
		users:         users,
		chats:         chats,
		messages:      messages,
		notifications: notifications,
	}
}

func (f *chatFixture) addUser(t *testing.T, username string) *entity.User {
	t.Helper()
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username: username,
		Status:   entity.StatusOffline,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *chatFixture) addChat(t *testing.T, memberIDs ...uuid.UUID) *entity.Chat {
	t.Helper()
	now := time.Now()
	chat := &entity.Chat{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	require.NoError(t, f.chats.Create(context.Background(), nil, chat))
	for _, id := range memberIDs {
		member := &entity.ChatMember{
			ID:       uuid.New(),
			ChatID:   chat.ID,
			UserID:   id,
			JoinedAt: now,
		}
		require.NoError(t, f.chats.AddMember(context.Background(), nil, member))
	}
	return chat
}

func TestSendMessage(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	chat := f.addChat(t, alice.ID, bob.ID)

	resp, err := f.srv.SendMessage(ctx, alice.ID, chat.ID, &request.SendMessageRequest{Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hi", resp.Content)
	require.NotNil(t, resp.Sender)
	assert.Equal(t, "alice", resp.Sender.Username)

	// Only the other member is notified.
	unread, err := f.notifications.CountUnread(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	unread, err = f.notifications.CountUnread(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestSendMessage_NonMember(t *testing.T) {
	f := newChatFixture(t)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	mallory := f.addUser(t, "mallory")
	chat := f.addChat(t, alice.ID, bob.ID)

	_, err := f.srv.SendMessage(context.Background(), mallory.ID, chat.ID, &request.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSendMessage_DeletedSenderRejected(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	chat := f.addChat(t, alice.ID, bob.ID)

	// Account removed mid-session; the membership row survives and the
	// access token is still valid.
	require.NoError(t, f.users.Delete(ctx, alice.ID))

	_, err := f.srv.SendMessage(ctx, alice.ID, chat.ID, &request.SendMessageRequest{Content: "hi"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, f.messages.messages, "a rejected sender must not persist a message")
}

func TestMarkRead_NonMember(t *testing.T) {
	f := newChatFixture(t)
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")
	mallory := f.addUser(t, "mallory")
	chat := f.addChat(t, alice.ID, bob.ID)

	err := f.srv.MarkRead(context.Background(), mallory.ID, chat.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
