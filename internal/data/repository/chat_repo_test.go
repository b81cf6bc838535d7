package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chatSummaryColumns() []string {
	return []string{
		"id", "name", "is_group", "avatar",
		"created_at", "updated_at", "unread_count", "last_message_time",
	}
}

func TestChatRepository_ListForUser(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewChatRepository(mockPool, zap.NewNop())

	userID := uuid.New()
	now := time.Now()
	groupName := "weekend crew"
	lastMsg := now.Add(-5 * time.Minute)

	// First row: a chat the member never read, so every foreign message
	// counts as unread. Second row: fully caught up, no messages yet.
	rows := pgxmock.NewRows(chatSummaryColumns()).
		AddRow(uuid.New(), &groupName, true, (*string)(nil), now, now, int64(4), &lastMsg).
		AddRow(uuid.New(), (*string)(nil), false, (*string)(nil), now, now, int64(0), (*time.Time)(nil))

	mockPool.ExpectQuery("SELECT (.+) FROM chats").
		WithArgs(userID).
		WillReturnRows(rows)

	summaries, err := repo.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, int64(4), summaries[0].UnreadCount)
	require.NotNil(t, summaries[0].LastMessageTime)
	assert.Equal(t, lastMsg, *summaries[0].LastMessageTime)
	require.NotNil(t, summaries[0].Chat.Name)
	assert.Equal(t, groupName, *summaries[0].Chat.Name)

	assert.Equal(t, int64(0), summaries[1].UnreadCount)
	assert.Nil(t, summaries[1].LastMessageTime)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestChatRepository_MarkRead(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewChatRepository(mockPool, zap.NewNop())

	chatID := uuid.New()
	userID := uuid.New()

	mockPool.ExpectExec("UPDATE chat_members").
		WithArgs(chatID, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec("UPDATE messages").
		WithArgs(chatID, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 4))

	err = repo.MarkRead(context.Background(), chatID, userID)
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestChatRepository_MarkRead_NotAMember(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewChatRepository(mockPool, zap.NewNop())

	chatID := uuid.New()
	userID := uuid.New()

	mockPool.ExpectExec("UPDATE chat_members").
		WithArgs(chatID, userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.MarkRead(context.Background(), chatID, userID)
	assert.Error(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
