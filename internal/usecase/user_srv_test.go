package usecase

import (
	"context"
	"testing"
	"time"

	"opentalk/internal/data/entity"
	"opentalk/internal/data/repository"
	"opentalk/internal/dto/request"
	"opentalk/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type userFixture struct {
	srv           UserService
	users         *fakeUserRepo
	subs          *fakeSubscriptionRepo
	notifications *fakeNotificationRepo
	redis         *miniredis.Miniredis
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()

	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rdb.Close() })

	users := newFakeUserRepo()
	subs := &fakeSubscriptionRepo{}
	notifications := &fakeNotificationRepo{}

	repo := &repository.Repository{
		User:         users,
		Subscription: subs,
		Notification: notifications,
	}

	return &userFixture{
		srv:           NewUserService(repo, rdb, zap.NewNop()),
		users:         users,
		subs:          subs,
		notifications: notifications,
		redis:         s,
	}
}

func (f *userFixture) addUser(t *testing.T, username string) *entity.User {
	t.Helper()

	hash, err := utils.HashPassword("old-password")
	require.NoError(t, err)

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     username,
		PasswordHash: hash,
		Status:       entity.StatusOffline,
		Theme:        entity.ThemeLight,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestGetMe(t *testing.T) {
	f := newUserFixture(t)
	user := f.addUser(t, "marina")

	resp, err := f.srv.GetMe(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "marina", resp.Username)

	_, err = f.srv.GetMe(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile_PartialMerge(t *testing.T) {
	f := newUserFixture(t)
	user := f.addUser(t, "marina")

	bio := "hello there"
	resp, err := f.srv.UpdateProfile(context.Background(), user.ID, &request.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Bio)

	theme := "dark"
	resp, err = f.srv.UpdateProfile(context.Background(), user.ID, &request.UpdateProfileRequest{Theme: &theme})
	require.NoError(t, err)
	assert.Equal(t, "hello there", resp.Bio, "untouched fields must survive a partial update")
	assert.Equal(t, "dark", resp.Theme)
}

func TestFollow(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	require.NoError(t, f.srv.Follow(ctx, alice.ID, bob.ID))

	n, err := f.subs.CountFollowers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	unread, err := f.notifications.CountUnread(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread, "followed user gets a notification")

	err = f.srv.Follow(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrConflict)

	err = f.srv.Follow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrValidation)

	err = f.srv.Follow(ctx, alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnfollow(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice")
	bob := f.addUser(t, "bob")

	err := f.srv.Unfollow(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.srv.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, f.srv.Unfollow(ctx, alice.ID, bob.ID))

	n, err := f.subs.CountFollowers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestUpdateStatus(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "marina")

	require.NoError(t, f.srv.UpdateStatus(ctx, user.ID, &request.UpdateStatusRequest{Status: "online"}))
	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOnline, stored.Status)

	require.NoError(t, f.srv.UpdateStatus(ctx, user.ID, &request.UpdateStatusRequest{Status: "do_not_disturb"}))
	stored, err = f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDND, stored.Status)

	err = f.srv.UpdateStatus(ctx, user.ID, &request.UpdateStatusRequest{Status: "away"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestChangePassword(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "marina")

	err := f.srv.ChangePassword(ctx, user.ID, "old-password", "short")
	assert.ErrorIs(t, err, ErrValidation)

	err = f.srv.ChangePassword(ctx, user.ID, "not-the-password", "new-password")
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.srv.ChangePassword(ctx, user.ID, "old-password", "new-password"))

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("new-password", stored.PasswordHash))
	assert.False(t, utils.CheckPasswordHash("old-password", stored.PasswordHash))
}

func TestPresence(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	user := f.addUser(t, "marina")

	online, err := f.srv.IsOnline(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, online)

	require.NoError(t, f.srv.SetOnline(ctx, user.ID, true))
	online, err = f.srv.IsOnline(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, online)

	// Presence decays when the heartbeat stops.
	f.redis.FastForward(presenceTTL + time.Second)
	online, err = f.srv.IsOnline(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, online)

	require.NoError(t, f.srv.SetOnline(ctx, user.ID, true))
	require.NoError(t, f.srv.SetOnline(ctx, user.ID, false))
	online, err = f.srv.IsOnline(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, online)
}
