package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/auth"
	"github.com/yigit/learnhub/internal/pkg/session"
)

type userFixture struct {
	svc    *UserService
	users  *fakeUserRepo
	images *fakeImages
	redis  *testRedis
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{users: newFakeUserRepo(), images: &fakeImages{}, redis: newTestRedis(t)}
	f.svc = NewUserService(f.users, f.redis.sessions, f.images, zerolog.Nop())
	return f
}

func (f *userFixture) addUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	user := &models.User{Name: "Ada", Email: email, Role: models.RoleUser, IsVerified: true}
	if password != "" {
		hash, err := auth.HashPassword(password)
		require.NoError(t, err)
		user.Password = hash
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestUpdatePassword(t *testing.T) {
	f := newUserFixture(t)
	user := f.addUser(t, "ada@example.com", "correct-horse")
	ctx := context.Background()

	_, err := f.svc.UpdatePassword(ctx, user.ID, &dto.UpdatePasswordRequest{OldPassword: "wrong-horse", NewPassword: "battery-staple"})
	requireAppError(t, err, http.StatusBadRequest, "Old password is incorrect")

	_, err = f.svc.UpdatePassword(ctx, user.ID, &dto.UpdatePasswordRequest{OldPassword: "correct-horse", NewPassword: "short"})
	requireAppError(t, err, http.StatusBadRequest, "Password must be between 8 and 32 characters")

	_, err = f.svc.UpdatePassword(ctx, user.ID, &dto.UpdatePasswordRequest{OldPassword: "correct-horse", NewPassword: "battery-staple"})
	require.NoError(t, err)

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.Password, "battery-staple"))
}

func TestUpdatePasswordRejectsSocialAccount(t *testing.T) {
	f := newUserFixture(t)
	user := f.addUser(t, "grace@example.com", "")

	_, err := f.svc.UpdatePassword(context.Background(), user.ID, &dto.UpdatePasswordRequest{OldPassword: "x", NewPassword: "battery-staple"})
	requireAppError(t, err, http.StatusBadRequest, "Invalid user")
}

func TestUpdateUserInfoRefreshesSession(t *testing.T) {
	f := newUserFixture(t)
	user := f.addUser(t, "ada@example.com", "correct-horse")
	f.addUser(t, "taken@example.com", "correct-horse")
	ctx := context.Background()

	_, err := f.svc.UpdateUserInfo(ctx, user.ID, &dto.UpdateUserInfoRequest{Email: "Taken@example.com"})
	requireAppError(t, err, http.StatusBadRequest, "Email already exists")

	updated, err := f.svc.UpdateUserInfo(ctx, user.ID, &dto.UpdateUserInfoRequest{Name: "Ada L.", Email: "ADA.L@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "ada.l@example.com", updated.Email)

	cached, err := f.redis.sessions.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", cached.Name)
}

func TestUpdateAvatarReplacesOldImage(t *testing.T) {
	f := newUserFixture(t)
	user := f.addUser(t, "ada@example.com", "correct-horse")
	ctx := context.Background()

	first, err := f.svc.UpdateAvatar(ctx, user.ID, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "avatars/img-1", first.Avatar.PublicID)

	second, err := f.svc.UpdateAvatar(ctx, user.ID, "data:image/png;base64,BBBB")
	require.NoError(t, err)
	assert.Equal(t, "avatars/img-2", second.Avatar.PublicID)
	assert.Equal(t, []string{"avatars/img-1"}, f.images.destroyed)

	_, err = f.svc.UpdateAvatar(ctx, user.ID, "bad")
	requireAppError(t, err, http.StatusBadRequest, "Invalid image data")
}

func TestUpdateUserRoleByEmail(t *testing.T) {
	f := newUserFixture(t)
	user := f.addUser(t, "ada@example.com", "correct-horse")
	ctx := context.Background()

	updated, err := f.svc.UpdateUserRole(ctx, &dto.UpdateUserRoleRequest{Email: "ADA@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin())

	cached, err := f.redis.sessions.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, cached.Role)

	_, err = f.svc.UpdateUserRole(ctx, &dto.UpdateUserRoleRequest{Email: "nobody@example.com", Role: models.RoleAdmin})
	requireAppError(t, err, http.StatusNotFound, "User not found")

	_, err = f.svc.UpdateUserRole(ctx, &dto.UpdateUserRoleRequest{Email: "ada@example.com", Role: "owner"})
	requireAppError(t, err, http.StatusBadRequest, "Invalid role")
}

func TestDeleteUserDropsSession(t *testing.T) {
	f := newUserFixture(t)
	user := f.addUser(t, "ada@example.com", "correct-horse")
	ctx := context.Background()
	require.NoError(t, f.redis.sessions.Save(ctx, user))

	require.NoError(t, f.svc.DeleteUser(ctx, user.ID))

	_, err := f.redis.sessions.Get(ctx, user.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	err = f.svc.DeleteUser(ctx, user.ID)
	requireAppError(t, err, http.StatusNotFound, "User not found")
}

func TestGetUserInfoNotFound(t *testing.T) {
	f := newUserFixture(t)

	_, err := f.svc.GetUserInfo(context.Background(), 77)
	requireAppError(t, err, http.StatusNotFound, "User not found")
}
