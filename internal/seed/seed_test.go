package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/learnhub/internal/app/models"
	appRepos "github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

type stubUsers struct {
	appRepos.IUserRepository
	existing  *appModels.User
	lookupErr error
	created   []*appModels.User
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*appModels.User, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	if s.existing != nil && s.existing.Email == email {
		return s.existing, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *stubUsers) Create(_ context.Context, user *appModels.User) error {
	user.ID = int64(len(s.created) + 1)
	s.created = append(s.created, user)
	return nil
}

func TestCreateDefaultDataCreatesVerifiedAdmin(t *testing.T) {
	users := &stubUsers{}
	admin := AdminAccount{Name: "Root", Email: " Root@Example.com ", Password: "s3cret!"}

	require.NoError(t, CreateDefaultData(context.Background(), users, admin, zerolog.Nop()))

	require.Len(t, users.created, 1)
	created := users.created[0]
	assert.Equal(t, "root@example.com", created.Email)
	assert.Equal(t, appModels.RoleAdmin, created.Role)
	assert.True(t, created.IsVerified)
	assert.True(t, auth.CheckPassword(created.Password, "s3cret!"))
}

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	users := &stubUsers{existing: &appModels.User{ID: 1, Email: "root@example.com", Role: appModels.RoleAdmin}}

	err := CreateDefaultData(context.Background(), users, AdminAccount{Email: "root@example.com", Password: "x"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, users.created)
}

func TestCreateDefaultDataSkipsWithoutCredentials(t *testing.T) {
	users := &stubUsers{lookupErr: errors.New("must not be called")}

	require.NoError(t, CreateDefaultData(context.Background(), users, AdminAccount{Email: "root@example.com"}, zerolog.Nop()))
	assert.Empty(t, users.created)
}

func TestCreateDefaultDataReportsLookupFailure(t *testing.T) {
	users := &stubUsers{lookupErr: errors.New("connection refused")}

	err := CreateDefaultData(context.Background(), users, AdminAccount{Email: "a@b.c", Password: "x"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
