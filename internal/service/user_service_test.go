package service

import (
	"context"
	"testing"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/model"
	"ai-chat-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func (f *fixture) users() IUserService {
	svc := NewUserService(f.factory, f.cache, f.log)
	svc.(*userService).hashCost = bcrypt.MinCost
	return svc
}

func TestCreateUserHashesPassword(t *testing.T) {
	f := newFixture(t)

	res, err := f.users().CreateUser(context.Background(), &dto.CreateUserRequest{Email: "a@x.io", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotZero(t, res.Id)
	assert.Equal(t, "a@x.io", res.Email)

	var stored model.User
	require.NoError(t, f.db.First(&stored, res.Id).Error)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	svc := f.users()

	_, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{Email: "a@x.io", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), &dto.CreateUserRequest{Email: "a@x.io", Password: "password2"})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
}

func TestGetOrCreateUserIsIdempotent(t *testing.T) {
	f := newFixture(t)
	svc := f.users()

	first, created, err := svc.GetOrCreateUser(context.Background(), "probe@x.io", "password1")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.GetOrCreateUser(context.Background(), "probe@x.io", "password1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, int64(1), f.count(t, &model.User{}))
}
