package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/volc-friends/internal/application/usecase/usecasetest"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

func seed(t *testing.T, repo *usecasetest.MemoryUserRepo) int64 {
	t.Helper()
	id, err := repo.Create(context.Background(), &user.User{
		Username:     "alice01",
		PasswordHash: "hashed:abc1234",
		Nickname:     "Alice",
		Gender:       user.GenderFemale,
		Avatar:       "https://cdn.example.com/a.jpg",
		Description:  "hi",
		IsPublic:     true,
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return id
}

func newLogin(repo *usecasetest.MemoryUserRepo) *LoginUseCase {
	return NewLoginUseCase(repo, usecasetest.PlainHasher{}, usecasetest.StaticTokens{}, logger.NewNop())
}

func TestLogin_Success(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	id := seed(t, repo)

	out, err := newLogin(repo).Execute(context.Background(), LoginInput{Username: " alice01 ", Password: "abc1234"})
	require.NoError(t, err)
	assert.Equal(t, "token-1", out.AccessToken)
	assert.Equal(t, id, out.User.ID)
	require.NotNil(t, out.User.LastLogin)

	stored, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)
	assert.WithinDuration(t, time.Now(), *stored.LastLogin, 5*time.Second)
}

func TestLogin_WrongCredentialsShareOneMessage(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	seed(t, repo)
	uc := newLogin(repo)

	_, errWrongPass := uc.Execute(context.Background(), LoginInput{Username: "alice01", Password: "wrong99"})
	_, errNoUser := uc.Execute(context.Background(), LoginInput{Username: "nobody1", Password: "abc1234"})

	require.ErrorIs(t, errWrongPass, apperror.ErrUnauthorized)
	require.ErrorIs(t, errNoUser, apperror.ErrUnauthorized)

	var a, b *apperror.AppError
	require.True(t, errors.As(errWrongPass, &a))
	require.True(t, errors.As(errNoUser, &b))
	assert.Equal(t, a.ToJSON(), b.ToJSON())
}

func TestLogin_ShapeChecks(t *testing.T) {
	uc := newLogin(usecasetest.NewMemoryUserRepo())

	_, err := uc.Execute(context.Background(), LoginInput{Username: "abc", Password: "x"})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Len(t, appErr.Violations, 2)
}

func TestLogin_TokenFailureIsInternal(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	seed(t, repo)
	uc := NewLoginUseCase(repo, usecasetest.PlainHasher{}, usecasetest.StaticTokens{FailWith: errors.New("boom")}, logger.NewNop())

	_, err := uc.Execute(context.Background(), LoginInput{Username: "alice01", Password: "abc1234"})
	assert.ErrorIs(t, err, apperror.ErrInternal)
}
