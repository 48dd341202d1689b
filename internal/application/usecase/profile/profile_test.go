package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/khoahotran/volc-friends/internal/application/usecase/usecasetest"
	"github.com/khoahotran/volc-friends/internal/domain/user"
	"github.com/khoahotran/volc-friends/pkg/apperror"
	"github.com/khoahotran/volc-friends/pkg/logger"
)

func intPtr(v int) *int { return &v }

func validFields() user.ProfileFields {
	return user.ProfileFields{
		Nickname:    "Alice",
		Gender:      user.GenderFemale,
		Age:         intPtr(25),
		Avatar:      "https://cdn.example.com/a.jpg",
		LifePhotos:  []string{"https://cdn.example.com/1.jpg"},
		Description: "hello",
		IsPublic:    true,
	}
}

func validRegistration() user.Registration {
	return user.Registration{Username: "alice01", Password: "abc1234", ProfileFields: validFields()}
}

func newRegister(repo *usecasetest.MemoryUserRepo, pub *usecasetest.RecordingPublisher) *RegisterUseCase {
	if pub == nil {
		return NewRegisterUseCase(repo, usecasetest.PlainHasher{}, nil, nil, logger.NewNop())
	}
	return NewRegisterUseCase(repo, usecasetest.PlainHasher{}, nil, pub, logger.NewNop())
}

func TestRegister_CreatesRecordWithHashedPassword(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	pub := &usecasetest.RecordingPublisher{}

	out, err := newRegister(repo, pub).Execute(context.Background(), RegisterInput{Registration: validRegistration()})
	require.NoError(t, err)
	require.NotZero(t, out.UserID)

	stored, err := repo.FindByID(context.Background(), out.UserID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:abc1234", stored.PasswordHash)
	assert.Equal(t, user.PrivacyPublic, stored.AgePrivacy)
	assert.Equal(t, user.PrivacyPublic, stored.EmailPrivacy)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Nil(t, stored.LastLogin)

	assert.Equal(t, []user.EventType{user.EventRegistered}, pub.Types())
	assert.Equal(t, out.UserID, pub.Events[0].UserID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	uc := newRegister(repo, &usecasetest.RecordingPublisher{})

	_, err := uc.Execute(context.Background(), RegisterInput{Registration: validRegistration()})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), RegisterInput{Registration: validRegistration()})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 1, repo.Count())
}

func TestRegister_LostRaceStillReportsConflict(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	uc := newRegister(repo, &usecasetest.RecordingPublisher{})
	_, err := uc.Execute(context.Background(), RegisterInput{Registration: validRegistration()})
	require.NoError(t, err)

	repo.ExistsHook = func(string) (bool, error) { return false, nil }
	_, err = uc.Execute(context.Background(), RegisterInput{Registration: validRegistration()})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 1, repo.Count())
}

func TestRegister_ReturnsAllViolations(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	pub := &usecasetest.RecordingPublisher{}
	reg := validRegistration()
	reg.Password = "abcdefg"
	reg.Age = intPtr(5)
	reg.LifePhotos = []string{"https://x/1", "https://x/2", "https://x/3", "https://x/4"}

	_, err := newRegister(repo, pub).Execute(context.Background(), RegisterInput{Registration: reg})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	fields := map[string]bool{}
	for _, v := range appErr.Violations {
		fields[v.Field] = true
	}
	assert.Equal(t, map[string]bool{"password": true, "age": true, "life_photos": true}, fields)
	assert.Zero(t, repo.Count())
	assert.Empty(t, pub.Events)
}

func TestRegister_Captcha(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	captcha := &usecasetest.StaticCaptcha{ID: "c1", Answer: "K7QZ"}
	uc := NewRegisterUseCase(repo, usecasetest.PlainHasher{}, captcha, &usecasetest.RecordingPublisher{}, logger.NewNop())

	_, err := uc.Execute(context.Background(), RegisterInput{Registration: validRegistration(), CaptchaID: "c1", CaptchaAnswer: "nope"})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	require.Len(t, appErr.Violations, 1)
	assert.Equal(t, "captcha", appErr.Violations[0].Field)
	assert.Zero(t, repo.Count())

	_, err = uc.Execute(context.Background(), RegisterInput{Registration: validRegistration(), CaptchaID: "c1", CaptchaAnswer: "k7qz"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Count())
}

func TestRegister_PublishFailureDoesNotFailRequest(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	pub := &usecasetest.RecordingPublisher{FailWith: errors.New("broker down")}

	out, err := newRegister(repo, pub).Execute(context.Background(), RegisterInput{Registration: validRegistration()})
	require.NoError(t, err)
	assert.NotZero(t, out.UserID)
}

func TestCheckUsername(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	_, err := newRegister(repo, nil).Execute(context.Background(), RegisterInput{Registration: validRegistration()})
	require.NoError(t, err)

	uc := NewCheckUsernameUseCase(repo)
	out, err := uc.Execute(context.Background(), "alice01")
	require.NoError(t, err)
	assert.True(t, out.Exists)

	out, err = uc.Execute(context.Background(), "bob0001")
	require.NoError(t, err)
	assert.False(t, out.Exists)

	_, err = uc.Execute(context.Background(), "  ")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func seedUser(t *testing.T, repo *usecasetest.MemoryUserRepo) int64 {
	t.Helper()
	out, err := newRegister(repo, nil).Execute(context.Background(), RegisterInput{Registration: validRegistration()})
	require.NoError(t, err)
	return out.UserID
}

func TestGetProfile(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	id := seedUser(t, repo)

	out, err := NewGetProfileUseCase(repo).Execute(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alice01", out.User.Username)

	_, err = NewGetProfileUseCase(repo).Execute(context.Background(), id+1)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateProfile_PrivacyKeepsValue(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	pub := &usecasetest.RecordingPublisher{}
	id := seedUser(t, repo)

	fields := validFields()
	fields.Age = intPtr(30)
	fields.AgePrivacy = user.PrivacyPrivate

	out, err := NewUpdateProfileUseCase(repo, pub, logger.NewNop()).Execute(context.Background(), UpdateProfileInput{UserID: id, Fields: fields})
	require.NoError(t, err)
	require.NotNil(t, out.User.Age)
	assert.Equal(t, 30, *out.User.Age)
	assert.Equal(t, user.PrivacyPrivate, out.User.AgePrivacy)
	assert.Nil(t, user.ToPublicProfile(out.User).Age)
	assert.Equal(t, []user.EventType{user.EventProfileUpdated}, pub.Types())
}

func TestUpdateProfile_InvalidLeavesRecordUntouched(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	id := seedUser(t, repo)

	fields := validFields()
	fields.Nickname = "changed"
	fields.Height = intPtr(300)

	_, err := NewUpdateProfileUseCase(repo, nil, logger.NewNop()).Execute(context.Background(), UpdateProfileInput{UserID: id, Fields: fields})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	stored, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Nickname)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	_, err := NewUpdateProfileUseCase(repo, nil, logger.NewNop()).Execute(context.Background(), UpdateProfileInput{UserID: 42, Fields: validFields()})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteAccount(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	pub := &usecasetest.RecordingPublisher{}
	id := seedUser(t, repo)
	uc := NewDeleteAccountUseCase(repo, pub, logger.NewNop())

	require.NoError(t, uc.Execute(context.Background(), id))
	assert.Zero(t, repo.Count())
	require.Len(t, pub.Events, 1)
	assert.Equal(t, user.EventDeleted, pub.Events[0].Type)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/1.jpg"}, pub.Events[0].PhotoURLs)

	assert.ErrorIs(t, uc.Execute(context.Background(), id), apperror.ErrNotFound)
	assert.Len(t, pub.Events, 1)
}

func TestDeleteAccount_LogsOnce(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	id := seedUser(t, repo)
	core, logs := observer.New(zapcore.InfoLevel)

	uc := NewDeleteAccountUseCase(repo, nil, logger.FromZap(zap.New(core)))
	require.NoError(t, uc.Execute(context.Background(), id))

	entries := logs.FilterMessage("Account deleted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ContextMap()["user_id"])
}

func TestStorageFailurePropagates(t *testing.T) {
	repo := usecasetest.NewMemoryUserRepo()
	repo.FailWith = apperror.NewInternal("connection reset", errors.New("eof"))

	_, err := NewGetProfileUseCase(repo).Execute(context.Background(), 1)
	assert.ErrorIs(t, err, apperror.ErrInternal)
}
