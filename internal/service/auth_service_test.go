package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mergington-activities-api/internal/models"
	"github.com/noah-isme/mergington-activities-api/internal/repository"
	appErrors "github.com/noah-isme/mergington-activities-api/pkg/errors"
)

type mockTeacherRepo struct {
	teachers []models.Teacher
	listErr  error
	lists    int
}

func (m *mockTeacherRepo) List(ctx context.Context) ([]models.Teacher, error) {
	m.lists++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Teacher(nil), m.teachers...), nil
}

func (m *mockTeacherRepo) FindByUsername(ctx context.Context, username string) (*models.Teacher, error) {
	teachers, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teachers {
		if teachers[i].Username == username {
			return &teachers[i], nil
		}
	}
	return nil, repository.ErrTeacherNotFound
}

type mockSessionRepo struct {
	saved     []models.Session
	savedTTL  time.Duration
	saveErr   error
	findErr   error
	deleteErr error
	byToken   map[string]string
}

func (m *mockSessionRepo) Save(ctx context.Context, session models.Session, ttl time.Duration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.byToken == nil {
		m.byToken = make(map[string]string)
	}
	m.saved = append(m.saved, session)
	m.savedTTL = ttl
	m.byToken[session.Token] = session.Username
	return nil
}

func (m *mockSessionRepo) FindUsername(ctx context.Context, token string) (string, error) {
	if m.findErr != nil {
		return "", m.findErr
	}
	username, ok := m.byToken[token]
	if !ok {
		return "", repository.ErrSessionNotFound
	}
	return username, nil
}

func (m *mockSessionRepo) DeleteByToken(ctx context.Context, token string) (string, error) {
	if m.deleteErr != nil {
		return "", m.deleteErr
	}
	username, ok := m.byToken[token]
	if !ok {
		return "", repository.ErrSessionNotFound
	}
	delete(m.byToken, token)
	return username, nil
}

func newTestAuthService(teachers *mockTeacherRepo, sessions *mockSessionRepo) *AuthService {
	return NewAuthService(teachers, sessions, validator.New(), zap.NewNop(), nil, AuthConfig{SessionTTL: 24 * time.Hour})
}

func defaultTeachers() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: []models.Teacher{
		{Username: "mrodriguez", Password: "art123", Name: "Ms. Rodriguez"},
		{Username: "mchen", Password: "chess456", Name: "Mr. Chen"},
	}}
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	sessions := &mockSessionRepo{}
	svc := newTestAuthService(defaultTeachers(), sessions)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "mchen", Password: "chess456"})
	require.NoError(t, err)
	assert.True(t, res.Response.Success)
	assert.Equal(t, "Login successful", res.Response.Message)
	assert.Equal(t, &models.UserInfo{Username: "mchen", Name: "Mr. Chen"}, res.Response.User)
	assert.Len(t, res.Token, 43)
	require.Len(t, sessions.saved, 1)
	assert.Equal(t, models.Session{Username: "mchen", Token: res.Token}, sessions.saved[0])
	assert.Equal(t, 24*time.Hour, sessions.savedTTL)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	sessions := &mockSessionRepo{}
	svc := newTestAuthService(defaultTeachers(), sessions)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "mchen", Password: "wrong"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
	assert.Equal(t, 401, appErr.Status)
	assert.Empty(t, sessions.saved)
}

func TestAuthServiceLoginMissingFields(t *testing.T) {
	teachers := defaultTeachers()
	svc := newTestAuthService(teachers, &mockSessionRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "mchen"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, teachers.lists)
}

func TestAuthServiceLoginBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	teachers := &mockTeacherRepo{teachers: []models.Teacher{{Username: "principal", PasswordHash: string(hash), Name: "Principal Smith"}}}
	svc := newTestAuthService(teachers, &mockSessionRepo{})

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "principal", Password: "s3cret"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "principal", Password: string(hash)})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginUsersFileUnreadable(t *testing.T) {
	svc := newTestAuthService(&mockTeacherRepo{listErr: errors.New("permission denied")}, &mockSessionRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "mchen", Password: "chess456"})
	require.Error(t, err)
	assert.Equal(t, 500, appErrors.FromError(err).Status)
}

func TestAuthServiceRelogInReplacesToken(t *testing.T) {
	sessions := &mockSessionRepo{}
	svc := newTestAuthService(defaultTeachers(), sessions)

	first, err := svc.Login(context.Background(), models.LoginRequest{Username: "mchen", Password: "chess456"})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), models.LoginRequest{Username: "mchen", Password: "chess456"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)
}

func TestAuthServiceLogout(t *testing.T) {
	sessions := &mockSessionRepo{byToken: map[string]string{"tok": "mchen"}}
	svc := newTestAuthService(defaultTeachers(), sessions)

	require.NoError(t, svc.Logout(context.Background(), "tok"))
	assert.Empty(t, sessions.byToken)

	require.NoError(t, svc.Logout(context.Background(), "tok"))
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestAuthServiceLogoutStoreFailure(t *testing.T) {
	svc := newTestAuthService(defaultTeachers(), &mockSessionRepo{deleteErr: errors.New("redis down")})

	err := svc.Logout(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceStatus(t *testing.T) {
	sessions := &mockSessionRepo{byToken: map[string]string{"tok": "mrodriguez", "ghost": "retired"}}
	svc := newTestAuthService(defaultTeachers(), sessions)

	status, err := svc.Status(context.Background(), "tok")
	require.NoError(t, err)
	assert.True(t, status.Authenticated)
	assert.Equal(t, &models.UserInfo{Username: "mrodriguez", Name: "Ms. Rodriguez"}, status.User)

	status, err = svc.Status(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, status.Authenticated)
	assert.Nil(t, status.User)

	status, err = svc.Status(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, status.Authenticated)
}

func TestAuthServiceAuthenticate(t *testing.T) {
	sessions := &mockSessionRepo{byToken: map[string]string{"tok": "mchen"}}
	svc := newTestAuthService(defaultTeachers(), sessions)

	username, err := svc.Authenticate(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "mchen", username)

	_, err = svc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	sessions.findErr = errors.New("redis down")
	_, err = svc.Authenticate(context.Background(), "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrUnauthorized)
}
