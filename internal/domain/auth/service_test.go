package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/itinerary-planner/pkg/errors"
)

func newTestService() Service {
	return NewService(Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}, newMemoryRepo(), newTestLogger())
}

func TestService_RegisterLoginAndRefresh(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	view, err := svc.Register(ctx, RegisterRequest{
		Email:    "Traveller@Example.com",
		Password: "pass1234",
		Nickname: "  Road   Tripper 2 ",
	})
	require.NoError(t, err)
	require.Equal(t, "traveller@example.com", view.Email)
	require.Equal(t, "Road Tripper 2", view.Nickname)
	require.NotZero(t, view.ID)

	resp, err := svc.Login(ctx, LoginRequest{Email: "traveller@example.com", Password: "pass1234"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)

	claims, err := svc.ValidateToken(ctx, resp.Token)
	require.NoError(t, err)
	require.Equal(t, view.ID, claims.UserID)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	refreshed, err := svc.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, resp.Token, refreshed.Token)
	require.Equal(t, view.ID, refreshed.User.ID)

	profile, err := svc.Profile(ctx, view.ID)
	require.NoError(t, err)
	require.Equal(t, view.Email, profile.Email)
}

func TestService_TokenTypesAreNotInterchangeable(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	_, err := svc.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "pass1234", Nickname: "Ann"})
	require.NoError(t, err)
	resp, err := svc.Login(ctx, LoginRequest{Email: "a@example.com", Password: "pass1234"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, resp.RefreshToken)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	_, err = svc.Refresh(ctx, resp.Token)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	_, err = svc.ValidateToken(ctx, "garbage")
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func TestService_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Register(ctx, RegisterRequest{Email: "nope", Password: "pass1234", Nickname: "Ann"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "short", Nickname: "Ann"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "pass1234", Nickname: "Ann!"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))
}

func TestService_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Register(ctx, RegisterRequest{Email: "user@example.com", Password: "pass1234", Nickname: "NickOne"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Email: "user@example.com", Password: "pass12345", Nickname: "NickTwo"})
	require.True(t, apperrors.IsCode(err, "email_exists"))
	require.ErrorIs(t, err, ErrEmailExists)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type memoryRepo struct {
	users map[int64]User
	seq   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User)}
}

func (m *memoryRepo) Create(_ context.Context, email, nickname, passwordHash string) (User, error) {
	m.seq++
	user := User{
		ID:           m.seq,
		Email:        email,
		Nickname:     nickname,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (User, bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := m.users[id]
	return user, ok, nil
}
