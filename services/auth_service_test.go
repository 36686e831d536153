package services

import (
	"context"
	"testing"
	"time"

	"prompthub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenRepo struct {
	tokens map[string]uint
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]uint)}
}

func (r *fakeTokenRepo) SaveResetToken(_ context.Context, token string, userID uint, _ time.Duration) error {
	r.tokens[token] = userID
	return nil
}

func (r *fakeTokenRepo) ConsumeResetToken(_ context.Context, token string) (uint, error) {
	userID := r.tokens[token]
	delete(r.tokens, token)
	return userID, nil
}

func newAuthFixture() (AuthService, *fakeUserRepo, *fakeTokenRepo) {
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	return NewAuthService(userRepo, tokenRepo), userRepo, tokenRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()

	resp, err := svc.Register(models.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleMember, resp.User.Role)
	assert.NotEqual(t, "password123", resp.User.Password)

	login, err := svc.Login(models.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(models.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(models.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(models.RegisterRequest{
		Username: "other", Email: "alice@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, models.ErrEmailTaken)

	_, err = svc.Register(models.RegisterRequest{
		Username: "alice", Email: "new@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, models.ErrUsernameTaken)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.RequestPasswordReset(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)

	token, err := svc.RequestPasswordReset(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	err = svc.ResetPassword(ctx, token, "short")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, svc.ResetPassword(ctx, token, "newpassword"))

	// Token is single use
	err = svc.ResetPassword(ctx, token, "newpassword")
	assert.ErrorIs(t, err, models.ErrInvalidResetToken)

	_, err = svc.Login(models.LoginRequest{Email: "alice@example.com", Password: "newpassword"})
	require.NoError(t, err)
	_, err = svc.Login(models.LoginRequest{Email: "alice@example.com", Password: "password123"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}
