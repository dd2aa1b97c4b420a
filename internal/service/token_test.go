package service

import (
	"testing"
	"time"

	"accounts-service/internal/config"
	"accounts-service/internal/models"

	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		ID:       "64f0c3e2a7b4de0012345678",
		Email:    "anna@example.com",
		Username: "anna.k",
	}
}

func TestToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	now := time.Now().UTC()
	token, err := svc.mintSessionToken(testUser(), now, time.Hour)
	require.NoError(t, err)
	require.WithinDuration(t, now.Add(time.Hour), token.ExpiresAt, time.Second)

	claims, err := svc.Authenticate(token.Token)
	require.NoError(t, err)
	require.Equal(t, "64f0c3e2a7b4de0012345678", claims.UserID)
	require.Equal(t, "anna@example.com", claims.Email)
	require.Equal(t, "anna.k", claims.Username)
}

func TestToken_Expired(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	token, err := svc.mintSessionToken(testUser(), time.Now().UTC().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	_, err = svc.Authenticate(token.Token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestToken_ZeroTTL_ExpiresImmediately(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	token, err := svc.mintSessionToken(testUser(), time.Now().UTC(), 0)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.Authenticate(token.Token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestToken_WrongSecret(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	token, err := svc.mintSessionToken(testUser(), time.Now().UTC(), time.Hour)
	require.NoError(t, err)

	otherCfg := testCfg()
	otherCfg.JWTSecret = "another-secret"
	other := New(nil, otherCfg, testLimits())

	_, err = other.Authenticate(token.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestToken_Tampered(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	token, err := svc.mintSessionToken(testUser(), time.Now().UTC(), time.Hour)
	require.NoError(t, err)

	tampered := token.Token[:len(token.Token)-2] + "xx"
	_, err = svc.Authenticate(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestToken_WrongIssuer(t *testing.T) {
	t.Parallel()

	cfg := testCfg()
	cfg.Issuer = "another-service"
	other := New(nil, cfg, testLimits())

	token, err := other.mintSessionToken(testUser(), time.Now().UTC(), time.Hour)
	require.NoError(t, err)

	svc := New(nil, testCfg(), testLimits())
	_, err = svc.Authenticate(token.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestToken_Garbage(t *testing.T) {
	t.Parallel()

	svc := New(nil, config.AuthConfig{JWTSecret: "s", Issuer: "accounts-service"}, testLimits())

	_, err := svc.Authenticate("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}
