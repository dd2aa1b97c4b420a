package service

import (
	"context"
	"testing"
	"time"

	"accounts-service/internal/models"
	"accounts-service/internal/storage"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestRequestPasswordReset_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().SetResetToken(gomock.Any(), "anna@example.com", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, token string, issuedAt time.Time) error {
			require.NotEmpty(t, token)
			require.WithinDuration(t, time.Now().UTC(), issuedAt, 2*time.Second)
			return nil
		})

	token, err := svc.RequestPasswordReset(context.Background(), "Anna@Example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestRequestPasswordReset_TokensAreUnique(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().SetResetToken(gomock.Any(), "anna@example.com", gomock.Any(), gomock.Any()).
		Return(nil).Times(2)

	first, err := svc.RequestPasswordReset(context.Background(), "anna@example.com")
	require.NoError(t, err)

	second, err := svc.RequestPasswordReset(context.Background(), "anna@example.com")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestRequestPasswordReset_InvalidEmail(t *testing.T) {
	t.Parallel()

	svc, _, ctrl := newSvc(t)
	defer ctrl.Finish()

	_, err := svc.RequestPasswordReset(context.Background(), "not-an-email")
	require.ErrorIs(t, err, ErrInvalidEmail)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().SetResetToken(gomock.Any(), "ghost@example.com", gomock.Any(), gomock.Any()).
		Return(storage.ErrNotFound)

	_, err := svc.RequestPasswordReset(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResetPassword_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByResetToken(gomock.Any(), "anna@example.com", "tok", gomock.Any()).
		Return(&models.User{ID: "u1", Email: "anna@example.com"}, nil)
	st.EXPECT().UpdatePassword(gomock.Any(), "anna@example.com", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, hashed string) error {
			// Персистится хэш, не исходный пароль.
			require.NotEqual(t, "new-secret", hashed)
			require.True(t, checkPassword(hashed, "new-secret"))
			return nil
		})

	err := svc.ResetPassword(context.Background(), "anna@example.com", "tok", "new-secret")
	require.NoError(t, err)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByResetToken(gomock.Any(), "anna@example.com", "bad", gomock.Any()).
		Return(nil, storage.ErrNotFound)

	err := svc.ResetPassword(context.Background(), "anna@example.com", "bad", "new-secret")
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}

func TestResetPassword_WeakPassword(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	// Токен валиден, но новый пароль короче шести символов.
	st.EXPECT().UserByResetToken(gomock.Any(), "anna@example.com", "tok", gomock.Any()).
		Return(&models.User{ID: "u1", Email: "anna@example.com"}, nil)

	err := svc.ResetPassword(context.Background(), "anna@example.com", "tok", "12345")
	require.ErrorIs(t, err, ErrWeakPassword)
}
