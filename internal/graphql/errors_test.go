package graphql

import (
	"errors"
	"fmt"
	"testing"

	"accounts-service/internal/service"

	"github.com/stretchr/testify/require"
)

func TestResolveError_Codes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   error
		code string
	}{
		{service.ErrInvalidArgument, "invalid_argument"},
		{service.ErrMissingField, "missing_field"},
		{service.ErrInvalidFullName, "invalid_full_name"},
		{service.ErrInvalidEmail, "invalid_email"},
		{service.ErrInvalidUsername, "invalid_username"},
		{service.ErrUsernameUnavailable, "username_unavailable"},
		{service.ErrWeakPassword, "weak_password"},
		{service.ErrEmailTaken, "already_exists"},
		{service.ErrUsernameTaken, "already_exists"},
		{service.ErrAlreadyExists, "already_exists"},
		{service.ErrNotFound, "not_found"},
		{service.ErrInvalidCredentials, "invalid_credentials"},
		{service.ErrInvalidOrExpiredToken, "invalid_or_expired_token"},
		{service.ErrInvalidToken, "unauthenticated"},
		{service.ErrTokenExpired, "unauthenticated"},
		{service.ErrUnauthenticated, "unauthenticated"},
	}

	for _, tc := range cases {
		got := resolveError(fmt.Errorf("service.op: %w", tc.in))

		var api *apiError
		require.True(t, errors.As(got, &api), "input=%v", tc.in)
		require.Equal(t, tc.code, api.Extensions()["code"], "input=%v", tc.in)
	}
}

func TestResolveError_UnknownIsInternal(t *testing.T) {
	t.Parallel()

	got := resolveError(errors.New("mongo: connection reset"))

	var api *apiError
	require.True(t, errors.As(got, &api))
	require.Equal(t, "internal", api.Extensions()["code"])

	// Детали внутренней ошибки не утекают в сообщение.
	require.Equal(t, "internal server error", api.Error())
}
