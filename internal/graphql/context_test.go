package graphql

import (
	"context"
	"errors"
	"testing"

	"accounts-service/internal/models"
	"accounts-service/internal/service"

	"github.com/stretchr/testify/require"
)

// fakeAuth — подменный Authenticator для тестов контекста.
type fakeAuth struct {
	claims *models.AuthClaims
	err    error
	calls  int
}

func (f *fakeAuth) Authenticate(_ string) (*models.AuthClaims, error) {
	f.calls++
	return f.claims, f.err
}

func TestBuildRequestContext_ReusesExisting(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{}
	existing := &RequestContext{Claims: &models.AuthClaims{UserID: "u1"}}

	// Persistent-соединение: повторной аутентификации быть не должно.
	rc, err := BuildRequestContext(existing, "some-token", auth)
	require.NoError(t, err)
	require.Same(t, existing, rc)
	require.Zero(t, auth.calls)
}

func TestBuildRequestContext_EmptyToken(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{}

	rc, err := BuildRequestContext(nil, "", auth)
	require.NoError(t, err)
	require.NotNil(t, rc)
	require.Nil(t, rc.Claims)
	require.Zero(t, auth.calls)
}

func TestBuildRequestContext_ValidToken(t *testing.T) {
	t.Parallel()

	claims := &models.AuthClaims{UserID: "u1", Email: "anna@example.com", Username: "anna.k"}
	auth := &fakeAuth{claims: claims}

	rc, err := BuildRequestContext(nil, "good-token", auth)
	require.NoError(t, err)
	require.Equal(t, claims, rc.Claims)
	require.Equal(t, 1, auth.calls)
}

func TestBuildRequestContext_InvalidToken(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{err: errors.New("bad signature")}

	_, err := BuildRequestContext(nil, "bad-token", auth)
	require.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestRequestContext_RoundTrip(t *testing.T) {
	t.Parallel()

	rc := &RequestContext{Claims: &models.AuthClaims{UserID: "u1"}}
	ctx := WithRequestContext(context.Background(), rc)

	require.Same(t, rc, RequestContextFrom(ctx))
}

func TestRequestContextFrom_Missing(t *testing.T) {
	t.Parallel()

	// Отсутствие контекста запроса — пустой, не nil.
	rc := RequestContextFrom(context.Background())
	require.NotNil(t, rc)
	require.Nil(t, rc.Claims)
}
