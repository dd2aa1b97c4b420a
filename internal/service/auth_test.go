package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"accounts-service/internal/config"
	"accounts-service/internal/models"
	"accounts-service/internal/storage"
	"accounts-service/mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func testCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       "unit-secret",
		SessionTokenTTL: 8760 * time.Hour,
		ResetTokenTTL:   time.Hour,
		Issuer:          "accounts-service",
	}
}

func testLimits() config.LimitsConfig {
	return config.LimitsConfig{
		SearchLimit: 50,
		PageDefault: 10,
		PageMax:     50,
	}
}

func newSvc(t *testing.T) (*Service, *mocks.MockStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	svc := New(st, testCfg(), testLimits())
	return svc, st, ctrl
}

func mustHashPW(t *testing.T, pw string) string {
	t.Helper()
	h, err := hashPassword(pw)
	require.NoError(t, err)
	return h
}

// expectUnique настраивает «email и username свободны».
func expectUnique(st *mocks.MockStorage, email, username string) {
	st.EXPECT().UserByEmail(gomock.Any(), email).Return(nil, storage.ErrNotFound)
	st.EXPECT().UserByUsername(gomock.Any(), username).Return(nil, storage.ErrNotFound)
}

func TestSignUp_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	expectUnique(st, "anna@example.com", "anna.k")
	st.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *models.User) (*models.User, error) {
			require.Equal(t, "Anna Karenina", u.FullName)
			require.Equal(t, "anna@example.com", u.Email)
			require.Equal(t, "anna.k", u.Username)
			require.NotEqual(t, "secret1", u.Password, "пароль должен храниться хэшем")
			require.True(t, checkPassword(u.Password, "secret1"))

			out := *u
			out.ID = "64f0c3e2a7b4de0012345678"
			return &out, nil
		})

	token, err := svc.SignUp(context.Background(), "Anna Karenina", "Anna@Example.com", "anna.k", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)
	require.WithinDuration(t, time.Now().Add(svc.cfg.SessionTokenTTL), token.ExpiresAt, 2*time.Second)

	// Токен декодируется обратно в идентичность нового пользователя.
	claims, err := svc.Authenticate(token.Token)
	require.NoError(t, err)
	require.Equal(t, "64f0c3e2a7b4de0012345678", claims.UserID)
	require.Equal(t, "anna@example.com", claims.Email)
	require.Equal(t, "anna.k", claims.Username)
}

func TestSignUp_EmailTaken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "anna@example.com").
		Return(&models.User{ID: "x", Email: "anna@example.com"}, nil)

	_, err := svc.SignUp(context.Background(), "Anna Karenina", "anna@example.com", "anna.k", "secret1")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUp_UsernameTaken(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "anna@example.com").Return(nil, storage.ErrNotFound)
	st.EXPECT().UserByUsername(gomock.Any(), "anna.k").
		Return(&models.User{ID: "x", Username: "anna.k"}, nil)

	_, err := svc.SignUp(context.Background(), "Anna Karenina", "anna@example.com", "anna.k", "secret1")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSignUp_MissingField(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	expectUnique(st, "anna@example.com", "anna.k")

	_, err := svc.SignUp(context.Background(), "Anna Karenina", "anna@example.com", "anna.k", "")
	require.ErrorIs(t, err, ErrMissingField)
}

func TestSignUp_InvalidFullName(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	// 2 символа — ниже нижней границы.
	expectUnique(st, "al@example.com", "al.k")
	_, err := svc.SignUp(context.Background(), "Al", "al@example.com", "al.k", "secret1")
	require.ErrorIs(t, err, ErrInvalidFullName)

	// 41 символ — выше верхней.
	long := strings.Repeat("a", 41)
	expectUnique(st, "al@example.com", "al.k")
	_, err = svc.SignUp(context.Background(), long, "al@example.com", "al.k", "secret1")
	require.ErrorIs(t, err, ErrInvalidFullName)
}

func TestSignUp_InvalidEmail(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	expectUnique(st, "not-an-email", "anna.k")

	_, err := svc.SignUp(context.Background(), "Anna Karenina", "not-an-email", "anna.k", "secret1")
	require.ErrorIs(t, err, ErrInvalidEmail)
}

func TestSignUp_InvalidUsername(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	for _, username := range []string{
		"ab",                              // короче 3
		"a..b",                            // подряд идущие точки
		"anna.",                           // заканчивается точкой
		".anna",                           // начинается с точки
		"anna-k",                          // недопустимый символ
		"annaannaannaannaannaa",           // 21 символ — выше границы [3,20]
		"annaannaannaannaannaannaannaann", // 31 символ — выше паттерна
	} {
		expectUnique(st, "anna@example.com", username)
		_, err := svc.SignUp(context.Background(), "Anna Karenina", "anna@example.com", username, "secret1")
		require.ErrorIs(t, err, ErrInvalidUsername, "username=%q", username)
	}
}

func TestSignUp_UsernameReserved(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	expectUnique(st, "anna@example.com", "post")

	_, err := svc.SignUp(context.Background(), "Anna Karenina", "anna@example.com", "post", "secret1")
	require.ErrorIs(t, err, ErrUsernameUnavailable)
}

func TestSignUp_WeakPassword(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	expectUnique(st, "anna@example.com", "anna.k")

	_, err := svc.SignUp(context.Background(), "Anna Karenina", "anna@example.com", "anna.k", "12345")
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestSignUp_DuplicateOnInsert(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	// Конкурирующая регистрация успела между проверкой и вставкой:
	// нарушение уникального индекса конвертируется в ErrAlreadyExists.
	expectUnique(st, "anna@example.com", "anna.k")
	st.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil, storage.ErrAlreadyExists)

	_, err := svc.SignUp(context.Background(), "Anna Karenina", "anna@example.com", "anna.k", "secret1")
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestSignUp_StorageLookupError_Propagated(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmail(gomock.Any(), "anna@example.com").Return(nil, errors.New("db down"))

	_, err := svc.SignUp(context.Background(), "Anna Karenina", "anna@example.com", "anna.k", "secret1")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrEmailTaken)
}

func TestSignIn_OK_ByUsername(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	hash := mustHashPW(t, "secret1")
	st.EXPECT().UserByEmailOrUsername(gomock.Any(), "anna.k").
		Return(&models.User{ID: "u1", Email: "anna@example.com", Username: "anna.k", Password: hash}, nil)

	token, err := svc.SignIn(context.Background(), "anna.k", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)

	claims, err := svc.Authenticate(token.Token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
}

func TestSignIn_EmailNormalized(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	hash := mustHashPW(t, "secret1")
	st.EXPECT().UserByEmailOrUsername(gomock.Any(), "anna@example.com").
		Return(&models.User{ID: "u1", Email: "anna@example.com", Username: "anna.k", Password: hash}, nil)

	_, err := svc.SignIn(context.Background(), "Anna@Example.com", "secret1")
	require.NoError(t, err)
}

func TestSignIn_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	st.EXPECT().UserByEmailOrUsername(gomock.Any(), "ghost").Return(nil, storage.ErrNotFound)

	_, err := svc.SignIn(context.Background(), "ghost", "secret1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSignIn_WrongPassword(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	hash := mustHashPW(t, "secret1")
	st.EXPECT().UserByEmailOrUsername(gomock.Any(), "anna.k").
		Return(&models.User{ID: "u1", Email: "anna@example.com", Username: "anna.k", Password: hash}, nil)

	_, err := svc.SignIn(context.Background(), "anna.k", "wrong-pass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
