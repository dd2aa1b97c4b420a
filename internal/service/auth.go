package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"accounts-service/internal/models"
	"accounts-service/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

// usernamePattern: первый и последний символ — словесные, между ними
// словесные символы и точки, суммарная длина не больше 30.
// Запрет подряд идущих точек проверяется отдельно (у regexp нет lookahead).
var usernamePattern = regexp.MustCompile(`^\w[\w.]{1,28}\w$`)

// reservedUsernames — фронтовые маршруты, недоступные как имена пользователей.
var reservedUsernames = map[string]struct{}{
	"forgot-password": {},
	"reset-password":  {},
	"explore":         {},
	"people":          {},
	"notifications":   {},
	"post":            {},
}

// SignUp регистрирует нового пользователя и возвращает сессионный токен.
//
// Правила проверяются строго по порядку, первая нарушенная завершает вызов:
//  1. уникальность email, затем username (ErrEmailTaken/ErrUsernameTaken);
//  2. все четыре поля непустые (ErrMissingField);
//  3. длина полного имени в [4, 40] (ErrInvalidFullName);
//  4. формат email (ErrInvalidEmail);
//  5. паттерн username + границы [3, 20] (ErrInvalidUsername),
//     зарезервированные имена (ErrUsernameUnavailable);
//  6. длина пароля >= 6 (ErrWeakPassword).
//
// Гонку «проверили-потом-записали» страхует уникальный индекс хранилища:
// storage.ErrAlreadyExists на вставке конвертируется в ErrAlreadyExists.
func (s *Service) SignUp(ctx context.Context, fullName, email, username, password string) (*models.Token, error) {
	const op = "service.auth.SignUp"

	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	if email != "" {
		if _, err := s.storage.UserByEmail(ctx, email); err == nil {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if username != "" {
		if _, err := s.storage.UserByUsername(ctx, username); err == nil {
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		} else if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if fullName == "" || email == "" || username == "" || password == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingField)
	}

	if n := utf8.RuneCountInString(fullName); n < 4 || n > 40 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidFullName)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validateUsername(username); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if utf8.RuneCountInString(password) < 6 {
		return nil, fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.CreateUser(ctx, &models.User{
		FullName: fullName,
		Email:    email,
		Username: username,
		Password: hashed,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.mintSessionToken(user, time.Now().UTC(), s.cfg.SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

// SignIn аутентифицирует пользователя по email или username.
func (s *Service) SignIn(ctx context.Context, emailOrUsername, password string) (*models.Token, error) {
	const op = "service.auth.SignIn"

	value := strings.TrimSpace(emailOrUsername)
	if strings.Contains(value, "@") {
		value = strings.ToLower(value)
	}

	user, err := s.storage.UserByEmailOrUsername(ctx, value)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.Password, password) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.mintSessionToken(user, time.Now().UTC(), s.cfg.SessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

// validateUsername проверяет паттерн, границы длины и зарезервированный список.
func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) || strings.Contains(username, "..") {
		return ErrInvalidUsername
	}

	if n := utf8.RuneCountInString(username); n < 3 || n > 20 {
		return ErrInvalidUsername
	}

	if _, reserved := reservedUsernames[strings.ToLower(username)]; reserved {
		return ErrUsernameUnavailable
	}

	return nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
