package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"accounts-service/internal/models"
	"accounts-service/internal/storage"
)

// AuthUser возвращает профиль аутентифицированного вызывающего.
// Nil-клеймы — это валидный «нет пользователя», а не ошибка: запрос без
// Authorization получает null. Побочный эффект: is_online=true персистится.
// Если запись исчезла между аутентификацией и выборкой — ErrNotFound.
func (s *Service) AuthUser(ctx context.Context, claims *models.AuthClaims) (*models.User, error) {
	const op = "service.users.AuthUser"

	if claims == nil {
		return nil, nil
	}

	user, err := s.storage.MarkOnline(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.populatePosts(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UserByUsernameOrID возвращает пользователя строго по одному из аргументов.
// Оба или ни одного — ErrInvalidArgument.
func (s *Service) UserByUsernameOrID(ctx context.Context, username, id string) (*models.User, error) {
	const op = "service.users.UserByUsernameOrID"

	username = strings.TrimSpace(username)
	id = strings.TrimSpace(id)

	if (username == "") == (id == "") {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	var (
		user *models.User
		err  error
	)

	if username != "" {
		user, err = s.storage.UserByUsername(ctx, username)
	} else {
		user, err = s.storage.UserByID(ctx, id)
	}

	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.populatePosts(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// SearchUsers возвращает до limits.SearchLimit пользователей, чьи username или
// полное имя содержат query без учёта регистра. Вызывающий всегда исключён из
// выдачи. Пустой query — пустая выдача без обращения к хранилищу.
func (s *Service) SearchUsers(ctx context.Context, claims *models.AuthClaims, query string) ([]models.User, error) {
	const op = "service.users.SearchUsers"

	if claims == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []models.User{}, nil
	}

	users, err := s.storage.SearchUsers(ctx, storage.SearchParams{
		Query:     query,
		ExcludeID: claims.UserID,
		Limit:     s.limits.SearchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// ListUsers возвращает страницу пользователей (skip/limit) и общее число.
// limit <= 0 заменяется дефолтом, превышение потолка обрезается.
func (s *Service) ListUsers(ctx context.Context, skip, limit int64) (*models.Page, error) {
	const op = "service.users.ListUsers"

	if skip < 0 {
		skip = 0
	}

	if limit <= 0 {
		limit = s.limits.PageDefault
	}

	if limit > s.limits.PageMax {
		limit = s.limits.PageMax
	}

	page, err := s.storage.ListUsers(ctx, storage.ListParams{Skip: skip, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return page, nil
}

// VerifyResetPasswordToken проверяет, что reset-токен принадлежит email
// и выпущен не раньше чем ResetTokenTTL назад.
func (s *Service) VerifyResetPasswordToken(ctx context.Context, email, token string) error {
	const op = "service.users.VerifyResetPasswordToken"

	if _, err := s.lookupResetToken(ctx, email, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// lookupResetToken — общий путь проверки reset-токена.
func (s *Service) lookupResetToken(ctx context.Context, email, token string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	token = strings.TrimSpace(token)

	if email == "" || token == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	notBefore := time.Now().UTC().Add(-s.cfg.ResetTokenTTL)

	user, err := s.storage.UserByResetToken(ctx, email, token, notBefore)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}

		return nil, err
	}

	return user, nil
}

func (s *Service) populatePosts(ctx context.Context, user *models.User) error {
	posts, err := s.storage.PostsByAuthor(ctx, user.ID)
	if err != nil {
		return err
	}

	user.Posts = posts
	return nil
}
