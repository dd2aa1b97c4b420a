package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"accounts-service/internal/pkg/log"
	"accounts-service/internal/pkg/redact"
	"accounts-service/internal/storage"
)

// RequestPasswordReset выпускает reset-токен для email и сохраняет его
// вместе с моментом выпуска; токен действителен ResetTokenTTL (час).
// Доставка токена пользователю (письмо) — забота смежного сервиса.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	const op = "service.reset.RequestPasswordReset"

	lg := log.From(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		lg.Error("reset_rand_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	if err := s.storage.SetResetToken(ctx, email, token, time.Now().UTC()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("reset_save_failed",
			slog.String("op", op),
			slog.String("email", redact.Email(email)),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

// ResetPassword меняет пароль по валидному reset-токену и очищает reset-поля.
func (s *Service) ResetPassword(ctx context.Context, email, token, password string) error {
	const op = "service.reset.ResetPassword"

	user, err := s.lookupResetToken(ctx, email, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if utf8.RuneCountInString(password) < 6 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdatePassword(ctx, user.Email, hashed); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
