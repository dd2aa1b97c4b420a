package service

import (
	"errors"
	"fmt"
	"time"

	"accounts-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type sessionClaims struct {
	UserID   string `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// mintSessionToken выпускает сессионный токен на ttl от now.
// Детерминирован по входу с точностью до временных клеймов.
func (s *Service) mintSessionToken(user *models.User, now time.Time, ttl time.Duration) (*models.Token, error) {
	const op = "service.token.mintSessionToken"

	expiresAt := now.Add(ttl)

	claims := sessionClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Token{Token: signed, ExpiresAt: expiresAt}, nil
}

// Authenticate валидирует сессионный токен и возвращает клеймы идентичности.
// Просроченный токен — ErrTokenExpired, любой иной дефект — ErrInvalidToken.
func (s *Service) Authenticate(tokenStr string) (*models.AuthClaims, error) {
	const op = "service.token.Authenticate"

	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if claims.UserID == "" || claims.Email == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return &models.AuthClaims{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Username: claims.Username,
	}, nil
}
