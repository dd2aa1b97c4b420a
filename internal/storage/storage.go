package storage

import (
	"context"
	"errors"
	"time"

	"accounts-service/internal/models"
)

var (
	// ErrNotFound — запись не найдена (пользователь/токен).
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/username).
	ErrAlreadyExists = errors.New("already exists")
)

// SearchParams — параметры поиска пользователей.
type SearchParams struct {
	// Query — подстрока для case-insensitive поиска по username/full_name.
	Query string
	// ExcludeID — id вызывающего, исключается из выдачи.
	ExcludeID string
	// Limit — максимальный размер выдачи.
	Limit int64
}

// ListParams — параметры постраничной выдачи (skip/limit).
type ListParams struct {
	Skip  int64
	Limit int64
}

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// CreateUser создаёт нового пользователя.
	// При нарушении уникальности email/username — ErrAlreadyExists.
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByUsername находит пользователя по username.
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	// UserByID находит пользователя по строковому идентификатору.
	UserByID(ctx context.Context, id string) (*models.User, error)
	// UserByEmailOrUsername находит пользователя, чей email ИЛИ username равен value.
	UserByEmailOrUsername(ctx context.Context, value string) (*models.User, error)
	// MarkOnline выставляет is_online=true и возвращает обновлённый документ.
	// Если запись не найдена — ErrNotFound.
	MarkOnline(ctx context.Context, email string) (*models.User, error)
	// SearchUsers возвращает до p.Limit пользователей, чьи username или full_name
	// содержат p.Query без учёта регистра; p.ExcludeID исключается из выдачи.
	// Порядок — естественный порядок хранилища.
	SearchUsers(ctx context.Context, p SearchParams) ([]models.User, error)
	// ListUsers возвращает страницу пользователей и общее число документов.
	ListUsers(ctx context.Context, p ListParams) (*models.Page, error)
}

// ResetTokenStorage выполняет операции reset-password флоу.
type ResetTokenStorage interface {
	// SetResetToken сохраняет reset-токен и момент его выпуска.
	// Если запись не найдена — ErrNotFound.
	SetResetToken(ctx context.Context, email, token string, issuedAt time.Time) error
	// UserByResetToken находит пользователя по email и reset-токену,
	// выпущенному не раньше notBefore. Если совпадения нет — ErrNotFound.
	UserByResetToken(ctx context.Context, email, token string, notBefore time.Time) (*models.User, error)
	// UpdatePassword заменяет хэш пароля и очищает reset-поля.
	// Если запись не найдена — ErrNotFound.
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// PostStorage читает посты для наполнения профилей.
type PostStorage interface {
	// PostsByAuthor возвращает посты автора, новые первыми (created_at DESC).
	PostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
}

// Storage задаёт контракт работы с БД.
type Storage interface {
	UserStorage
	ResetTokenStorage
	PostStorage
	Close(ctx context.Context) error
}
