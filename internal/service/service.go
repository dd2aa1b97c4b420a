// service содержит бизнес-логику accounts-сервиса:
// регистрацию/аутентификацию пользователей, выпуск/проверку сессионных токенов,
// профильные запросы и reset-password флоу поверх интерфейсов пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Ошибки возвращаются сентинелами и далее маппятся GraphQL-слоем
//     на стабильные коды (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"accounts-service/internal/config"
	"accounts-service/internal/storage"
)

var (
	// ErrInvalidArgument — противоречивые/некорректные аргументы вызова
	// (getUser с обоими или ни одним из username/id). GraphQL: invalid_argument.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingField — обязательное поле регистрации пустое. GraphQL: missing_field.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidFullName — длина полного имени вне [4, 40]. GraphQL: invalid_full_name.
	ErrInvalidFullName = errors.New("full name must be 4-40 characters")

	// ErrInvalidEmail — e-mail имеет некорректный формат. GraphQL: invalid_email.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidUsername — username не проходит паттерн или границы длины.
	// GraphQL: invalid_username.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrUsernameUnavailable — username входит в зарезервированный список
	// фронтовых маршрутов. GraphQL: username_unavailable.
	ErrUsernameUnavailable = errors.New("username not available")

	// ErrWeakPassword — пароль короче 6 символов. GraphQL: weak_password.
	ErrWeakPassword = errors.New("password must be at least 6 characters")

	// ErrEmailTaken — e-mail уже занят другим пользователем. GraphQL: already_exists.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrUsernameTaken — username уже занят. GraphQL: already_exists.
	ErrUsernameTaken = errors.New("user with this username already exists")

	// ErrAlreadyExists — нарушение уникальности, пойманное на записи
	// (конкурирующая регистрация прошла между проверкой и вставкой).
	// GraphQL: already_exists.
	ErrAlreadyExists = errors.New("user already exists")

	// ErrNotFound — пользователь не найден. GraphQL: not_found.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidCredentials — пароль не совпал с хэшем. GraphQL: invalid_credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — сессионный токен некорректен по формату/подписи.
	// GraphQL: unauthenticated.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия сессионного токена истёк.
	// GraphQL: unauthenticated.
	ErrTokenExpired = errors.New("token expired")

	// ErrUnauthenticated — операция требует аутентифицированного вызывающего.
	// GraphQL: unauthenticated.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidOrExpiredToken — reset-токен не найден или старше часа.
	// GraphQL: invalid_or_expired_token.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
)

// Service описывает бизнес-логику accounts-сервиса.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
	limits  config.LimitsConfig
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig, limits config.LimitsConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
		limits:  limits,
	}
}
