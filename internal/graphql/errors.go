package graphql

import (
	"errors"

	"accounts-service/internal/service"
)

// apiError — ошибка резолвера со стабильным машиночитаемым кодом.
// Код уходит клиенту в extensions, message — человекочитаемое описание.
type apiError struct {
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }

// Extensions реализует gqlerrors.ExtendedError.
func (e *apiError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

// resolveError транслирует сентинелы сервисного слоя в ошибки GraphQL-ответа.
// Детали внутренних ошибок наружу не утекают: всё, что не распознано,
// превращается в единый internal-ответ (подробности остаются в логах).
func resolveError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return &apiError{code: "invalid_argument", message: service.ErrInvalidArgument.Error()}
	case errors.Is(err, service.ErrMissingField):
		return &apiError{code: "missing_field", message: "all fields are required"}
	case errors.Is(err, service.ErrInvalidFullName):
		return &apiError{code: "invalid_full_name", message: service.ErrInvalidFullName.Error()}
	case errors.Is(err, service.ErrInvalidEmail):
		return &apiError{code: "invalid_email", message: service.ErrInvalidEmail.Error()}
	case errors.Is(err, service.ErrInvalidUsername):
		return &apiError{code: "invalid_username", message: service.ErrInvalidUsername.Error()}
	case errors.Is(err, service.ErrUsernameUnavailable):
		return &apiError{code: "username_unavailable", message: service.ErrUsernameUnavailable.Error()}
	case errors.Is(err, service.ErrWeakPassword):
		return &apiError{code: "weak_password", message: service.ErrWeakPassword.Error()}
	case errors.Is(err, service.ErrEmailTaken):
		return &apiError{code: "already_exists", message: service.ErrEmailTaken.Error()}
	case errors.Is(err, service.ErrUsernameTaken):
		return &apiError{code: "already_exists", message: service.ErrUsernameTaken.Error()}
	case errors.Is(err, service.ErrAlreadyExists):
		return &apiError{code: "already_exists", message: service.ErrAlreadyExists.Error()}
	case errors.Is(err, service.ErrNotFound):
		return &apiError{code: "not_found", message: service.ErrNotFound.Error()}
	case errors.Is(err, service.ErrInvalidCredentials):
		return &apiError{code: "invalid_credentials", message: service.ErrInvalidCredentials.Error()}
	case errors.Is(err, service.ErrInvalidOrExpiredToken):
		return &apiError{code: "invalid_or_expired_token", message: service.ErrInvalidOrExpiredToken.Error()}
	case errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrUnauthenticated):
		return &apiError{code: "unauthenticated", message: service.ErrUnauthenticated.Error()}
	default:
		return &apiError{code: "internal", message: "internal server error"}
	}
}
