package graphql

import (
	"context"
	"fmt"

	"accounts-service/internal/models"
	"accounts-service/internal/service"
)

// RequestContext — контекст одного GraphQL-запроса.
// Поля перечислены явно: клеймы не смешиваются с хендлами данных,
// доступ к хранилищу идёт только через сервисный слой.
type RequestContext struct {
	// Claims — идентичность вызывающего; nil для неаутентифицированного запроса.
	Claims *models.AuthClaims
}

// Authenticator проверяет сессионный токен и возвращает клеймы.
type Authenticator interface {
	Authenticate(token string) (*models.AuthClaims, error)
}

// BuildRequestContext собирает контекст запроса.
//
// Для persistent-соединений (подписки) ранее установленный контекст
// переиспользуется как есть — без повторной аутентификации на каждое сообщение.
// Пустой token означает отсутствие Authorization: клеймы остаются nil.
// Невалидный token завершает запрос ошибкой ErrUnauthenticated.
func BuildRequestContext(existing *RequestContext, token string, auth Authenticator) (*RequestContext, error) {
	const op = "graphql.BuildRequestContext"

	if existing != nil {
		return existing, nil
	}

	if token == "" {
		return &RequestContext{}, nil
	}

	claims, err := auth.Authenticate(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, service.ErrUnauthenticated)
	}

	return &RequestContext{Claims: claims}, nil
}

type ctxKey struct{}

// WithRequestContext кладёт контекст запроса в context.Context.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// RequestContextFrom достаёт контекст запроса (или пустой, если его нет).
func RequestContextFrom(ctx context.Context) *RequestContext {
	if v := ctx.Value(ctxKey{}); v != nil {
		if rc, ok := v.(*RequestContext); ok && rc != nil {
			return rc
		}
	}

	return &RequestContext{}
}
