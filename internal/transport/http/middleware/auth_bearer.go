package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKeyToken struct{}

// AuthBearer извлекает Bearer-токен из Authorization и кладёт «сырой» токен
// в контекст. Отсутствующий или пустой заголовок означает неаутентифицированный
// запрос: токен в контекст не попадает, решение принимает GraphQL-слой.
func AuthBearer() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if auth != "" {
				const prefix = "Bearer "
				if strings.HasPrefix(auth, prefix) && len(auth) > len(prefix) {
					token := strings.TrimSpace(auth[len(prefix):])

					if token != "" {
						ctx := context.WithValue(r.Context(), ctxKeyToken{}, token)
						r = r.WithContext(ctx)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFrom достаёт «сырой» bearer-токен из контекста (пустая строка — нет токена).
func TokenFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyToken{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}

	return ""
}
