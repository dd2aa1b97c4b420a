package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	logctx "accounts-service/internal/pkg/log"
)

// Recover перехватывает panic и отвечает 500 с нейтральным телом.
// Детали паники не утекают на клиент.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logctx.From(r.Context()).
						LogAttrs(r.Context(), slog.LevelError, "panic",
							slog.String("path", r.URL.Path),
							slog.Any("reason", rec),
						)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]interface{}{
						"errors": []map[string]string{{"message": "internal server error"}},
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
