// transport/http содержит HTTP-обвязку GraphQL-эндпойнта.
// Здесь выполняется только разбор запроса, сборка контекста аутентификации
// и сериализация результата; сами операции живут в internal/graphql.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	gql "accounts-service/internal/graphql"
	logctx "accounts-service/internal/pkg/log"
	"accounts-service/internal/pkg/redact"
	"accounts-service/internal/transport/http/middleware"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
)

// graphqlRequest — тело POST /graphql.
type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler исполняет GraphQL-операции поверх собранной схемы.
type Handler struct {
	schema graphql.Schema
	auth   gql.Authenticator
}

// NewHandler создаёт GraphQL-хендлер.
func NewHandler(schema graphql.Schema, auth gql.Authenticator) *Handler {
	return &Handler{schema: schema, auth: auth}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrors(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if req.Query == "" {
		writeErrors(w, http.StatusBadRequest, "query is required")
		return
	}

	// Контекст аутентификации собирается один раз на запрос.
	// Невалидный токен — отказ всему запросу, не отдельным полям.
	token := middleware.TokenFrom(r.Context())
	rc, err := gql.BuildRequestContext(nil, token, h.auth)
	if err != nil {
		logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelWarn, "auth_failed",
			slog.String("token", redact.Token()),
		)
		writeErrors(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	ctx := gql.WithRequestContext(r.Context(), rc)

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(result)
}

// writeErrors пишет ответ в формате GraphQL errors с заданным HTTP-статусом.
func writeErrors(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []gqlerrors.FormattedError{{Message: message}},
	})
}
