// graphql содержит определение схемы и резолверы accounts-сервиса.
// Здесь выполняется только маппинг аргументов и ошибок доменного слоя (service)
// в GraphQL. Вся валидация и бизнес-логика находятся в пакете service.
//
// Принципы:
//   - Контекст запроса прокидывается в сервис без потерь;
//   - Ошибки сервиса явно транслируются в стабильные коды (см. errors.go);
//   - Для internal наружу не утекают детали внутренних ошибок; подробности
//     должны попадать в логи через middleware на уровне сервера.
package graphql

import (
	"accounts-service/internal/service"

	"github.com/graphql-go/graphql"
)

type schemaBuilder struct {
	svc *service.Service

	userType           *graphql.Object
	postType           *graphql.Object
	tokenType          *graphql.Object
	successMessageType *graphql.Object
	usersPayloadType   *graphql.Object

	signInInput               *graphql.InputObject
	signUpInput               *graphql.InputObject
	requestPasswordResetInput *graphql.InputObject
	resetPasswordInput        *graphql.InputObject
}

// NewSchema собирает GraphQL-схему поверх сервисного слоя.
func NewSchema(svc *service.Service) (graphql.Schema, error) {
	b := &schemaBuilder{svc: svc}
	b.buildTypes()

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    b.buildQuery(),
		Mutation: b.buildMutation(),
	})
}

func (b *schemaBuilder) buildQuery() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			// getAuthUser возвращает профиль вызывающего или null без Authorization.
			// Побочный эффект: is_online=true персистится.
			"getAuthUser": &graphql.Field{
				Type: b.userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					claims := RequestContextFrom(p.Context).Claims

					user, err := b.svc.AuthUser(p.Context, claims)
					if err != nil {
						return nil, resolveError(err)
					}

					if user == nil {
						return nil, nil
					}

					return user, nil
				},
			},

			// getUser принимает ровно один из аргументов username/id.
			"getUser": &graphql.Field{
				Type: b.userType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.String},
					"id":       &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := b.svc.UserByUsernameOrID(p.Context, argString(p, "username"), argString(p, "id"))
					if err != nil {
						return nil, resolveError(err)
					}

					return user, nil
				},
			},

			// getUsers — простая skip/limit-страница по всем пользователям.
			"getUsers": &graphql.Field{
				Type: b.usersPayloadType,
				Args: graphql.FieldConfigArgument{
					"skip":  &graphql.ArgumentConfig{Type: graphql.Int},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					page, err := b.svc.ListUsers(p.Context, argInt(p, "skip", 0), argInt(p, "limit", 0))
					if err != nil {
						return nil, resolveError(err)
					}

					return map[string]interface{}{
						"users": page.Items,
						"count": page.Total,
					}, nil
				},
			},

			// searchUsers требует аутентифицированного вызывающего;
			// его собственный id всегда исключён из выдачи.
			"searchUsers": &graphql.Field{
				Type: graphql.NewList(b.userType),
				Args: graphql.FieldConfigArgument{
					"searchQuery": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					claims := RequestContextFrom(p.Context).Claims

					users, err := b.svc.SearchUsers(p.Context, claims, argString(p, "searchQuery"))
					if err != nil {
						return nil, resolveError(err)
					}

					return users, nil
				},
			},

			"verifyResetPasswordToken": &graphql.Field{
				Type: b.successMessageType,
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"token": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := b.svc.VerifyResetPasswordToken(p.Context, argString(p, "email"), argString(p, "token")); err != nil {
						return nil, resolveError(err)
					}

					return successMessage{Message: "Success"}, nil
				},
			},
		},
	})
}

func (b *schemaBuilder) buildMutation() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"signin": &graphql.Field{
				Type: b.tokenType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.signInInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := inputMap(p)

					token, err := b.svc.SignIn(p.Context, inputString(in, "emailOrUsername"), inputString(in, "password"))
					if err != nil {
						return nil, resolveError(err)
					}

					return token, nil
				},
			},

			"signup": &graphql.Field{
				Type: b.tokenType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.signUpInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := inputMap(p)

					token, err := b.svc.SignUp(p.Context,
						inputString(in, "fullName"),
						inputString(in, "email"),
						inputString(in, "username"),
						inputString(in, "password"),
					)
					if err != nil {
						return nil, resolveError(err)
					}

					return token, nil
				},
			},

			"requestPasswordReset": &graphql.Field{
				Type: b.successMessageType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.requestPasswordResetInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := inputMap(p)

					if _, err := b.svc.RequestPasswordReset(p.Context, inputString(in, "email")); err != nil {
						return nil, resolveError(err)
					}

					return successMessage{Message: "Success"}, nil
				},
			},

			"resetPassword": &graphql.Field{
				Type: b.successMessageType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(b.resetPasswordInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := inputMap(p)

					err := b.svc.ResetPassword(p.Context,
						inputString(in, "email"),
						inputString(in, "token"),
						inputString(in, "password"),
					)
					if err != nil {
						return nil, resolveError(err)
					}

					return successMessage{Message: "Success"}, nil
				},
			},
		},
	})
}
