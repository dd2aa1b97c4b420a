package graphql

import (
	"accounts-service/internal/models"

	"github.com/graphql-go/graphql"
)

// buildTypes собирает выходные и входные типы схемы.
// Типы создаются на каждый экземпляр схемы: никакого глобального
// мутабельного состояния пакета.
func (b *schemaBuilder) buildTypes() {
	b.postType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"content":   &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	b.userType = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"fullName":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"username":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"isOnline":  &graphql.Field{Type: graphql.Boolean},
			"createdAt": &graphql.Field{Type: graphql.DateTime},
			"updatedAt": &graphql.Field{Type: graphql.DateTime},
			"posts":     &graphql.Field{Type: graphql.NewList(b.postType)},
		},
	})

	// Цикл Post.author -> User замыкается после создания userType.
	b.postType.AddFieldConfig("author", &graphql.Field{
		Type: b.userType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			post, ok := p.Source.(models.Post)
			if !ok {
				return nil, nil
			}

			user, err := b.svc.UserByUsernameOrID(p.Context, "", post.AuthorID)
			if err != nil {
				return nil, resolveError(err)
			}

			return user, nil
		},
	})

	b.tokenType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Token",
		Fields: graphql.Fields{
			"token":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"expiresAt": &graphql.Field{Type: graphql.DateTime},
		},
	})

	b.successMessageType = graphql.NewObject(graphql.ObjectConfig{
		Name: "SuccessMessage",
		Fields: graphql.Fields{
			"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	b.usersPayloadType = graphql.NewObject(graphql.ObjectConfig{
		Name: "UsersPayload",
		Fields: graphql.Fields{
			"users": &graphql.Field{Type: graphql.NewList(b.userType)},
			"count": &graphql.Field{Type: graphql.Int},
		},
	})

	b.signInInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "SignInInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"emailOrUsername": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	b.signUpInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "SignUpInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"fullName": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"username": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	b.requestPasswordResetInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "RequestPasswordResetInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	b.resetPasswordInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ResetPasswordInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"token":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})
}

// successMessage — единый ответ операций без полезной нагрузки.
type successMessage struct {
	Message string
}

// argString достаёт строковый аргумент; отсутствие/не тот тип — пустая строка.
func argString(p graphql.ResolveParams, name string) string {
	if v, ok := p.Args[name].(string); ok {
		return v
	}

	return ""
}

// argInt достаёт целочисленный аргумент; отсутствие — def.
func argInt(p graphql.ResolveParams, name string, def int64) int64 {
	if v, ok := p.Args[name].(int); ok {
		return int64(v)
	}

	return def
}

// inputMap достаёт объект input-аргумента мутации.
func inputMap(p graphql.ResolveParams) map[string]interface{} {
	if m, ok := p.Args["input"].(map[string]interface{}); ok {
		return m
	}

	return map[string]interface{}{}
}

// inputString достаёт строковое поле input-объекта.
func inputString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}

	return ""
}
