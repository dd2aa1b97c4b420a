package models

import "time"

// Token — выпущенный сессионный токен.
type Token struct {
	Token     string
	ExpiresAt time.Time
}

// AuthClaims — идентичность, восстановленная из проверенного токена.
// Nil-указатель на AuthClaims означает неаутентифицированный запрос.
type AuthClaims struct {
	UserID   string
	Email    string
	Username string
}
