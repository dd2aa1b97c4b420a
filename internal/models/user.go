// Package models содержит доменные сущности accounts-сервиса.
package models

import "time"

// User — внутренняя доменная модель пользователя (MongoDB, коллекция users).
// Важно:
//   - ID — ObjectID MongoDB. Наружу/вовнутрь конвертируется в string (hex).
//   - Email/Username уникальны (уникальные индексы хранилища).
//   - Password — bcrypt-хэш; плейнтекст нигде не хранится и наружу не отдаётся.
//   - PasswordResetToken/PasswordResetTokenExpiry — опциональные поля reset-флоу;
//     Expiry хранит момент выпуска токена, токен действителен в течение часа.
//   - Posts — read-time связь с коллекцией posts, в документ не пишется.
type User struct {
	ID                       string
	FullName                 string
	Email                    string
	Username                 string
	Password                 string
	IsOnline                 bool
	PasswordResetToken       string
	PasswordResetTokenExpiry *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
	Posts                    []Post
}

// Page — результат постраничной выдачи пользователей (skip/limit).
type Page struct {
	Items []User
	Total int64
}
