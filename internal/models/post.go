package models

import "time"

// Post — пост пользователя (MongoDB, коллекция posts).
// Сервис читает посты только для наполнения профиля; создание/изменение
// постов живёт в смежном сервисе.
type Post struct {
	ID        string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}
