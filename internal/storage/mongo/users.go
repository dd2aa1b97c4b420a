package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"accounts-service/internal/models"
	"accounts-service/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// userDoc — представление пользователя в коллекции users.
// Доменная модель оперирует строковым id, документ — ObjectID,
// конвертация происходит только в этом пакете.
type userDoc struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty"`
	FullName                 string             `bson:"full_name"`
	Email                    string             `bson:"email"`
	Username                 string             `bson:"username"`
	Password                 string             `bson:"password"`
	IsOnline                 bool               `bson:"is_online"`
	PasswordResetToken       string             `bson:"password_reset_token,omitempty"`
	PasswordResetTokenExpiry *time.Time         `bson:"password_reset_token_expiry,omitempty"`
	CreatedAt                time.Time          `bson:"created_at"`
	UpdatedAt                time.Time          `bson:"updated_at"`
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AuthorID  primitive.ObjectID `bson:"author_id"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
}

// toMS приводит время к разрешению MongoDB DateTime (миллисекунды, UTC).
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func (d *userDoc) toModel() *models.User {
	u := &models.User{
		ID:                 d.ID.Hex(),
		FullName:           d.FullName,
		Email:              d.Email,
		Username:           d.Username,
		Password:           d.Password,
		IsOnline:           d.IsOnline,
		PasswordResetToken: d.PasswordResetToken,
		CreatedAt:          d.CreatedAt.UTC(),
		UpdatedAt:          d.UpdatedAt.UTC(),
	}

	if d.PasswordResetTokenExpiry != nil {
		exp := d.PasswordResetTokenExpiry.UTC()
		u.PasswordResetTokenExpiry = &exp
	}

	return u
}

func (d *postDoc) toModel() models.Post {
	return models.Post{
		ID:        d.ID.Hex(),
		AuthorID:  d.AuthorID.Hex(),
		Content:   d.Content,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// CreateUser создаёт нового пользователя.
// Нарушение уникального индекса email/username — storage.ErrAlreadyExists.
func (m *Mongo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "storage/mongo/CreateUser"

	now := toMS(time.Now())

	doc := userDoc{
		FullName:  user.FullName,
		Email:     user.Email,
		Username:  user.Username,
		Password:  user.Password,
		IsOnline:  user.IsOnline,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := m.users.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		// Mongo всегда возвращает ObjectID.
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	doc.ID = oid
	return doc.toModel(), nil
}

// findOne — общий путь выборки одного пользователя по фильтру.
func (m *Mongo) findOne(ctx context.Context, op string, filter bson.D) (*models.User, error) {
	var doc userDoc
	if err := m.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.toModel(), nil
}

// UserByEmail находит пользователя по email.
func (m *Mongo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage/mongo/UserByEmail"

	return m.findOne(ctx, op, bson.D{{Key: "email", Value: email}})
}

// UserByUsername находит пользователя по username.
func (m *Mongo) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage/mongo/UserByUsername"

	return m.findOne(ctx, op, bson.D{{Key: "username", Value: username}})
}

// UserByID находит пользователя по идентификатору.
// Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) UserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage/mongo/UserByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return m.findOne(ctx, op, bson.D{{Key: "_id", Value: oid}})
}

// UserByEmailOrUsername находит пользователя, чей email ИЛИ username равен value.
func (m *Mongo) UserByEmailOrUsername(ctx context.Context, value string) (*models.User, error) {
	const op = "storage/mongo/UserByEmailOrUsername"

	return m.findOne(ctx, op, bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "email", Value: value}},
		bson.D{{Key: "username", Value: value}},
	}}})
}

// MarkOnline выставляет is_online=true и возвращает документ после обновления.
func (m *Mongo) MarkOnline(ctx context.Context, email string) (*models.User, error) {
	const op = "storage/mongo/MarkOnline"

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_online", Value: true},
		{Key: "updated_at", Value: toMS(time.Now())},
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDoc
	err := m.users.FindOneAndUpdate(ctx, bson.D{{Key: "email", Value: email}}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.toModel(), nil
}

// SearchUsers возвращает до p.Limit пользователей, чьи username или full_name
// содержат p.Query без учёта регистра. p.ExcludeID исключается из выдачи.
// Порядок — естественный порядок коллекции, без дополнительной сортировки.
func (m *Mongo) SearchUsers(ctx context.Context, p storage.SearchParams) ([]models.User, error) {
	const op = "storage/mongo/SearchUsers"

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(p.Query), Options: "i"}

	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: pattern}},
		bson.D{{Key: "full_name", Value: pattern}},
	}}}

	if oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(p.ExcludeID)); err == nil {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: oid}}})
	}

	findOpts := options.Find().SetLimit(p.Limit)

	cur, err := m.users.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	return m.decodeUsers(ctx, op, cur)
}

// ListUsers возвращает страницу пользователей (skip/limit) и общее число документов.
func (m *Mongo) ListUsers(ctx context.Context, p storage.ListParams) (*models.Page, error) {
	const op = "storage/mongo/ListUsers"

	total, err := m.users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: count: %w", op, err)
	}

	findOpts := options.Find().SetSkip(p.Skip).SetLimit(p.Limit)

	cur, err := m.users.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items, err := m.decodeUsers(ctx, op, cur)
	if err != nil {
		return nil, err
	}

	return &models.Page{Items: items, Total: total}, nil
}

func (m *Mongo) decodeUsers(ctx context.Context, op string, cur *mongodriver.Cursor) ([]models.User, error) {
	var items []models.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, *doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// SetResetToken сохраняет reset-токен и момент его выпуска.
func (m *Mongo) SetResetToken(ctx context.Context, email, token string, issuedAt time.Time) error {
	const op = "storage/mongo/SetResetToken"

	res, err := m.users.UpdateOne(ctx, bson.D{{Key: "email", Value: email}}, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "password_reset_token", Value: token},
			{Key: "password_reset_token_expiry", Value: toMS(issuedAt)},
			{Key: "updated_at", Value: toMS(time.Now())},
		}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// UserByResetToken находит пользователя по email и reset-токену,
// выпущенному не раньше notBefore.
func (m *Mongo) UserByResetToken(ctx context.Context, email, token string, notBefore time.Time) (*models.User, error) {
	const op = "storage/mongo/UserByResetToken"

	return m.findOne(ctx, op, bson.D{
		{Key: "email", Value: email},
		{Key: "password_reset_token", Value: token},
		{Key: "password_reset_token_expiry", Value: bson.D{{Key: "$gte", Value: toMS(notBefore)}}},
	})
}

// UpdatePassword заменяет хэш пароля и очищает reset-поля.
func (m *Mongo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	const op = "storage/mongo/UpdatePassword"

	res, err := m.users.UpdateOne(ctx, bson.D{{Key: "email", Value: email}}, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "password", Value: passwordHash},
			{Key: "updated_at", Value: toMS(time.Now())},
		}},
		{Key: "$unset", Value: bson.D{
			{Key: "password_reset_token", Value: ""},
			{Key: "password_reset_token_expiry", Value: ""},
		}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// PostsByAuthor возвращает посты автора, новые первыми.
// Некорректный authorID означает пустую выдачу, а не ошибку:
// у свежесозданного пользователя постов нет.
func (m *Mongo) PostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	const op = "storage/mongo/PostsByAuthor"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(authorID))
	if err != nil {
		return nil, nil
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := m.posts.Find(ctx, bson.D{{Key: "author_id", Value: oid}}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.Post
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}
