package mongostore

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// userDocument is the persisted shape of an account.
type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Name      string        `bson:"name"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password,omitempty"`
	Role      string        `bson:"role"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func toDocument(u *domain.User) userDocument {
	return userDocument{
		Name:      u.Name,
		Email:     u.Email,
		Password:  u.HashedPassword,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Email:          d.Email,
		HashedPassword: d.Password,
		Role:           domain.Role(d.Role),
		CreatedAt:      d.CreatedAt.UTC(),
	}
}

// withoutPassword keeps the hash from ever leaving the database on ordinary reads.
var withoutPassword = bson.D{{Key: "password", Value: 0}}

// UserStore implements store.UserStore on a MongoDB collection.
type UserStore struct {
	client     *mongo.Client
	col        *mongo.Collection
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore wraps an existing collection. Connect is the usual entry point.
func NewUserStore(col *mongo.Collection, bcryptCost int, logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	if bcryptCost == 0 {
		bcryptCost = store.DefaultBcryptCost
	}
	return &UserStore{
		col:        col,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store"), slog.String("backend", "mongo")),
		now:        time.Now,
	}
}

// Create implements store.UserStore. Uniqueness is enforced by the email index.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	// BSON dates carry millisecond precision
	if err := store.PrepareNewUser(user, s.bcryptCost, s.now().Truncate(time.Millisecond)); err != nil {
		return err
	}

	doc := toDocument(user)
	doc.ID = bson.NewObjectID()

	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return wrapError(err, "create")
	}

	user.ID = doc.ID.Hex()
	s.logger.Debug("user created", slog.String("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.
func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, false)
}

// GetByEmail implements store.UserStore.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: domain.NormalizeEmail(email)}}, false)
}

// GetByEmailWithPassword implements store.UserStore.
func (s *UserStore) GetByEmailWithPassword(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: domain.NormalizeEmail(email)}}, true)
}

func (s *UserStore) findOne(ctx context.Context, filter bson.D, withHash bool) (*domain.User, error) {
	opts := options.FindOne()
	if !withHash {
		opts.SetProjection(withoutPassword)
	}

	var doc userDocument
	if err := s.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, wrapError(err, "get")
	}
	return doc.toDomain(), nil
}

// List implements store.UserStore.
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(withoutPassword)

	cursor, err := s.col.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, wrapError(err, "list")
	}
	defer func() { _ = cursor.Close(ctx) }()

	users := []*domain.User{}
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, wrapError(err, "list")
		}
		users = append(users, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, wrapError(err, "list")
	}
	return users, nil
}

// Update implements store.UserStore. Only name and email are ever written.
func (s *UserStore) Update(
	ctx context.Context,
	id string,
	changes domain.UserChanges,
) (*domain.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	user, err := s.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, false)
	if err != nil {
		return nil, err
	}

	if err := store.PrepareUserUpdate(user, changes); err != nil {
		return nil, err
	}

	res, err := s.col.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "name", Value: user.Name},
			{Key: "email", Value: user.Email},
		}}},
	)
	if err != nil {
		return nil, wrapError(err, "update")
	}
	if res.MatchedCount == 0 {
		return nil, store.ErrUserNotFound
	}

	s.logger.Debug("user updated", slog.String("user_id", id))
	return user, nil
}

// Delete implements store.UserStore.
func (s *UserStore) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	res, err := s.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return false, wrapError(err, "delete")
	}

	s.logger.Debug("user delete", slog.String("user_id", id), slog.Int64("deleted", res.DeletedCount))
	return res.DeletedCount > 0, nil
}
