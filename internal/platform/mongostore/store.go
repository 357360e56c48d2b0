// Package mongostore implements store.UserStore on MongoDB using the official
// v2 driver. Accounts live in the "users" collection with a unique index on
// email; identifiers are ObjectID hex strings.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/account-api/internal/redact"
	"github.com/phrazzld/account-api/internal/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ColUsers is the collection holding account documents.
const ColUsers = "users"

// emailIndexName matches the name mongod generates for {email: 1}.
const emailIndexName = "email_1"

// Options configures a connection.
type Options struct {
	URI        string
	Database   string
	Timeout    time.Duration
	BcryptCost int
	Logger     *slog.Logger
}

// Connect opens a client, verifies it with a ping and makes sure the unique
// email index exists. It fails if the index cannot be created, since
// uniqueness would otherwise not be enforced.
func Connect(ctx context.Context, opts Options) (*UserStore, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	client, err := mongo.Connect(options.Client().ApplyURI(opts.URI).SetTimeout(opts.Timeout))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %s", redact.Error(err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %s", redact.Error(err))
	}

	s := NewUserStore(client.Database(opts.Database).Collection(ColUsers), opts.BcryptCost, opts.Logger)
	s.client = client

	if err := s.EnsureIndexes(pingCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	s.logger.Info("connected to mongodb", slog.String("database", opts.Database))
	return s, nil
}

// EnsureIndexes creates the unique email index if it does not exist yet.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndexName),
	})
	if err != nil {
		return fmt.Errorf("mongostore: ensure email index failed: %w", err)
	}
	return nil
}

// Close disconnects the client if the store owns one.
func (s *UserStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// Ping reports whether the deployment is reachable.
func (s *UserStore) Ping(ctx context.Context) error {
	if s.client == nil {
		return errors.New("mongostore: no client")
	}
	return s.client.Ping(ctx, nil)
}

// wrapError converts MongoDB errors into store errors.
func wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrUserNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", store.ErrEmailExists, operation)
	}
	return store.NewStoreError("user", operation, "mongodb error", err)
}

// parseID converts a hex identifier into an ObjectID.
func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, store.ErrMalformedID
	}
	return oid, nil
}
