// Package docstore connects to MongoDB, the default document store, and runs
// multi-document transactions. Transactions need a replica set; a single-node
// one (mongod --replSet rs0) is enough for development.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/galeria/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Collection names.
const (
	Paintings    = "paintings"
	Coupons      = "coupons"
	Orders       = "orders"
	CustomOrders = "custom_orders"
	Reviews      = "reviews"
	BlogPosts    = "blog_posts"
	Users        = "users"
	Settings     = "settings"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Connect dials MONGO_URI and selects MONGO_DATABASE.
func Connect(ctx context.Context) error {
	client, db, err := Open(ctx, config.MongoURI(), config.MongoDatabase())
	if err != nil {
		return err
	}
	Client, DB = client, db
	return nil
}

// Open dials uri, pings the primary and returns the named database.
func Open(ctx context.Context, uri, name string) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetAppName("galeria").
		SetMaxPoolSize(50).
		SetRetryWrites(true)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("docstore: connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("docstore: ping: %w", err)
	}
	return client, client.Database(name), nil
}

func Close(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	err := Client.Disconnect(ctx)
	Client, DB = nil, nil
	return err
}

// WithTransaction runs fn inside a snapshot, majority-acknowledged
// transaction. fn must use the session context it receives for every
// operation that belongs to the transaction. Transient errors are retried by
// the driver.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("docstore: start session: %w", err)
	}
	defer sess.EndSession(ctx)

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, txOpts)
	return err
}

// IsDuplicateKey reports whether err is a unique-index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNotFound reports whether err is mongo.ErrNoDocuments.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
