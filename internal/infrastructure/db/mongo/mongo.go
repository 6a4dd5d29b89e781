package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

const (
	collectionEntries  = "catalog_entries"
	collectionAccounts = "accounts"
	collectionCounters = "counters"
)

// Config selects the MongoDB deployment and database holding the catalog.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect dials cfg.URI and pings the primary before handing back the client
// and catalog database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("catalog-api").
		SetServerSelectionTimeout(timeout)

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the name lookup index on entries and the unique
// username index on accounts.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := db.Collection(collectionEntries).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	}); err != nil {
		return fmt.Errorf("entries index: %w", err)
	}

	if _, err := db.Collection(collectionAccounts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("accounts index: %w", err)
	}
	return nil
}

// nextID atomically increments and returns the sequence named name.
func nextID(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection(collectionCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return counter.Seq, nil
}
