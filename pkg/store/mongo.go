package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "procmap"
	DefaultCollection = "layouts"
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps documents in a MongoDB collection keyed by _id. A TTL
// index on expires_at lets the server drop expired documents on its own.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects to MongoDB, pings the primary and ensures the TTL
// index exists.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
		now:    time.Now,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create ttl index: %w", err)
	}
	return nil
}

func (s *MongoStore) Save(ctx context.Context, doc *Document) error {
	prepare(doc, s.now())
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save layout %s: %w", doc.ID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get layout %s: %w", id, err)
	}
	// The TTL monitor runs periodically, so expired documents can linger.
	if doc.IsExpired(s.now()) {
		return nil, ErrExpired
	}
	return &doc, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete layout %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) Cleanup(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.M{
		"expires_at": bson.M{"$lt": s.now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("cleanup layouts: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
