package ingestion

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zloyaloha/web-searcher/pkg/config"
)

// Document is one crawled page as the spider stores it.
type Document struct {
	URL  string `bson:"normalized_url"`
	HTML string `bson:"html_content"`
}

// Store reads the corpus the web spider writes into MongoDB.
type Store struct {
	client *mongo.Client
	docs   *mongo.Collection
}

// NewStore connects to the document store and verifies the connection.
func NewStore(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}
	return &Store{
		client: client,
		docs:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Documents returns a cursor over all crawled pages, projecting only the url
// and the raw html.
func (s *Store) Documents(ctx context.Context) (*mongo.Cursor, error) {
	opts := options.Find().SetProjection(bson.D{
		{Key: "normalized_url", Value: 1},
		{Key: "html_content", Value: 1},
		{Key: "_id", Value: 0},
	})
	cur, err := s.docs.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	return cur, nil
}

// Count returns the number of crawled pages in the store.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.docs.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Ping probes the store connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from the store.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
