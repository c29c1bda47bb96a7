// Package mongostore implements the repository stores on MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/repository"
)

// Collection names.
const (
	ColUsers       = "users"
	ColSubmissions = "submissions"
	ColContents    = "contents"
	ColLocations   = "locations"
)

// Store owns the client and hands out per-collection stores.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to uri, verifies the connection and ensures indexes.
func NewStore(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}

	if err := s.ensureIndexes(ctx); err != nil {
		logger.Warn("mongostore: ensure indexes failed", zap.Error(err))
	}

	return s, nil
}

// Repositories exposes the collections through the store-agnostic interfaces.
func (s *Store) Repositories() *repository.Repositories {
	return repository.NewRepositories(
		s,
		&UserStore{col: s.col(ColUsers)},
		&SubmissionStore{col: s.col(ColSubmissions)},
		&ContentStore{col: s.col(ColContents)},
		&LocationStore{col: s.col(ColLocations)},
	)
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "role", Value: 1}}, false},

		{ColSubmissions, bson.D{{Key: "status", Value: 1}}, false},
		{ColSubmissions, bson.D{{Key: "source", Value: 1}}, false},
		{ColSubmissions, bson.D{{Key: "created_at", Value: -1}}, false},

		{ColContents, bson.D{{Key: "type", Value: 1}}, false},

		{ColLocations, bson.D{{Key: "id", Value: 1}}, true},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}

	return nil
}
