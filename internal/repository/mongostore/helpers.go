package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/noah-isme/centerkech-api/internal/repository"
)

// wrapError maps driver errors onto the repository sentinels.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, repository.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D, op string) (*T, error) {
	var result T
	if err := col.FindOne(ctx, filter).Decode(&result); err != nil {
		return nil, wrapError(op, err)
	}
	return &result, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, op string, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrapError(op, err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		results = append(results, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, wrapError(op, err)
	}
	return results, nil
}

func deleteOne(ctx context.Context, col *mongo.Collection, filter bson.D, op string) error {
	res, err := col.DeleteOne(ctx, filter)
	if err != nil {
		return wrapError(op, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func updateOne(ctx context.Context, col *mongo.Collection, filter bson.D, set bson.D, op string) error {
	res, err := col.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return wrapError(op, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func count(ctx context.Context, col *mongo.Collection, filter bson.D, op string) (int64, error) {
	n, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, wrapError(op, err)
	}
	return n, nil
}

// returnAfter configures find-and-modify calls to hand back the updated document.
func returnAfter() *options.FindOneAndUpdateOptionsBuilder {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
