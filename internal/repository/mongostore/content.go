package mongostore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/noah-isme/centerkech-api/internal/models"
)

// contentDoc keeps the payload as compact JSON text. Keys such as "$oid" or
// "$numberLong" are ordinary keys in site content and must not be read as
// extended JSON.
type contentDoc struct {
	Key         string    `bson:"_id"`
	Type        string    `bson:"type"`
	Data        string    `bson:"data"`
	LastUpdated time.Time `bson:"last_updated"`
	UpdatedBy   *string   `bson:"updated_by"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d contentDoc) toModel() (models.Content, error) {
	if !json.Valid([]byte(d.Data)) {
		return models.Content{}, fmt.Errorf("content %s: stored data is not valid JSON", d.Key)
	}
	return models.Content{
		Key:         d.Key,
		Type:        models.ContentType(d.Type),
		Data:        json.RawMessage(d.Data),
		LastUpdated: d.LastUpdated,
		UpdatedBy:   d.UpdatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}

// ContentStore keeps content blobs in the contents collection, keyed by _id.
type ContentStore struct {
	col *mongo.Collection
}

func (s *ContentStore) List(ctx context.Context, contentType *models.ContentType) ([]models.Content, error) {
	query := bson.D{}
	if contentType != nil {
		query = append(query, bson.E{Key: "type", Value: string(*contentType)})
	}
	docs, err := findMany[contentDoc](ctx, s.col, query, "list content", options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	items := make([]models.Content, 0, len(docs))
	for _, doc := range docs {
		item, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *ContentStore) FindByKey(ctx context.Context, key string) (*models.Content, error) {
	doc, err := findOne[contentDoc](ctx, s.col, bson.D{{Key: "_id", Value: key}}, "find content")
	if err != nil {
		return nil, err
	}
	item, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Upsert replaces the mutable fields of content.Key, creating the document when absent.
func (s *ContentStore) Upsert(ctx context.Context, content *models.Content) (*models.Content, error) {
	value, err := encodeData(content.Data)
	if err != nil {
		return nil, fmt.Errorf("upsert content: %w", err)
	}
	now := content.LastUpdated
	if now.IsZero() {
		now = time.Now().UTC()
	}

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "type", Value: string(content.Type)},
			{Key: "data", Value: value},
			{Key: "last_updated", Value: now},
			{Key: "updated_by", Value: content.UpdatedBy},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "created_at", Value: now}}},
	}

	var doc contentDoc
	opts := returnAfter().SetUpsert(true)
	if err := s.col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: content.Key}}, update, opts).Decode(&doc); err != nil {
		return nil, wrapError("upsert content", err)
	}
	item, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func encodeData(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}
