package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/noah-isme/centerkech-api/internal/models"
)

// LocationStore keeps centres in the locations collection. The driver assigns _id;
// lookups go through the unique external id field.
type LocationStore struct {
	col *mongo.Collection
}

func (s *LocationStore) List(ctx context.Context) ([]models.Location, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	items, err := findMany[models.Location](ctx, s.col, bson.D{}, "list locations", opts)
	if err != nil {
		return nil, err
	}
	for i := range items {
		normalizeLocation(&items[i])
	}
	return items, nil
}

func (s *LocationStore) FindByID(ctx context.Context, id string) (*models.Location, error) {
	item, err := findOne[models.Location](ctx, s.col, bson.D{{Key: "id", Value: id}}, "find location")
	if err != nil {
		return nil, err
	}
	normalizeLocation(item)
	return item, nil
}

func (s *LocationStore) Upsert(ctx context.Context, loc *models.Location) (*models.Location, error) {
	now := time.Now().UTC()
	specialties := loc.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: loc.Name},
			{Key: "address", Value: loc.Address},
			{Key: "phone", Value: loc.Phone},
			{Key: "email", Value: loc.Email},
			{Key: "coordinates", Value: loc.Coordinates},
			{Key: "hours", Value: loc.Hours},
			{Key: "specialties", Value: specialties},
			{Key: "image", Value: loc.Image},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "created_at", Value: now}}},
	}

	var item models.Location
	opts := returnAfter().SetUpsert(true)
	if err := s.col.FindOneAndUpdate(ctx, bson.D{{Key: "id", Value: loc.ID}}, update, opts).Decode(&item); err != nil {
		return nil, wrapError("upsert location", err)
	}
	normalizeLocation(&item)
	return &item, nil
}

func (s *LocationStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, s.col, bson.D{{Key: "id", Value: id}}, "delete location")
}

func normalizeLocation(loc *models.Location) {
	if loc.Specialties == nil {
		loc.Specialties = []string{}
	}
}
