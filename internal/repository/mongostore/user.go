package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/noah-isme/centerkech-api/internal/models"
)

// UserStore keeps accounts in the users collection.
type UserStore struct {
	col *mongo.Collection
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.col, bson.D{{Key: "email", Value: email}}, "find user by email")
}

func (s *UserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.col, bson.D{{Key: "_id", Value: id}}, "find user by id")
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	_, err := s.col.InsertOne(ctx, user)
	return wrapError("create user", err)
}

func (s *UserStore) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return updateOne(ctx, s.col, bson.D{{Key: "_id", Value: id}}, bson.D{
		{Key: "last_login", Value: ts},
		{Key: "updated_at", Value: ts},
	}, "update last login")
}

func (s *UserStore) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	query := bson.D{}
	if filter.Role != nil {
		query = append(query, bson.E{Key: "role", Value: string(*filter.Role)})
	}
	if filter.Active != nil {
		query = append(query, bson.E{Key: "is_active", Value: *filter.Active})
	}
	return count(ctx, s.col, query, "count users")
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findMany[models.User](ctx, s.col, bson.D{}, "list users", opts)
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, s.col, bson.D{{Key: "_id", Value: id}}, "delete user")
}
