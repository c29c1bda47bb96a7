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

var submissionSorts = map[string]string{
	models.SortCreatedAt: "created_at",
	models.SortUpdatedAt: "updated_at",
	models.SortName:      "name",
	models.SortStatus:    "status",
}

// SubmissionStore keeps form submissions in the submissions collection.
type SubmissionStore struct {
	col *mongo.Collection
}

func (s *SubmissionStore) Create(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	sub.UpdatedAt = sub.CreatedAt
	_, err := s.col.InsertOne(ctx, sub)
	return wrapError("create submission", err)
}

func (s *SubmissionStore) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	return findOne[models.Submission](ctx, s.col, bson.D{{Key: "_id", Value: id}}, "find submission")
}

func (s *SubmissionStore) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int64, error) {
	query := submissionQuery(filter)

	field, ok := submissionSorts[filter.SortBy]
	if !ok {
		field = "created_at"
	}
	dir := 1
	if filter.SortDesc {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: dir}})
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	subs, err := findMany[models.Submission](ctx, s.col, query, "list submissions", opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := count(ctx, s.col, query, "count submissions")
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (s *SubmissionStore) Count(ctx context.Context, filter models.SubmissionFilter) (int64, error) {
	return count(ctx, s.col, submissionQuery(filter), "count submissions")
}

// UpdateStatus runs a single find-and-modify with an aggregation pipeline so contacted_at
// keeps its first value. Caller supplied strings go through $literal.
func (s *SubmissionStore) UpdateStatus(ctx context.Context, change models.StatusChange) (*models.Submission, error) {
	set := bson.D{
		{Key: "status", Value: bson.D{{Key: "$literal", Value: string(change.Status)}}},
		{Key: "updated_at", Value: change.At},
	}
	if change.Notes != nil {
		set = append(set, bson.E{Key: "notes", Value: bson.D{{Key: "$literal", Value: *change.Notes}}})
	}
	if change.HandledBy != nil {
		set = append(set, bson.E{Key: "handled_by", Value: bson.D{{Key: "$literal", Value: *change.HandledBy}}})
	}
	if change.Status == models.StatusContacted {
		set = append(set, bson.E{Key: "contacted_at", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$contacted_at", change.At}}}})
	}
	pipeline := mongo.Pipeline{{{Key: "$set", Value: set}}}

	var sub models.Submission
	err := s.col.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: change.ID}}, pipeline, returnAfter()).Decode(&sub)
	if err != nil {
		return nil, wrapError("update submission status", err)
	}
	return &sub, nil
}

func (s *SubmissionStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, s.col, bson.D{{Key: "_id", Value: id}}, "delete submission")
}

func submissionQuery(filter models.SubmissionFilter) bson.D {
	query := bson.D{}
	if filter.Status != nil {
		query = append(query, bson.E{Key: "status", Value: string(*filter.Status)})
	}
	if filter.Source != nil {
		query = append(query, bson.E{Key: "source", Value: string(*filter.Source)})
	}
	return query
}
