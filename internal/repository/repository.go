package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/centerkech-api/internal/models"
)

// UserStore persists accounts. Email is unique; Create reports ErrDuplicate on collision.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id string, ts time.Time) error
	Count(ctx context.Context, filter models.UserFilter) (int64, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id string) error
}

// SubmissionStore persists form submissions. UpdateStatus is a single atomic operation.
type SubmissionStore interface {
	Create(ctx context.Context, sub *models.Submission) error
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int64, error)
	UpdateStatus(ctx context.Context, change models.StatusChange) (*models.Submission, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter models.SubmissionFilter) (int64, error)
}

// ContentStore persists content blobs keyed by Key.
type ContentStore interface {
	List(ctx context.Context, contentType *models.ContentType) ([]models.Content, error)
	FindByKey(ctx context.Context, key string) (*models.Content, error)
	Upsert(ctx context.Context, content *models.Content) (*models.Content, error)
}

// LocationStore persists centres keyed by their external ID.
type LocationStore interface {
	List(ctx context.Context) ([]models.Location, error)
	FindByID(ctx context.Context, id string) (*models.Location, error)
	Upsert(ctx context.Context, location *models.Location) (*models.Location, error)
	Delete(ctx context.Context, id string) error
}

// Backend is the lifecycle of the underlying store handle.
type Backend interface {
	Ping(ctx context.Context) error
	Close() error
}

// Repositories bundles the stores of one backend together with its handle.
type Repositories struct {
	Users       UserStore
	Submissions SubmissionStore
	Contents    ContentStore
	Locations   LocationStore

	backend Backend
}

// NewRepositories assembles a bundle from individual stores.
func NewRepositories(backend Backend, users UserStore, submissions SubmissionStore, contents ContentStore, locations LocationStore) *Repositories {
	return &Repositories{Users: users, Submissions: submissions, Contents: contents, Locations: locations, backend: backend}
}

// NewPostgres wires the SQL repositories onto db.
func NewPostgres(db *sqlx.DB) *Repositories {
	return NewRepositories(
		sqlBackend{db: db},
		NewUserRepository(db),
		NewSubmissionRepository(db),
		NewContentRepository(db),
		NewLocationRepository(db),
	)
}

// Ping checks that the store is reachable.
func (r *Repositories) Ping(ctx context.Context) error {
	if r.backend == nil {
		return nil
	}
	return r.backend.Ping(ctx)
}

// Close releases the store handle.
func (r *Repositories) Close() error {
	if r.backend == nil {
		return nil
	}
	return r.backend.Close()
}

type sqlBackend struct {
	db *sqlx.DB
}

func (b sqlBackend) Ping(ctx context.Context) error { return b.db.PingContext(ctx) }
func (b sqlBackend) Close() error { return b.db.Close() }
