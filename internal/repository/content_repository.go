package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/centerkech-api/internal/models"
)

const contentColumns = `key, type, data, last_updated, updated_by, created_at, updated_at`

type contentRow struct {
	Key         string    `db:"key"`
	Type        string    `db:"type"`
	Data        []byte    `db:"data"`
	LastUpdated time.Time `db:"last_updated"`
	UpdatedBy   *string   `db:"updated_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row contentRow) toModel() models.Content {
	data := make(json.RawMessage, len(row.Data))
	copy(data, row.Data)
	return models.Content{
		Key:         row.Key,
		Type:        models.ContentType(row.Type),
		Data:        data,
		LastUpdated: row.LastUpdated,
		UpdatedBy:   row.UpdatedBy,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// ContentRepository stores content blobs as JSONB.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates a new instance of ContentRepository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// List returns all content, optionally restricted to one type.
func (r *ContentRepository) List(ctx context.Context, contentType *models.ContentType) ([]models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents`
	var args []interface{}
	if contentType != nil {
		query += ` WHERE type = $1`
		args = append(args, *contentType)
	}
	query += ` ORDER BY key`

	var rows []contentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapPostgres("list content", err)
	}
	items := make([]models.Content, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

// FindByKey returns one content record.
func (r *ContentRepository) FindByKey(ctx context.Context, key string) (*models.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE key = $1`
	var row contentRow
	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		return nil, wrapPostgres("find content", err)
	}
	item := row.toModel()
	return &item, nil
}

// Upsert creates or replaces the record for content.Key in a single statement.
func (r *ContentRepository) Upsert(ctx context.Context, content *models.Content) (*models.Content, error) {
	if content.LastUpdated.IsZero() {
		content.LastUpdated = time.Now().UTC()
	}
	query := `INSERT INTO contents (key, type, data, last_updated, updated_by, created_at, updated_at)
	VALUES ($1, $2, $3::jsonb, $4, $5, $4, $4)
	ON CONFLICT (key) DO UPDATE SET
		type = EXCLUDED.type,
		data = EXCLUDED.data,
		last_updated = EXCLUDED.last_updated,
		updated_by = EXCLUDED.updated_by,
		updated_at = EXCLUDED.updated_at
	RETURNING ` + contentColumns

	var row contentRow
	if err := r.db.GetContext(ctx, &row, query, content.Key, content.Type, string(content.Data), content.LastUpdated, content.UpdatedBy); err != nil {
		return nil, wrapPostgres("upsert content", err)
	}
	item := row.toModel()
	return &item, nil
}
