package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/centerkech-api/internal/models"
)

const locationColumns = `id, name, address, phone, email, coordinates, hours, specialties, image, created_at, updated_at`

// locationRow mirrors the table; the serial pk stays inside the store.
type locationRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Address     string          `db:"address"`
	Phone       string          `db:"phone"`
	Email       string          `db:"email"`
	Coordinates pq.Float64Array `db:"coordinates"`
	Hours       string          `db:"hours"`
	Specialties pq.StringArray  `db:"specialties"`
	Image       string          `db:"image"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (row locationRow) toModel() models.Location {
	specialties := []string(row.Specialties)
	if specialties == nil {
		specialties = []string{}
	}
	return models.Location{
		ID:          row.ID,
		Name:        row.Name,
		Address:     row.Address,
		Phone:       row.Phone,
		Email:       row.Email,
		Coordinates: []float64(row.Coordinates),
		Hours:       row.Hours,
		Specialties: specialties,
		Image:       row.Image,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

// LocationRepository provides database access for centres.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository creates a new instance of LocationRepository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// List returns every location in creation order.
func (r *LocationRepository) List(ctx context.Context) ([]models.Location, error) {
	var rows []locationRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+locationColumns+` FROM locations ORDER BY pk`); err != nil {
		return nil, wrapPostgres("list locations", err)
	}
	items := make([]models.Location, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toModel())
	}
	return items, nil
}

// FindByID returns a location by its external identifier.
func (r *LocationRepository) FindByID(ctx context.Context, id string) (*models.Location, error) {
	var row locationRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id); err != nil {
		return nil, wrapPostgres("find location", err)
	}
	item := row.toModel()
	return &item, nil
}

// Upsert creates or replaces the location with loc.ID in a single statement.
func (r *LocationRepository) Upsert(ctx context.Context, loc *models.Location) (*models.Location, error) {
	now := time.Now().UTC()
	specialties := loc.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	query := `INSERT INTO locations (id, name, address, phone, email, coordinates, hours, specialties, image, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		address = EXCLUDED.address,
		phone = EXCLUDED.phone,
		email = EXCLUDED.email,
		coordinates = EXCLUDED.coordinates,
		hours = EXCLUDED.hours,
		specialties = EXCLUDED.specialties,
		image = EXCLUDED.image,
		updated_at = EXCLUDED.updated_at
	RETURNING ` + locationColumns

	var row locationRow
	err := r.db.GetContext(ctx, &row, query,
		loc.ID, loc.Name, loc.Address, loc.Phone, loc.Email,
		pq.Array(loc.Coordinates), loc.Hours, pq.Array(specialties), loc.Image, now,
	)
	if err != nil {
		return nil, wrapPostgres("upsert location", err)
	}
	item := row.toModel()
	return &item, nil
}

// Delete removes the location with the given external identifier.
func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return wrapPostgres("delete location", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
