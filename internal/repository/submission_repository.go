package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/centerkech-api/internal/models"
)

const submissionColumns = `id, name, email, tel, formation, message, source, status, notes, contacted_at, handled_by, created_at, updated_at`

var submissionSorts = map[string]string{
	models.SortCreatedAt: "created_at",
	models.SortUpdatedAt: "updated_at",
	models.SortName:      "name",
	models.SortStatus:    "status",
}

// SubmissionRepository provides database access for form submissions.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository creates a new instance of SubmissionRepository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts a submission, assigning an ID and timestamps when missing.
func (r *SubmissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = sub.CreatedAt

	const query = `INSERT INTO submissions (id, name, email, tel, formation, message, source, status, notes, contacted_at, handled_by, created_at, updated_at) VALUES (:id, :name, :email, :tel, :formation, :message, :source, :status, :notes, :contacted_at, :handled_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return wrapPostgres("create submission", err)
	}
	return nil
}

// FindByID returns a submission by identifier.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = $1`
	var sub models.Submission
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		return nil, wrapPostgres("find submission", err)
	}
	return &sub, nil
}

// List returns one page of submissions matching filter together with the total match count.
func (r *SubmissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int64, error) {
	where, args := submissionWhere(filter)

	sortBy, ok := submissionSorts[filter.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	order := "ASC"
	if filter.SortDesc {
		order = "DESC"
	}

	listQuery := fmt.Sprintf("SELECT %s FROM submissions%s ORDER BY %s %s, id %s", submissionColumns, where, sortBy, order, order)
	if filter.Limit > 0 {
		listQuery += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		listQuery += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	subs := []models.Submission{}
	if err := r.db.SelectContext(ctx, &subs, listQuery, args...); err != nil {
		return nil, 0, wrapPostgres("list submissions", err)
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM submissions"+where, args...); err != nil {
		return nil, 0, wrapPostgres("count submissions", err)
	}

	return subs, total, nil
}

// Count returns the number of submissions matching the status and source of filter.
func (r *SubmissionRepository) Count(ctx context.Context, filter models.SubmissionFilter) (int64, error) {
	where, args := submissionWhere(filter)
	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM submissions"+where, args...); err != nil {
		return 0, wrapPostgres("count submissions", err)
	}
	return total, nil
}

// UpdateStatus applies change in one statement. contacted_at is only written when the
// submission enters contacted for the first time.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, change models.StatusChange) (*models.Submission, error) {
	query := `UPDATE submissions SET
		status = $2,
		notes = COALESCE($3, notes),
		handled_by = COALESCE($4, handled_by),
		contacted_at = CASE WHEN $2 = 'contacted' AND contacted_at IS NULL THEN $5 ELSE contacted_at END,
		updated_at = $5
	WHERE id = $1
	RETURNING ` + submissionColumns

	var sub models.Submission
	if err := r.db.GetContext(ctx, &sub, query, change.ID, change.Status, change.Notes, change.HandledBy, change.At); err != nil {
		return nil, wrapPostgres("update submission status", err)
	}
	return &sub, nil
}

// Delete removes a submission.
func (r *SubmissionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return wrapPostgres("delete submission", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func submissionWhere(filter models.SubmissionFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Source != nil {
		args = append(args, *filter.Source)
		conditions = append(conditions, fmt.Sprintf("source = $%d", len(args)))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
