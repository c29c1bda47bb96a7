package service

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/dto"
	"github.com/noah-isme/centerkech-api/internal/models"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
)

func newTestSubmissionService(repo *memSubmissionRepo) *SubmissionService {
	return NewSubmissionService(repo, NewValidator(), zap.NewNop(), NewMetricsService())
}

func validSubmit() dto.SubmitRequest {
	return dto.SubmitRequest{Name: " Yasmine ", Email: " Yasmine@Example.com", Tel: "0600000000", Formation: "Maths", Source: "join"}
}

func TestSubmissionServiceSubmit(t *testing.T) {
	repo := newMemSubmissionRepo()
	svc := newTestSubmissionService(repo)

	res, err := svc.Submit(context.Background(), validSubmit())
	require.NoError(t, err)
	require.NotEmpty(t, res.ID)

	stored := repo.items[res.ID]
	assert.Equal(t, "Yasmine", stored.Name)
	assert.Equal(t, "yasmine@example.com", stored.Email)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, "", stored.Message)
	assert.Nil(t, stored.ContactedAt)
}

func TestSubmissionServiceSubmitValidation(t *testing.T) {
	svc := newTestSubmissionService(newMemSubmissionRepo())

	missing := validSubmit()
	missing.Tel = "   "
	_, err := svc.Submit(context.Background(), missing)
	assert.Equal(t, "Missing required fields", appErrors.FromError(err).Message)

	badSource := validSubmit()
	badSource.Source = "newsletter"
	_, err = svc.Submit(context.Background(), badSource)
	assert.Equal(t, "Invalid source", appErrors.FromError(err).Message)

	badEmail := validSubmit()
	badEmail.Email = "not-an-email"
	_, err = svc.Submit(context.Background(), badEmail)
	assert.Equal(t, "email must be a valid email address", appErrors.FromError(err).Message)
}

func TestSubmissionServiceContactedAtIsSetOnce(t *testing.T) {
	repo := newMemSubmissionRepo()
	svc := newTestSubmissionService(repo)
	ctx := context.Background()

	res, err := svc.Submit(ctx, validSubmit())
	require.NoError(t, err)

	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }
	sub, err := svc.UpdateStatus(ctx, res.ID, dto.UpdateStatusRequest{Status: "contacted"}, "admin-1")
	require.NoError(t, err)
	require.NotNil(t, sub.ContactedAt)
	assert.Equal(t, first, *sub.ContactedAt)
	assert.Equal(t, "admin-1", *sub.HandledBy)

	svc.now = func() time.Time { return first.Add(24 * time.Hour) }
	notes := "no answer"
	sub, err = svc.UpdateStatus(ctx, res.ID, dto.UpdateStatusRequest{Status: "rejected", Notes: &notes}, "admin-2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, sub.Status)
	assert.Equal(t, first, *sub.ContactedAt)
	assert.Equal(t, "no answer", sub.Notes)

	svc.now = func() time.Time { return first.Add(48 * time.Hour) }
	sub, err = svc.UpdateStatus(ctx, res.ID, dto.UpdateStatusRequest{Status: "contacted"}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, first, *sub.ContactedAt)
	assert.Equal(t, "no answer", sub.Notes)
}

func TestSubmissionServiceUpdateStatusErrors(t *testing.T) {
	repo := newMemSubmissionRepo()
	svc := newTestSubmissionService(repo)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, "5f1b8a8e-4b9b-4c39-9a3e-1f2a3b4c5d6e", dto.UpdateStatusRequest{Status: "archived"}, "admin")
	assert.Equal(t, "Invalid status", appErrors.FromError(err).Message)

	_, err = svc.UpdateStatus(ctx, "5f1b8a8e-4b9b-4c39-9a3e-1f2a3b4c5d6e", dto.UpdateStatusRequest{Status: "enrolled"}, "admin")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = svc.UpdateStatus(ctx, "not-a-uuid", dto.UpdateStatusRequest{Status: "enrolled"}, "admin")
	assert.Equal(t, "Submission not found", appErrors.FromError(err).Message)
}

func TestSubmissionServiceListPagination(t *testing.T) {
	repo := newMemSubmissionRepo()
	svc := newTestSubmissionService(repo)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 12; i++ {
		svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		req := validSubmit()
		req.Name = fmt.Sprintf("pending-%02d", i)
		_, err := svc.Submit(ctx, req)
		require.NoError(t, err)
	}
	other := validSubmit()
	other.Source = "contact"
	created, err := svc.Submit(ctx, other)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, created.ID, dto.UpdateStatusRequest{Status: "enrolled"}, "")
	require.NoError(t, err)

	page, err := svc.List(ctx, dto.SubmissionQuery{Status: "pending", Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 12, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.Pages)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 5, page.Pagination.Limit)
	require.Len(t, page.Submissions, 5)
	names := make([]string, 0, 5)
	for _, sub := range page.Submissions {
		names = append(names, sub.Name)
	}
	assert.Equal(t, []string{"pending-07", "pending-06", "pending-05", "pending-04", "pending-03"}, names)
}

func TestSubmissionServiceListHugePageIsEmpty(t *testing.T) {
	repo := newMemSubmissionRepo()
	svc := newTestSubmissionService(repo)
	ctx := context.Background()

	_, err := svc.Submit(ctx, validSubmit())
	require.NoError(t, err)

	huge := math.MaxInt/10 + 2
	page, err := svc.List(ctx, dto.SubmissionQuery{Page: huge, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Submissions)
	assert.NotNil(t, page.Submissions)
	assert.EqualValues(t, 1, page.Pagination.Total)
	assert.Equal(t, huge, page.Pagination.Page)
	assert.Empty(t, repo.lists)

	last := math.MaxInt / 10
	_, err = svc.List(ctx, dto.SubmissionQuery{Page: last, Limit: 10})
	require.NoError(t, err)
	require.Len(t, repo.lists, 1)
	assert.Equal(t, (last-1)*10, repo.lists[0].Offset)
	assert.Positive(t, repo.lists[0].Offset)
}

func TestSubmissionServiceListDefaultsAndSort(t *testing.T) {
	repo := newMemSubmissionRepo()
	svc := newTestSubmissionService(repo)
	ctx := context.Background()

	_, err := svc.List(ctx, dto.SubmissionQuery{Page: -3, Limit: 1000, Sort: "name"})
	require.NoError(t, err)
	_, err = svc.List(ctx, dto.SubmissionQuery{Sort: "-password"})
	require.NoError(t, err)

	require.Len(t, repo.lists, 2)
	assert.Equal(t, models.SubmissionFilter{SortBy: models.SortName, Offset: 0, Limit: 100}, repo.lists[0])
	assert.Equal(t, models.SubmissionFilter{SortBy: models.SortCreatedAt, SortDesc: true, Limit: 10}, repo.lists[1])

	_, err = svc.List(ctx, dto.SubmissionQuery{Status: "archived"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)
	_, err = svc.List(ctx, dto.SubmissionQuery{Source: "radio"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)
}

func TestSubmissionServiceGetAndDelete(t *testing.T) {
	repo := newMemSubmissionRepo()
	svc := newTestSubmissionService(repo)
	ctx := context.Background()

	res, err := svc.Submit(ctx, validSubmit())
	require.NoError(t, err)

	sub, err := svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, sub.ID)

	require.NoError(t, svc.Delete(ctx, res.ID))
	_, err = svc.Get(ctx, res.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, res.ID), appErrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "bogus"), appErrors.ErrNotFound)
}

func TestSubmissionServiceListStoreError(t *testing.T) {
	repo := newMemSubmissionRepo()
	repo.listErr = errStoreDown
	svc := newTestSubmissionService(repo)

	_, err := svc.List(context.Background(), dto.SubmissionQuery{})
	appErr := appErrors.FromError(err)
	assert.Equal(t, 500, appErr.Status)
	assert.Equal(t, "Error retrieving submissions", appErr.Message)
}
