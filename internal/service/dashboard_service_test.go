package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/models"
)

type countingUserRepo struct {
	*mockUserRepo
	lookups map[string]int
}

func (c *countingUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	c.lookups[id]++
	return c.mockUserRepo.FindByID(ctx, id)
}

func TestDashboardServiceStats(t *testing.T) {
	users := &countingUserRepo{
		mockUserRepo: newMockUserRepo(
			models.User{ID: "admin-1", Name: "Admin", Email: "admin@centerkech.com", Role: models.RoleAdmin, IsActive: true},
			models.User{ID: "t-1", Role: models.RoleTeacher, IsActive: true},
			models.User{ID: "s-1", Role: models.RoleStudent, IsActive: false},
		),
		lookups: map[string]int{},
	}
	subs := newMemSubmissionRepo()
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	admin := "admin-1"
	ghost := "deleted-user"

	for i := 0; i < 12; i++ {
		sub := &models.Submission{Name: "n", Source: models.SourceJoin, Status: models.StatusPending, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		switch {
		case i%3 == 0:
			sub.Source = models.SourceContact
			sub.Status = models.StatusContacted
			sub.HandledBy = &admin
		case i == 11:
			sub.Source = models.SourceServices
			sub.Status = models.StatusRejected
			sub.HandledBy = &ghost
		}
		require.NoError(t, subs.Create(ctx, sub))
	}

	svc := NewDashboardService(users, subs, zap.NewNop())
	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.Stats.Users.Total)
	assert.EqualValues(t, 2, stats.Stats.Users.Active)
	assert.EqualValues(t, 1, stats.Stats.Users.Inactive)
	assert.EqualValues(t, 1, stats.Stats.Users.Admins)
	assert.EqualValues(t, 1, stats.Stats.Users.Teachers)
	assert.EqualValues(t, 1, stats.Stats.Users.Students)

	assert.EqualValues(t, 12, stats.Stats.Submissions.Total)
	assert.EqualValues(t, 4, stats.Stats.Submissions.Contacted)
	assert.EqualValues(t, 1, stats.Stats.Submissions.Rejected)
	assert.EqualValues(t, 7, stats.Stats.Submissions.Pending)
	assert.EqualValues(t, 4, stats.Stats.Submissions.Sources.Contact)
	assert.EqualValues(t, 1, stats.Stats.Submissions.Sources.Services)
	assert.EqualValues(t, 7, stats.Stats.Submissions.Sources.Join)

	require.Len(t, stats.RecentSubmissions, 10)
	newest := stats.RecentSubmissions[0]
	assert.Equal(t, base.Add(11*time.Hour), newest.CreatedAt)
	assert.Nil(t, newest.HandledBy)

	var resolved int
	for _, item := range stats.RecentSubmissions {
		if item.HandledBy != nil {
			resolved++
			assert.Equal(t, "Admin", item.HandledBy.Name)
		}
	}
	assert.Equal(t, 3, resolved)
	assert.Equal(t, 1, users.lookups["admin-1"])
	assert.Equal(t, 1, users.lookups["deleted-user"])
}

func TestDashboardServiceStoreError(t *testing.T) {
	users := newMockUserRepo()
	users.countErr = errStoreDown
	svc := NewDashboardService(users, newMemSubmissionRepo(), zap.NewNop())

	_, err := svc.Stats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error fetching dashboard statistics")
}
