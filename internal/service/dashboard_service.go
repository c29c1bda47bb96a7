package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/dto"
	"github.com/noah-isme/centerkech-api/internal/models"
	"github.com/noah-isme/centerkech-api/internal/repository"
	appErrors "github.com/noah-isme/centerkech-api/pkg/errors"
)

const recentSubmissionsLimit = 10

type dashboardUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Count(ctx context.Context, filter models.UserFilter) (int64, error)
}

type dashboardSubmissionReader interface {
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int64, error)
	Count(ctx context.Context, filter models.SubmissionFilter) (int64, error)
}

// DashboardService aggregates counters for the admin dashboard. Nothing is cached.
type DashboardService struct {
	users       dashboardUserReader
	submissions dashboardSubmissionReader
	logger      *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(users dashboardUserReader, submissions dashboardSubmissionReader, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{users: users, submissions: submissions, logger: logger}
}

// Stats recomputes every counter and the recent submissions list.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	users, err := s.userStats(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Error fetching dashboard statistics")
	}
	submissions, err := s.submissionStats(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Error fetching dashboard statistics")
	}
	recent, err := s.recentSubmissions(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "Error fetching dashboard statistics")
	}
	return &dto.DashboardStats{
		Stats:             dto.Stats{Users: users, Submissions: submissions},
		RecentSubmissions: recent,
	}, nil
}

func (s *DashboardService) userStats(ctx context.Context) (dto.UserStats, error) {
	active, inactive := true, false
	student, teacher, admin := models.RoleStudent, models.RoleTeacher, models.RoleAdmin

	var stats dto.UserStats
	counters := []struct {
		dst    *int64
		filter models.UserFilter
	}{
		{&stats.Total, models.UserFilter{}},
		{&stats.Active, models.UserFilter{Active: &active}},
		{&stats.Inactive, models.UserFilter{Active: &inactive}},
		{&stats.Students, models.UserFilter{Role: &student}},
		{&stats.Teachers, models.UserFilter{Role: &teacher}},
		{&stats.Admins, models.UserFilter{Role: &admin}},
	}
	for _, c := range counters {
		n, err := s.users.Count(ctx, c.filter)
		if err != nil {
			return stats, err
		}
		*c.dst = n
	}
	return stats, nil
}

func (s *DashboardService) submissionStats(ctx context.Context) (dto.SubmissionStats, error) {
	pending, contacted, enrolled, rejected := models.StatusPending, models.StatusContacted, models.StatusEnrolled, models.StatusRejected
	join, contact, services := models.SourceJoin, models.SourceContact, models.SourceServices

	var stats dto.SubmissionStats
	counters := []struct {
		dst    *int64
		filter models.SubmissionFilter
	}{
		{&stats.Total, models.SubmissionFilter{}},
		{&stats.Pending, models.SubmissionFilter{Status: &pending}},
		{&stats.Contacted, models.SubmissionFilter{Status: &contacted}},
		{&stats.Enrolled, models.SubmissionFilter{Status: &enrolled}},
		{&stats.Rejected, models.SubmissionFilter{Status: &rejected}},
		{&stats.Sources.Join, models.SubmissionFilter{Source: &join}},
		{&stats.Sources.Contact, models.SubmissionFilter{Source: &contact}},
		{&stats.Sources.Services, models.SubmissionFilter{Source: &services}},
	}
	for _, c := range counters {
		n, err := s.submissions.Count(ctx, c.filter)
		if err != nil {
			return stats, err
		}
		*c.dst = n
	}
	return stats, nil
}

// recentSubmissions resolves handledBy with one lookup per distinct user.
// Users that no longer exist resolve to nil.
func (s *DashboardService) recentSubmissions(ctx context.Context) ([]dto.RecentSubmission, error) {
	subs, _, err := s.submissions.List(ctx, models.SubmissionFilter{
		SortBy:   models.SortCreatedAt,
		SortDesc: true,
		Limit:    recentSubmissionsLimit,
	})
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]*models.UserRef)
	out := make([]dto.RecentSubmission, 0, len(subs))
	for _, sub := range subs {
		item := dto.RecentSubmission{Submission: sub}
		if sub.HandledBy != nil && *sub.HandledBy != "" {
			id := *sub.HandledBy
			ref, seen := resolved[id]
			if !seen {
				ref, err = s.lookupUser(ctx, id)
				if err != nil {
					return nil, err
				}
				resolved[id] = ref
			}
			item.HandledBy = ref
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *DashboardService) lookupUser(ctx context.Context, id string) (*models.UserRef, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("dashboard handler reference missing", zap.String("user_id", id))
			return nil, nil
		}
		return nil, err
	}
	return &models.UserRef{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}
