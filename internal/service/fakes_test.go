package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/centerkech-api/internal/models"
	"github.com/noah-isme/centerkech-api/internal/repository"
)

type mockUserRepo struct {
	mu             sync.Mutex
	users          map[string]*models.User
	countErr       error
	createErr      error
	lastLoginErr   error
	findByEmailErr error
	lastLogins     []string
}

func newMockUserRepo(users ...models.User) *mockUserRepo {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	for i := range users {
		u := users[i]
		repo.users[u.ID] = &u
	}
	return repo
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id string, ts time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastLoginErr != nil {
		return m.lastLoginErr
	}
	u, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LastLogin = &ts
	m.lastLogins = append(m.lastLogins, id)
	return nil
}

func (m *mockUserRepo) Count(_ context.Context, filter models.UserFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countErr != nil {
		return 0, m.countErr
	}
	var n int64
	for _, u := range m.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && u.IsActive != *filter.Active {
			continue
		}
		n++
	}
	return n, nil
}

func (m *mockUserRepo) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// memSubmissionRepo mimics the stores: status updates keep the first contactedAt.
type memSubmissionRepo struct {
	mu      sync.Mutex
	items   map[string]*models.Submission
	listErr error
	lists   []models.SubmissionFilter
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{items: make(map[string]*models.Submission)}
}

func (m *memSubmissionRepo) Create(_ context.Context, sub *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	sub.UpdatedAt = sub.CreatedAt
	copy := *sub
	m.items[sub.ID] = &copy
	return nil
}

func (m *memSubmissionRepo) FindByID(_ context.Context, id string) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub, ok := m.items[id]; ok {
		copy := *sub
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memSubmissionRepo) matching(filter models.SubmissionFilter) []models.Submission {
	out := []models.Submission{}
	for _, sub := range m.items {
		if filter.Status != nil && sub.Status != *filter.Status {
			continue
		}
		if filter.Source != nil && sub.Source != *filter.Source {
			continue
		}
		out = append(out, *sub)
	}
	return out
}

func (m *memSubmissionRepo) List(_ context.Context, filter models.SubmissionFilter) ([]models.Submission, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists = append(m.lists, filter)
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	items := m.matching(filter)
	less := func(a, b models.Submission) bool {
		switch filter.SortBy {
		case models.SortName:
			return strings.Compare(a.Name, b.Name) < 0
		case models.SortStatus:
			return a.Status < b.Status
		case models.SortUpdatedAt:
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if filter.SortDesc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
	total := int64(len(items))
	if filter.Offset >= len(items) {
		return []models.Submission{}, total, nil
	}
	items = items[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(items) {
		items = items[:filter.Limit]
	}
	return items, total, nil
}

func (m *memSubmissionRepo) Count(_ context.Context, filter models.SubmissionFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.matching(filter))), nil
}

func (m *memSubmissionRepo) UpdateStatus(_ context.Context, change models.StatusChange) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.items[change.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	sub.Status = change.Status
	if change.Notes != nil {
		sub.Notes = *change.Notes
	}
	if change.HandledBy != nil {
		handledBy := *change.HandledBy
		sub.HandledBy = &handledBy
	}
	if change.Status == models.StatusContacted && sub.ContactedAt == nil {
		at := change.At
		sub.ContactedAt = &at
	}
	sub.UpdatedAt = change.At
	copy := *sub
	return &copy, nil
}

func (m *memSubmissionRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memContentRepo struct {
	mu    sync.Mutex
	items map[string]*models.Content
	err   error
}

func newMemContentRepo() *memContentRepo {
	return &memContentRepo{items: make(map[string]*models.Content)}
}

func (m *memContentRepo) List(_ context.Context, contentType *models.ContentType) ([]models.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Content{}
	for _, item := range m.items {
		if contentType != nil && item.Type != *contentType {
			continue
		}
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memContentRepo) FindByKey(_ context.Context, key string) (*models.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[key]; ok {
		copy := *item
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memContentRepo) Upsert(_ context.Context, content *models.Content) (*models.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	stored := *content
	stored.CreatedAt = content.LastUpdated
	if existing, ok := m.items[content.Key]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	stored.UpdatedAt = content.LastUpdated
	m.items[content.Key] = &stored
	copy := stored
	return &copy, nil
}

type memLocationRepo struct {
	mu      sync.Mutex
	items   map[string]*models.Location
	upserts int
}

func newMemLocationRepo() *memLocationRepo {
	return &memLocationRepo{items: make(map[string]*models.Location)}
}

func (m *memLocationRepo) List(_ context.Context) ([]models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Location{}
	for _, item := range m.items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memLocationRepo) FindByID(_ context.Context, id string) (*models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[id]; ok {
		copy := *item
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memLocationRepo) Upsert(_ context.Context, loc *models.Location) (*models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	stored := *loc
	now := time.Now().UTC()
	stored.CreatedAt, stored.UpdatedAt = now, now
	if existing, ok := m.items[loc.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	m.items[loc.ID] = &stored
	copy := stored
	return &copy, nil
}

func (m *memLocationRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

var errStoreDown = errors.New("store unavailable")
