package router

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/centerkech-api/internal/models"
	"github.com/noah-isme/centerkech-api/internal/repository"
)

// memStore keeps every collection in maps and follows the store contracts the services rely on.
type memStore struct {
	mu          sync.Mutex
	users       map[string]*models.User
	submissions map[string]*models.Submission
	contents    map[string]*models.Content
	locations   map[string]*models.Location
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[string]*models.User{},
		submissions: map[string]*models.Submission{},
		contents:    map[string]*models.Content{},
		locations:   map[string]*models.Location{},
	}
}

func (s *memStore) repositories() *repository.Repositories {
	return repository.NewRepositories(s, memUsers{s}, memSubmissions{s}, memContents{s}, memLocations{s})
}

func (s *memStore) Ping(context.Context) error { return nil }
func (s *memStore) Close() error               { return nil }

type memUsers struct{ s *memStore }

func (m memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u, ok := m.s.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m memUsers) Create(_ context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	copy := *user
	m.s.users[user.ID] = &copy
	return nil
}

func (m memUsers) UpdateLastLogin(_ context.Context, id string, ts time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u, ok := m.s.users[id]; ok {
		u.LastLogin = &ts
	}
	return nil
}

func (m memUsers) Count(_ context.Context, filter models.UserFilter) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, u := range m.s.users {
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

func (m memUsers) List(context.Context) ([]models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]models.User, 0, len(m.s.users))
	for _, u := range m.s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memUsers) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.s.users, id)
	return nil
}

type memSubmissions struct{ s *memStore }

func (m memSubmissions) Create(_ context.Context, sub *models.Submission) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	sub.UpdatedAt = sub.CreatedAt
	copy := *sub
	m.s.submissions[sub.ID] = &copy
	return nil
}

func (m memSubmissions) FindByID(_ context.Context, id string) (*models.Submission, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if sub, ok := m.s.submissions[id]; ok {
		copy := *sub
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m memSubmissions) matching(filter models.SubmissionFilter) []models.Submission {
	out := []models.Submission{}
	for _, sub := range m.s.submissions {
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

// List only honours createdAt ordering; that is all the routes under test request.
func (m memSubmissions) List(_ context.Context, filter models.SubmissionFilter) ([]models.Submission, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	items := m.matching(filter)
	sort.Slice(items, func(i, j int) bool {
		if filter.SortDesc {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
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

func (m memSubmissions) Count(_ context.Context, filter models.SubmissionFilter) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.matching(filter))), nil
}

func (m memSubmissions) UpdateStatus(_ context.Context, change models.StatusChange) (*models.Submission, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	sub, ok := m.s.submissions[change.ID]
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

func (m memSubmissions) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.submissions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.s.submissions, id)
	return nil
}

type memContents struct{ s *memStore }

func (m memContents) List(_ context.Context, contentType *models.ContentType) ([]models.Content, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []models.Content{}
	for _, c := range m.s.contents {
		if contentType != nil && c.Type != *contentType {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m memContents) FindByKey(_ context.Context, key string) (*models.Content, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if c, ok := m.s.contents[key]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m memContents) Upsert(_ context.Context, content *models.Content) (*models.Content, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored := *content
	if existing, ok := m.s.contents[content.Key]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = content.LastUpdated
	}
	stored.UpdatedAt = content.LastUpdated
	m.s.contents[content.Key] = &stored
	copy := stored
	return &copy, nil
}

type memLocations struct{ s *memStore }

func (m memLocations) List(context.Context) ([]models.Location, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []models.Location{}
	for _, loc := range m.s.locations {
		out = append(out, *loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memLocations) FindByID(_ context.Context, id string) (*models.Location, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if loc, ok := m.s.locations[id]; ok {
		copy := *loc
		return &copy, nil
	}
	return nil, repository.ErrNotFound
}

func (m memLocations) Upsert(_ context.Context, loc *models.Location) (*models.Location, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored := *loc
	now := time.Now().UTC()
	if existing, ok := m.s.locations[loc.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.s.locations[loc.ID] = &stored
	copy := stored
	return &copy, nil
}

func (m memLocations) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.locations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.s.locations, id)
	return nil
}
