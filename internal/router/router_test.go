package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/handler"
	"github.com/noah-isme/centerkech-api/internal/models"
	"github.com/noah-isme/centerkech-api/internal/service"
	"github.com/noah-isme/centerkech-api/pkg/password"
)

type testApp struct {
	engine *gin.Engine
	store  *memStore
	tokens *service.TokenService
	hasher *password.Hasher
}

type testOptions struct {
	hardenedSetup bool
	strictAdmin   bool
}

func newTestApp(t *testing.T, opts testOptions) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	repos := store.repositories()
	hasher, err := password.New(password.AlgorithmBcrypt, 4)
	require.NoError(t, err)
	tokens := service.NewTokenService(service.TokenConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "centerkech-api"})
	metrics := service.NewMetricsService()
	validate := service.NewValidator()
	log := zap.NewNop()

	auth := service.NewAuthService(repos.Users, hasher, tokens, validate, log, metrics, service.AuthConfig{HardenedSetup: opts.hardenedSetup})
	users := service.NewUserService(repos.Users, auth, validate, log)
	submissions := service.NewSubmissionService(repos.Submissions, validate, log, metrics)
	exports := service.NewExportService(repos.Submissions, log)
	content := service.NewContentService(repos.Contents, validate, log)
	locations := service.NewLocationService(repos.Locations, validate, log)
	dashboard := service.NewDashboardService(repos.Users, repos.Submissions, log)

	engine := New(Options{
		APIPrefix:       "/api",
		CookieName:      "token",
		StrictAdminRole: opts.strictAdmin,
		EnableMetrics:   true,
	}, Handlers{
		Auth:        handler.NewAuthHandler(auth, handler.CookieConfig{Name: "token", MaxAge: tokens.TTL()}),
		Submissions: handler.NewSubmissionHandler(submissions, exports),
		Content:     handler.NewContentHandler(content, locations),
		Admin:       handler.NewAdminHandler(dashboard, users),
		Health:      handler.NewHealthHandler(repos, metrics),
	}, tokens, metrics, log)

	return &testApp{engine: engine, store: store, tokens: tokens, hasher: hasher}
}

func (a *testApp) seedUser(t *testing.T, email, pass string, role models.UserRole) models.User {
	t.Helper()
	digest, err := a.hasher.Hash(pass)
	require.NoError(t, err)
	user := models.User{Email: email, PasswordHash: digest, Name: "Seeded", Role: role, IsActive: true}
	require.NoError(t, memUsers{a.store}.Create(context.Background(), &user))
	return user
}

func (a *testApp) tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, _, err := a.tokens.Issue(user.ID, user.Role)
	require.NoError(t, err)
	return token
}

func (a *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	app := newTestApp(t, testOptions{})
	app.seedUser(t, "admin@centerkech.com", "admin123", models.RoleAdmin)

	unknown := app.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@centerkech.com", "password": "admin123"})
	wrong := app.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@centerkech.com", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.JSONEq(t, `{"success":false,"message":"Invalid credentials"}`, wrong.Body.String())
}

func TestLoginSetsCookieThatOpensMe(t *testing.T) {
	app := newTestApp(t, testOptions{})
	app.seedUser(t, "admin@centerkech.com", "admin123", models.RoleAdmin)

	rec := app.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "Admin@Centerkech.com", "password": "admin123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var session *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "token" {
			session = cookie
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, "/", session.Path)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: session.Value})
	me := httptest.NewRecorder()
	app.engine.ServeHTTP(me, req)

	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"email":"admin@centerkech.com"`)
	assert.NotContains(t, me.Body.String(), "password")
}

func TestProtectedRoutesRejectMissingAndBadTokens(t *testing.T) {
	app := newTestApp(t, testOptions{})

	rec := app.do(http.MethodGet, "/api/forms", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access denied. No token provided.", decode(t, rec).Message)

	rec = app.do(http.MethodGet, "/api/admin/users", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decode(t, rec).Message)
}

func TestSetupIsClosedOnceHardenedStoreHasUsers(t *testing.T) {
	app := newTestApp(t, testOptions{hardenedSetup: true})
	app.seedUser(t, "admin@centerkech.com", "admin123", models.RoleAdmin)

	rec := app.do(http.MethodPost, "/api/auth/setup", "", gin.H{"email": "second@centerkech.com", "password": "secret1", "name": "Second"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Setup already completed", decode(t, rec).Message)
	assert.Len(t, app.store.users, 1)
}

func TestSetupCreatesAdminOnEmptyStore(t *testing.T) {
	app := newTestApp(t, testOptions{hardenedSetup: true})

	rec := app.do(http.MethodPost, "/api/auth/setup", "", gin.H{"email": "first@centerkech.com", "password": "secret1", "name": "First"})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Admin user created successfully", decode(t, rec).Message)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestSubmissionPagination(t *testing.T) {
	app := newTestApp(t, testOptions{})
	token := app.tokenFor(t, app.seedUser(t, "admin@centerkech.com", "admin123", models.RoleAdmin))

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	subs := memSubmissions{app.store}
	for i := 0; i < 12; i++ {
		require.NoError(t, subs.Create(context.Background(), &models.Submission{
			Name:      "Pending " + string(rune('A'+i)),
			Email:     "p@example.com",
			Source:    models.SourceJoin,
			Status:    models.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, subs.Create(context.Background(), &models.Submission{Name: "Done", Status: models.StatusEnrolled, Source: models.SourceContact, CreatedAt: base}))

	rec := app.do(http.MethodGet, "/api/forms?status=pending&page=2&limit=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page struct {
		Submissions []models.Submission `json:"submissions"`
		Pagination  struct {
			Total int64 `json:"total"`
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Pages int   `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &page))
	require.Len(t, page.Submissions, 5)
	assert.Equal(t, int64(12), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.Pages)
	assert.Equal(t, 2, page.Pagination.Page)
	// newest first, so page two opens with the sixth newest
	assert.Equal(t, "Pending G", page.Submissions[0].Name)
	assert.Equal(t, "Pending C", page.Submissions[4].Name)
}

func TestSubmissionLifecycleKeepsFirstContact(t *testing.T) {
	app := newTestApp(t, testOptions{})
	admin := app.seedUser(t, "admin@centerkech.com", "admin123", models.RoleAdmin)
	token := app.tokenFor(t, admin)

	rec := app.do(http.MethodPost, "/api/forms/submit", "", gin.H{
		"name": "Sara", "email": "Sara@Example.com", "tel": "0600000000", "formation": "Anglais", "source": "join",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))

	rec = app.do(http.MethodPatch, "/api/forms/"+created.ID+"/status", token, gin.H{"status": "contacted"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := app.store.submissions[created.ID].ContactedAt
	require.NotNil(t, first)
	firstAt := *first

	rec = app.do(http.MethodPatch, "/api/forms/"+created.ID+"/status", token, gin.H{"status": "rejected", "notes": "no answer"})
	require.Equal(t, http.StatusOK, rec.Code)

	stored := app.store.submissions[created.ID]
	assert.Equal(t, models.StatusRejected, stored.Status)
	assert.Equal(t, firstAt, *stored.ContactedAt)
	require.NotNil(t, stored.HandledBy)
	assert.Equal(t, admin.ID, *stored.HandledBy)
	assert.Equal(t, "sara@example.com", stored.Email)

	rec = app.do(http.MethodPatch, "/api/forms/"+created.ID+"/status", token, gin.H{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status", decode(t, rec).Message)
}

func TestSubmissionExportStreamsCSV(t *testing.T) {
	app := newTestApp(t, testOptions{})
	token := app.tokenFor(t, app.seedUser(t, "admin@centerkech.com", "admin123", models.RoleAdmin))
	require.NoError(t, memSubmissions{app.store}.Create(context.Background(), &models.Submission{Name: "Yassine", Email: "y@example.com", Source: models.SourceContact, Status: models.StatusPending}))

	rec := app.do(http.MethodGet, "/api/forms/export?format=csv", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=")
	assert.Contains(t, rec.Body.String(), "Yassine")
}

func TestLocationUpsertRejectsBadCoordinates(t *testing.T) {
	app := newTestApp(t, testOptions{})
	token := app.tokenFor(t, app.seedUser(t, "admin@centerkech.com", "admin123", models.RoleAdmin))

	rec := app.do(http.MethodPut, "/api/content/locations/centre-1", token, gin.H{
		"name": "Gueliz", "address": "Av. Mohammed V", "coordinates": []float64{31.63, -8.01, 2},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, app.store.locations)

	rec = app.do(http.MethodPut, "/api/content/locations/centre-1", token, gin.H{
		"name": "Gueliz", "address": "Av. Mohammed V", "coordinates": []float64{31.63, -8.01},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.do(http.MethodGet, "/api/content/locations/centre-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"specialties":[]`)

	rec = app.do(http.MethodDelete, "/api/content/locations/centre-1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = app.do(http.MethodGet, "/api/content/locations/centre-1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContentUpsertTwiceKeepsOneRecord(t *testing.T) {
	app := newTestApp(t, testOptions{})
	token := app.tokenFor(t, app.seedUser(t, "admin@centerkech.com", "admin123", models.RoleAdmin))

	rec := app.do(http.MethodPut, "/api/content/hero", token, gin.H{"type": "hero", "data": gin.H{"title": "v1"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.do(http.MethodPut, "/api/content/hero", token, gin.H{"type": "hero", "data": gin.H{"title": "v2"}})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Len(t, app.store.contents, 1)

	rec = app.do(http.MethodGet, "/api/content?type=hero", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hero":{"title":"v2"}}`, string(decode(t, rec).Data))

	rec = app.do(http.MethodPut, "/api/content/hero", "", gin.H{"type": "hero", "data": gin.H{}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStrictAdminRoleGatesEverythingButMe(t *testing.T) {
	app := newTestApp(t, testOptions{strictAdmin: true})
	token := app.tokenFor(t, app.seedUser(t, "teacher@centerkech.com", "secret1", models.RoleTeacher))

	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/admin/users", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/forms", token, nil).Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/auth/me", token, nil).Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/content", "", nil).Code)
}

func TestAdminCreatesUsersAndSeesStats(t *testing.T) {
	app := newTestApp(t, testOptions{})
	token := app.tokenFor(t, app.seedUser(t, "admin@centerkech.com", "admin123", models.RoleAdmin))

	rec := app.do(http.MethodPost, "/api/admin/users", token, gin.H{"email": "prof@centerkech.com", "password": "secret1", "name": "Prof", "role": "teacher"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "User created successfully", decode(t, rec).Message)

	rec = app.do(http.MethodPost, "/api/admin/users", token, gin.H{"email": "prof@centerkech.com", "password": "secret1", "name": "Prof", "role": "teacher"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User with this email already exists", decode(t, rec).Message)

	rec = app.do(http.MethodGet, "/api/admin/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recentSubmissions":[]`)
}

func TestOperationalEndpoints(t *testing.T) {
	app := newTestApp(t, testOptions{})

	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/ready", "", nil).Code)

	app.do(http.MethodGet, "/api/content", "", nil)
	rec := app.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
