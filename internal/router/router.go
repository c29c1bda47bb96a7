// Package router assembles the gin engine: global middleware, operational
// endpoints and the versioned API routes.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/centerkech-api/api/swagger"
	"github.com/noah-isme/centerkech-api/internal/handler"
	"github.com/noah-isme/centerkech-api/internal/middleware"
	"github.com/noah-isme/centerkech-api/internal/models"
	"github.com/noah-isme/centerkech-api/internal/service"
	"github.com/noah-isme/centerkech-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/centerkech-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/centerkech-api/pkg/middleware/requestid"
)

// Options controls which routes are mounted and how protected routes are gated.
type Options struct {
	APIPrefix       string
	CookieName      string
	StrictAdminRole bool
	AllowedOrigins  []string
	EnableMetrics   bool
	EnableDocs      bool
}

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth        *handler.AuthHandler
	Submissions *handler.SubmissionHandler
	Content     *handler.ContentHandler
	Admin       *handler.AdminHandler
	Health      *handler.HealthHandler
}

// New builds the engine.
func New(opts Options, h Handlers, verifier middleware.TokenVerifier, metrics *service.MetricsService, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api"
	}

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	if opts.EnableMetrics {
		r.GET("/metrics", h.Health.Prometheus)
	}
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authn := middleware.Authenticate(verifier, opts.CookieName, log)
	guard := []gin.HandlerFunc{authn}
	if opts.StrictAdminRole {
		guard = append(guard, middleware.RequireRoles(models.RoleAdmin))
	}
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(log, action, resource)
	}

	api := r.Group(opts.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.POST("/setup", audit("setup", "user"), h.Auth.Setup)
	auth.GET("/me", authn, h.Auth.Me)

	forms := api.Group("/forms")
	forms.POST("/submit", h.Submissions.Submit)
	protectedForms := forms.Group("", guard...)
	protectedForms.GET("", h.Submissions.List)
	protectedForms.GET("/export", h.Submissions.Export)
	protectedForms.GET("/:id", h.Submissions.Get)
	protectedForms.PATCH("/:id/status", audit("update_status", "submission"), h.Submissions.UpdateStatus)
	protectedForms.DELETE("/:id", audit("delete", "submission"), h.Submissions.Delete)

	content := api.Group("/content")
	content.GET("", h.Content.List)
	content.GET("/locations", h.Content.ListLocations)
	content.GET("/locations/:id", h.Content.GetLocation)
	content.GET("/:key", h.Content.Get)
	protectedContent := content.Group("", guard...)
	protectedContent.PUT("/locations/:id", audit("upsert", "location"), h.Content.UpsertLocation)
	protectedContent.DELETE("/locations/:id", audit("delete", "location"), h.Content.DeleteLocation)
	protectedContent.PUT("/:key", audit("upsert", "content"), h.Content.Upsert)

	admin := api.Group("/admin", guard...)
	admin.GET("/dashboard/stats", h.Admin.DashboardStats)
	admin.GET("/users", h.Admin.ListUsers)
	admin.POST("/users", audit("create", "user"), h.Admin.CreateUser)

	return r
}
