package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"medmaint/internal/handler"
	"medmaint/pkg/rbac"
)

type Router struct {
	Engine *gin.Engine
}

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Asset        *handler.AssetHandler
	Plan         *handler.PlanHandler
	WorkOrder    *handler.WorkOrderHandler
	Part         *handler.PartHandler
	Location     *handler.LocationHandler
	User         *handler.UserHandler
	Notification *handler.NotificationHandler
	Activity     *handler.ActivityHandler
	Dashboard    *handler.DashboardHandler
	Admin        *handler.AdminHandler
}

func NewRouter(h Handlers, jwtSecret string, db *pgxpool.Pool, logger *zap.Logger) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceMiddleware())
	r.Use(LoggingMiddleware(logger))

	// Health endpoints stay in front of auth.
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/health", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", h.Auth.Register)
	r.POST("/login", h.Auth.Login)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/assets", h.Asset.List)
		auth.GET("/assets/:id", h.Asset.Get)
		auth.POST("/assets", RequirePermission(rbac.PermissionCreateAsset), h.Asset.Create)
		auth.PUT("/assets/:id", RequirePermission(rbac.PermissionUpdateAsset), h.Asset.Update)
		auth.DELETE("/assets/:id", RequirePermission(rbac.PermissionDeleteAsset), h.Asset.Delete)

		auth.GET("/plans", h.Plan.List)
		auth.GET("/plans/:id", h.Plan.Get)
		auth.POST("/plans", RequirePermission(rbac.PermissionCreatePlan), h.Plan.Create)
		auth.PUT("/plans/:id", RequirePermission(rbac.PermissionUpdatePlan), h.Plan.Update)
		auth.DELETE("/plans/:id", RequirePermission(rbac.PermissionDeletePlan), h.Plan.Delete)

		auth.GET("/workorders", h.WorkOrder.List)
		auth.GET("/workorders/:id", h.WorkOrder.Get)
		auth.POST("/workorders", RequirePermission(rbac.PermissionCreateWorkOrder), h.WorkOrder.Create)
		auth.PUT("/workorders/:id", RequirePermission(rbac.PermissionUpdateWorkOrder), h.WorkOrder.Update)
		auth.DELETE("/workorders/:id", RequirePermission(rbac.PermissionDeleteWorkOrder), h.WorkOrder.Delete)

		auth.GET("/parts", h.Part.List)
		auth.GET("/parts/:id", h.Part.Get)
		auth.POST("/parts", RequirePermission(rbac.PermissionCreatePart), h.Part.Create)
		auth.PUT("/parts/:id", RequirePermission(rbac.PermissionUpdatePart), h.Part.Update)
		auth.DELETE("/parts/:id", RequirePermission(rbac.PermissionDeletePart), h.Part.Delete)

		auth.GET("/locations", h.Location.List)
		auth.POST("/locations", RequirePermission(rbac.PermissionCreateLocation), h.Location.Create)
		auth.PUT("/locations/:id", RequirePermission(rbac.PermissionUpdateLocation), h.Location.Update)
		auth.DELETE("/locations/:id", RequirePermission(rbac.PermissionDeleteLocation), h.Location.Delete)

		auth.GET("/users", RequirePermission(rbac.PermissionManageUsers), h.User.List)
		auth.PUT("/users/:id", RequirePermission(rbac.PermissionManageUsers), h.User.Update)
		auth.DELETE("/users/:id", RequirePermission(rbac.PermissionManageUsers), h.User.Delete)

		auth.GET("/notifications", h.Notification.List)
		auth.POST("/notifications/:id/read", h.Notification.MarkRead)
		auth.POST("/notifications/read-all", h.Notification.MarkAllRead)

		auth.GET("/activity", h.Activity.List)
		auth.GET("/dashboard", h.Dashboard.Summary)

		auth.POST("/admin/outbox/replay", RequirePermission(rbac.PermissionReplayOutbox), h.Admin.ReplayOutboxEvent)
		auth.POST("/admin/outbox/replay-failed", RequirePermission(rbac.PermissionReplayOutbox), h.Admin.ReplayFailedEvents)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
