package app

import (
	"context"
	"net/http"
	"time"

	"todolist/internal/auth"
	"todolist/internal/cache"
	"todolist/internal/config"
	"todolist/internal/handlers"
	"todolist/internal/logger"
	"todolist/internal/metrics"
	"todolist/internal/repo"
	"todolist/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
	"gorm.io/gorm"
)

// Deps are the shared resources routes are built from. Redis and Metrics may be nil.
type Deps struct {
	Config  config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Log     zerolog.Logger
	Metrics *metrics.Metrics
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, d Deps) {
	r.GET("/", rootHandler())
	r.GET("/health", healthHandler(d))
	r.GET("/version", versionHandler(d.Config))
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	tokens := auth.NewTokenService(d.Config.Auth.JWTSecret)
	userRepo := repo.NewGormUserRepo(d.DB)
	userSvc := service.NewUserService(userRepo, auth.NewPasswordHasher(d.Config.Auth.SaltRounds))
	authHandler := handlers.NewAuthHandler(tokens, userSvc)
	registerAuthRoutes(api, authHandler)

	var todoCache *cache.TodoCache
	if d.Redis != nil {
		todoCache = cache.NewTodoCache(d.Redis, d.Config.Redis.DefaultTTL.Duration())
	}
	protected := api.Group("", auth.RequireToken(tokens))
	todoRepo := repo.NewGormTodoRepo(d.DB)
	todoSvc := service.NewTodoService(todoRepo, todoCache, d.Log.With().Str("component", "todos").Logger())
	todoHandler := handlers.NewTodoHandler(todoSvc)
	registerTodoRoutes(protected, todoHandler)
}

func rootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "TodoList API running."})
	}
}

func healthHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			logger.FromContext(c).Warn().Err(err).Msg("health: db ping failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "env": d.Config.App.Env})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": d.Config.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error."})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.POST("/todos", h.Create)
	api.GET("/todos", h.List)
	api.GET("/todos/:id", h.GetByID)
	api.PUT("/todos/:id", h.Update)
	api.DELETE("/todos/:id", h.Delete)
	api.POST("/todos/:id/restore", h.Restore)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
}
