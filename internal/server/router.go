package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "github.com/pdmlab/catalog-backend/internal/handlers"
  "github.com/pdmlab/catalog-backend/internal/middleware"
)

type RouterConfig struct {
  Mode                  string
  AllowOrigins          []string
  AuthHandler           *handlers.AuthHandler
  ProductHandler        *handlers.ProductHandler
  SeriesHandler         *handlers.SeriesHandler
  FieldHandler          *handlers.FieldHandler
  ArchiveHandler        *handlers.ArchiveHandler
  ImageHandler          *handlers.ImageHandler
  LogHandler            *handlers.LogHandler
  AuthMiddleware        *middleware.AuthMiddleware
  ActivityLogMiddleware *middleware.ActivityLogMiddleware
  RateLimitMiddleware   *middleware.RateLimitMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  if cfg.Mode == "release" {
    gin.SetMode(gin.ReleaseMode)
  }
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins:     cfg.AllowOrigins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  // ===============
  // || Public    ||
  // ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.POST("/login", cfg.RateLimitMiddleware.Limit(), cfg.AuthHandler.Login)
  router.POST("/refresh", cfg.AuthMiddleware.RequireAuth(true), cfg.AuthHandler.Refresh)
  // images are served raw so <img> tags can reference them without headers
  router.GET("/image/:id", cfg.ImageHandler.Read)

  // ===============
  // || Protected ||
  // ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth(false))
  protected.Use(cfg.ActivityLogMiddleware.Record())
  // Auth
  protected.POST("/logout", cfg.AuthHandler.Logout)
  // Product
  protected.POST("/product/search", cfg.ProductHandler.Search)
  protected.POST("/product/export", cfg.ProductHandler.Export)
  protected.POST("/product", cfg.ProductHandler.Create)
  protected.POST("/product/copy", cfg.ProductHandler.Copy)
  protected.PATCH("/product/edit", cfg.ProductHandler.Edit)
  protected.DELETE("/product/delete", cfg.ProductHandler.Delete)
  protected.GET("/product/:id", cfg.ProductHandler.Read)
  // Series
  protected.POST("/series", cfg.SeriesHandler.Create)
  protected.GET("/series", cfg.SeriesHandler.List)
  protected.GET("/series/:id", cfg.SeriesHandler.Read)
  protected.PATCH("/series/:id", cfg.SeriesHandler.Update)
  protected.DELETE("/series/:id", cfg.SeriesHandler.Delete)
  // Field
  protected.PATCH("/field/:id", cfg.FieldHandler.Patch)
  protected.DELETE("/field/:id", cfg.FieldHandler.Delete)
  // Archive
  protected.POST("/archive", cfg.ArchiveHandler.Create)
  protected.DELETE("/archive/:id", cfg.ArchiveHandler.Delete)
  // Image
  protected.POST("/image", cfg.ImageHandler.Create)
  // Activity log
  protected.GET("/log", cfg.LogHandler.List)

  return router
}
