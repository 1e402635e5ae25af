package main

import (
  "fmt"
  "os"
  "strings"
  "time"
  "github.com/redis/go-redis/v9"
  "github.com/pdmlab/catalog-backend/internal/db"
  "github.com/pdmlab/catalog-backend/internal/erp"
  "github.com/pdmlab/catalog-backend/internal/handlers"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/middleware"
  "github.com/pdmlab/catalog-backend/internal/repos"
  "github.com/pdmlab/catalog-backend/internal/server"
  "github.com/pdmlab/catalog-backend/internal/services"
  "github.com/pdmlab/catalog-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  imageDir := utils.GetEnv("IMAGE_DIR", "./images", log)
  erpDSN := utils.GetEnv("ERP_MSSQL_DSN", "", log)
  redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
  allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log)
  loginRateLimit := utils.GetEnvAsInt("LOGIN_RATE_LIMIT", 5, log)

  // Database
  databaseService, err := db.NewDatabaseService(log)
  if err != nil {
    log.Error("Database init failed", "error", err)
    os.Exit(1)
  }
  if err = databaseService.AutoMigrateAll(); err != nil {
    log.Error("Auto migration failed", "error", err)
    os.Exit(1)
  }
  theDB := databaseService.DB()

  // Redis (optional, login rate limiting only)
  var redisClient *redis.Client
  if redisAddr != "" {
    redisClient = redis.NewClient(&redis.Options{Addr: redisAddr})
  }

  // ERP
  erpClient, err := erp.NewClient(erpDSN, log)
  if err != nil {
    log.Warn("ERP init failed, lookups will degrade", "error", err)
    erpClient, _ = erp.NewClient("", log)
  }

  // Repos
  log.Info("Setting up repos...")
  seriesRepo := repos.NewSeriesRepo(theDB, log)
  fieldRepo := repos.NewFieldRepo(theDB, log)
  itemRepo := repos.NewItemRepo(theDB, log)
  itemAttributeRepo := repos.NewItemAttributeRepo(theDB, log)
  archiveRepo := repos.NewArchiveRepo(theDB, log)
  imageRepo := repos.NewImageRepo(theDB, log)
  userRepo := repos.NewUserRepo(theDB, log)
  activityLogRepo := repos.NewActivityLogRepo(theDB, log)

  // Services
  log.Info("Setting up services...")
  imageService, err := services.NewImageService(theDB, log, imageRepo, imageDir)
  if err != nil {
    log.Error("Could not init ImageService", "error", err)
    os.Exit(1)
  }
  authService := services.NewAuthService(theDB, log, userRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  productService := services.NewProductService(theDB, log, seriesRepo, fieldRepo, itemRepo, itemAttributeRepo, archiveRepo, imageService, erpClient)
  seriesService := services.NewSeriesService(theDB, log, seriesRepo, fieldRepo)
  fieldService := services.NewFieldService(theDB, log, fieldRepo, itemAttributeRepo, imageService)
  archiveService := services.NewArchiveService(theDB, log, itemRepo, archiveRepo)
  activityLogService := services.NewActivityLogService(theDB, log, activityLogRepo)

  // Handlers
  log.Info("Setting up handlers...")
  authHandler := handlers.NewAuthHandler(authService)
  productHandler := handlers.NewProductHandler(productService)
  seriesHandler := handlers.NewSeriesHandler(seriesService)
  fieldHandler := handlers.NewFieldHandler(fieldService)
  archiveHandler := handlers.NewArchiveHandler(archiveService)
  imageHandler := handlers.NewImageHandler(imageService)
  logHandler := handlers.NewLogHandler(activityLogService)

  // Middleware
  log.Info("Setting up middleware...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)
  activityLogMiddleware := middleware.NewActivityLogMiddleware(log, activityLogService)
  rateLimitMiddleware := middleware.NewRateLimitMiddleware(log, redisClient, time.Minute, int64(loginRateLimit))

  // Router
  log.Info("Setting up router...")
  router := server.NewRouter(server.RouterConfig{
    Mode:                  logMode,
    AllowOrigins:          strings.Split(allowOrigins, ","),
    AuthHandler:           authHandler,
    ProductHandler:        productHandler,
    SeriesHandler:         seriesHandler,
    FieldHandler:          fieldHandler,
    ArchiveHandler:        archiveHandler,
    ImageHandler:          imageHandler,
    LogHandler:            logHandler,
    AuthMiddleware:        authMiddleware,
    ActivityLogMiddleware: activityLogMiddleware,
    RateLimitMiddleware:   rateLimitMiddleware,
  })

  port := utils.GetEnv("PORT", "8080", log)
  log.Info("Server listening", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
