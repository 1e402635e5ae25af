package db

import (
  "fmt"
  "sync/atomic"
  "gorm.io/driver/postgres"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  glogger "gorm.io/gorm/logger"
  "github.com/pdmlab/catalog-backend/internal/types"
  "github.com/pdmlab/catalog-backend/internal/utils"
  "github.com/pdmlab/catalog-backend/internal/logger"
)

type DatabaseService struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDatabaseService(log *logger.Logger) (*DatabaseService, error) {
  serviceLog := log.With("service", "DatabaseService")

  driver := utils.GetEnv("DB_DRIVER", "postgres", log)

  var dialector gorm.Dialector
  switch driver {
  case "sqlite":
    dsn := utils.GetEnv("SQLITE_PATH", "file::memory:?cache=shared", log)
    dialector = sqlite.Open(dsn)
  default:
    host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
    port := utils.GetEnv("POSTGRES_PORT", "5432", log)
    user := utils.GetEnv("POSTGRES_USER", "postgres", log)
    password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
    name := utils.GetEnv("POSTGRES_NAME", "catalog", log)
    dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
    dialector = postgres.Open(dsn)
  }

  log.Info("Connecting to database...", "driver", driver)
  gdb, err := gorm.Open(dialector, &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
    Logger: glogger.Default.LogMode(glogger.Silent),
  })
  if err != nil {
    serviceLog.Error("Failed to connect to database", "error", err)
    return nil, fmt.Errorf("Failed to connect to database: %w", err)
  }

  return &DatabaseService{db: gdb, log: serviceLog}, nil
}

var testDBSeq int64

// OpenTest opens an isolated in-memory sqlite database with the full schema.
// Used by package tests across the repo. Each call gets its own named
// shared-cache database so the sql connection pool sees one store.
func OpenTest() (*gorm.DB, error) {
  n := atomic.AddInt64(&testDBSeq, 1)
  dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
  gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
    Logger: glogger.Default.LogMode(glogger.Silent),
  })
  if err != nil {
    return nil, err
  }
  svc := &DatabaseService{db: gdb, log: logger.NewNop()}
  if err := svc.AutoMigrateAll(); err != nil {
    return nil, err
  }
  return gdb, nil
}

func (s *DatabaseService) AutoMigrateAll() error {
  s.log.Info("Auto migrating tables...")
  err := s.db.AutoMigrate(
    &types.User{},
    &types.Role{},
    &types.Permission{},
    &types.Series{},
    &types.Field{},
    &types.Item{},
    &types.ItemAttribute{},
    &types.Image{},
    &types.Archive{},
    &types.ActivityLog{},
  )
  if err != nil {
    s.log.Error("Auto migration failed", "error", err)
    return err
  }
  return nil
}

func (s *DatabaseService) DB() *gorm.DB {
  return s.db
}
