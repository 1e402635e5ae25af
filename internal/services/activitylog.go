package services

import (
  "context"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/repos"
  "github.com/pdmlab/catalog-backend/internal/requestdata"
  "github.com/pdmlab/catalog-backend/internal/types"
)

const PermLogRead = "log.read"

type ActivityLogService interface {
  Record(ctx context.Context, url, method string, userID *int, payload datatypes.JSON) error
  List(ctx context.Context, page, limit int) ([]*types.ActivityLog, error)
}

type activityLogService struct {
  db      *gorm.DB
  log     *logger.Logger
  logRepo repos.ActivityLogRepo
}

func NewActivityLogService(db *gorm.DB, baseLog *logger.Logger, logRepo repos.ActivityLogRepo) ActivityLogService {
  serviceLog := baseLog.With("service", "ActivityLogService")
  return &activityLogService{db: db, log: serviceLog, logRepo: logRepo}
}

// Record writes one audit row. Failures are logged but never propagated to
// the request that triggered them.
func (als *activityLogService) Record(ctx context.Context, url, method string, userID *int, payload datatypes.JSON) error {
  err := als.logRepo.Create(ctx, nil, &types.ActivityLog{
    URL:     url,
    Method:  method,
    UserID:  userID,
    Payload: payload,
  })
  if err != nil {
    als.log.Warn("failed to record activity", "url", url, "method", method, "error", err)
  }
  return nil
}

func (als *activityLogService) List(ctx context.Context, page, limit int) ([]*types.ActivityLog, error) {
  if err := requestdata.Require(ctx, PermLogRead); err != nil {
    return nil, err
  }
  if page < 1 {
    page = 1
  }
  if limit <= 0 {
    limit = 10
  }
  rows, err := als.logRepo.List(ctx, nil, page, limit)
  if err != nil {
    return nil, apierr.Wrap(err)
  }
  return rows, nil
}
