package middleware

import (
  "bytes"
  "encoding/json"
  "io"
  "github.com/gin-gonic/gin"
  "gorm.io/datatypes"
  "github.com/pdmlab/catalog-backend/internal/logger"
  "github.com/pdmlab/catalog-backend/internal/requestdata"
  "github.com/pdmlab/catalog-backend/internal/services"
)

// paths whose bodies must never be persisted
var unloggedPaths = map[string]bool{
  "/login":       true,
  "/refresh":     true,
  "/healthcheck": true,
}

type ActivityLogMiddleware struct {
  log                *logger.Logger
  activityLogService services.ActivityLogService
}

func NewActivityLogMiddleware(log *logger.Logger, activityLogService services.ActivityLogService) *ActivityLogMiddleware {
  middlewareLogger := log.With("middleware", "ActivityLogMiddleware")
  return &ActivityLogMiddleware{log: middlewareLogger, activityLogService: activityLogService}
}

// Record persists one audit row per mutating request after the handler runs.
func (alm *ActivityLogMiddleware) Record() gin.HandlerFunc {
  return func(c *gin.Context) {
    path := c.Request.URL.Path
    method := c.Request.Method

    var body []byte
    if method != "GET" && !unloggedPaths[path] && c.Request.Body != nil {
      body, _ = io.ReadAll(c.Request.Body)
      c.Request.Body = io.NopCloser(bytes.NewReader(body))
    }

    c.Next()

    if method == "GET" || unloggedPaths[path] {
      return
    }

    var payload datatypes.JSON
    if json.Valid(body) {
      payload = datatypes.JSON(body)
    }

    var userID *int
    if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != 0 {
      id := rd.UserID
      userID = &id
    }

    _ = alm.activityLogService.Record(c.Request.Context(), path, method, userID, payload)
  }
}
