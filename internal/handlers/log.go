package handlers

import (
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/pdmlab/catalog-backend/internal/services"
)

type LogHandler struct {
  activityLogService services.ActivityLogService
}

func NewLogHandler(activityLogService services.ActivityLogService) *LogHandler {
  return &LogHandler{activityLogService: activityLogService}
}

func (lh *LogHandler) List(c *gin.Context) {
  page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
  rows, err := lh.activityLogService.List(c.Request.Context(), page, limit)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, rows)
}
