package handlers

import (
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/services"
)

type ArchiveHandler struct {
  archiveService services.ArchiveService
}

func NewArchiveHandler(archiveService services.ArchiveService) *ArchiveHandler {
  return &ArchiveHandler{archiveService: archiveService}
}

func (ah *ArchiveHandler) Create(c *gin.Context) {
  var req itemIDsRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("Invalid request body"))
    return
  }
  if err := ah.archiveService.Create(c.Request.Context(), req.ItemIDs); err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, nil)
}

func (ah *ArchiveHandler) Delete(c *gin.Context) {
  itemID, err := strconv.Atoi(c.Param("id"))
  if err != nil {
    RespondError(c, apierr.Validation("Item ID is required"))
    return
  }
  if err := ah.archiveService.Delete(c.Request.Context(), []int{itemID}); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, nil)
}
