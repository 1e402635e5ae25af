package handlers

import (
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/services"
)

type FieldHandler struct {
  fieldService services.FieldService
}

func NewFieldHandler(fieldService services.FieldService) *FieldHandler {
  return &FieldHandler{fieldService: fieldService}
}

func (fh *FieldHandler) Patch(c *gin.Context) {
  fieldID, err := strconv.Atoi(c.Param("id"))
  if err != nil {
    RespondError(c, apierr.Validation("Field ID is required"))
    return
  }
  var req services.PatchFieldInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("Invalid request body"))
    return
  }
  if err := fh.fieldService.Patch(c.Request.Context(), fieldID, req); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, nil)
}

func (fh *FieldHandler) Delete(c *gin.Context) {
  fieldID, err := strconv.Atoi(c.Param("id"))
  if err != nil {
    RespondError(c, apierr.Validation("Field ID is required"))
    return
  }
  if err := fh.fieldService.Delete(c.Request.Context(), fieldID); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, nil)
}
