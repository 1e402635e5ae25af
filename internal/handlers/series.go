package handlers

import (
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/services"
)

type SeriesHandler struct {
  seriesService services.SeriesService
}

func NewSeriesHandler(seriesService services.SeriesService) *SeriesHandler {
  return &SeriesHandler{seriesService: seriesService}
}

func (sh *SeriesHandler) Create(c *gin.Context) {
  var req services.CreateSeriesInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("Invalid request body"))
    return
  }
  created, err := sh.seriesService.Create(c.Request.Context(), req)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, created)
}

func (sh *SeriesHandler) Read(c *gin.Context) {
  seriesID, err := strconv.Atoi(c.Param("id"))
  if err != nil {
    RespondError(c, apierr.Validation("Series ID is required"))
    return
  }
  series, err := sh.seriesService.Read(c.Request.Context(), seriesID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, series)
}

func (sh *SeriesHandler) List(c *gin.Context) {
  page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
  limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
  rows, err := sh.seriesService.List(c.Request.Context(), c.Query("keyword"), page, limit)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, rows)
}

type updateSeriesRequest struct {
  Name string `json:"name"`
}

func (sh *SeriesHandler) Update(c *gin.Context) {
  seriesID, err := strconv.Atoi(c.Param("id"))
  if err != nil {
    RespondError(c, apierr.Validation("Series ID is required"))
    return
  }
  var req updateSeriesRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("Invalid request body"))
    return
  }
  if err := sh.seriesService.Update(c.Request.Context(), seriesID, req.Name); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, nil)
}

func (sh *SeriesHandler) Delete(c *gin.Context) {
  seriesID, err := strconv.Atoi(c.Param("id"))
  if err != nil {
    RespondError(c, apierr.Validation("Series ID is required"))
    return
  }
  if err := sh.seriesService.Delete(c.Request.Context(), seriesID); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, nil)
}
