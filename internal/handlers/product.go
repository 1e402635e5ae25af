package handlers

import (
  "fmt"
  "net/http"
  "strconv"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/services"
)

type ProductHandler struct {
  productService services.ProductService
}

func NewProductHandler(productService services.ProductService) *ProductHandler {
  return &ProductHandler{productService: productService}
}

type searchRequest struct {
  SeriesID   int                     `json:"seriesId"`
  Filters    []services.FilterInput  `json:"filters"`
  IsDeleted  bool                    `json:"isDeleted"`
  IsArchived *bool                   `json:"isArchived"`
  OrderBy    *struct {
    FieldID int    `json:"fieldId"`
    Order   string `json:"order"`
  } `json:"orderBy"`
}

func (sr *searchRequest) toInput(c *gin.Context) services.SearchInput {
  input := services.SearchInput{
    SeriesID:   sr.SeriesID,
    Filters:    sr.Filters,
    IsDeleted:  sr.IsDeleted,
    IsArchived: sr.IsArchived,
  }
  if sr.OrderBy != nil {
    input.Sort = &services.SortInput{
      FieldID: sr.OrderBy.FieldID,
      Desc:    sr.OrderBy.Order == "desc",
    }
  } else if sort := c.Query("sort"); sort != "" {
    // ?sort=fieldId,asc|desc
    parts := strings.SplitN(sort, ",", 2)
    if fieldID, err := strconv.Atoi(parts[0]); err == nil {
      input.Sort = &services.SortInput{
        FieldID: fieldID,
        Desc:    len(parts) == 2 && parts[1] == "desc",
      }
    }
  }
  input.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
  input.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
  return input
}

func (ph *ProductHandler) Search(c *gin.Context) {
  var req searchRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("Invalid request body"))
    return
  }
  result, err := ph.productService.Search(c.Request.Context(), req.toInput(c))
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondList(c, result.Data, result.TotalCount)
}

func (ph *ProductHandler) Read(c *gin.Context) {
  itemID, err := strconv.Atoi(c.Param("id"))
  if err != nil {
    RespondError(c, apierr.Validation("Product ID is required"))
    return
  }
  record, err := ph.productService.Read(c.Request.Context(), itemID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, record)
}

func (ph *ProductHandler) Create(c *gin.Context) {
  var req []services.CreateItemInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("Invalid request body"))
    return
  }
  created, err := ph.productService.Create(c.Request.Context(), req)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, created)
}

type itemIDsRequest struct {
  ItemIDs []int `json:"itemIds"`
}

func (ph *ProductHandler) Copy(c *gin.Context) {
  var req itemIDsRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("Invalid request body"))
    return
  }
  created, err := ph.productService.Copy(c.Request.Context(), req.ItemIDs)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, created)
}

func (ph *ProductHandler) Edit(c *gin.Context) {
  var req []services.EditItemInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("Invalid request body"))
    return
  }
  if err := ph.productService.UpdateMulti(c.Request.Context(), req); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, nil)
}

func (ph *ProductHandler) Delete(c *gin.Context) {
  var req itemIDsRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("Invalid request body"))
    return
  }
  if err := ph.productService.Delete(c.Request.Context(), req.ItemIDs); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, nil)
}

func (ph *ProductHandler) Export(c *gin.Context) {
  var req searchRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("Invalid request body"))
    return
  }
  result, err := ph.productService.Export(c.Request.Context(), req.toInput(c))
  if err != nil {
    RespondError(c, err)
    return
  }
  c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
  c.Data(http.StatusOK, "text/csv", result.Content)
}
