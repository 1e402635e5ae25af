package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/pdmlab/catalog-backend/internal/apierr"
)

// Envelope is the shape every JSON endpoint answers with.
type Envelope struct {
  Code       int         `json:"code"`
  Msg        string      `json:"msg"`
  Data       interface{} `json:"data"`
  TotalCount *int64      `json:"totalCount,omitempty"`
}

func RespondOK(c *gin.Context, data interface{}) {
  c.JSON(http.StatusOK, Envelope{Code: http.StatusOK, Msg: "Success", Data: data})
}

func RespondCreated(c *gin.Context, data interface{}) {
  c.JSON(http.StatusCreated, Envelope{Code: http.StatusCreated, Msg: "Success", Data: data})
}

func RespondList(c *gin.Context, data interface{}, totalCount int64) {
  c.JSON(http.StatusOK, Envelope{Code: http.StatusOK, Msg: "Success", Data: data, TotalCount: &totalCount})
}

func RespondError(c *gin.Context, err error) {
  status := apierr.StatusOf(err)
  msg := "unknown error"
  var apiError *apierr.Error
  if errors.As(err, &apiError) {
    msg = apiError.Err.Error()
  } else if err != nil {
    msg = err.Error()
  }
  c.JSON(status, Envelope{Code: status, Msg: msg})
}
