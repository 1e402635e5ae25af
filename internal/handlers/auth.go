package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/services"
)

type AuthHandler struct {
  authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
  return &AuthHandler{authService: authService}
}

type loginRequest struct {
  Username string `json:"username"`
  Password string `json:"password"`
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req loginRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("Invalid request body"))
    return
  }
  pair, err := ah.authService.Login(c.Request.Context(), req.Username, req.Password)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, pair)
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
  pair, err := ah.authService.Refresh(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, pair)
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  if err := ah.authService.Logout(c.Request.Context()); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, nil)
}
