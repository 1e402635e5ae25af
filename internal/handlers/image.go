package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/pdmlab/catalog-backend/internal/apierr"
  "github.com/pdmlab/catalog-backend/internal/fieldtype"
  "github.com/pdmlab/catalog-backend/internal/requestdata"
  "github.com/pdmlab/catalog-backend/internal/services"
)

type ImageHandler struct {
  imageService services.ImageService
}

func NewImageHandler(imageService services.ImageService) *ImageHandler {
  return &ImageHandler{imageService: imageService}
}

type createImageRequest struct {
  Data string `json:"data"`
}

// Create stores a standalone base64 image and answers with its id.
func (ih *ImageHandler) Create(c *gin.Context) {
  if err := requestdata.Require(c.Request.Context(), services.PermProductCreate); err != nil {
    RespondError(c, err)
    return
  }
  var req createImageRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, apierr.Validation("Invalid request body"))
    return
  }
  payload, err := fieldtype.DecodePicture("image", req.Data)
  if err != nil {
    RespondError(c, err)
    return
  }
  image, err := ih.imageService.Save(c.Request.Context(), nil, payload)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, gin.H{"id": image.ID})
}

// Read streams the stored image bytes. Unlike the JSON endpoints this one
// answers with the raw file so <img> tags can point straight at it.
func (ih *ImageHandler) Read(c *gin.Context) {
  imageID, err := strconv.Atoi(c.Param("id"))
  if err != nil {
    RespondError(c, apierr.Validation("Image ID is required"))
    return
  }
  data, contentType, err := ih.imageService.Load(c.Request.Context(), imageID)
  if err != nil {
    RespondError(c, err)
    return
  }
  c.Data(http.StatusOK, contentType, data)
}
