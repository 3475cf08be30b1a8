package handler

import (
	"net/http"

	"github.com/dafibh/addressbook/addressbook-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// ImageHandler serves stored contact images
type ImageHandler struct {
	imageService *service.ImageService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// GetImage godoc
// @Summary Get a contact image
// @Description Streams a stored image. Append _thumb before the extension for the thumbnail.
// @Tags images
// @Produce jpeg
// @Param name path string true "Image name as stored in the contact"
// @Success 200 {file} binary
// @Failure 500 {object} ErrorResponse
// @Router /images/{name} [get]
func (h *ImageHandler) GetImage(c echo.Context) error {
	name := c.Param("name")

	rc, err := h.imageService.Open(c.Request().Context(), name)
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, service.GetContentType(name), rc)
}
