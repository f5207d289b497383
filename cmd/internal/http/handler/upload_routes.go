package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"coursenotes/cmd/internal/contract"
	"coursenotes/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UploadService interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader) (*contract.UploadResponse, apierror.ErrorResponse)
	Open(ctx context.Context, name string) ([]byte, string, apierror.ErrorResponse)
}

type DefaultUploadRoute struct {
	UploadService UploadService
}

func NewUploadDefault(uploadService UploadService) *DefaultUploadRoute {
	return &DefaultUploadRoute{UploadService: uploadService}
}

// Upload expects the file in the "file" multipart field.
func (u *DefaultUploadRoute) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MissingFileError)
	}

	resp, apierr := u.UploadService.Upload(c.Request().Context(), fileHeader)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUploadRoute) ServeFile(c echo.Context) error {
	data, contentType, apierr := u.UploadService.Open(c.Request().Context(), c.Param("name"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	c.Response().Header().Set("X-Content-Type-Options", "nosniff")
	return c.Blob(http.StatusOK, contentType, data)
}
