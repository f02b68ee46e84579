package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/Tzla1/medsearch-sub000/internal/adapter/api/middleware"
	"github.com/Tzla1/medsearch-sub000/internal/infrastructure/storage"
	"github.com/Tzla1/medsearch-sub000/internal/usecase"
	"github.com/Tzla1/medsearch-sub000/pkg/errors"
	"github.com/Tzla1/medsearch-sub000/pkg/logger"
	"github.com/Tzla1/medsearch-sub000/pkg/response"
)

// maxUploadSize bounds uploads at 5 MB.
const maxUploadSize = 5 << 20

type FileHandler struct {
	storageClient *storage.CloudStorageClient
	doctorUseCase *usecase.DoctorUseCase
}

var fileHandler *FileHandler

func NewFileHandler(storageClient *storage.CloudStorageClient, doctorUseCase *usecase.DoctorUseCase) *FileHandler {
	return &FileHandler{
		storageClient: storageClient,
		doctorUseCase: doctorUseCase,
	}
}

func SetupFileHandler(storageClient *storage.CloudStorageClient, doctorUseCase *usecase.DoctorUseCase) {
	fileHandler = NewFileHandler(storageClient, doctorUseCase)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

// UploadProfileImage stores the doctor's public portrait and deletes the
// previous one once the profile points at the new object.
func (h *FileHandler) UploadProfileImage(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("File is required", err))
	}
	if fileHeader.Size > maxUploadSize {
		return response.Error(c, errors.BadRequest("File exceeds the 5MB limit", nil))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return response.Error(c, errors.BadRequest("Unsupported image type: "+contentType, nil))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to open uploaded file", err))
	}
	defer src.Close()

	ctx := c.Request().Context()
	url, err := h.storageClient.UploadFile(ctx, src, contentType, "doctors/profile", true)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to store file", err))
	}

	previous, err := h.doctorUseCase.SetProfileImage(ctx, middleware.CurrentUser(c), url)
	if err != nil {
		if delErr := h.storageClient.DeleteFile(ctx, url); delErr != nil {
			logger.Warn("Failed to clean up orphaned upload %s: %v", url, delErr)
		}
		return response.Error(c, err)
	}

	if previous != "" {
		if err := h.storageClient.DeleteFile(ctx, previous); err != nil {
			logger.Warn("Failed to delete previous profile image %s: %v", previous, err)
		}
	}

	return response.Created(c, map[string]string{"url": url})
}

// UploadLicenseDocument stores the license scan privately and queues the
// doctor for re-verification.
func (h *FileHandler) UploadLicenseDocument(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("File is required", err))
	}
	if fileHeader.Size > maxUploadSize {
		return response.Error(c, errors.BadRequest("File exceeds the 5MB limit", nil))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "application/pdf":
	default:
		return response.Error(c, errors.BadRequest("Unsupported document type: "+contentType, nil))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to open uploaded file", err))
	}
	defer src.Close()

	ctx := c.Request().Context()
	url, err := h.storageClient.UploadFile(ctx, src, contentType, "doctors/license", false)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to store file", err))
	}

	previous, err := h.doctorUseCase.SetLicenseDocument(ctx, middleware.CurrentUser(c), url)
	if err != nil {
		if delErr := h.storageClient.DeleteFile(ctx, url); delErr != nil {
			logger.Warn("Failed to clean up orphaned upload %s: %v", url, delErr)
		}
		return response.Error(c, err)
	}

	if previous != "" {
		if err := h.storageClient.DeleteFile(ctx, previous); err != nil {
			logger.Warn("Failed to delete previous license document %s: %v", previous, err)
		}
	}

	return response.Created(c, map[string]string{"url": url})
}
