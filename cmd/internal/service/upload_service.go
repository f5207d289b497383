package service

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"coursenotes/cmd/internal/contract"
	"coursenotes/cmd/internal/infrastructure/storage"
	"coursenotes/cmd/internal/metrics"
	"coursenotes/cmd/internal/utils"
	"coursenotes/cmd/internal/utils/apierror"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/labstack/gommon/log"
)

type DefaultUploadService struct {
	Store       storage.FileStore
	MaxBytes    int64
	AllowedExts []string
}

func NewUploadService(store storage.FileStore, maxBytes int64) *DefaultUploadService {
	if maxBytes <= 0 {
		maxBytes = contract.MaxNoteFileSizeBytes
	}

	return &DefaultUploadService{
		Store:       store,
		MaxBytes:    maxBytes,
		AllowedExts: contract.ValidNoteFileTypes,
	}
}

// Upload stores the file under a fresh name and returns its public path.
func (u *DefaultUploadService) Upload(ctx context.Context, fileHeader *multipart.FileHeader) (*contract.UploadResponse, apierror.ErrorResponse) {
	if apierr := u.checkFile(fileHeader); apierr != nil {
		return nil, apierr
	}

	ext, _ := utils.CheckFileExt(fileHeader.Filename, u.AllowedExts)
	data, apierr := u.readFile(fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	if len(data) == 0 {
		return nil, apierror.MissingFileError
	}

	name := StoredFileName(fileHeader.Filename, ext)
	contentType := mimetype.Detect(data).String()
	if err := u.Store.Save(ctx, name, data, contentType); err != nil {
		log.Errorf("failed to store upload %q: %v", fileHeader.Filename, err)
		return nil, apierror.FileUploadError
	}

	metrics.TrackUpload(len(data))
	return &contract.UploadResponse{FilePath: storage.PublicPath(name)}, nil
}

// Open loads a stored file for serving along with its detected content type.
func (u *DefaultUploadService) Open(ctx context.Context, name string) ([]byte, string, apierror.ErrorResponse) {
	if !storage.ValidName(name) {
		return nil, "", apierror.NotFoundError
	}

	data, err := u.Store.Load(ctx, name)
	if errors.Is(err, storage.ErrFileNotFound) {
		return nil, "", apierror.NotFoundError
	}

	if err != nil {
		log.Errorf("failed to load upload %q: %v", name, err)
		return nil, "", apierror.InternalServerError
	}
	return data, mimetype.Detect(data).String(), nil
}

// DeleteFile removes the file behind publicPath. Missing files and storage
// errors are only logged.
func (u *DefaultUploadService) DeleteFile(ctx context.Context, publicPath string) {
	name, err := storage.NameFromPath(publicPath)
	if err != nil {
		log.Warnf("refusing to delete file %q: %v", publicPath, err)
		return
	}

	err = u.Store.Delete(ctx, name)
	if errors.Is(err, storage.ErrFileNotFound) {
		log.Warnf("file %q was already gone", publicPath)
		return
	}

	if err != nil {
		log.Warnf("failed to delete file %q: %v", publicPath, err)
	}
}

// StoredFileName builds "<uuid>_<slug of the base name><ext>". The uuid
// keeps two uploads of the same file apart.
func StoredFileName(original, ext string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	cleaned := slug.Make(base)
	if cleaned == "" {
		cleaned = "file"
	}
	return uuid.NewString() + "_" + cleaned + ext
}

func (u *DefaultUploadService) checkFile(fileHeader *multipart.FileHeader) apierror.ErrorResponse {
	if fileHeader == nil || fileHeader.Size == 0 {
		return apierror.MissingFileError
	}

	if fileHeader.Size > u.MaxBytes {
		return apierror.NewFileTooLargeError(u.MaxBytes)
	}

	if strings.TrimSpace(fileHeader.Filename) == "" {
		return apierror.MissingFileNameError
	}

	if ext, ok := utils.CheckFileExt(fileHeader.Filename, u.AllowedExts); !ok {
		return apierror.NewInvalidFileExtError(ext)
	}
	return nil
}

func (u *DefaultUploadService) readFile(fileHeader *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("failed to open upload: %v", err)
		return nil, apierror.FileUploadError
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, u.MaxBytes+1))
	if err != nil {
		log.Errorf("failed to read upload: %v", err)
		return nil, apierror.FileUploadError
	}

	if int64(len(data)) > u.MaxBytes {
		return nil, apierror.NewFileTooLargeError(u.MaxBytes)
	}
	return data, nil
}
