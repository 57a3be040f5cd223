package filestorage

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/logger"
)

// LocalStorage keeps uploaded images on the local filesystem and serves them under baseURL
type LocalStorage struct {
	basePath string
	baseURL  string
}

var _ ImageStore = (*LocalStorage)(nil)

// NewLocalStorage creates a new LocalStorage instance, creating basePath if needed
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// decodeImage accepts "data:<mime>;base64,<payload>" or a bare base64 payload
func decodeImage(data string) ([]byte, string, error) {
	payload := strings.TrimSpace(data)
	mimeType := ""

	if rest, ok := strings.CutPrefix(payload, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(header, ";base64") {
			return nil, "", ErrInvalidImage
		}
		mimeType = strings.TrimSuffix(header, ";base64")
		payload = body
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(raw) == 0 {
		return nil, "", ErrInvalidImage
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(raw)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", ErrInvalidImage
	}
	return raw, mimeType, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".img"
}

// Upload decodes data and writes it to <basePath>/<folder>/<uuid><ext>
func (ls *LocalStorage) Upload(ctx context.Context, data, folder string) (*models.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, mimeType, err := decodeImage(data)
	if err != nil {
		return nil, err
	}

	folder = strings.Trim(path.Clean("/"+folder), "/")
	dir := filepath.Join(ls.basePath, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	publicID := path.Join(folder, uuid.New().String()+extensionFor(mimeType))
	dst := filepath.Join(ls.basePath, filepath.FromSlash(publicID))
	if err := os.WriteFile(dst, raw, 0o644); err != nil {
		logger.Error().Err(err).Str("path", dst).Msg("Failed to write uploaded image")
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	logger.Debug().Str("publicID", publicID).Int("bytes", len(raw)).Msg("Image stored")
	return &models.Image{
		PublicID: publicID,
		URL:      ls.baseURL + "/" + publicID,
	}, nil
}

// Destroy removes the file behind publicID. Missing files are not an error.
func (ls *LocalStorage) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	clean := strings.TrimPrefix(path.Clean("/"+publicID), "/")
	if clean == "" {
		return fmt.Errorf("invalid public id: %s", publicID)
	}

	physicalPath := filepath.Join(ls.basePath, filepath.FromSlash(clean))
	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("Image to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete image")
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
