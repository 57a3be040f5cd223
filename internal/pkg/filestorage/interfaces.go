package filestorage

import (
	"context"
	"errors"

	"github.com/yigit/learnhub/internal/app/models"
)

// ErrInvalidImage is returned when upload data is neither a data URL nor base64
var ErrInvalidImage = errors.New("invalid image data")

// ImageStore uploads images and destroys them by public id
type ImageStore interface {
	// Upload stores a base64 image or data URL under folder
	Upload(ctx context.Context, data, folder string) (*models.Image, error)

	// Destroy removes a previously uploaded image; unknown ids are ignored
	Destroy(ctx context.Context, publicID string) error
}
