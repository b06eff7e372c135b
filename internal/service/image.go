package service

import (
	"context"
	"errors"
	"path"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/storage"
)

// ImageService decodes base64 uploads and hands them to an ImageStore
type ImageService struct {
	store storage.ImageStore
}

func NewImageService(store storage.ImageStore) *ImageService {
	return &ImageService{store: store}
}

// Upload stores raw under folder. Payload problems are reported as a
// validation error on field.
func (s *ImageService) Upload(ctx context.Context, folder, field, raw string) (string, error) {
	img, err := storage.DecodeImage(raw)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotImage):
			return "", FieldError(field, "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		case errors.Is(err, storage.ErrImageTooLarge):
			return "", FieldError(field, "The image is too large.")
		default:
			return "", FieldError(field, "The submitted data was not a file. Check the encoding type on the form.")
		}
	}

	key := path.Join(folder, uuid.New().String()+img.Extension)
	return s.store.Save(ctx, key, img.Data, img.ContentType)
}

// Remove deletes a previously stored image, logging failures
func (s *ImageService) Remove(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.store.Delete(ctx, url); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("url", url).Msg("failed to delete image")
	}
}
