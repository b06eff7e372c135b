// Package storage decodes uploaded images and persists them to S3 or the
// local filesystem.
package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize bounds decoded uploads
const MaxImageSize = 10 << 20

var (
	ErrInvalidImage  = errors.New("invalid image payload")
	ErrNotImage      = errors.New("payload is not an image")
	ErrImageTooLarge = errors.New("image too large")
)

// ImageStore persists image bytes under key and returns the public URL
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Image is a decoded upload
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeImage parses a "data:image/<type>;base64,<payload>" string. A bare
// base64 payload is accepted too. The declared type is ignored; the content
// type comes from sniffing the decoded bytes.
func DecodeImage(raw string) (*Image, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidImage
	}

	payload := raw
	if strings.HasPrefix(raw, "data:") {
		idx := strings.Index(raw, ";base64,")
		if idx < 0 {
			return nil, ErrInvalidImage
		}
		payload = raw[idx+len(";base64,"):]
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidImage
	}
	if len(data) == 0 {
		return nil, ErrInvalidImage
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, ErrNotImage
	}

	return &Image{
		Data:        data,
		ContentType: mtype.String(),
		Extension:   mtype.Extension(),
	}, nil
}
