package domain

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

const MaxImageSize = 5 * 1024 * 1024

var (
	ErrInvalidImageType = errors.New("invalid file type")
	ErrImageTooLarge    = errors.New("file too large")
)

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/webp",
	"image/gif",
}

// An ImageFile is a local file about to be uploaded.
type ImageFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

type UploadedImage struct {
	URL      string
	Filename string
}

// ValidateImage checks type before size.
func ValidateImage(f ImageFile) error {
	ct := strings.ToLower(strings.TrimSpace(f.ContentType))
	if !slices.Contains(allowedImageTypes, ct) {
		return fmt.Errorf(
			"%w: %q, only JPEG, JPG, PNG, WebP and GIF are allowed",
			ErrInvalidImageType, f.ContentType,
		)
	}

	if f.Size > MaxImageSize {
		return fmt.Errorf(
			"%w: %.2f MB exceeds the 5 MB limit",
			ErrImageTooLarge, float64(f.Size)/(1024*1024),
		)
	}
	return nil
}
