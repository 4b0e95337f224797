package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// DefaultMaxPixels bounds the decoded size of an upload when no limit is given.
const DefaultMaxPixels int64 = 50_000_000

var (
	// ErrInvalidImage is returned when an upload cannot be decoded as an image.
	ErrInvalidImage = errors.New("invalid image")
	// ErrImageTooLarge is returned when the image header declares more pixels
	// than allowed. It matches ErrInvalidImage under errors.Is.
	ErrImageTooLarge = fmt.Errorf("%w: too many pixels", ErrInvalidImage)
)

// SaveUploadedImage decodes the upload, applies its EXIF orientation and
// writes it to a temporary PNG file. The header is checked against
// maxPixels (DefaultMaxPixels when <= 0) before any pixel data is decoded.
// The caller must invoke cleanup once the file is no longer needed.
func SaveUploadedImage(r io.Reader, maxPixels int64) (string, func(), error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
		return "", nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrImageTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	img, err := imaging.Decode(io.MultiReader(&header, r), imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	tmpFile, err := os.CreateTemp("", "ocr-input-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("create temp image: %w", err)
	}

	cleanup := func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}

	if err := imaging.Encode(tmpFile, img, imaging.PNG); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write temp image: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("flush temp image: %w", err)
	}

	return tmpFile.Name(), cleanup, nil
}
