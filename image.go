package watermarks

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	watermarkserrors "github.com/leodido/watermarks/errors"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ImageInfo describes the image shown in image mode.
type ImageInfo struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// probeImage checks that imagePath exists and holds a decodable image.
func (r *Resolver) probeImage(imagePath string) (*ImageInfo, error) {
	fi, err := r.fs.Stat(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, watermarkserrors.NewImageNotFoundError(imagePath)
		}

		return nil, err
	}
	if fi.IsDir() {
		return nil, watermarkserrors.NewImageNotFoundError(imagePath)
	}

	f, err := r.fs.Open(imagePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w: %v", imagePath, watermarkserrors.ErrInvalidImage, err)
	}

	return &ImageInfo{
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
