package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	_ "golang.org/x/image/webp" // WebP decoder registration, YouTube serves some thumbnails as WebP

	"golang.org/x/image/draw"
)

// CoverOptions controls how cover art is prepared before embedding.
type CoverOptions struct {
	// MaxSize is the maximum width and height in pixels. Zero disables resizing.
	MaxSize int

	// ConvertToJPEG re-encodes the image as JPEG.
	ConvertToJPEG bool
}

// ImageService prepares cover art for embedding in audio files.
type ImageService struct {
	quality int
}

// NewImageService creates a new ImageService encoding JPEGs at quality 90.
func NewImageService() *ImageService {
	return &ImageService{quality: 90}
}

// PrepareCover applies opts to the image and returns JPEG bytes.
//
// If neither resizing nor conversion is requested, data is returned as is.
// The Catmull-Rom kernel is used for scaling and the aspect ratio is kept.
func (s *ImageService) PrepareCover(ctx context.Context, data []byte, opts CoverOptions) ([]byte, error) {
	if opts.MaxSize <= 0 && !opts.ConvertToJPEG {
		return data, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if opts.MaxSize > 0 {
		img = s.fit(img, opts.MaxSize, opts.MaxSize)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit scales img down to fit within maxWidth x maxHeight.
// Images already within bounds are returned unchanged.
func (s *ImageService) fit(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxWidth && height <= maxHeight {
		return img
	}

	ratio := float64(width) / float64(height)
	if float64(maxWidth)/float64(maxHeight) > ratio {
		width = int(float64(maxHeight) * ratio)
		height = maxHeight
	} else {
		height = int(float64(maxWidth) / ratio)
		width = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
