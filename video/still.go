package video

import (
	"context"
	"fmt"
	"image"
	"io"

	// Decoders available to LoadImage.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/achilleasa/stereocam/log"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

var logger = log.New("video")

// LoadImage decodes the image at location (a file path or an http(s) URL)
// and converts it to RGBA. Images larger than maxW x maxH are downscaled
// preserving their aspect ratio; a zero bound disables downscaling.
func LoadImage(location string, maxW, maxH int) (*image.RGBA, error) {
	res, err := OpenResource(context.Background(), location, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	if res.IsRemote() {
		logger.Infof("fetching still frame from %s", res.Path())
	}
	return DecodeImage(res, res.Path(), maxW, maxH)
}

// DecodeImage decodes an image stream like LoadImage. name is only used in
// log and error messages.
func DecodeImage(r io.Reader, name string, maxW, maxH int) (*image.RGBA, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("video: could not decode %s: %w", name, err)
	}

	size := src.Bounds().Size()
	if maxW > 0 && maxH > 0 && (size.X > maxW || size.Y > maxH) {
		src = resize.Thumbnail(uint(maxW), uint(maxH), src, resize.Bicubic)
		logger.Debugf("downscaled %s from %dx%d to %dx%d", name, size.X, size.Y, src.Bounds().Dx(), src.Bounds().Dy())
	}

	logger.Debugf("decoded %s image %s", format, name)
	return ToRGBA(src), nil
}

// ToRGBA returns img as an *image.RGBA whose bounds start at the origin.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Still is a source that always serves the same frame.
type Still struct {
	img *image.RGBA
}

// NewStill wraps img.
func NewStill(img *image.RGBA) *Still {
	return &Still{img: img}
}

func (s *Still) Frame() (*image.RGBA, bool) {
	return s.img, s.img != nil
}
