package transform

import (
	"image"

	"github.com/achilleasa/stereocam/types"
	"github.com/chewxy/math32"
)

// Sampler returns the linear RGB color of a texture at a UV coordinate.
// UV (0, 0) addresses the top-left texel.
type Sampler interface {
	Sample(uv types.Vec2) types.Vec3
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func(uv types.Vec2) types.Vec3

func (f SamplerFunc) Sample(uv types.Vec2) types.Vec3 {
	return f(uv)
}

// ImageSampler samples an RGBA image with bilinear filtering and
// clamp-to-edge addressing. An empty image samples as black.
type ImageSampler struct {
	img *image.RGBA
}

// NewImageSampler wraps img. The image must not be modified while sampled.
func NewImageSampler(img *image.RGBA) *ImageSampler {
	return &ImageSampler{img: img}
}

// Size returns the sampled image dimensions.
func (s *ImageSampler) Size() (int, int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSampler) Sample(uv types.Vec2) types.Vec3 {
	w, h := s.Size()
	if w == 0 || h == 0 {
		return types.Vec3{}
	}

	// Texel centers sit at half-integer positions.
	x := uv[0]*float32(w) - 0.5
	y := uv[1]*float32(h) - 0.5
	x0, y0 := math32.Floor(x), math32.Floor(y)
	fx, fy := x-x0, y-y0

	ix, iy := int(x0), int(y0)
	c00 := s.texel(ix, iy, w, h)
	c10 := s.texel(ix+1, iy, w, h)
	c01 := s.texel(ix, iy+1, w, h)
	c11 := s.texel(ix+1, iy+1, w, h)

	return c00.Mix(c10, fx).Mix(c01.Mix(c11, fx), fy)
}

func (s *ImageSampler) texel(x, y, w, h int) types.Vec3 {
	x = clampInt(x, 0, w-1)
	y = clampInt(y, 0, h-1)
	origin := s.img.Rect.Min
	off := s.img.PixOffset(origin.X+x, origin.Y+y)
	pix := s.img.Pix[off : off+3 : off+3]
	return types.XYZ(float32(pix[0])/255, float32(pix[1])/255, float32(pix[2])/255)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
