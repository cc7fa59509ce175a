package renderer

import (
	"github.com/achilleasa/stereocam/gpu"
)

// TextureUpdater uploads the latest video frame into a single texture that
// is reused for the lifetime of the pipeline.
type TextureUpdater struct {
	dev    gpu.Device
	tex    gpu.Texture
	source FrameSource
	video  VideoInfo

	uploads uint64
	skipped uint64
}

// NewTextureUpdater allocates the video texture.
func NewTextureUpdater(dev gpu.Device, source FrameSource) (*TextureUpdater, error) {
	tex, err := dev.NewTexture()
	if err != nil {
		return nil, err
	}
	return &TextureUpdater{dev: dev, tex: tex, source: source}, nil
}

// Texture returns the texture handle.
func (t *TextureUpdater) Texture() gpu.Texture {
	return t.tex
}

// Video describes the most recently uploaded frame.
func (t *TextureUpdater) Video() VideoInfo {
	return t.video
}

// Update uploads the current frame. It returns false without touching the
// texture when the source has no frame ready; the previous contents stay in
// place. The upload completes before Update returns.
func (t *TextureUpdater) Update() (bool, error) {
	img, ok := t.source.Frame()
	if !ok || img == nil || img.Bounds().Empty() {
		t.skipped++
		return false, nil
	}

	if err := t.dev.UploadTexture(t.tex, img); err != nil {
		return false, err
	}
	t.uploads++
	size := img.Bounds().Size()
	t.video = VideoInfo{Width: size.X, Height: size.Y}
	return true, nil
}

// Release deletes the texture. It is safe to call more than once.
func (t *TextureUpdater) Release() {
	if t.tex == 0 {
		return
	}
	t.dev.DeleteTexture(t.tex)
	t.tex = 0
}
