package renderer

import (
	"fmt"
	"time"

	"github.com/achilleasa/stereocam/gpu"
	"github.com/achilleasa/stereocam/log"
	"github.com/achilleasa/stereocam/params"
	"github.com/google/uuid"
)

var logger = log.New("renderer")

// Full screen quad as a triangle strip of interleaved position and texture
// coordinates. V is flipped so row 0 of the uploaded image lands at the top
// of each viewport.
var quadVertices = []float32{
	-1, -1, 0, 1,
	1, -1, 1, 1,
	-1, 1, 0, 0,
	1, 1, 1, 0,
}

// A stereo renderer draws the video source twice per frame, once into each
// eye viewport, with the transform chain configured from the parameter
// accessor.
type stereoRenderer struct {
	id      uuid.UUID
	label   string
	options Options

	dev      gpu.Device
	surface  Surface
	accessor params.Accessor

	program   *Program
	quad      gpu.Buffer
	texture   *TextureUpdater
	scheduler *Scheduler

	backingW, backingH int
	stats              FrameStats
	closed             bool
}

// NewStereo builds the program, vertex buffer and video texture on dev and
// binds the pipeline to surface. Frames are requested through requester once
// Start is called. On error every resource allocated so far is released.
func NewStereo(dev gpu.Device, surface Surface, source FrameSource, accessor params.Accessor, requester FrameRequester, opts Options) (Renderer, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	if surface == nil {
		return nil, ErrNoSurface
	}
	if source == nil {
		return nil, ErrNoFrameSource
	}
	if accessor == nil {
		accessor = params.Static(params.Defaults())
	}

	r := &stereoRenderer{
		id:       uuid.New(),
		options:  opts,
		dev:      dev,
		surface:  surface,
		accessor: accessor,
	}
	r.label = opts.Label
	if r.label == "" {
		r.label = r.id.String()
	}

	if err := bindSurface(surface, r.id); err != nil {
		return nil, err
	}

	if err := r.init(source); err != nil {
		r.release()
		return nil, err
	}
	r.scheduler = NewScheduler(requester, r.Frame)
	r.scheduler.OnError = func(error) { r.stats.FailedFrames++ }

	r.stats.Id = r.id.String()
	r.stats.Device = dev.Name()
	r.stats.Tier = r.program.Tier
	logger.Noticef("[%s] pipeline ready on %s", r.label, dev.Name())
	return r, nil
}

func (r *stereoRenderer) init(source FrameSource) error {
	var err error
	if r.program, err = BuildProgram(r.dev); err != nil {
		return err
	}

	if r.quad, err = r.dev.NewQuadBuffer(quadVertices); err != nil {
		return fmt.Errorf("renderer: could not allocate quad buffer: %w", err)
	}

	if r.texture, err = NewTextureUpdater(r.dev, source); err != nil {
		return fmt.Errorf("renderer: could not allocate video texture: %w", err)
	}

	logger.Infof("[%s] allocated program %d, buffer %d, texture %d", r.label, r.program.Id, r.quad, r.texture.Texture())
	return nil
}

// Frame draws one frame: resize, texture update, clear, layout and one draw
// per eye. A failed texture upload leaves the surface untouched.
func (r *stereoRenderer) Frame() error {
	if r.closed {
		return ErrClosed
	}
	start := time.Now()
	p := r.accessor.Snapshot()

	r.resize()
	if _, err := r.texture.Update(); err != nil {
		return fmt.Errorf("renderer: video texture upload failed: %w", err)
	}

	c := r.options.ClearColor
	r.dev.Clear(c[0], c[1], c[2], c[3])

	layout := Layout(r.backingW, r.backingH)
	handles := r.program.Handles
	r.dev.UseProgram(r.program.Id)
	r.dev.BindQuad(r.quad, handles.Position, handles.TexCoord)
	r.dev.BindTexture(0, r.texture.Texture())
	if handles.Image.Valid() {
		r.dev.SetUniform1i(handles.Image, 0)
	}

	for _, eye := range Eyes {
		vp := layout.Eye(eye)
		r.dev.SetViewport(vp.X, vp.Y, vp.Width, vp.Height)
		u := Marshal(p, eye, vp, r.texture.Video())
		handles.Write(r.dev, &u)
		r.dev.DrawQuad()
	}

	r.stats.Frames++
	r.stats.RenderTime += time.Since(start)
	return nil
}

func (r *stereoRenderer) resize() {
	w, h, ratio := r.surface.ClientSize()
	bw := int(float32(w) * ratio)
	bh := int(float32(h) * ratio)
	if bw == r.backingW && bh == r.backingH {
		return
	}

	r.surface.ResizeBacking(bw, bh)
	r.backingW, r.backingH = bw, bh
	r.stats.Resizes++
	logger.Debugf("[%s] backing store resized to %dx%d", r.label, bw, bh)
}

func (r *stereoRenderer) Start() {
	if r.closed {
		return
	}
	r.scheduler.Start()
}

func (r *stereoRenderer) Stop() {
	r.scheduler.Stop()
}

func (r *stereoRenderer) Close() {
	if r.closed {
		return
	}
	r.scheduler.Stop()
	r.release()
	r.closed = true
	logger.Infof("[%s] pipeline closed", r.label)
}

func (r *stereoRenderer) release() {
	if r.texture != nil {
		r.texture.Release()
	}
	if r.quad != 0 {
		r.dev.DeleteBuffer(r.quad)
		r.quad = 0
	}
	if r.program != nil {
		r.program.Release()
	}
	unbindSurface(r.surface, r.id)
}

func (r *stereoRenderer) Stats() FrameStats {
	s := r.stats
	s.BackingW, s.BackingH = r.backingW, r.backingH
	if r.texture != nil {
		s.Uploads = r.texture.uploads
		s.SkippedUploads = r.texture.skipped
	}
	return s
}
