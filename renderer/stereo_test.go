package renderer

import (
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/achilleasa/stereocam/gpu"
	"github.com/achilleasa/stereocam/gpu/soft"
	"github.com/achilleasa/stereocam/params"
	"github.com/achilleasa/stereocam/transform"
	"github.com/achilleasa/stereocam/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stereoFixture struct {
	canvas *soft.Canvas
	dev    *faultyDevice
	source *stubSource
	ticker *Ticker
	live   *params.Live
	r      Renderer
}

func newStereoFixture(t *testing.T, w, h int, tier gpu.Tier) *stereoFixture {
	t.Helper()
	f := &stereoFixture{
		canvas: soft.NewCanvas(w, h, 1),
		source: &stubSource{img: solidImage(4, 4, color.RGBA{R: 102, G: 51, B: 204, A: 255}), ready: true},
		ticker: NewTicker(time.Millisecond),
		live:   params.NewLive(params.Identity()),
	}
	f.dev = newFaultyDevice(f.canvas, tier)

	r, err := NewStereo(f.dev, f.canvas, f.source, f.live, f.ticker, DefaultOptions())
	require.NoError(t, err)
	f.r = r
	t.Cleanup(r.Close)
	return f
}

func (f *stereoFixture) frame(t *testing.T) {
	t.Helper()
	f.r.Start()
	require.True(t, f.ticker.Fire(), "expected a pending frame")
	f.r.Stop()
}

func TestStereoDrawsBothEyes(t *testing.T) {
	f := newStereoFixture(t, 32, 12, gpu.TierBaseline)
	f.frame(t)

	// 32x12 splits into two 12x12 eyes starting at x=4.
	img := f.canvas.Image()
	require.Equal(t, 32, img.Bounds().Dx())
	black := color.RGBA{A: 255}
	video := color.RGBA{R: 102, G: 51, B: 204, A: 255}
	assert.Equal(t, black, img.RGBAAt(0, 5))
	assert.Equal(t, black, img.RGBAAt(31, 5))
	assert.Equal(t, video, img.RGBAAt(4, 0))
	assert.Equal(t, video, img.RGBAAt(15, 11))
	assert.Equal(t, video, img.RGBAAt(16, 0))
	assert.Equal(t, video, img.RGBAAt(27, 11))

	stats := f.r.Stats()
	assert.Equal(t, uint64(1), stats.Frames)
	assert.Equal(t, uint64(1), stats.Uploads)
	assert.Equal(t, gpu.TierBaseline, stats.Tier)
	assert.Equal(t, 32, stats.BackingW)
	assert.NotEmpty(t, stats.Id)
}

func TestStereoEyesUseOwnOffsets(t *testing.T) {
	f := newStereoFixture(t, 32, 16, gpu.TierBaseline)
	f.source.img = gradientImage(16, 16)
	f.live.Update(func(p *params.ParameterSet) {
		p.LeftOffsetX = -0.2
		p.RightOffsetX = 0.2
	})
	f.frame(t)

	// Same screen position in each eye; the right eye samples further right.
	img := f.canvas.Image()
	left := img.RGBAAt(8, 8)
	right := img.RGBAAt(16+8, 8)
	assert.Greater(t, right.R, left.R)
}

func TestStereoSkipsUploadWhenNoFrameIsReady(t *testing.T) {
	f := newStereoFixture(t, 16, 8, gpu.TierBaseline)
	f.source.ready = false
	f.frame(t)
	f.frame(t)

	stats := f.r.Stats()
	assert.Equal(t, uint64(2), stats.Frames)
	assert.Equal(t, uint64(0), stats.Uploads)
	assert.Equal(t, uint64(2), stats.SkippedUploads)
	assert.Equal(t, uint64(0), stats.FailedFrames)

	// Nothing uploaded yet: the eyes sample an empty texture.
	assert.Equal(t, color.RGBA{A: 255}, f.canvas.Image().RGBAAt(4, 4))

	f.source.ready = true
	f.frame(t)
	assert.Equal(t, uint64(1), f.r.Stats().Uploads)
	assert.Equal(t, color.RGBA{R: 102, G: 51, B: 204, A: 255}, f.canvas.Image().RGBAAt(4, 4))

	// The stale frame stays on screen.
	f.source.ready = false
	f.frame(t)
	assert.Equal(t, color.RGBA{R: 102, G: 51, B: 204, A: 255}, f.canvas.Image().RGBAAt(4, 4))
}

func TestStereoUploadFailureSkipsFrame(t *testing.T) {
	f := newStereoFixture(t, 16, 8, gpu.TierBaseline)
	f.dev.failUploads = 2

	f.r.Start()
	assert.Equal(t, 4, f.ticker.RunFrames(4))
	f.r.Stop()

	stats := f.r.Stats()
	assert.Equal(t, uint64(2), stats.FailedFrames)
	assert.Equal(t, uint64(2), stats.Frames)
	assert.Equal(t, uint64(2), stats.Uploads)
	assert.Equal(t, 2, f.ticker.Presented())
}

func TestStereoUploadFailureKeepsPreviousFrame(t *testing.T) {
	f := newStereoFixture(t, 16, 8, gpu.TierBaseline)
	f.frame(t)
	video := color.RGBA{R: 102, G: 51, B: 204, A: 255}
	require.Equal(t, video, f.canvas.Image().RGBAAt(4, 4))

	// A new frame arrives but cannot be uploaded; the surface must not be
	// cleared and the frame must not be presented.
	f.source.img = solidImage(4, 4, color.RGBA{R: 255, A: 255})
	f.dev.failUploads = 1
	f.frame(t)

	assert.Equal(t, video, f.canvas.Image().RGBAAt(4, 4))
	assert.Equal(t, 1, f.ticker.Presented())
	assert.Equal(t, uint64(1), f.r.Stats().FailedFrames)
}

func TestStereoResizesOnlyOnChange(t *testing.T) {
	f := newStereoFixture(t, 16, 8, gpu.TierBaseline)
	for i := 0; i < 3; i++ {
		f.frame(t)
	}
	assert.Equal(t, 1, f.canvas.Resizes())

	f.canvas.SetClientSize(20, 10)
	f.frame(t)
	f.frame(t)
	assert.Equal(t, 2, f.canvas.Resizes())
	assert.Equal(t, uint64(2), f.r.Stats().Resizes)
	assert.Equal(t, 20, f.canvas.Image().Bounds().Dx())
}

func TestStereoScalesByPixelRatio(t *testing.T) {
	canvas := soft.NewCanvas(10, 5, 2)
	dev := soft.New(canvas, gpu.TierExtended)
	ticker := NewTicker(time.Millisecond)
	r, err := NewStereo(dev, canvas, &stubSource{}, nil, ticker, DefaultOptions())
	require.NoError(t, err)
	defer r.Close()

	r.Start()
	ticker.Fire()
	assert.Equal(t, 20, canvas.Image().Bounds().Dx())
	assert.Equal(t, 10, canvas.Image().Bounds().Dy())
}

func TestStereoNoLeakAcrossStartStop(t *testing.T) {
	f := newStereoFixture(t, 16, 8, gpu.TierExtended)
	f.frame(t)
	afterOne := f.dev.Live()

	for i := 0; i < 25; i++ {
		f.frame(t)
	}
	assert.Equal(t, afterOne, f.dev.Live())
	assert.Equal(t, soft.Counts{Programs: 1, Buffers: 1, Textures: 1}, afterOne)

	f.r.Close()
	assert.Equal(t, soft.Counts{}, f.dev.Live())
	f.r.Close()
}

func TestStereoSurfaceIsExclusive(t *testing.T) {
	f := newStereoFixture(t, 16, 8, gpu.TierBaseline)

	_, err := NewStereo(soft.New(f.canvas, gpu.TierBaseline), f.canvas, f.source, nil, NewTicker(time.Millisecond), DefaultOptions())
	assert.ErrorIs(t, err, ErrSurfaceInUse)

	f.r.Close()
	r, err := NewStereo(soft.New(f.canvas, gpu.TierBaseline), f.canvas, f.source, nil, NewTicker(time.Millisecond), DefaultOptions())
	require.NoError(t, err)
	r.Close()
}

func TestStereoConstructionFailureReleasesResources(t *testing.T) {
	type spec struct {
		setup func(*faultyDevice)
	}
	specs := []spec{
		{func(d *faultyDevice) { d.failStage[gpu.FragmentStage] = true }},
		{func(d *faultyDevice) { d.failBuffer = true }},
		{func(d *faultyDevice) { d.failTexture = true }},
	}

	for specIndex, spec := range specs {
		canvas := soft.NewCanvas(8, 8, 1)
		dev := newFaultyDevice(canvas, gpu.TierBaseline)
		spec.setup(dev)

		_, err := NewStereo(dev, canvas, &stubSource{}, nil, NewTicker(time.Millisecond), DefaultOptions())
		if err == nil {
			t.Fatalf("[spec %d] expected construction to fail", specIndex)
		}
		if live := dev.Live(); live != (soft.Counts{}) {
			t.Fatalf("[spec %d] expected no live objects; got %+v", specIndex, live)
		}

		// The surface is free again.
		r, err := NewStereo(soft.New(canvas, gpu.TierBaseline), canvas, &stubSource{}, nil, NewTicker(time.Millisecond), DefaultOptions())
		if err != nil {
			t.Fatalf("[spec %d] expected surface to be released; got %v", specIndex, err)
		}
		r.Close()
	}
}

func TestStereoRejectsMissingCollaborators(t *testing.T) {
	canvas := soft.NewCanvas(8, 8, 1)
	dev := soft.New(canvas, gpu.TierBaseline)
	ticker := NewTicker(time.Millisecond)

	_, err := NewStereo(nil, canvas, &stubSource{}, nil, ticker, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoDevice)
	_, err = NewStereo(dev, nil, &stubSource{}, nil, ticker, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoSurface)
	_, err = NewStereo(dev, canvas, nil, nil, ticker, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoFrameSource)
}

// The software backend renders both tier variants alike: each program
// declares every uniform the chain needs and the uniforms reach it. The GLSL
// text itself is checked by TestSourcesAreValidGLSL and, where a driver is
// present, by the display package.
func TestSoftTiersRenderAlike(t *testing.T) {
	fixtures := map[string]func(*params.ParameterSet){
		"defaults": func(p *params.ParameterSet) { *p = params.Defaults() },
		"graded": func(p *params.ParameterSet) {
			p.Contrast, p.Brightness, p.Gamma = 1.4, 0.05, 0.8
			p.Shadows, p.Highlights = 0.1, -0.1
		},
		"sphere": func(p *params.ParameterSet) { p.SphereStrength, p.SphereDiameter = 60, 80 },
		"amber":  func(p *params.ParameterSet) { p.FilterMode = params.FilterAmber },
		"magnifier": func(p *params.ParameterSet) {
			p.MagnifierEnabled, p.MagnifierZoom, p.MagnifierSize = true, 2, 0.3
		},
		"calibration": func(p *params.ParameterSet) { p.Calibration = true },
	}

	for name, setup := range fixtures {
		var images [2][]uint8
		for i, tier := range []gpu.Tier{gpu.TierBaseline, gpu.TierExtended} {
			f := newStereoFixture(t, 48, 24, tier)
			f.source.img = gradientImage(24, 16)
			f.live.Update(setup)
			f.frame(t)
			images[i] = f.canvas.Image().Pix
		}

		for i := range images[0] {
			if diff := math.Abs(float64(images[0][i]) - float64(images[1][i])); diff > 2 {
				t.Fatalf("[%s] tiers differ at byte %d: %d vs %d", name, i, images[0][i], images[1][i])
			}
		}
	}
}

// With the magnifier enabled, pixels inside the mask sample the
// zoomed coordinate.
func TestStereoMagnifierSamplesZoomedCoordinate(t *testing.T) {
	p := params.Identity()
	p.MagnifierEnabled = true
	p.MagnifierZoom = 1.6
	u := Marshal(p, LeftEye, Viewport{Width: 100, Height: 100}, VideoInfo{Width: 10, Height: 10})

	screen := types.XY(0.55, 0.45)
	trace := transform.TraceCoordinates(&u, screen)
	require.Equal(t, float32(1), trace.MagnifierMask)
	exp := trace.Center.Add(trace.Warped.Sub(trace.Center).Div(1.6))
	assert.InDelta(t, exp[0], trace.Sample()[0], 1e-6)
	assert.InDelta(t, exp[1], trace.Sample()[1], 1e-6)
}
