package renderer

import (
	"errors"
	"image"
	"image/color"

	"github.com/achilleasa/stereocam/gpu"
	"github.com/achilleasa/stereocam/gpu/soft"
)

var errInjected = errors.New("injected failure")

// faultyDevice wraps the software device and fails selected calls.
type faultyDevice struct {
	*soft.Device

	failStage     map[gpu.ShaderStage]bool
	failLink      bool
	failBuffer    bool
	failTexture   bool
	failUploads   int
	renameAttribs bool
}

func newFaultyDevice(canvas *soft.Canvas, tier gpu.Tier) *faultyDevice {
	return &faultyDevice{
		Device:    soft.New(canvas, tier),
		failStage: map[gpu.ShaderStage]bool{},
	}
}

func (d *faultyDevice) CompileShader(stage gpu.ShaderStage, src string) (gpu.Shader, error) {
	if d.failStage[stage] {
		return 0, errors.Join(gpu.ErrCompileFailed, errors.New("ERROR: 0:12: 'u_bogus' : undeclared identifier"))
	}
	return d.Device.CompileShader(stage, src)
}

func (d *faultyDevice) LinkProgram(vs, fs gpu.Shader) (gpu.Program, error) {
	if d.failLink {
		return 0, errors.Join(gpu.ErrLinkFailed, errors.New("ERROR: varying v_texCoord not written"))
	}
	return d.Device.LinkProgram(vs, fs)
}

func (d *faultyDevice) AttribLocation(p gpu.Program, name string) gpu.Location {
	if d.renameAttribs && name == "a_texCoord" {
		return gpu.NoLocation
	}
	return d.Device.AttribLocation(p, name)
}

func (d *faultyDevice) NewQuadBuffer(vertices []float32) (gpu.Buffer, error) {
	if d.failBuffer {
		return 0, gpu.ErrAllocationFailed
	}
	return d.Device.NewQuadBuffer(vertices)
}

func (d *faultyDevice) NewTexture() (gpu.Texture, error) {
	if d.failTexture {
		return 0, gpu.ErrAllocationFailed
	}
	return d.Device.NewTexture()
}

func (d *faultyDevice) UploadTexture(t gpu.Texture, img *image.RGBA) error {
	if d.failUploads > 0 {
		d.failUploads--
		return errInjected
	}
	return d.Device.UploadTexture(t, img)
}

// recordingDevice records uniform writes and ignores everything else.
type recordingDevice struct {
	gpu.Device

	floats map[gpu.Location][]float32
	ints   map[gpu.Location]int32
}

func newRecordingDevice() *recordingDevice {
	return &recordingDevice{
		floats: map[gpu.Location][]float32{},
		ints:   map[gpu.Location]int32{},
	}
}

func (d *recordingDevice) SetUniform1f(l gpu.Location, v float32) {
	d.floats[l] = []float32{v}
}

func (d *recordingDevice) SetUniform2f(l gpu.Location, x, y float32) {
	d.floats[l] = []float32{x, y}
}

func (d *recordingDevice) SetUniform1i(l gpu.Location, v int32) {
	d.ints[l] = v
}

// stubSource serves img while ready is set.
type stubSource struct {
	img   *image.RGBA
	ready bool
}

func (s *stubSource) Frame() (*image.RGBA, bool) {
	return s.img, s.ready
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(255 * x / max(w-1, 1)),
				G: uint8(255 * y / max(h-1, 1)),
				B: uint8((x * 37) % 256),
				A: 255,
			})
		}
	}
	return img
}
