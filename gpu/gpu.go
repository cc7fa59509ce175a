// Package gpu defines the small slice of a graphics API the stereo pipeline
// needs, so the same pipeline code can drive desktop GL at two capability
// levels or the software backend.
package gpu

import (
	"errors"
	"image"
)

// Tier identifies the capability level of a device.
type Tier uint8

const (
	// Baseline tier: GLSL 1.20 class programs.
	TierBaseline Tier = iota

	// Extended tier: GLSL 3.30 class programs.
	TierExtended
)

func (t Tier) String() string {
	switch t {
	case TierBaseline:
		return "baseline"
	case TierExtended:
		return "extended"
	}
	return "unknown"
}

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage uint8

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	if s == VertexStage {
		return "vertex"
	}
	return "fragment"
}

// Opaque object handles. The zero value never names a live object.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
	Texture uint32
)

// Location is an attribute or uniform handle. Negative values mean the
// program does not expose the name.
type Location int32

// NoLocation is returned for names a program does not expose.
const NoLocation Location = -1

// Valid reports whether l can be written to.
func (l Location) Valid() bool {
	return l >= 0
}

var (
	ErrCompileFailed     = errors.New("gpu: shader compilation failed")
	ErrLinkFailed        = errors.New("gpu: program link failed")
	ErrAllocationFailed  = errors.New("gpu: resource allocation failed")
	ErrInvalidHandle     = errors.New("gpu: invalid handle")
	ErrEmptyTextureImage = errors.New("gpu: empty texture image")
)

// Device is implemented by every rendering backend. Devices are not safe for
// concurrent use; all calls must come from the goroutine that owns the
// context.
type Device interface {
	// Human readable backend description.
	Name() string

	// The capability tier of the underlying context.
	Tier() Tier

	// Compile a shader stage. Compilation errors wrap ErrCompileFailed and
	// carry the native info log.
	CompileShader(stage ShaderStage, src string) (Shader, error)

	// Link a program from compiled stages. Link errors wrap ErrLinkFailed.
	LinkProgram(vs, fs Shader) (Program, error)

	DeleteShader(Shader)
	DeleteProgram(Program)
	UseProgram(Program)

	// Resolve attribute and uniform handles; NoLocation if absent.
	AttribLocation(p Program, name string) Location
	UniformLocation(p Program, name string) Location

	// Allocate a static vertex buffer holding interleaved vec2 position and
	// vec2 texture coordinates.
	NewQuadBuffer(vertices []float32) (Buffer, error)
	DeleteBuffer(Buffer)

	// Bind the quad buffer layout to the given attribute handles.
	BindQuad(buf Buffer, position, texCoord Location)

	// Allocate a linear, clamp-to-edge 2D texture.
	NewTexture() (Texture, error)
	DeleteTexture(Texture)

	// Replace the texture contents. The storage is reallocated only when
	// the image dimensions change.
	UploadTexture(tex Texture, img *image.RGBA) error
	BindTexture(unit int, tex Texture)

	SetViewport(x, y, width, height int)
	Clear(r, g, b, a float32)

	SetUniform1f(l Location, v float32)
	SetUniform1i(l Location, v int32)
	SetUniform2f(l Location, x, y float32)

	// Draw the bound quad as two triangles.
	DrawQuad()
}
