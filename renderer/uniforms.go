package renderer

import (
	"github.com/achilleasa/stereocam/gpu"
	"github.com/achilleasa/stereocam/params"
	"github.com/achilleasa/stereocam/transform"
	"github.com/achilleasa/stereocam/types"
	"github.com/chewxy/math32"
)

// Eye identifies one of the two stereo views.
type Eye uint8

const (
	LeftEye Eye = iota
	RightEye
)

// Eyes lists the eyes in draw order.
var Eyes = [2]Eye{LeftEye, RightEye}

func (e Eye) String() string {
	if e == RightEye {
		return "right"
	}
	return "left"
}

// Sign returns -1 for the left eye and +1 for the right eye.
func (e Eye) Sign() float32 {
	if e == RightEye {
		return 1
	}
	return -1
}

// Fixed unit conversions applied to the parameter set.
const (
	coefficientScale = 0.1
	percentScale     = 0.01
)

// VideoInfo describes the texture currently sampled by the program.
type VideoInfo struct {
	Width, Height int
}

// Aspect returns width/height, or 1 until a frame with a non-empty size has
// been seen.
func (v VideoInfo) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// TexelSize returns the size of one texel in UV units.
func (v VideoInfo) TexelSize() types.Vec2 {
	return types.XY(1/float32(max(v.Width, 1)), 1/float32(max(v.Height, 1)))
}

// Marshal converts a parameter snapshot into the uniform values for one eye.
// The parameters are not validated. Only values the chain divides by are
// adjusted: a non-positive scale becomes 1, zoom is clamped to at least 1
// and the sphere radius to SphereMinRadius; gamma is floored in the chain.
// Every other control, including zero contrast, passes through as given.
func Marshal(p params.ParameterSet, eye Eye, vp Viewport, video VideoInfo) transform.Uniforms {
	offset := types.XY(p.LeftOffsetX, p.LeftOffsetY)
	if eye == RightEye {
		offset = types.XY(p.RightOffsetX, p.RightOffsetY)
	}

	scale := p.Scale
	if scale <= 0 {
		scale = 1
	}

	return transform.Uniforms{
		Aspect:    video.Aspect(),
		TexelSize: video.TexelSize(),
		Viewport:  types.XY(float32(vp.Width), float32(vp.Height)),

		Scale:      scale,
		Offset:     offset,
		EyeSign:    eye.Sign(),
		Separation: p.Separation,

		Contrast:    p.Contrast,
		Brightness:  p.Brightness,
		Gamma:       p.Gamma,
		Highlights:  p.Highlights,
		Shadows:     p.Shadows,
		Temperature: p.Temperature,

		DistortionEnabled: transform.Gate(p.DistortionEnabled),
		K1:                p.K1 * coefficientScale,
		K2:                p.K2 * coefficientScale,

		SphereStrength: p.SphereStrength * percentScale,
		SphereRadius:   math32.Max(0.5*p.SphereDiameter*percentScale, transform.SphereMinRadius),

		FilterMode: p.FilterMode.Code(),

		MagnifierEnabled: transform.Gate(p.MagnifierEnabled),
		MagnifierZoom:    math32.Max(p.MagnifierZoom, 1),
		MagnifierSize:    p.MagnifierSize,

		Calibration: transform.Gate(p.Calibration),
	}
}

type uniformWriter func(dev gpu.Device, loc gpu.Location, u *transform.Uniforms)

func float1(field func(*transform.Uniforms) float32) uniformWriter {
	return func(dev gpu.Device, loc gpu.Location, u *transform.Uniforms) {
		dev.SetUniform1f(loc, field(u))
	}
}

func float2(field func(*transform.Uniforms) types.Vec2) uniformWriter {
	return func(dev gpu.Device, loc gpu.Location, u *transform.Uniforms) {
		v := field(u)
		dev.SetUniform2f(loc, v[0], v[1])
	}
}

// The uniforms the program may declare. Every entry is optional.
var uniformTable = []struct {
	name  string
	write uniformWriter
}{
	{"u_aspect", float1(func(u *transform.Uniforms) float32 { return u.Aspect })},
	{"u_texelSize", float2(func(u *transform.Uniforms) types.Vec2 { return u.TexelSize })},
	{"u_viewport", float2(func(u *transform.Uniforms) types.Vec2 { return u.Viewport })},
	{"u_scale", float1(func(u *transform.Uniforms) float32 { return u.Scale })},
	{"u_offset", float2(func(u *transform.Uniforms) types.Vec2 { return u.Offset })},
	{"u_eyeSign", float1(func(u *transform.Uniforms) float32 { return u.EyeSign })},
	{"u_separation", float1(func(u *transform.Uniforms) float32 { return u.Separation })},
	{"u_contrast", float1(func(u *transform.Uniforms) float32 { return u.Contrast })},
	{"u_brightness", float1(func(u *transform.Uniforms) float32 { return u.Brightness })},
	{"u_gamma", float1(func(u *transform.Uniforms) float32 { return u.Gamma })},
	{"u_highlights", float1(func(u *transform.Uniforms) float32 { return u.Highlights })},
	{"u_shadows", float1(func(u *transform.Uniforms) float32 { return u.Shadows })},
	{"u_temperature", float1(func(u *transform.Uniforms) float32 { return u.Temperature })},
	{"u_distortionEnabled", float1(func(u *transform.Uniforms) float32 { return u.DistortionEnabled })},
	{"u_k1", float1(func(u *transform.Uniforms) float32 { return u.K1 })},
	{"u_k2", float1(func(u *transform.Uniforms) float32 { return u.K2 })},
	{"u_sphereStrength", float1(func(u *transform.Uniforms) float32 { return u.SphereStrength })},
	{"u_sphereRadius", float1(func(u *transform.Uniforms) float32 { return u.SphereRadius })},
	{"u_filterMode", func(dev gpu.Device, loc gpu.Location, u *transform.Uniforms) {
		dev.SetUniform1i(loc, u.FilterMode)
	}},
	{"u_magnifierEnabled", float1(func(u *transform.Uniforms) float32 { return u.MagnifierEnabled })},
	{"u_magnifierZoom", float1(func(u *transform.Uniforms) float32 { return u.MagnifierZoom })},
	{"u_magnifierSize", float1(func(u *transform.Uniforms) float32 { return u.MagnifierSize })},
	{"u_calibration", float1(func(u *transform.Uniforms) float32 { return u.Calibration })},
}

// Handles caches the attribute and uniform locations of a linked program.
type Handles struct {
	Position gpu.Location
	TexCoord gpu.Location
	Image    gpu.Location

	// Indexed like uniformTable.
	uniforms []gpu.Location
}

func resolveHandles(dev gpu.Device, prog gpu.Program) Handles {
	h := Handles{
		Position: dev.AttribLocation(prog, "a_position"),
		TexCoord: dev.AttribLocation(prog, "a_texCoord"),
		Image:    dev.UniformLocation(prog, "u_image"),
		uniforms: make([]gpu.Location, len(uniformTable)),
	}
	for i, entry := range uniformTable {
		h.uniforms[i] = dev.UniformLocation(prog, entry.name)
	}
	return h
}

// Missing returns the names of the uniforms the program does not expose.
func (h Handles) Missing() []string {
	var names []string
	for i, loc := range h.uniforms {
		if !loc.Valid() {
			names = append(names, uniformTable[i].name)
		}
	}
	return names
}

// Write uploads u to every uniform the program exposes. Missing handles are
// skipped.
func (h Handles) Write(dev gpu.Device, u *transform.Uniforms) {
	for i, loc := range h.uniforms {
		if !loc.Valid() {
			continue
		}
		uniformTable[i].write(dev, loc, u)
	}
}
