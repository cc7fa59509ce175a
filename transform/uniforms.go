// Package transform is the reference implementation of the per-pixel image
// transform chain executed by the stereo shaders. The GPU programs and this
// package share one set of uniforms and constants; the software backend and
// the conformance tests run it directly.
package transform

import "github.com/achilleasa/stereocam/types"

// Uniforms holds the shader-facing values for drawing one eye. Every value
// is already converted to shader units.
type Uniforms struct {
	// Source video aspect ratio (width / height).
	Aspect float32

	// Size of one source texel in UV units; used by the edge filter.
	TexelSize types.Vec2

	// Eye viewport size in device pixels.
	Viewport types.Vec2

	Scale      float32
	Offset     types.Vec2
	EyeSign    float32
	Separation float32

	Contrast    float32
	Brightness  float32
	Gamma       float32
	Highlights  float32
	Shadows     float32
	Temperature float32

	// Gates are floats in [0, 1] so they can drive mix() in the shaders.
	DistortionEnabled float32
	K1                float32
	K2                float32

	SphereStrength float32
	SphereRadius   float32

	FilterMode int32

	MagnifierEnabled float32
	MagnifierZoom    float32
	MagnifierSize    float32

	Calibration float32
}

// Gate converts a boolean toggle into a blend factor.
func Gate(on bool) float32 {
	if on {
		return 1
	}
	return 0
}
