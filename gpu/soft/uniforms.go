package soft

import (
	"github.com/achilleasa/stereocam/transform"
	"github.com/achilleasa/stereocam/types"
)

// Maps shader uniform names to transform.Uniforms fields.
var uniformSetters = map[string]func(*transform.Uniforms, uniformValue){
	"u_aspect":            func(u *transform.Uniforms, v uniformValue) { u.Aspect = v.x },
	"u_texelSize":         func(u *transform.Uniforms, v uniformValue) { u.TexelSize = types.XY(v.x, v.y) },
	"u_viewport":          func(u *transform.Uniforms, v uniformValue) { u.Viewport = types.XY(v.x, v.y) },
	"u_scale":             func(u *transform.Uniforms, v uniformValue) { u.Scale = v.x },
	"u_offset":            func(u *transform.Uniforms, v uniformValue) { u.Offset = types.XY(v.x, v.y) },
	"u_eyeSign":           func(u *transform.Uniforms, v uniformValue) { u.EyeSign = v.x },
	"u_separation":        func(u *transform.Uniforms, v uniformValue) { u.Separation = v.x },
	"u_contrast":          func(u *transform.Uniforms, v uniformValue) { u.Contrast = v.x },
	"u_brightness":        func(u *transform.Uniforms, v uniformValue) { u.Brightness = v.x },
	"u_gamma":             func(u *transform.Uniforms, v uniformValue) { u.Gamma = v.x },
	"u_highlights":        func(u *transform.Uniforms, v uniformValue) { u.Highlights = v.x },
	"u_shadows":           func(u *transform.Uniforms, v uniformValue) { u.Shadows = v.x },
	"u_temperature":       func(u *transform.Uniforms, v uniformValue) { u.Temperature = v.x },
	"u_distortionEnabled": func(u *transform.Uniforms, v uniformValue) { u.DistortionEnabled = v.x },
	"u_k1":                func(u *transform.Uniforms, v uniformValue) { u.K1 = v.x },
	"u_k2":                func(u *transform.Uniforms, v uniformValue) { u.K2 = v.x },
	"u_sphereStrength":    func(u *transform.Uniforms, v uniformValue) { u.SphereStrength = v.x },
	"u_sphereRadius":      func(u *transform.Uniforms, v uniformValue) { u.SphereRadius = v.x },
	"u_filterMode":        func(u *transform.Uniforms, v uniformValue) { u.FilterMode = v.i },
	"u_magnifierEnabled":  func(u *transform.Uniforms, v uniformValue) { u.MagnifierEnabled = v.x },
	"u_magnifierZoom":     func(u *transform.Uniforms, v uniformValue) { u.MagnifierZoom = v.x },
	"u_magnifierSize":     func(u *transform.Uniforms, v uniformValue) { u.MagnifierSize = v.x },
	"u_calibration":       func(u *transform.Uniforms, v uniformValue) { u.Calibration = v.x },
}
