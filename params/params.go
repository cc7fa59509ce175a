// Package params defines the parameter set that drives the stereo pipeline
// and the accessors the pipeline pulls it through once per frame.
package params

// ParameterSet is a flat snapshot of every control the renderer reads.
// Values are in the units the control surface uses; the renderer performs
// the fixed conversions for k1/k2 (x0.1) and the sphere controls (/100).
//
// The zero value is not the default set: zero contrast renders flat grey.
// Build sets from Defaults() and change the fields of interest.
type ParameterSet struct {
	// Per-eye sampling center shifts in normalized units (about +-0.2).
	LeftOffsetX  float32 `yaml:"leftOffsetX"`
	LeftOffsetY  float32 `yaml:"leftOffsetY"`
	RightOffsetX float32 `yaml:"rightOffsetX"`
	RightOffsetY float32 `yaml:"rightOffsetY"`

	// Shared zoom applied before distortion.
	Scale float32 `yaml:"scale"`

	// Signed horizontal inter-eye shift.
	Separation float32 `yaml:"separation"`

	// Color grading.
	Contrast    float32 `yaml:"contrast"`
	Brightness  float32 `yaml:"brightness"`
	Gamma       float32 `yaml:"gamma"`
	Highlights  float32 `yaml:"highlights"`
	Shadows     float32 `yaml:"shadows"`
	Temperature float32 `yaml:"temperature"`

	// Radial lens distortion. K1 and K2 are in slider units (0-100).
	DistortionEnabled bool    `yaml:"distortionEnabled"`
	K1                float32 `yaml:"k1"`
	K2                float32 `yaml:"k2"`

	// Spherize, both in slider units (0-100).
	SphereStrength float32 `yaml:"sphereStrength"`
	SphereDiameter float32 `yaml:"sphereDiameter"`

	FilterMode FilterMode `yaml:"filterMode"`

	MagnifierEnabled bool    `yaml:"magnifierEnabled"`
	MagnifierZoom    float32 `yaml:"magnifierZoom"`
	MagnifierSize    float32 `yaml:"magnifierSize"`

	Calibration bool `yaml:"calibration"`
}

// Defaults returns the documented default parameter set.
func Defaults() ParameterSet {
	return ParameterSet{
		Scale:             1.0,
		Contrast:          1.0,
		Gamma:             1.0,
		DistortionEnabled: true,
		K1:                35,
		K2:                20,
		SphereDiameter:    100,
		FilterMode:        FilterNone,
		MagnifierZoom:     1.6,
		MagnifierSize:     0.25,
	}
}

// Identity returns a parameter set whose transform is an undistorted passthrough.
func Identity() ParameterSet {
	p := Defaults()
	p.DistortionEnabled = false
	return p
}
