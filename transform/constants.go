package transform

import "github.com/achilleasa/stereocam/types"

// Shared constants. The GLSL sources in the renderer package are generated
// from these values.
const (
	GammaFloor      float32 = 0.001
	SphereThreshold float32 = 0.001
	SphereMinRadius float32 = 0.001

	ShadowKnee    float32 = 0.35
	HighlightKnee float32 = 0.65

	DuotoneThreshold float32 = 0.5
	EdgeThreshold    float32 = 0.3

	MagnifierMinSize      float32 = 0.05
	MagnifierMaxSize      float32 = 0.5
	MagnifierCornerRadius float32 = 0.04
	MagnifierEdgeWidth    float32 = 0.004

	CalibrationGridCells  float32 = 6
	CalibrationInnerRing  float32 = 0.25
	CalibrationOuterRing  float32 = 0.40
	CalibrationLinePixels float32 = 1.5
	CalibrationIntensity  float32 = 0.8
	CalibrationGridWeight float32 = 0.5

	SphereCenterEpsilon float32 = 1e-4
	SphereFeatherMin    float32 = 1e-3
)

// Filter codes understood by the shaders.
const (
	FilterCodeNone int32 = iota
	FilterCodeAmber
	FilterCodeDeepBlue
	FilterCodeEdges
)

var (
	LumaWeights = types.XYZ(0.299, 0.587, 0.114)

	AmberDark     = types.XYZ(0.12, 0.06, 0.0)
	AmberLight    = types.XYZ(1.0, 0.76, 0.28)
	DeepBlueDark  = types.XYZ(0.0, 0.03, 0.12)
	DeepBlueLight = types.XYZ(0.36, 0.66, 1.0)

	CalibrationColor = types.XYZ(0.1, 1.0, 0.45)
)

// EdgeMode selects how the edge filter applies the Sobel magnitude.
type EdgeMode uint8

const (
	// Threshold the gradient into a binary mask (baseline tier).
	EdgeBinary EdgeMode = iota

	// Darken proportionally to the gradient (extended tier).
	EdgeGraded
)
