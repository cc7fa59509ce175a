package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/achilleasa/stereocam/gpu"
	"github.com/achilleasa/stereocam/transform"
	"github.com/achilleasa/stereocam/types"
)

// ShaderSource holds the two stages of a program variant.
type ShaderSource struct {
	Vertex   string
	Fragment string
}

// Sources returns the program variant for the given capability tier.
func Sources(tier gpu.Tier) ShaderSource {
	if tier == gpu.TierExtended {
		return ShaderSource{
			Vertex:   extendedVertex,
			Fragment: extendedFragmentHeader + fragmentConstants() + fragmentUniforms + extendedFragmentExtras + fragmentBody,
		}
	}
	return ShaderSource{
		Vertex:   baselineVertex,
		Fragment: baselineFragmentHeader + fragmentConstants() + fragmentUniforms + baselineFragmentExtras + fragmentBody,
	}
}

const baselineVertex = `#version 120
attribute vec2 a_position;
attribute vec2 a_texCoord;
varying vec2 v_texCoord;

void main() {
	v_texCoord = a_texCoord;
	gl_Position = vec4(a_position, 0.0, 1.0);
}
`

const extendedVertex = `#version 330 core
in vec2 a_position;
in vec2 a_texCoord;
out vec2 v_texCoord;

void main() {
	v_texCoord = a_texCoord;
	gl_Position = vec4(a_position, 0.0, 1.0);
}
`

const baselineFragmentHeader = `#version 120
varying vec2 v_texCoord;
#define FRAG_COLOR gl_FragColor
`

const extendedFragmentHeader = `#version 330 core
in vec2 v_texCoord;
out vec4 fragColor;
#define FRAG_COLOR fragColor
`

const fragmentUniforms = `
uniform sampler2D u_image;
uniform float u_aspect;
uniform vec2 u_texelSize;
uniform vec2 u_viewport;
uniform float u_scale;
uniform vec2 u_offset;
uniform float u_eyeSign;
uniform float u_separation;
uniform float u_contrast;
uniform float u_brightness;
uniform float u_gamma;
uniform float u_highlights;
uniform float u_shadows;
uniform float u_distortionEnabled;
uniform float u_k1;
uniform float u_k2;
uniform float u_sphereStrength;
uniform float u_sphereRadius;
uniform int u_filterMode;
uniform float u_magnifierEnabled;
uniform float u_magnifierZoom;
uniform float u_magnifierSize;
uniform float u_calibration;
`

const baselineFragmentExtras = `
vec3 sampleImage(vec2 uv) {
	return texture2D(u_image, uv).rgb;
}

// Binary edge mask.
float edgeMask(float g) {
	return step(EDGE_THRESHOLD, g);
}
`

const extendedFragmentExtras = `
// Reserved; graded colors pass through unchanged.
uniform float u_temperature;

vec3 sampleImage(vec2 uv) {
	return texture(u_image, uv).rgb;
}

// Graded darkening proportional to the gradient.
float edgeMask(float g) {
	return clamp(g, 0.0, 1.0);
}
`

// fragmentConstants renders the shared constants as preprocessor defines so
// both variants and the reference chain use the same values.
func fragmentConstants() string {
	defs := []struct {
		name  string
		value string
	}{
		{"PI", glslFloat(3.14159265)},
		{"LUMA", glslVec3(transform.LumaWeights)},
		{"GAMMA_FLOOR", glslFloat(transform.GammaFloor)},
		{"SHADOW_KNEE", glslFloat(transform.ShadowKnee)},
		{"HIGHLIGHT_KNEE", glslFloat(transform.HighlightKnee)},
		{"SPHERE_THRESHOLD", glslFloat(transform.SphereThreshold)},
		{"SPHERE_MIN_RADIUS", glslFloat(transform.SphereMinRadius)},
		{"SPHERE_CENTER_EPSILON", glslFloat(transform.SphereCenterEpsilon)},
		{"SPHERE_FEATHER_MIN", glslFloat(transform.SphereFeatherMin)},
		{"DUOTONE_THRESHOLD", glslFloat(transform.DuotoneThreshold)},
		{"EDGE_THRESHOLD", glslFloat(transform.EdgeThreshold)},
		{"AMBER_DARK", glslVec3(transform.AmberDark)},
		{"AMBER_LIGHT", glslVec3(transform.AmberLight)},
		{"DEEPBLUE_DARK", glslVec3(transform.DeepBlueDark)},
		{"DEEPBLUE_LIGHT", glslVec3(transform.DeepBlueLight)},
		{"FILTER_AMBER", glslFloat(float32(transform.FilterCodeAmber))},
		{"FILTER_DEEPBLUE", glslFloat(float32(transform.FilterCodeDeepBlue))},
		{"FILTER_EDGES", glslFloat(float32(transform.FilterCodeEdges))},
		{"MAGNIFIER_MIN_SIZE", glslFloat(transform.MagnifierMinSize)},
		{"MAGNIFIER_MAX_SIZE", glslFloat(transform.MagnifierMaxSize)},
		{"MAGNIFIER_CORNER", glslFloat(transform.MagnifierCornerRadius)},
		{"MAGNIFIER_EDGE", glslFloat(transform.MagnifierEdgeWidth)},
		{"GRID_CELLS", glslFloat(transform.CalibrationGridCells)},
		{"GRID_WEIGHT", glslFloat(transform.CalibrationGridWeight)},
		{"INNER_RING", glslFloat(transform.CalibrationInnerRing)},
		{"OUTER_RING", glslFloat(transform.CalibrationOuterRing)},
		{"LINE_PIXELS", glslFloat(transform.CalibrationLinePixels)},
		{"CALIBRATION_INTENSITY", glslFloat(transform.CalibrationIntensity)},
		{"CALIBRATION_COLOR", glslVec3(transform.CalibrationColor)},
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, def := range defs {
		fmt.Fprintf(&b, "#define %s %s\n", def.name, def.value)
	}
	return b.String()
}

func glslFloat(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func glslVec3(v types.Vec3) string {
	return fmt.Sprintf("vec3(%s, %s, %s)", glslFloat(v[0]), glslFloat(v[1]), glslFloat(v[2]))
}

// Every gate is a step/mix blend so all stages run for every pixel.
const fragmentBody = `
float luma(vec3 c) {
	return dot(c, LUMA);
}

vec2 aspectCorrect(vec2 uv) {
	float a = u_aspect;
	float valid = step(0.0001, a);
	float wide = 1.0 - step(a, 1.0);
	vec2 horizontal = vec2((uv.x - 0.5) / max(a, 0.0001) + 0.5, uv.y);
	vec2 vertical = vec2(uv.x, (uv.y - 0.5) * a + 0.5);
	return mix(uv, mix(vertical, horizontal, wide), valid);
}

vec2 eyeShift() {
	return u_offset + vec2(u_eyeSign * u_separation, 0.0);
}

vec2 lensDistort(vec2 uv, vec2 center) {
	vec2 d = uv - center;
	float r2 = dot(d, d);
	vec2 warped = center + d * (1.0 + u_k1 * r2 + u_k2 * r2 * r2);
	return mix(uv, warped, step(0.5, u_distortionEnabled));
}

vec2 spherize(vec2 warped, vec2 center, vec2 screen) {
	float strength = clamp(u_sphereStrength, 0.0, 1.0);
	float radius = max(u_sphereRadius, SPHERE_MIN_RADIUS);
	float r = length(screen - vec2(0.5)) / radius;
	float rn = clamp(r, 0.0, 1.0);

	float k = mix(2.0 / PI, asin(rn) / (PI * 0.5) / max(rn, SPHERE_CENTER_EPSILON), step(SPHERE_CENTER_EPSILON, rn));
	vec2 sphere = center + (warped - center) * k;

	float feather = max(strength, SPHERE_FEATHER_MIN);
	float mask = 1.0 - smoothstep(1.0 - feather, 1.0, r);
	float sphereOn = 1.0 - step(strength, SPHERE_THRESHOLD);
	return mix(warped, sphere, strength * mask * sphereOn);
}

vec3 grade(vec3 c) {
	c = clamp((c - 0.5) * u_contrast + 0.5, 0.0, 1.0);
	c = clamp(c + u_brightness, 0.0, 1.0);
	c = clamp(pow(c, vec3(1.0 / max(u_gamma, GAMMA_FLOOR))), 0.0, 1.0);

	float l = luma(c);
	float shadowMask = 1.0 - smoothstep(0.0, SHADOW_KNEE, l);
	float highlightMask = smoothstep(HIGHLIGHT_KNEE, 1.0, l);
	return clamp(c + u_shadows * shadowMask + u_highlights * highlightMask, 0.0, 1.0);
}

vec3 duotone(vec3 c, vec3 dark, vec3 light) {
	return mix(dark, light, step(DUOTONE_THRESHOLD, luma(c)));
}

float sobel(vec2 uv) {
	vec2 t = u_texelSize;
	float tl = luma(sampleImage(uv + vec2(-t.x, -t.y)));
	float tc = luma(sampleImage(uv + vec2(0.0, -t.y)));
	float tr = luma(sampleImage(uv + vec2(t.x, -t.y)));
	float ml = luma(sampleImage(uv + vec2(-t.x, 0.0)));
	float mr = luma(sampleImage(uv + vec2(t.x, 0.0)));
	float bl = luma(sampleImage(uv + vec2(-t.x, t.y)));
	float bc = luma(sampleImage(uv + vec2(0.0, t.y)));
	float br = luma(sampleImage(uv + vec2(t.x, t.y)));

	float gx = -tl - 2.0 * ml - bl + tr + 2.0 * mr + br;
	float gy = -tl - 2.0 * tc - tr + bl + 2.0 * bc + br;
	return length(vec2(gx, gy));
}

float filterWeight(float code) {
	return 1.0 - step(0.5, abs(float(u_filterMode) - code));
}

vec3 applyFilter(vec3 c, vec2 uv) {
	vec3 result = c;
	result = mix(result, duotone(c, AMBER_DARK, AMBER_LIGHT), filterWeight(FILTER_AMBER));
	result = mix(result, duotone(c, DEEPBLUE_DARK, DEEPBLUE_LIGHT), filterWeight(FILTER_DEEPBLUE));
	result = mix(result, c * (1.0 - edgeMask(sobel(uv))), filterWeight(FILTER_EDGES));
	return result;
}

float magnifierMask(vec2 screen) {
	float halfExtent = clamp(u_magnifierSize, MAGNIFIER_MIN_SIZE, MAGNIFIER_MAX_SIZE);
	vec2 q = abs(screen - vec2(0.5)) - vec2(halfExtent - MAGNIFIER_CORNER);
	float d = length(max(q, 0.0)) + min(max(q.x, q.y), 0.0) - MAGNIFIER_CORNER;
	return 1.0 - smoothstep(-MAGNIFIER_EDGE, MAGNIFIER_EDGE, d);
}

float lineAt(float dist, float thickness) {
	return 1.0 - smoothstep(0.0, thickness, dist);
}

float calibration(vec2 screen, vec2 warped) {
	float thickness = LINE_PIXELS / max(min(u_viewport.x, u_viewport.y), 1.0);

	vec2 f = fract(clamp(warped, 0.0, 1.0) * GRID_CELLS);
	float gridDist = min(min(f.x, 1.0 - f.x), min(f.y, 1.0 - f.y)) / GRID_CELLS;
	float grid = lineAt(gridDist, thickness) * GRID_WEIGHT;

	vec2 p = screen - vec2(0.5);
	float crosshair = max(lineAt(abs(p.x), thickness), lineAt(abs(p.y), thickness));

	float r = length(p);
	float rings = max(lineAt(abs(r - INNER_RING), thickness), lineAt(abs(r - OUTER_RING), thickness));
	return max(grid, max(crosshair, rings));
}

void main() {
	vec2 screen = v_texCoord;

	vec2 shift = eyeShift();
	vec2 center = vec2(0.5) + shift;
	float scale = mix(1.0, u_scale, step(0.000001, u_scale));
	vec2 uv = (aspectCorrect(screen) - 0.5) / max(scale, 0.000001) + 0.5 + shift;

	vec2 warped = spherize(lensDistort(uv, center), center, screen);
	vec2 magnified = center + (warped - center) / max(u_magnifierZoom, 1.0);

	vec3 color = applyFilter(grade(sampleImage(warped)), warped);
	vec3 zoomed = applyFilter(grade(sampleImage(magnified)), magnified);
	color = mix(color, zoomed, magnifierMask(screen) * step(0.5, u_magnifierEnabled));

	color += CALIBRATION_COLOR * (calibration(screen, warped) * CALIBRATION_INTENSITY * step(0.5, u_calibration));
	FRAG_COLOR = vec4(clamp(color, 0.0, 1.0), 1.0);
}
`
