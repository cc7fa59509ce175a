package transform

import (
	"github.com/achilleasa/stereocam/types"
	"github.com/chewxy/math32"
)

// Trace records the sampling coordinates produced by each coordinate stage
// for a single pixel.
type Trace struct {
	// Pixel position inside the eye viewport in [0, 1].
	Screen types.Vec2

	// After aspect correction.
	Aspect types.Vec2

	// After scale, per-eye offset and separation.
	Scaled types.Vec2

	// Distortion center (screen center shifted like Scaled).
	Center types.Vec2

	// After radial lens distortion.
	Lens types.Vec2

	// After the spherical warp; the main sample coordinate.
	Warped types.Vec2

	// Magnifier resample coordinate and its composite weight.
	Magnified     types.Vec2
	MagnifierMask float32
}

// Sample returns the coordinate that dominates the final color: the
// magnifier coordinate when fully inside the magnifier, Warped otherwise.
func (t Trace) Sample() types.Vec2 {
	if t.MagnifierMask >= 1 {
		return t.Magnified
	}
	return t.Warped
}

// AspectCorrect compresses the axis along which the source is longer so the
// image keeps its proportions inside a square viewport.
func AspectCorrect(uv types.Vec2, aspect float32) types.Vec2 {
	if aspect <= 0 {
		return uv
	}
	if aspect > 1 {
		uv[0] = (uv[0]-0.5)/aspect + 0.5
	} else {
		uv[1] = (uv[1]-0.5)*aspect + 0.5
	}
	return uv
}

// ScaleOffset applies the shared zoom and the eye specific shift. It returns
// the shifted coordinate and the distortion center.
func ScaleOffset(uv types.Vec2, u *Uniforms) (types.Vec2, types.Vec2) {
	scale := u.Scale
	if scale <= 0 {
		scale = 1
	}
	shift := u.Offset.Add(types.XY(u.EyeSign*u.Separation, 0))
	uv = uv.Sub(types.XY(0.5, 0.5)).Div(scale).Add(types.XY(0.5, 0.5))
	return uv.Add(shift), types.XY(0.5, 0.5).Add(shift)
}

// LensDistort applies the even polynomial radial model around center.
// A disabled stage returns uv unchanged.
func LensDistort(uv, center types.Vec2, u *Uniforms) types.Vec2 {
	if u.DistortionEnabled < 0.5 {
		return uv
	}
	d := uv.Sub(center)
	r2 := d.Dot(d)
	factor := 1 + u.K1*r2 + u.K2*r2*r2
	return center.Add(d.Mul(factor))
}

// Spherize blends the lens distorted coordinate towards an arcsine mapped
// point. The blend is feathered at the sphere boundary with a softness that
// follows the strength; below SphereThreshold the stage is a no-op.
func Spherize(warped, center, screen types.Vec2, u *Uniforms) types.Vec2 {
	strength := types.Clamp(u.SphereStrength, 0, 1)
	if strength <= SphereThreshold {
		return warped
	}

	radius := math32.Max(u.SphereRadius, SphereMinRadius)
	r := screen.Sub(types.XY(0.5, 0.5)).Len() / radius
	rn := types.Clamp(r, 0, 1)

	k := float32(2 / math32.Pi)
	if rn >= SphereCenterEpsilon {
		k = math32.Asin(rn) / (math32.Pi / 2) / rn
	}
	sphere := center.Add(warped.Sub(center).Mul(k))

	feather := math32.Max(strength, SphereFeatherMin)
	mask := 1 - types.SmoothStep(1-feather, 1, r)
	return warped.Mix(sphere, strength*mask)
}

// Luma returns the perceptual luminance of c.
func Luma(c types.Vec3) float32 {
	return c.Dot(LumaWeights)
}

// Grade applies contrast, brightness, gamma and the luminance masked
// shadow/highlight boosts. Every stage clamps to [0, 1].
func Grade(c types.Vec3, u *Uniforms) types.Vec3 {
	c = c.Sub(types.Gray(0.5)).Mul(u.Contrast).Add(types.Gray(0.5)).Clamp(0, 1)
	c = c.Add(types.Gray(u.Brightness)).Clamp(0, 1)

	invGamma := 1 / math32.Max(u.Gamma, GammaFloor)
	c = types.XYZ(
		math32.Pow(c[0], invGamma),
		math32.Pow(c[1], invGamma),
		math32.Pow(c[2], invGamma),
	).Clamp(0, 1)

	l := Luma(c)
	shadowMask := 1 - types.SmoothStep(0, ShadowKnee, l)
	highlightMask := types.SmoothStep(HighlightKnee, 1, l)
	c = c.Add(types.Gray(u.Shadows*shadowMask + u.Highlights*highlightMask)).Clamp(0, 1)

	// Temperature is reserved and passes the color through.
	return c
}

// Duotone maps c to dark or light depending on its luminance.
func Duotone(c, dark, light types.Vec3) types.Vec3 {
	return dark.Mix(light, types.Step(DuotoneThreshold, Luma(c)))
}

// Sobel returns the gradient magnitude of the source luminance around uv.
func Sobel(s Sampler, uv, texel types.Vec2) float32 {
	at := func(dx, dy float32) float32 {
		return Luma(s.Sample(types.XY(uv[0]+dx*texel[0], uv[1]+dy*texel[1])))
	}
	tl, t, tr := at(-1, -1), at(0, -1), at(1, -1)
	l, r := at(-1, 0), at(1, 0)
	bl, b, br := at(-1, 1), at(0, 1), at(1, 1)

	gx := -tl - 2*l - bl + tr + 2*r + br
	gy := -tl - 2*t - tr + bl + 2*b + br
	return math32.Sqrt(gx*gx + gy*gy)
}

// Filter applies the filter selected by u.FilterMode to the graded color c
// sampled at uv. Unknown codes leave the color untouched.
func Filter(c types.Vec3, s Sampler, uv types.Vec2, u *Uniforms, edges EdgeMode) types.Vec3 {
	switch u.FilterMode {
	case FilterCodeAmber:
		return Duotone(c, AmberDark, AmberLight)
	case FilterCodeDeepBlue:
		return Duotone(c, DeepBlueDark, DeepBlueLight)
	case FilterCodeEdges:
		g := Sobel(s, uv, u.TexelSize)
		if edges == EdgeBinary {
			return c.Mul(1 - types.Step(EdgeThreshold, g))
		}
		return c.Mul(1 - types.Clamp(g, 0, 1))
	}
	return c
}

// MagnifierMask evaluates the anti-aliased rounded rectangle centered on the
// viewport with the given half extent.
func MagnifierMask(screen types.Vec2, size float32) float32 {
	halfExtent := types.Clamp(size, MagnifierMinSize, MagnifierMaxSize)
	inner := halfExtent - MagnifierCornerRadius

	q := screen.Sub(types.XY(0.5, 0.5)).Abs().Sub(types.XY(inner, inner))
	outside := types.XY(math32.Max(q[0], 0), math32.Max(q[1], 0)).Len()
	d := outside + math32.Min(math32.Max(q[0], q[1]), 0) - MagnifierCornerRadius
	return 1 - types.SmoothStep(-MagnifierEdgeWidth, MagnifierEdgeWidth, d)
}

// CalibrationOverlay returns the intensity of the alignment grid, the
// crosshair and the two rings at this pixel. Line weight is constant in
// device pixels.
func CalibrationOverlay(screen, warped, viewport types.Vec2) float32 {
	thickness := CalibrationLinePixels / math32.Max(math32.Min(viewport[0], viewport[1]), 1)
	line := func(dist float32) float32 {
		return 1 - types.SmoothStep(0, thickness, dist)
	}

	g := types.XY(types.Clamp(warped[0], 0, 1), types.Clamp(warped[1], 0, 1)).Mul(CalibrationGridCells)
	fx, fy := types.Fract(g[0]), types.Fract(g[1])
	gridDist := math32.Min(math32.Min(fx, 1-fx), math32.Min(fy, 1-fy)) / CalibrationGridCells
	grid := line(gridDist) * CalibrationGridWeight

	p := screen.Sub(types.XY(0.5, 0.5))
	cross := math32.Max(line(math32.Abs(p[0])), line(math32.Abs(p[1])))

	r := p.Len()
	rings := math32.Max(line(math32.Abs(r-CalibrationInnerRing)), line(math32.Abs(r-CalibrationOuterRing)))

	return math32.Max(grid, math32.Max(cross, rings))
}

// TraceCoordinates runs the coordinate stages for the pixel at screen.
func TraceCoordinates(u *Uniforms, screen types.Vec2) Trace {
	t := Trace{Screen: screen}
	t.Aspect = AspectCorrect(screen, u.Aspect)
	t.Scaled, t.Center = ScaleOffset(t.Aspect, u)
	t.Lens = LensDistort(t.Scaled, t.Center, u)
	t.Warped = Spherize(t.Lens, t.Center, screen, u)

	if u.MagnifierEnabled >= 0.5 {
		zoom := math32.Max(u.MagnifierZoom, 1)
		t.Magnified = t.Center.Add(t.Warped.Sub(t.Center).Div(zoom))
		t.MagnifierMask = MagnifierMask(screen, u.MagnifierSize)
	} else {
		t.Magnified = t.Warped
	}
	return t
}

// Shade evaluates the full chain for one pixel of an eye viewport.
func Shade(u *Uniforms, screen types.Vec2, s Sampler, edges EdgeMode) types.Vec3 {
	t := TraceCoordinates(u, screen)

	c := Filter(Grade(s.Sample(t.Warped), u), s, t.Warped, u, edges)
	if t.MagnifierMask > 0 {
		m := Filter(Grade(s.Sample(t.Magnified), u), s, t.Magnified, u, edges)
		c = c.Mix(m, t.MagnifierMask)
	}

	if u.Calibration >= 0.5 {
		overlay := CalibrationOverlay(screen, t.Warped, u.Viewport)
		c = c.Add(CalibrationColor.Mul(overlay * CalibrationIntensity))
	}
	return c.Clamp(0, 1)
}
