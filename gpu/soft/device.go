// Package soft implements gpu.Device in software. Programs are "compiled" by
// extracting their attribute and uniform declarations and drawing evaluates
// the reference transform chain for every covered pixel.
package soft

import (
	"fmt"
	"image"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/achilleasa/stereocam/gpu"
	"github.com/achilleasa/stereocam/transform"
	"github.com/achilleasa/stereocam/types"
	"golang.org/x/sync/errgroup"
)

var (
	versionRegex   = regexp.MustCompile(`^\s*#version\s+(\d+)`)
	mainRegex      = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(void)?\s*\)`)
	uniformRegex   = regexp.MustCompile(`(?m)^\s*uniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*;`)
	attributeRegex = regexp.MustCompile(`(?m)^\s*(?:attribute|in)\s+(?:(?:lowp|mediump|highp)\s+)?\w+\s+(\w+)\s*;`)
)

// Highest GLSL version accepted per tier.
var maxVersion = map[gpu.Tier]int{
	gpu.TierBaseline: 120,
	gpu.TierExtended: 330,
}

type declaration struct {
	kind string
	name string
}

type shaderObject struct {
	stage      gpu.ShaderStage
	attributes []string
	uniforms   []declaration
}

type uniformValue struct {
	x, y float32
	i    int32
}

type programObject struct {
	attributes []string

	// A uniform's location is its index in this slice.
	uniforms []declaration
	values   map[gpu.Location]uniformValue
}

// Counts reports the number of live objects per kind.
type Counts struct {
	Shaders  int
	Programs int
	Buffers  int
	Textures int
}

// Device is a software gpu.Device drawing into a Canvas.
type Device struct {
	canvas *Canvas
	tier   gpu.Tier
	bands  int

	nextHandle uint32
	shaders    map[gpu.Shader]*shaderObject
	programs   map[gpu.Program]*programObject
	buffers    map[gpu.Buffer][]float32
	textures   map[gpu.Texture]*image.RGBA

	current    *programObject
	quad       gpu.Buffer
	boundUnits map[int]gpu.Texture
	viewport   image.Rectangle
}

// New creates a software device emulating the given tier.
func New(canvas *Canvas, tier gpu.Tier) *Device {
	return &Device{
		canvas:     canvas,
		tier:       tier,
		bands:      runtime.NumCPU(),
		shaders:    make(map[gpu.Shader]*shaderObject),
		programs:   make(map[gpu.Program]*programObject),
		buffers:    make(map[gpu.Buffer][]float32),
		textures:   make(map[gpu.Texture]*image.RGBA),
		boundUnits: make(map[int]gpu.Texture),
	}
}

func (d *Device) Name() string {
	return fmt.Sprintf("software (%s)", d.tier)
}

func (d *Device) Tier() gpu.Tier {
	return d.tier
}

// Live returns the number of objects currently allocated.
func (d *Device) Live() Counts {
	return Counts{
		Shaders:  len(d.shaders),
		Programs: len(d.programs),
		Buffers:  len(d.buffers),
		Textures: len(d.textures),
	}
}

func (d *Device) handle() uint32 {
	d.nextHandle++
	return d.nextHandle
}

func (d *Device) CompileShader(stage gpu.ShaderStage, src string) (gpu.Shader, error) {
	match := versionRegex.FindStringSubmatch(src)
	if match == nil {
		return 0, fmt.Errorf("%w (%s stage):\nERROR: 0:1: missing #version directive", gpu.ErrCompileFailed, stage)
	}
	version, _ := strconv.Atoi(match[1])
	if version > maxVersion[d.tier] {
		return 0, fmt.Errorf("%w (%s stage):\nERROR: 0:1: version '%d' is not supported", gpu.ErrCompileFailed, stage, version)
	}
	if !mainRegex.MatchString(src) {
		return 0, fmt.Errorf("%w (%s stage):\nERROR: no definition of main()", gpu.ErrCompileFailed, stage)
	}

	obj := &shaderObject{stage: stage}
	for _, m := range uniformRegex.FindAllStringSubmatch(src, -1) {
		obj.uniforms = append(obj.uniforms, declaration{kind: m[1], name: m[2]})
	}
	if stage == gpu.VertexStage {
		for _, m := range attributeRegex.FindAllStringSubmatch(src, -1) {
			obj.attributes = append(obj.attributes, m[1])
		}
	}

	s := gpu.Shader(d.handle())
	d.shaders[s] = obj
	return s, nil
}

func (d *Device) LinkProgram(vs, fs gpu.Shader) (gpu.Program, error) {
	vObj, fObj := d.shaders[vs], d.shaders[fs]
	if vObj == nil || fObj == nil {
		return 0, fmt.Errorf("%w:\nERROR: attached shader object is not valid", gpu.ErrLinkFailed)
	}
	if vObj.stage != gpu.VertexStage || fObj.stage != gpu.FragmentStage {
		return 0, fmt.Errorf("%w:\nERROR: program requires one vertex and one fragment stage", gpu.ErrLinkFailed)
	}

	prog := &programObject{
		attributes: append([]string(nil), vObj.attributes...),
		values:     make(map[gpu.Location]uniformValue),
	}
	seen := map[string]bool{}
	for _, decl := range append(append([]declaration(nil), vObj.uniforms...), fObj.uniforms...) {
		if seen[decl.name] {
			continue
		}
		seen[decl.name] = true
		prog.uniforms = append(prog.uniforms, decl)
	}

	p := gpu.Program(d.handle())
	d.programs[p] = prog
	return p, nil
}

func (d *Device) DeleteShader(s gpu.Shader) {
	delete(d.shaders, s)
}

func (d *Device) DeleteProgram(p gpu.Program) {
	if prog := d.programs[p]; prog != nil && prog == d.current {
		d.current = nil
	}
	delete(d.programs, p)
}

func (d *Device) UseProgram(p gpu.Program) {
	d.current = d.programs[p]
}

func (d *Device) AttribLocation(p gpu.Program, name string) gpu.Location {
	if prog := d.programs[p]; prog != nil {
		for i, attr := range prog.attributes {
			if attr == name {
				return gpu.Location(i)
			}
		}
	}
	return gpu.NoLocation
}

func (d *Device) UniformLocation(p gpu.Program, name string) gpu.Location {
	if prog := d.programs[p]; prog != nil {
		for i, decl := range prog.uniforms {
			if decl.name == name {
				return gpu.Location(i)
			}
		}
	}
	return gpu.NoLocation
}

func (d *Device) NewQuadBuffer(vertices []float32) (gpu.Buffer, error) {
	if len(vertices) == 0 || len(vertices)%4 != 0 {
		return 0, fmt.Errorf("%w: quad buffer needs interleaved vec2 pairs; got %d floats", gpu.ErrAllocationFailed, len(vertices))
	}
	b := gpu.Buffer(d.handle())
	d.buffers[b] = append([]float32(nil), vertices...)
	return b, nil
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	if d.quad == b {
		d.quad = 0
	}
	delete(d.buffers, b)
}

func (d *Device) BindQuad(buf gpu.Buffer, _, _ gpu.Location) {
	if _, ok := d.buffers[buf]; ok {
		d.quad = buf
	}
}

func (d *Device) NewTexture() (gpu.Texture, error) {
	t := gpu.Texture(d.handle())
	d.textures[t] = image.NewRGBA(image.Rectangle{})
	return t, nil
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	for unit, bound := range d.boundUnits {
		if bound == t {
			delete(d.boundUnits, unit)
		}
	}
	delete(d.textures, t)
}

func (d *Device) UploadTexture(t gpu.Texture, img *image.RGBA) error {
	storage, ok := d.textures[t]
	if !ok {
		return fmt.Errorf("%w: texture %d", gpu.ErrInvalidHandle, t)
	}
	if img == nil || img.Bounds().Empty() {
		return gpu.ErrEmptyTextureImage
	}

	size := img.Bounds().Size()
	if storage.Bounds().Size() != size {
		storage = image.NewRGBA(image.Rectangle{Max: size})
		d.textures[t] = storage
	}
	for y := 0; y < size.Y; y++ {
		src := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		copy(storage.Pix[y*storage.Stride:y*storage.Stride+size.X*4], img.Pix[src:src+size.X*4])
	}
	return nil
}

func (d *Device) BindTexture(unit int, t gpu.Texture) {
	d.boundUnits[unit] = t
}

func (d *Device) SetViewport(x, y, width, height int) {
	d.viewport = image.Rect(x, y, x+width, y+height)
}

func (d *Device) Clear(r, g, b, a float32) {
	img := d.canvas.Image()
	px := [4]uint8{toByte(r), toByte(g), toByte(b), toByte(a)}
	for i := 0; i+4 <= len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], px[:])
	}
}

func (d *Device) setUniform(l gpu.Location, v uniformValue) {
	if d.current == nil || !l.Valid() || int(l) >= len(d.current.uniforms) {
		return
	}
	d.current.values[l] = v
}

func (d *Device) SetUniform1f(l gpu.Location, v float32) {
	d.setUniform(l, uniformValue{x: v})
}

func (d *Device) SetUniform1i(l gpu.Location, v int32) {
	d.setUniform(l, uniformValue{i: v})
}

func (d *Device) SetUniform2f(l gpu.Location, x, y float32) {
	d.setUniform(l, uniformValue{x: x, y: y})
}

// Uniforms returns the transform uniforms currently set on the bound program.
func (d *Device) Uniforms() transform.Uniforms {
	var u transform.Uniforms
	if d.current == nil {
		return u
	}
	for loc, decl := range d.current.uniforms {
		if setter := uniformSetters[decl.name]; setter != nil {
			setter(&u, d.current.values[gpu.Location(loc)])
		}
	}
	return u
}

func (d *Device) DrawQuad() {
	if d.current == nil || d.quad == 0 {
		return
	}

	u := d.Uniforms()
	sampler := transform.NewImageSampler(d.textures[d.boundUnits[int(d.samplerUnit())]])
	edges := transform.EdgeBinary
	if d.tier == gpu.TierExtended {
		edges = transform.EdgeGraded
	}

	// GL viewports are anchored at the bottom-left corner of the surface.
	img := d.canvas.Image()
	canvasH := img.Bounds().Dy()
	vp := d.viewport
	top := canvasH - vp.Max.Y
	target := image.Rect(vp.Min.X, top, vp.Max.X, top+vp.Dy()).Intersect(img.Bounds())
	if target.Empty() {
		return
	}

	vw, vh := float32(vp.Dx()), float32(vp.Dy())
	bandH := (target.Dy() + d.bands - 1) / d.bands
	var g errgroup.Group
	for y0 := target.Min.Y; y0 < target.Max.Y; y0 += bandH {
		y0, y1 := y0, min(y0+bandH, target.Max.Y)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				for x := target.Min.X; x < target.Max.X; x++ {
					screen := types.XY((float32(x-vp.Min.X)+0.5)/vw, (float32(y-top)+0.5)/vh)
					c := transform.Shade(&u, screen, sampler, edges)
					off := img.PixOffset(x, y)
					img.Pix[off+0] = toByte(c[0])
					img.Pix[off+1] = toByte(c[1])
					img.Pix[off+2] = toByte(c[2])
					img.Pix[off+3] = 0xff
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Device) samplerUnit() int32 {
	for loc, decl := range d.current.uniforms {
		if strings.HasPrefix(decl.kind, "sampler") {
			return d.current.values[gpu.Location(loc)].i
		}
	}
	return 0
}

func toByte(v float32) uint8 {
	return uint8(types.Clamp(v, 0, 1)*255 + 0.5)
}
