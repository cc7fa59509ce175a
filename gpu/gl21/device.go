// Package gl21 implements gpu.Device on top of an OpenGL 2.1 context (the
// baseline tier).
package gl21

import (
	"fmt"
	"image"
	"strings"

	"github.com/achilleasa/stereocam/gpu"
	"github.com/go-gl/gl/v2.1/gl"
)

// Device wraps the current OpenGL 2.1 context. New must be called after the
// context has been made current on the calling thread.
type Device struct {
	version string

	// Attribute layout bound by BindQuad; re-applied before every draw as
	// there are no vertex array objects at this tier.
	quad               uint32
	position, texCoord gpu.Location

	texSizes map[gpu.Texture]image.Point
}

// New loads the GL entry points for the current context.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl21: could not init opengl: %s", err.Error())
	}

	d := &Device{
		version:  gl.GoStr(gl.GetString(gl.VERSION)),
		texSizes: make(map[gpu.Texture]image.Point),
	}

	gl.Disable(gl.DEPTH_TEST)

	return d, nil
}

// Release the context level objects owned by the device.
func (d *Device) Release() {
	d.quad = 0
	d.texSizes = make(map[gpu.Texture]image.Point)
}

func (d *Device) Name() string {
	return "OpenGL " + d.version
}

func (d *Device) Tier() gpu.Tier {
	return gpu.TierBaseline
}

func (d *Device) CompileShader(stage gpu.ShaderStage, src string) (gpu.Shader, error) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == gpu.FragmentStage {
		shaderType = gl.FRAGMENT_SHADER
	}

	shader := gl.CreateShader(shaderType)
	if shader == 0 {
		return 0, fmt.Errorf("%w: could not create %s shader", gpu.ErrAllocationFailed, stage)
	}

	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w (%s stage):\n%s", gpu.ErrCompileFailed, stage, strings.TrimRight(log, "\x00"))
	}

	return gpu.Shader(shader), nil
}

func (d *Device) LinkProgram(vs, fs gpu.Shader) (gpu.Program, error) {
	program := gl.CreateProgram()
	if program == 0 {
		return 0, fmt.Errorf("%w: could not create program", gpu.ErrAllocationFailed)
	}

	gl.AttachShader(program, uint32(vs))
	gl.AttachShader(program, uint32(fs))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w:\n%s", gpu.ErrLinkFailed, strings.TrimRight(log, "\x00"))
	}

	// The stages are no longer needed once linked into the program.
	gl.DetachShader(program, uint32(vs))
	gl.DetachShader(program, uint32(fs))

	return gpu.Program(program), nil
}

func (d *Device) DeleteShader(s gpu.Shader) {
	if s != 0 {
		gl.DeleteShader(uint32(s))
	}
}

func (d *Device) DeleteProgram(p gpu.Program) {
	if p != 0 {
		gl.DeleteProgram(uint32(p))
	}
}

func (d *Device) UseProgram(p gpu.Program) {
	gl.UseProgram(uint32(p))
}

func (d *Device) AttribLocation(p gpu.Program, name string) gpu.Location {
	return gpu.Location(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *Device) UniformLocation(p gpu.Program, name string) gpu.Location {
	return gpu.Location(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *Device) NewQuadBuffer(vertices []float32) (gpu.Buffer, error) {
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	if vbo == 0 {
		return 0, fmt.Errorf("%w: could not create vertex buffer", gpu.ErrAllocationFailed)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteBuffers(1, &vbo)
		return 0, fmt.Errorf("%w: vertex buffer upload (error 0x%x)", gpu.ErrAllocationFailed, errCode)
	}

	return gpu.Buffer(vbo), nil
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	if b != 0 {
		vbo := uint32(b)
		gl.DeleteBuffers(1, &vbo)
		if d.quad == vbo {
			d.quad = 0
		}
	}
}

func (d *Device) BindQuad(buf gpu.Buffer, position, texCoord gpu.Location) {
	d.quad, d.position, d.texCoord = uint32(buf), position, texCoord
	d.bindQuad()
}

func (d *Device) bindQuad() {
	const stride = 4 * 4

	buf, position, texCoord := d.quad, d.position, d.texCoord
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	if position.Valid() {
		gl.EnableVertexAttribArray(uint32(position))
		gl.VertexAttribPointer(uint32(position), 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	}
	if texCoord.Valid() {
		gl.EnableVertexAttribArray(uint32(texCoord))
		gl.VertexAttribPointer(uint32(texCoord), 2, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	}
}

func (d *Device) NewTexture() (gpu.Texture, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return 0, fmt.Errorf("%w: could not create texture", gpu.ErrAllocationFailed)
	}

	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	return gpu.Texture(tex), nil
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	if t != 0 {
		tex := uint32(t)
		gl.DeleteTextures(1, &tex)
		delete(d.texSizes, t)
	}
}

func (d *Device) UploadTexture(t gpu.Texture, img *image.RGBA) error {
	if img == nil || img.Bounds().Empty() {
		return gpu.ErrEmptyTextureImage
	}

	bounds := img.Bounds()
	size := bounds.Size()
	pix := gl.Ptr(&img.Pix[img.PixOffset(bounds.Min.X, bounds.Min.Y)])

	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	if d.texSizes[t] != size {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(size.X), int32(size.Y), 0, gl.RGBA, gl.UNSIGNED_BYTE, pix)
		d.texSizes[t] = size
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(size.X), int32(size.Y), gl.RGBA, gl.UNSIGNED_BYTE, pix)
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		delete(d.texSizes, t)
		return fmt.Errorf("gl21: texture upload failed (error 0x%x)", errCode)
	}
	return nil
}

func (d *Device) BindTexture(unit int, t gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) SetViewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) SetUniform1f(l gpu.Location, v float32) {
	if l.Valid() {
		gl.Uniform1f(int32(l), v)
	}
}

func (d *Device) SetUniform1i(l gpu.Location, v int32) {
	if l.Valid() {
		gl.Uniform1i(int32(l), v)
	}
}

func (d *Device) SetUniform2f(l gpu.Location, x, y float32) {
	if l.Valid() {
		gl.Uniform2f(int32(l), x, y)
	}
}

func (d *Device) DrawQuad() {
	if d.quad == 0 {
		return
	}
	d.bindQuad()
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}
