package renderer

import (
	"fmt"

	"github.com/achilleasa/stereocam/gpu"
)

// Program is a linked shader program together with its resolved handles.
type Program struct {
	dev gpu.Device

	Tier    gpu.Tier
	Id      gpu.Program
	Handles Handles
}

// BuildProgram compiles and links the variant matching the device tier and
// resolves its attribute and uniform handles. Compiler and linker logs are
// included in the returned error and nothing is left allocated on failure.
func BuildProgram(dev gpu.Device) (*Program, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}

	tier := dev.Tier()
	src := Sources(tier)

	vs, err := dev.CompileShader(gpu.VertexStage, src.Vertex)
	if err != nil {
		return nil, fmt.Errorf("renderer (%s): %w", tier, err)
	}
	defer dev.DeleteShader(vs)

	fs, err := dev.CompileShader(gpu.FragmentStage, src.Fragment)
	if err != nil {
		return nil, fmt.Errorf("renderer (%s): %w", tier, err)
	}
	defer dev.DeleteShader(fs)

	id, err := dev.LinkProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("renderer (%s): %w", tier, err)
	}

	p := &Program{
		dev:     dev,
		Tier:    tier,
		Id:      id,
		Handles: resolveHandles(dev, id),
	}

	for _, attr := range []struct {
		name string
		loc  gpu.Location
	}{
		{"a_position", p.Handles.Position},
		{"a_texCoord", p.Handles.TexCoord},
	} {
		if !attr.loc.Valid() {
			p.Release()
			return nil, fmt.Errorf("%w: %s", ErrMissingAttribute, attr.name)
		}
	}

	if missing := p.Handles.Missing(); len(missing) > 0 {
		logger.Infof("%s program does not expose uniforms %v", tier, missing)
	}
	return p, nil
}

// Release deletes the program. It is safe to call more than once.
func (p *Program) Release() {
	if p.Id == 0 {
		return
	}
	p.dev.DeleteProgram(p.Id)
	p.Id = 0
}
