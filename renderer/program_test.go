package renderer

import (
	"strings"
	"testing"

	"github.com/achilleasa/stereocam/gpu"
	"github.com/achilleasa/stereocam/gpu/soft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProgramPerTier(t *testing.T) {
	type spec struct {
		tier            gpu.Tier
		expVersion      string
		expTemperature  bool
		expEdgeFunction string
	}
	specs := []spec{
		{gpu.TierBaseline, "#version 120", false, "step(EDGE_THRESHOLD, g)"},
		{gpu.TierExtended, "#version 330 core", true, "clamp(g, 0.0, 1.0)"},
	}

	for specIndex, spec := range specs {
		src := Sources(spec.tier)
		if !strings.HasPrefix(src.Vertex, spec.expVersion) || !strings.HasPrefix(src.Fragment, spec.expVersion) {
			t.Fatalf("[spec %d] expected both stages to start with %q", specIndex, spec.expVersion)
		}
		if !strings.Contains(src.Fragment, spec.expEdgeFunction) {
			t.Fatalf("[spec %d] expected fragment stage to contain %q", specIndex, spec.expEdgeFunction)
		}

		dev := soft.New(soft.NewCanvas(4, 4, 1), spec.tier)
		prog, err := BuildProgram(dev)
		if err != nil {
			t.Fatalf("[spec %d] %s", specIndex, err)
		}
		if prog.Tier != spec.tier {
			t.Fatalf("[spec %d] expected tier %s; got %s", specIndex, spec.tier, prog.Tier)
		}
		if !prog.Handles.Position.Valid() || !prog.Handles.TexCoord.Valid() || !prog.Handles.Image.Valid() {
			t.Fatalf("[spec %d] expected attribute and sampler handles to resolve", specIndex)
		}

		missing := prog.Handles.Missing()
		if spec.expTemperature && len(missing) != 0 {
			t.Fatalf("[spec %d] expected every uniform to resolve; missing %v", specIndex, missing)
		}
		if !spec.expTemperature && (len(missing) != 1 || missing[0] != "u_temperature") {
			t.Fatalf("[spec %d] expected only u_temperature to be missing; got %v", specIndex, missing)
		}

		// Only the program survives; both shader objects are released.
		if live := dev.Live(); live != (soft.Counts{Programs: 1}) {
			t.Fatalf("[spec %d] expected a single live program; got %+v", specIndex, live)
		}
		prog.Release()
		prog.Release()
		if live := dev.Live(); live != (soft.Counts{}) {
			t.Fatalf("[spec %d] expected no live objects after release; got %+v", specIndex, live)
		}
	}
}

func TestSourcesShareConstants(t *testing.T) {
	baseline := Sources(gpu.TierBaseline).Fragment
	extended := Sources(gpu.TierExtended).Fragment
	defines := fragmentConstants()

	assert.Contains(t, baseline, defines)
	assert.Contains(t, extended, defines)
	assert.Contains(t, defines, "#define SHADOW_KNEE 0.35\n")
	assert.Contains(t, defines, "#define GRID_CELLS 6.0\n")
	assert.Contains(t, defines, "#define LUMA vec3(0.299, 0.587, 0.114)\n")
	assert.Contains(t, baseline, fragmentBody)
	assert.Contains(t, extended, fragmentBody)
}

func TestBuildProgramFailures(t *testing.T) {
	type spec struct {
		setup  func(*faultyDevice)
		expErr error
		expLog string
	}
	specs := []spec{
		{func(d *faultyDevice) { d.failStage[gpu.VertexStage] = true }, gpu.ErrCompileFailed, "undeclared identifier"},
		{func(d *faultyDevice) { d.failStage[gpu.FragmentStage] = true }, gpu.ErrCompileFailed, "undeclared identifier"},
		{func(d *faultyDevice) { d.failLink = true }, gpu.ErrLinkFailed, "not written"},
		{func(d *faultyDevice) { d.renameAttribs = true }, ErrMissingAttribute, "a_texCoord"},
	}

	for specIndex, spec := range specs {
		dev := newFaultyDevice(soft.NewCanvas(4, 4, 1), gpu.TierBaseline)
		spec.setup(dev)

		prog, err := BuildProgram(dev)
		require.Nil(t, prog, "spec %d", specIndex)
		require.ErrorIs(t, err, spec.expErr, "spec %d", specIndex)
		require.Contains(t, err.Error(), spec.expLog, "spec %d", specIndex)
		require.Equal(t, soft.Counts{}, dev.Live(), "spec %d leaked objects", specIndex)
	}
}

func TestBuildProgramRejectsNilDevice(t *testing.T) {
	_, err := BuildProgram(nil)
	assert.ErrorIs(t, err, ErrNoDevice)
}
