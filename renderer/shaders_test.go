package renderer

import (
	"regexp"
	"strings"
	"testing"

	"github.com/achilleasa/stereocam/gpu"
)

// Keywords and words reserved for future use by GLSL 1.30 through 3.30.
var glslReserved = strings.Fields(`
	attribute const uniform varying layout centroid flat smooth noperspective
	break continue do for while switch case default if else in out inout
	true false invariant discard return struct precision lowp mediump highp
	common partition active asm class union enum typedef template this packed
	goto inline noinline volatile public static extern external interface
	long short double half fixed unsigned superp input output filter sizeof
	cast namespace using row_major patch sample subroutine
	hvec2 hvec3 hvec4 dvec2 dvec3 dvec4 fvec2 fvec3 fvec4
	sampler3DRect image1D image2D image3D imageCube image1DArray image2DArray
	image1DShadow image2DShadow image1DArrayShadow image2DArrayShadow imageBuffer
`)

// Identifiers the shaders may use without declaring them.
var glslBuiltins = strings.Fields(`
	void float int bool vec2 vec3 vec4 sampler2D
	attribute varying uniform in out return core
	gl_Position gl_FragColor
	texture texture2D step mix clamp min max dot length abs smoothstep asin pow fract
`)

var (
	glslComment     = regexp.MustCompile(`//[^\n]*`)
	glslVersion     = regexp.MustCompile(`(?m)^#version[^\n]*`)
	glslDefine      = regexp.MustCompile(`#define\s+([A-Za-z_]\w*)`)
	glslDeclaration = regexp.MustCompile(`\b(?:float|int|bool|vec2|vec3|vec4|sampler2D|void)\s+([A-Za-z_]\w*)`)
	glslIdentifier  = regexp.MustCompile(`[A-Za-z_]\w*`)
)

// lintGLSL reports reserved words used as identifiers and identifiers used
// before they are declared.
func lintGLSL(src string) []string {
	src = glslComment.ReplaceAllStringFunc(src, func(s string) string { return strings.Repeat(" ", len(s)) })
	src = glslVersion.ReplaceAllStringFunc(src, func(s string) string { return strings.Repeat(" ", len(s)) })

	declaredAt := map[string]int{}
	for _, re := range []*regexp.Regexp{glslDefine, glslDeclaration} {
		for _, m := range re.FindAllStringSubmatchIndex(src, -1) {
			name := src[m[2]:m[3]]
			if pos, seen := declaredAt[name]; !seen || m[2] < pos {
				declaredAt[name] = m[2]
			}
		}
	}

	reserved := map[string]bool{}
	for _, w := range glslReserved {
		reserved[w] = true
	}
	builtin := map[string]bool{}
	for _, w := range glslBuiltins {
		builtin[w] = true
	}

	var problems []string
	for _, m := range glslIdentifier.FindAllStringIndex(src, -1) {
		start := m[0]
		if start > 0 {
			// Swizzles, directives and digits of float literals.
			prev := src[start-1]
			if prev == '.' || prev == '#' || (prev >= '0' && prev <= '9') {
				continue
			}
		}
		name := src[m[0]:m[1]]
		if pos, ok := declaredAt[name]; ok {
			if reserved[name] {
				problems = append(problems, "reserved word used as identifier: "+name)
			} else if start < pos {
				problems = append(problems, "used before declaration: "+name)
			}
			continue
		}
		if builtin[name] {
			continue
		}
		if reserved[name] {
			problems = append(problems, "reserved word: "+name)
			continue
		}
		problems = append(problems, "undeclared identifier: "+name)
	}
	return problems
}

func TestSourcesAreValidGLSL(t *testing.T) {
	for _, tier := range []gpu.Tier{gpu.TierBaseline, gpu.TierExtended} {
		src := Sources(tier)
		for stage, text := range map[gpu.ShaderStage]string{gpu.VertexStage: src.Vertex, gpu.FragmentStage: src.Fragment} {
			if problems := lintGLSL(text); len(problems) != 0 {
				t.Fatalf("[%s %s] %s", tier, stage, strings.Join(problems, "; "))
			}
		}
	}
}

func TestLintGLSLRejectsBadSources(t *testing.T) {
	type spec struct {
		src    string
		expErr string
	}
	specs := []spec{
		{"void main() {\n\tfloat active = 1.0;\n}\n", "reserved word used as identifier: active"},
		{"void main() {\n\tfloat filter = 1.0;\n}\n", "reserved word used as identifier: filter"},
		{"void main() {\n\tfloat x = missing;\n}\n", "undeclared identifier: missing"},
		{"float f() { return LATE; }\n#define LATE 1.0\n", "used before declaration: LATE"},
	}

	for specIndex, spec := range specs {
		problems := strings.Join(lintGLSL(spec.src), "; ")
		if !strings.Contains(problems, spec.expErr) {
			t.Fatalf("[spec %d] expected %q; got %q", specIndex, spec.expErr, problems)
		}
	}
}
