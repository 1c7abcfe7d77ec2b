package shader

import (
	"encoding/binary"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/shadekit"
)

func TestProgramsValidate(t *testing.T) {
	for _, p := range Programs() {
		t.Run(p.Name, func(t *testing.T) {
			if err := Validate(p); err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}

func TestReflectTextured(t *testing.T) {
	r, err := Reflect(Textured().Source)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string][2]uint32{
		"t_diffuse": {0, 0},
		"s_diffuse": {0, 1},
		"transform": {1, 0},
	}
	if len(r.Bindings) != len(want) {
		t.Fatalf("reflected %d bindings, want %d", len(r.Bindings), len(want))
	}
	for _, b := range r.Bindings {
		w, ok := want[b.Name]
		if !ok || w != [2]uint32{b.Group, b.Binding} {
			t.Errorf("binding %q at (%d, %d)", b.Name, b.Group, b.Binding)
		}
	}
	stages := map[string]Stage{}
	for _, ep := range r.EntryPoints {
		stages[ep.Name] = ep.Stage
	}
	if s, ok := stages[VertexEntry]; !ok || s != StageVertex {
		t.Errorf("vs_main stage = %v, %v", s, ok)
	}
	if s, ok := stages[FragmentEntry]; !ok || s != StageFragment {
		t.Errorf("fs_main stage = %v, %v", s, ok)
	}
}

func TestReflectUnlitHasNoBindings(t *testing.T) {
	r, err := Reflect(Unlit().Source)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Bindings) != 0 {
		t.Errorf("unlit reflected %d bindings", len(r.Bindings))
	}
}

func TestValidateDetectsMismatch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Program)
		want   error
	}{
		{
			name:   "moved sampler",
			mutate: func(p *Program) { p.Source = strings.Replace(p.Source, "@binding(1)", "@binding(2)", 1) },
			want:   ErrBindingMismatch,
		},
		{
			name:   "contract group changed",
			mutate: func(p *Program) { p.Bindings[2].Group = 2 },
			want:   ErrBindingMismatch,
		},
		{
			name:   "missing binding in contract",
			mutate: func(p *Program) { p.Bindings = p.Bindings[:2] },
			want:   ErrBindingMismatch,
		},
		{
			name:   "texture sample type",
			mutate: func(p *Program) { p.Source = strings.Replace(p.Source, "texture_2d<f32>", "texture_2d<u32>", 1) },
			want:   ErrBindingMismatch,
		},
		{
			name: "vector uniform",
			mutate: func(p *Program) {
				p.Source = strings.Replace(p.Source, "var<uniform> transform: mat4x4<f32>;", "var<uniform> transform: vec4<f32>;", 1)
				p.Source = strings.Replace(p.Source, "transform * vec4<f32>(model.position, 1.0)", "transform + vec4<f32>(model.position, 1.0)", 1)
			},
			want: ErrBindingMismatch,
		},
		{
			name:   "contract kind changed",
			mutate: func(p *Program) { p.Bindings[0].Kind = KindSampler },
			want:   ErrBindingMismatch,
		},
		{
			name: "tex coords widened",
			mutate: func(p *Program) {
				p.Source = strings.Replace(p.Source, "@location(1) tex_coords: vec2<f32>", "@location(1) tex_coords: vec3<f32>", 1)
				p.Source = strings.Replace(p.Source, "out.tex_coords = model.tex_coords;", "out.tex_coords = model.tex_coords.xy;", 1)
			},
			want: ErrVertexLayoutMismatch,
		},
		{
			name: "layout attribute dropped",
			mutate: func(p *Program) {
				p.VertexLayout.Attributes = p.VertexLayout.Attributes[:1]
			},
			want: ErrVertexLayoutMismatch,
		},
		{
			name:   "renamed vertex entry",
			mutate: func(p *Program) { p.VertexEntry = "vertex_main" },
			want:   ErrEntryPointMissing,
		},
		{
			name:   "swapped stages",
			mutate: func(p *Program) { p.VertexEntry, p.FragmentEntry = p.FragmentEntry, p.VertexEntry },
			want:   ErrEntryPointMissing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Textured()
			p.Bindings = append([]Binding(nil), p.Bindings...)
			tt.mutate(&p)
			if err := Validate(p); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateUnlitVertexInputs(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"moved color", "@location(1) color: vec3<f32>,\n}", "@location(3) color: vec3<f32>,\n}"},
		{"narrowed position", "@location(0) position: vec3<f32>,\n    @location(1)", "@location(0) position: vec2<f32>,\n    @location(1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Unlit()
			if !strings.Contains(p.Source, tt.from) {
				t.Fatalf("source does not contain %q", tt.from)
			}
			p.Source = strings.Replace(p.Source, tt.from, tt.to, 1)
			p.Source = strings.Replace(p.Source, "vec4<f32>(model.position, 1.0)", "vec4<f32>(model.position.xy, 0.0, 1.0)", 1)
			if err := Validate(p); !errors.Is(err, ErrVertexLayoutMismatch) {
				t.Errorf("Validate() = %v, want %v", err, ErrVertexLayoutMismatch)
			}
		})
	}
}

func TestReflectVertexInputs(t *testing.T) {
	r, err := Reflect(Textured().Source)
	if err != nil {
		t.Fatal(err)
	}
	var inputs []Input
	for _, ep := range r.EntryPoints {
		if ep.Name == VertexEntry {
			inputs = ep.Inputs
		}
	}
	want := []Input{
		{Name: "position", Location: 0, Type: "vec3<f32>"},
		{Name: "tex_coords", Location: 1, Type: "vec2<f32>"},
	}
	if !slices.Equal(inputs, want) {
		t.Errorf("vs_main inputs = %+v, want %+v", inputs, want)
	}
	types := map[string]string{}
	for _, b := range r.Bindings {
		types[b.Name] = b.Space + " " + b.Type
	}
	for name, wantType := range map[string]string{
		"t_diffuse": "handle texture_2d<f32>",
		"s_diffuse": "handle sampler",
		"transform": "uniform mat4x4<f32>",
	} {
		if types[name] != wantType {
			t.Errorf("%s reflected as %q, want %q", name, types[name], wantType)
		}
	}
}

func TestValidateParseError(t *testing.T) {
	p := Unlit()
	p.Source = "fn vs_main( {"
	if err := Validate(p); err == nil {
		t.Error("expected parse error")
	}
}

func TestCompileSPIRV(t *testing.T) {
	for _, p := range Programs() {
		spv, err := CompileSPIRV(p)
		if err != nil {
			t.Fatalf("%s: %v", p.Name, err)
		}
		if len(spv) < 20 || len(spv)%4 != 0 {
			t.Fatalf("%s: SPIR-V size %d", p.Name, len(spv))
		}
		if magic := binary.LittleEndian.Uint32(spv); magic != 0x07230203 {
			t.Errorf("%s: magic = %#x", p.Name, magic)
		}
	}
}

func TestLayoutEntries(t *testing.T) {
	p := Textured()
	if got := p.Groups(); len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("Groups() = %v, want [0 1]", got)
	}

	g0 := p.LayoutEntries(0)
	if len(g0) != 2 {
		t.Fatalf("group 0 entries = %d", len(g0))
	}
	if g0[0].Texture == nil || g0[0].Texture.SampleType != gputypes.TextureSampleTypeFloat {
		t.Errorf("binding 0 should be a float texture: %+v", g0[0])
	}
	if g0[1].Sampler == nil || g0[1].Sampler.Type != gputypes.SamplerBindingTypeFiltering {
		t.Errorf("binding 1 should be a filtering sampler: %+v", g0[1])
	}
	if g0[0].Visibility != gputypes.ShaderStageFragment {
		t.Errorf("texture visibility = %v", g0[0].Visibility)
	}

	g1 := p.LayoutEntries(1)
	if len(g1) != 1 || g1[0].Buffer == nil {
		t.Fatalf("group 1 entries = %+v", g1)
	}
	if g1[0].Buffer.Type != gputypes.BufferBindingTypeUniform || g1[0].Buffer.MinBindingSize != shadekit.MatrixSize {
		t.Errorf("uniform layout = %+v", g1[0].Buffer)
	}
	if g1[0].Visibility != gputypes.ShaderStageVertex {
		t.Errorf("uniform visibility = %v", g1[0].Visibility)
	}

	if len(Unlit().Groups()) != 0 {
		t.Error("unlit program should use no bind groups")
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{shadekit.ProgramUnlit, shadekit.ProgramTextured} {
		p, err := Lookup(name)
		if err != nil || p.Name != name {
			t.Errorf("Lookup(%q) = %q, %v", name, p.Name, err)
		}
	}
	if _, err := Lookup("phong"); !errors.Is(err, shadekit.ErrUnknownProgram) {
		t.Errorf("err = %v", err)
	}
}

func TestVertexLayouts(t *testing.T) {
	if s := Unlit().VertexLayout.ArrayStride; s != shadekit.ColorVertexSize {
		t.Errorf("unlit stride = %d", s)
	}
	if s := Textured().VertexLayout.ArrayStride; s != shadekit.TextureVertexSize {
		t.Errorf("textured stride = %d", s)
	}
}
