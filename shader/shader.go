// Package shader holds the WGSL sources of the unlit and textured programs
// together with their host-side contract: entry points, vertex layouts and
// resource bindings. Validate checks a source against that contract with
// the pure-Go naga front end, so a shader edit that moves a binding or
// renames an entry point is caught before a pipeline is created.
package shader

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/shadekit"
)

//go:embed shaders/unlit.wgsl
var unlitSource string

//go:embed shaders/textured.wgsl
var texturedSource string

// Entry point names shared by both programs.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Kind is the type of a bound resource.
type Kind uint8

const (
	// KindTexture is a texture_2d<f32>.
	KindTexture Kind = iota
	// KindSampler is a filtering sampler.
	KindSampler
	// KindUniformMatrix is a mat4x4<f32> uniform buffer.
	KindUniformMatrix
)

// String returns the WGSL spelling of the resource type.
func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "texture_2d<f32>"
	case KindSampler:
		return "sampler"
	case KindUniformMatrix:
		return "mat4x4<f32>"
	default:
		return "unknown"
	}
}

// space is the address space a resource of kind k is declared in.
func (k Kind) space() string {
	if k == KindUniformMatrix {
		return "uniform"
	}
	return "handle"
}

// Stage is a programmable pipeline stage.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

// String returns the stage name.
func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

// Binding is one resource slot of a program's bind group layout.
type Binding struct {
	Name       string
	Group      uint32
	Binding    uint32
	Kind       Kind
	Visibility Stage
}

// Program is a WGSL program and the contract the host must honor to run it.
type Program struct {
	Name          string
	Source        string
	VertexEntry   string
	FragmentEntry string
	Bindings      []Binding
	VertexLayout  gputypes.VertexBufferLayout
}

// Unlit returns the vertex-colored program. It binds no resources.
func Unlit() Program {
	return Program{
		Name:          shadekit.ProgramUnlit,
		Source:        unlitSource,
		VertexEntry:   VertexEntry,
		FragmentEntry: FragmentEntry,
		VertexLayout:  shadekit.ColorVertex{}.Layout(),
	}
}

// Textured returns the transformed, textured program:
//
//	group 0 binding 0  texture_2d<f32>  fragment
//	group 0 binding 1  sampler          fragment
//	group 1 binding 0  mat4x4<f32>      vertex (uniform)
func Textured() Program {
	return Program{
		Name:          shadekit.ProgramTextured,
		Source:        texturedSource,
		VertexEntry:   VertexEntry,
		FragmentEntry: FragmentEntry,
		Bindings: []Binding{
			{Name: "t_diffuse", Group: 0, Binding: 0, Kind: KindTexture, Visibility: StageFragment},
			{Name: "s_diffuse", Group: 0, Binding: 1, Kind: KindSampler, Visibility: StageFragment},
			{Name: "transform", Group: 1, Binding: 0, Kind: KindUniformMatrix, Visibility: StageVertex},
		},
		VertexLayout: shadekit.TextureVertex{}.Layout(),
	}
}

// Programs returns both programs.
func Programs() []Program {
	return []Program{Unlit(), Textured()}
}

// Lookup returns the program with the given name.
func Lookup(name string) (Program, error) {
	for _, p := range Programs() {
		if p.Name == name {
			return p, nil
		}
	}
	return Program{}, fmt.Errorf("%q: %w", name, shadekit.ErrUnknownProgram)
}

// Groups returns the bind group indices used by p in ascending order.
// Groups are contiguous from 0, as pipeline layouts require.
func (p Program) Groups() []uint32 {
	var groups []uint32
	for _, b := range p.Bindings {
		if !slices.Contains(groups, b.Group) {
			groups = append(groups, b.Group)
		}
	}
	slices.Sort(groups)
	return groups
}

// LayoutEntries returns the bind group layout entries of one group.
func (p Program) LayoutEntries(group uint32) []gputypes.BindGroupLayoutEntry {
	var entries []gputypes.BindGroupLayoutEntry
	for _, b := range p.Bindings {
		if b.Group != group {
			continue
		}
		e := gputypes.BindGroupLayoutEntry{
			Binding:    b.Binding,
			Visibility: gputypes.ShaderStageFragment,
		}
		if b.Visibility == StageVertex {
			e.Visibility = gputypes.ShaderStageVertex
		}
		switch b.Kind {
		case KindTexture:
			e.Texture = &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			}
		case KindSampler:
			e.Sampler = &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering}
		case KindUniformMatrix:
			e.Buffer = &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeUniform,
				MinBindingSize: shadekit.MatrixSize,
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// Binding returns the binding with the given name.
func (p Program) Binding(name string) (Binding, bool) {
	for _, b := range p.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}
