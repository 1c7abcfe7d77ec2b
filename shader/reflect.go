package shader

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/gogpu/shadekit"
)

var (
	// ErrEntryPointMissing is returned when a required entry point is absent
	// or declared for the wrong stage.
	ErrEntryPointMissing = errors.New("shader: entry point missing")

	// ErrBindingMismatch is returned when the resources declared in WGSL
	// differ from the program's binding contract.
	ErrBindingMismatch = errors.New("shader: binding mismatch")

	// ErrVertexLayoutMismatch is returned when the vertex entry point's
	// @location inputs differ from the program's vertex buffer layout.
	ErrVertexLayoutMismatch = errors.New("shader: vertex layout mismatch")
)

// EntryPoint is a reflected entry point.
type EntryPoint struct {
	Name   string
	Stage  Stage
	Inputs []Input
}

// Input is a @location argument of an entry point, or a @location member
// of a struct argument. Type is its WGSL spelling, e.g. "vec3<f32>".
type Input struct {
	Name     string
	Location uint32
	Type     string
}

// ResourceBinding is a reflected global resource with @group/@binding.
// Space is "uniform", "storage" or "handle" (textures and samplers) and
// Type is the WGSL spelling of the resource type.
type ResourceBinding struct {
	Name    string
	Group   uint32
	Binding uint32
	Space   string
	Type    string
}

// Reflection is what the WGSL front end reports about a source.
type Reflection struct {
	EntryPoints []EntryPoint
	Bindings    []ResourceBinding
}

// Reflect parses and lowers WGSL source and reports its entry points and
// resource bindings.
func Reflect(source string) (*Reflection, error) {
	module, err := lower(source)
	if err != nil {
		return nil, err
	}

	r := &Reflection{}
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		var stage Stage
		switch ep.Stage {
		case ir.StageVertex:
			stage = StageVertex
		case ir.StageFragment:
			stage = StageFragment
		default:
			continue
		}
		r.EntryPoints = append(r.EntryPoints, EntryPoint{
			Name:   ep.Name,
			Stage:  stage,
			Inputs: entryInputs(module, &ep.Function),
		})
	}
	for _, gv := range module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		r.Bindings = append(r.Bindings, ResourceBinding{
			Name:    gv.Name,
			Group:   gv.Binding.Group,
			Binding: gv.Binding.Binding,
			Space:   spaceName(gv.Space),
			Type:    typeName(module, gv.Type),
		})
	}
	return r, nil
}

// entryInputs collects the @location inputs of fn, flattening struct
// arguments. Built-ins are skipped.
func entryInputs(m *ir.Module, fn *ir.Function) []Input {
	var inputs []Input
	for _, arg := range fn.Arguments {
		if loc, ok := location(arg.Binding); ok {
			inputs = append(inputs, Input{Name: arg.Name, Location: loc, Type: typeName(m, arg.Type)})
			continue
		}
		if int(arg.Type) >= len(m.Types) {
			continue
		}
		st, ok := m.Types[arg.Type].Inner.(ir.StructType)
		if !ok {
			continue
		}
		for _, mem := range st.Members {
			if loc, ok := location(mem.Binding); ok {
				inputs = append(inputs, Input{Name: mem.Name, Location: loc, Type: typeName(m, mem.Type)})
			}
		}
	}
	return inputs
}

func location(b *ir.Binding) (uint32, bool) {
	if b == nil {
		return 0, false
	}
	switch lb := (*b).(type) {
	case ir.LocationBinding:
		return lb.Location, true
	case *ir.LocationBinding:
		return lb.Location, true
	}
	return 0, false
}

func spaceName(s ir.AddressSpace) string {
	switch s {
	case ir.SpaceUniform:
		return "uniform"
	case ir.SpaceStorage:
		return "storage"
	case ir.SpaceHandle:
		return "handle"
	case ir.SpacePushConstant:
		return "push_constant"
	case ir.SpacePrivate:
		return "private"
	case ir.SpaceWorkGroup:
		return "workgroup"
	default:
		return "function"
	}
}

// typeName returns the WGSL spelling of the type at h.
func typeName(m *ir.Module, h ir.TypeHandle) string {
	if int(h) >= len(m.Types) {
		return "unknown"
	}
	t := m.Types[h]
	switch inner := t.Inner.(type) {
	case ir.ScalarType:
		return scalarName(inner.Kind, inner.Width)
	case ir.VectorType:
		return fmt.Sprintf("vec%d<%s>", inner.Size, scalarName(inner.Scalar.Kind, inner.Scalar.Width))
	case ir.MatrixType:
		return fmt.Sprintf("mat%dx%d<%s>", inner.Columns, inner.Rows, scalarName(inner.Scalar.Kind, inner.Scalar.Width))
	case ir.SamplerType:
		if inner.Comparison {
			return "sampler_comparison"
		}
		return "sampler"
	case ir.ImageType:
		return imageName(inner)
	case ir.StructType:
		return t.Name
	}
	if t.Name != "" {
		return t.Name
	}
	return "unknown"
}

func scalarName(k ir.ScalarKind, width uint8) string {
	switch k {
	case ir.ScalarFloat:
		if width == 2 {
			return "f16"
		}
		return "f32"
	case ir.ScalarSint:
		return "i32"
	case ir.ScalarUint:
		return "u32"
	case ir.ScalarBool:
		return "bool"
	default:
		return "abstract"
	}
}

func imageName(img ir.ImageType) string {
	var dim string
	switch img.Dim {
	case ir.Dim1D:
		dim = "1d"
	case ir.Dim3D:
		dim = "3d"
	case ir.DimCube:
		dim = "cube"
	default:
		dim = "2d"
	}
	if img.Arrayed {
		dim += "_array"
	}
	switch img.Class {
	case ir.ImageClassDepth:
		if img.Multisampled {
			return "texture_depth_multisampled_" + dim
		}
		return "texture_depth_" + dim
	case ir.ImageClassStorage:
		return "texture_storage_" + dim
	case ir.ImageClassExternal:
		return "texture_external"
	}
	prefix := "texture_"
	if img.Multisampled {
		prefix = "texture_multisampled_"
	}
	return fmt.Sprintf("%s%s<%s>", prefix, dim, scalarName(img.SampledKind, 4))
}

func lower(source string) (*ir.Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse wgsl: %w", err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("lower wgsl: %w", err)
	}
	return module, nil
}

// Validate checks that p's source declares its vertex and fragment entry
// points, exactly the resource bindings of its contract with matching
// types, and vertex inputs that match p.VertexLayout.
func Validate(p Program) error {
	r, err := Reflect(p.Source)
	if err != nil {
		return fmt.Errorf("%s: %w", p.Name, err)
	}
	if err := r.checkEntryPoint(p.VertexEntry, StageVertex); err != nil {
		return fmt.Errorf("%s: %w", p.Name, err)
	}
	if err := r.checkEntryPoint(p.FragmentEntry, StageFragment); err != nil {
		return fmt.Errorf("%s: %w", p.Name, err)
	}

	if len(r.Bindings) != len(p.Bindings) {
		return fmt.Errorf("%s: source declares %d resources, contract has %d: %w",
			p.Name, len(r.Bindings), len(p.Bindings), ErrBindingMismatch)
	}
	for _, rb := range r.Bindings {
		want, ok := p.Binding(rb.Name)
		if !ok {
			return fmt.Errorf("%s: unexpected resource %q: %w", p.Name, rb.Name, ErrBindingMismatch)
		}
		if want.Group != rb.Group || want.Binding != rb.Binding {
			return fmt.Errorf("%s: %q at group %d binding %d, want group %d binding %d: %w",
				p.Name, rb.Name, rb.Group, rb.Binding, want.Group, want.Binding, ErrBindingMismatch)
		}
		if rb.Type != want.Kind.String() || rb.Space != want.Kind.space() {
			return fmt.Errorf("%s: %q is %s %s, want %s %s: %w",
				p.Name, rb.Name, rb.Space, rb.Type, want.Kind.space(), want.Kind, ErrBindingMismatch)
		}
	}
	if err := r.checkVertexInputs(p); err != nil {
		return fmt.Errorf("%s: %w", p.Name, err)
	}
	shadekit.Logger().Debug("shader validated", "program", p.Name,
		"entry_points", len(r.EntryPoints), "bindings", len(r.Bindings))
	return nil
}

func (r *Reflection) checkEntryPoint(name string, stage Stage) error {
	for _, ep := range r.EntryPoints {
		if ep.Name == name {
			if ep.Stage != stage {
				return fmt.Errorf("%s is a %s entry point, want %s: %w", name, ep.Stage, stage, ErrEntryPointMissing)
			}
			return nil
		}
	}
	return fmt.Errorf("%s (%s): %w", name, stage, ErrEntryPointMissing)
}

// checkVertexInputs matches the vertex entry point's inputs one to one
// against the attributes of p.VertexLayout.
func (r *Reflection) checkVertexInputs(p Program) error {
	var inputs []Input
	for _, ep := range r.EntryPoints {
		if ep.Name == p.VertexEntry {
			inputs = ep.Inputs
			break
		}
	}
	attrs := p.VertexLayout.Attributes
	if len(inputs) != len(attrs) {
		return fmt.Errorf("%s takes %d inputs, layout has %d attributes: %w",
			p.VertexEntry, len(inputs), len(attrs), ErrVertexLayoutMismatch)
	}
	for _, a := range attrs {
		want, ok := formatType(a.Format)
		if !ok {
			return fmt.Errorf("location %d: unsupported vertex format %v: %w", a.ShaderLocation, a.Format, ErrVertexLayoutMismatch)
		}
		i := slices.IndexFunc(inputs, func(in Input) bool { return in.Location == a.ShaderLocation })
		if i < 0 {
			return fmt.Errorf("no input at location %d: %w", a.ShaderLocation, ErrVertexLayoutMismatch)
		}
		if inputs[i].Type != want {
			return fmt.Errorf("%q at location %d is %s, layout has %s: %w",
				inputs[i].Name, a.ShaderLocation, inputs[i].Type, want, ErrVertexLayoutMismatch)
		}
	}
	return nil
}

// formatType returns the WGSL type a vertex format is read as.
func formatType(f gputypes.VertexFormat) (string, bool) {
	switch f {
	case gputypes.VertexFormatFloat32:
		return "f32", true
	case gputypes.VertexFormatFloat32x2:
		return "vec2<f32>", true
	case gputypes.VertexFormatFloat32x3:
		return "vec3<f32>", true
	case gputypes.VertexFormatFloat32x4:
		return "vec4<f32>", true
	case gputypes.VertexFormatUint32:
		return "u32", true
	case gputypes.VertexFormatUint32x2:
		return "vec2<u32>", true
	case gputypes.VertexFormatUint32x3:
		return "vec3<u32>", true
	case gputypes.VertexFormatUint32x4:
		return "vec4<u32>", true
	case gputypes.VertexFormatSint32:
		return "i32", true
	case gputypes.VertexFormatSint32x2:
		return "vec2<i32>", true
	case gputypes.VertexFormatSint32x3:
		return "vec3<i32>", true
	case gputypes.VertexFormatSint32x4:
		return "vec4<i32>", true
	}
	return "", false
}

// CompileSPIRV compiles p's source to a SPIR-V binary.
func CompileSPIRV(p Program) ([]byte, error) {
	spv, err := naga.Compile(p.Source)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", p.Name, err)
	}
	return spv, nil
}
