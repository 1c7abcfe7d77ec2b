package shadekit

// UnlitVarying is the output of the unlit vertex stage.
type UnlitVarying struct {
	Position Vec4 // clip space
	Color    Vec3
}

// UnlitVertex is vs_main of the unlit program: the position is used as
// clip coordinates with w = 1 and the color passes through.
func UnlitVertex(v ColorVertex) UnlitVarying {
	return UnlitVarying{
		Position: v.Position.Vec4(1),
		Color:    v.Color,
	}
}

// UnlitFragment is fs_main of the unlit program.
func UnlitFragment(in UnlitVarying) RGBA {
	return RGBA{R: in.Color[0], G: in.Color[1], B: in.Color[2], A: 1}
}

// TexturedVarying is the output of the textured vertex stage.
type TexturedVarying struct {
	Position  Vec4 // clip space
	TexCoords Vec2
}

// TexturedVertex is vs_main of the textured program: clip = m * (P, 1).
func TexturedVertex(v TextureVertex, m Mat4) TexturedVarying {
	return TexturedVarying{
		Position:  Transform(m, v.Position),
		TexCoords: v.TexCoords,
	}
}

// TexturedFragment is fs_main of the textured program. Without screen
// space derivatives it samples mip level 0.
func TexturedFragment(in TexturedVarying, tex *Texture, s Sampler) RGBA {
	return s.Sample(tex, in.TexCoords)
}

// MaxVaryings is the number of scalar varyings a Program can pass from
// its vertex stage to its fragment stage.
const MaxVaryings = 4

// Varying is the generic vertex stage output consumed by the rasterizer.
type Varying struct {
	Position Vec4
	Attr     [MaxVaryings]float32
}

// FragmentInput is what the rasterizer hands to a fragment stage.
// Position holds the pixel centre, the fragment depth and 1/w, like
// @builtin(position). DDX and DDY are the screen space derivatives of Attr.
type FragmentInput struct {
	Position    Vec4
	Attr        [MaxVaryings]float32
	DDX, DDY    [MaxVaryings]float32
	FrontFacing bool
}

// Program is a vertex/fragment stage pair over vertex type V. Both methods
// must be pure: the software renderer calls them from many goroutines.
type Program[V any] interface {
	Vertex(v V) Varying
	Fragment(in *FragmentInput) RGBA
}

// UnlitProgram runs the unlit stages.
type UnlitProgram struct{}

// Vertex implements Program.
func (UnlitProgram) Vertex(v ColorVertex) Varying {
	out := UnlitVertex(v)
	return Varying{
		Position: out.Position,
		Attr:     [MaxVaryings]float32{out.Color[0], out.Color[1], out.Color[2]},
	}
}

// Fragment implements Program.
func (UnlitProgram) Fragment(in *FragmentInput) RGBA {
	return UnlitFragment(UnlitVarying{
		Position: in.Position,
		Color:    Vec3{in.Attr[0], in.Attr[1], in.Attr[2]},
	})
}

// TexturedProgram runs the textured stages with its bound resources.
type TexturedProgram struct {
	Transform Mat4
	Texture   *Texture
	Sampler   Sampler
}

// Vertex implements Program.
func (p TexturedProgram) Vertex(v TextureVertex) Varying {
	out := TexturedVertex(v, p.Transform)
	return Varying{
		Position: out.Position,
		Attr:     [MaxVaryings]float32{out.TexCoords[0], out.TexCoords[1]},
	}
}

// Fragment implements Program. The level of detail comes from the
// texture coordinate derivatives, as with textureSample on a GPU.
func (p TexturedProgram) Fragment(in *FragmentInput) RGBA {
	uv := Vec2{in.Attr[0], in.Attr[1]}
	ddx := Vec2{in.DDX[0], in.DDX[1]}
	ddy := Vec2{in.DDY[0], in.DDY[1]}
	return p.Sampler.SampleGrad(p.Texture, uv, ddx, ddy)
}
