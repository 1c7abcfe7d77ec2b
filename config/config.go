// Package config loads shadekit scene files.
//
// A scene file is YAML. Every field is optional; missing fields keep the
// values from Default:
//
//	width: 1280
//	height: 720
//	clear_color: [0.1, 0.2, 0.3, 1]
//	backend: software
//	program: textured
//	camera:
//	  eye: [0, 1, 2]
//	  target: [0, 0, 0]
//	  up: [0, 1, 0]
//	projection:
//	  fovy: 45
//	  znear: 0.1
//	  zfar: 100
//	texture:
//	  path: happy-tree.png
//	sampler:
//	  address_mode_u: clamp-to-edge
//	  mag_filter: linear
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/shadekit"
)

// ErrInvalidConfig is returned when a scene file fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// maxConfigSize bounds the scene files Load accepts.
const maxConfigSize = 1 << 20

// Config describes one render job.
type Config struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	ClearColor [4]float32 `yaml:"clear_color"`
	Backend    string     `yaml:"backend"`
	Program    string     `yaml:"program"`

	// Workers is the software renderer's worker count; 0 uses GOMAXPROCS.
	Workers   int    `yaml:"workers"`
	CullMode  string `yaml:"cull_mode"`
	DepthTest bool   `yaml:"depth_test"`

	Camera     CameraConfig     `yaml:"camera"`
	Projection ProjectionConfig `yaml:"projection"`
	Texture    TextureConfig    `yaml:"texture"`
	Sampler    SamplerConfig    `yaml:"sampler"`
	Animation  AnimationConfig  `yaml:"animation"`
}

// CameraConfig places the camera.
type CameraConfig struct {
	Eye    [3]float32 `yaml:"eye"`
	Target [3]float32 `yaml:"target"`
	Up     [3]float32 `yaml:"up"`
}

// ProjectionConfig is a perspective projection. FovY is in degrees.
type ProjectionConfig struct {
	FovY  float32 `yaml:"fovy"`
	ZNear float32 `yaml:"znear"`
	ZFar  float32 `yaml:"zfar"`
}

// TextureConfig selects the diffuse texture. With no Path a checkerboard
// of CheckerSize pixels and CheckerCell cells is generated.
type TextureConfig struct {
	Path        string `yaml:"path"`
	Width       int    `yaml:"width"`  // resize target, 0 keeps the image size
	Height      int    `yaml:"height"` // resize target, 0 keeps the image size
	Mipmaps     bool   `yaml:"mipmaps"`
	CheckerSize int    `yaml:"checker_size"`
	CheckerCell int    `yaml:"checker_cell"`
}

// SamplerConfig names the sampler state.
type SamplerConfig struct {
	AddressModeU string `yaml:"address_mode_u"`
	AddressModeV string `yaml:"address_mode_v"`
	MagFilter    string `yaml:"mag_filter"`
	MinFilter    string `yaml:"min_filter"`
	MipmapFilter string `yaml:"mipmap_filter"`
}

// AnimationConfig renders Frames images, orbiting the camera about the
// target by OrbitDegrees per frame.
type AnimationConfig struct {
	Frames       int     `yaml:"frames"`
	OrbitDegrees float32 `yaml:"orbit_degrees"`
}

// Default returns the standard scene: a 1280x720 textured quad seen from
// (0, 1, 2).
func Default() Config {
	return Config{
		Width:      1280,
		Height:     720,
		ClearColor: [4]float32{0.1, 0.2, 0.3, 1},
		Backend:    "software",
		Program:    shadekit.ProgramTextured,
		CullMode:   shadekit.CullBack.String(),
		DepthTest:  true,
		Camera: CameraConfig{
			Eye:    [3]float32{0, 1, 2},
			Target: [3]float32{0, 0, 0},
			Up:     [3]float32{0, 1, 0},
		},
		Projection: ProjectionConfig{FovY: 45, ZNear: 0.1, ZFar: 100},
		Texture:    TextureConfig{CheckerSize: 256, CheckerCell: 32},
		Sampler: SamplerConfig{
			AddressModeU: "clamp-to-edge",
			AddressModeV: "clamp-to-edge",
			MagFilter:    "linear",
			MinFilter:    "nearest",
			MipmapFilter: "nearest",
		},
		Animation: AnimationConfig{Frames: 1, OrbitDegrees: 0},
	}
}

// Load reads and validates the scene file at path.
func Load(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("%s: %d bytes exceeds %d: %w", path, info.Size(), maxConfigSize, ErrInvalidConfig)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	shadekit.Logger().Debug("loaded scene config", "path", path, "size", info.Size())
	return cfg, nil
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0 || c.Width > shadekit.MaxDimension || c.Height > shadekit.MaxDimension:
		return fmt.Errorf("size %dx%d outside 1..%d: %w", c.Width, c.Height, shadekit.MaxDimension, ErrInvalidConfig)
	case c.Backend == "":
		return fmt.Errorf("empty backend: %w", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("workers %d: %w", c.Workers, ErrInvalidConfig)
	case c.Projection.FovY <= 0 || c.Projection.FovY >= 180:
		return fmt.Errorf("fovy %v outside (0, 180): %w", c.Projection.FovY, ErrInvalidConfig)
	case c.Projection.ZNear <= 0 || c.Projection.ZFar <= c.Projection.ZNear:
		return fmt.Errorf("znear %v, zfar %v: %w", c.Projection.ZNear, c.Projection.ZFar, ErrInvalidConfig)
	case c.Camera.Eye == c.Camera.Target:
		return fmt.Errorf("camera eye equals target: %w", ErrInvalidConfig)
	case c.Camera.Up == [3]float32{}:
		return fmt.Errorf("camera up is zero: %w", ErrInvalidConfig)
	case c.Animation.Frames < 1:
		return fmt.Errorf("frames %d: %w", c.Animation.Frames, ErrInvalidConfig)
	case c.Texture.Width < 0 || c.Texture.Height < 0 ||
		c.Texture.Width > shadekit.MaxDimension || c.Texture.Height > shadekit.MaxDimension:
		return fmt.Errorf("texture size %dx%d: %w", c.Texture.Width, c.Texture.Height, ErrInvalidConfig)
	case c.Texture.Path == "" && (c.Texture.CheckerSize <= 0 || c.Texture.CheckerCell <= 0 ||
		c.Texture.CheckerSize > shadekit.MaxDimension):
		return fmt.Errorf("checker %d/%d: %w", c.Texture.CheckerSize, c.Texture.CheckerCell, ErrInvalidConfig)
	}
	if _, err := shadekit.ParseProgram(c.Program); err != nil {
		return fmt.Errorf("program: %w: %w", err, ErrInvalidConfig)
	}
	if _, err := ParseCullMode(c.CullMode); err != nil {
		return err
	}
	if _, err := c.SamplerState(); err != nil {
		return err
	}
	return nil
}

// ClearColorRGBA returns the clear color.
func (c Config) ClearColorRGBA() shadekit.RGBA {
	return shadekit.RGBA{R: c.ClearColor[0], G: c.ClearColor[1], B: c.ClearColor[2], A: c.ClearColor[3]}
}

// CameraState returns the configured camera.
func (c Config) CameraState() shadekit.Camera {
	return shadekit.Camera{
		Eye:    shadekit.Vec3(c.Camera.Eye),
		Target: shadekit.Vec3(c.Camera.Target),
		Up:     shadekit.Vec3(c.Camera.Up),
	}
}

// ProjectionState returns the projection for the output size.
func (c Config) ProjectionState() shadekit.Projection {
	p := c.Projection
	return shadekit.NewProjection(c.Width, c.Height, p.FovY, p.ZNear, p.ZFar)
}

// SamplerState converts the named sampler settings.
func (c Config) SamplerState() (shadekit.Sampler, error) {
	var s shadekit.Sampler
	var err error
	if s.AddressModeU, err = ParseAddressMode(c.Sampler.AddressModeU); err != nil {
		return s, err
	}
	if s.AddressModeV, err = ParseAddressMode(c.Sampler.AddressModeV); err != nil {
		return s, err
	}
	if s.MagFilter, err = ParseFilterMode(c.Sampler.MagFilter); err != nil {
		return s, err
	}
	if s.MinFilter, err = ParseFilterMode(c.Sampler.MinFilter); err != nil {
		return s, err
	}
	if s.MipmapFilter, err = ParseFilterMode(c.Sampler.MipmapFilter); err != nil {
		return s, err
	}
	return s, nil
}

// Options returns the renderer options the scene asks for.
func (c Config) Options() []shadekit.RendererOption {
	cull, _ := ParseCullMode(c.CullMode)
	opts := []shadekit.RendererOption{
		shadekit.WithCullMode(cull),
		shadekit.WithDepthTest(c.DepthTest),
	}
	if c.Workers > 0 {
		opts = append(opts, shadekit.WithWorkers(c.Workers))
	}
	return opts
}

// ParseAddressMode parses a WebGPU address mode name.
func ParseAddressMode(name string) (gputypes.AddressMode, error) {
	switch name {
	case "clamp-to-edge", "clamp":
		return gputypes.AddressModeClampToEdge, nil
	case "repeat":
		return gputypes.AddressModeRepeat, nil
	case "mirror-repeat", "mirror":
		return gputypes.AddressModeMirrorRepeat, nil
	default:
		return 0, fmt.Errorf("address mode %q: %w", name, ErrInvalidConfig)
	}
}

// ParseFilterMode parses a WebGPU filter mode name.
func ParseFilterMode(name string) (gputypes.FilterMode, error) {
	switch name {
	case "nearest":
		return gputypes.FilterModeNearest, nil
	case "linear":
		return gputypes.FilterModeLinear, nil
	default:
		return 0, fmt.Errorf("filter mode %q: %w", name, ErrInvalidConfig)
	}
}

// ParseCullMode parses "back", "front" or "none".
func ParseCullMode(name string) (shadekit.CullMode, error) {
	for _, m := range []shadekit.CullMode{shadekit.CullBack, shadekit.CullFront, shadekit.CullNone} {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("cull mode %q: %w", name, ErrInvalidConfig)
}
