// Command shadekit renders the unlit and textured programs to PNG files.
//
// Usage:
//
//	shadekit [-config scene.yaml] [-out frame.png] [-backend software|gpu]
//	         [-program unlit|textured] [-frames N] [-v]
//	shadekit -validate
//	shadekit -spirv DIR
//
// With -frames greater than one the camera orbits the target and -out may
// contain a %03d verb for the frame number.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/schollz/progressbar/v3"

	"github.com/gogpu/shadekit"
	"github.com/gogpu/shadekit/config"
	_ "github.com/gogpu/shadekit/gpu" // registers the "gpu" backend
	"github.com/gogpu/shadekit/shader"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "shadekit: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	out        string
	backend    string
	program    string
	frames     int
	validate   bool
	spirvDir   string
	verbose    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("shadekit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "scene file (YAML)")
	fs.StringVar(&o.out, "out", "frame.png", "output PNG; may contain %03d for the frame number")
	fs.StringVar(&o.backend, "backend", "", "backend name, overrides the scene file")
	fs.StringVar(&o.program, "program", "", "unlit or textured, overrides the scene file")
	fs.IntVar(&o.frames, "frames", 0, "frame count, overrides the scene file")
	fs.BoolVar(&o.validate, "validate", false, "reflect and compile both programs, then exit")
	fs.StringVar(&o.spirvDir, "spirv", "", "write SPIR-V for both programs to `dir`, then exit")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	shadekit.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer shadekit.SetLogger(nil)

	if o.validate || o.spirvDir != "" {
		return checkPrograms(stdout, o.validate, o.spirvDir)
	}

	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	return render(cfg, o.out, stderr)
}

// loadConfig reads the scene file, if any, and applies flag overrides.
func loadConfig(o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	if o.backend != "" {
		cfg.Backend = o.backend
	}
	if o.program != "" {
		cfg.Program = o.program
	}
	if o.frames > 0 {
		cfg.Animation.Frames = o.frames
	}
	return cfg, cfg.Validate()
}

// checkPrograms validates both programs against their binding contract
// and optionally writes their SPIR-V.
func checkPrograms(w io.Writer, report bool, spirvDir string) error {
	if spirvDir != "" {
		if err := os.MkdirAll(spirvDir, 0o755); err != nil {
			return err
		}
	}
	for _, p := range shader.Programs() {
		if err := shader.Validate(p); err != nil {
			return err
		}
		spv, err := shader.CompileSPIRV(p)
		if err != nil {
			return err
		}
		if report {
			r, err := shader.Reflect(p.Source)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s: ok, %d bytes SPIR-V\n", p.Name, len(spv))
			for _, ep := range r.EntryPoints {
				fmt.Fprintf(w, "  entry %-8s %s\n", ep.Stage, ep.Name)
			}
			for _, b := range p.Bindings {
				fmt.Fprintf(w, "  @group(%d) @binding(%d) %-10s %s\n", b.Group, b.Binding, b.Name, b.Kind)
			}
		}
		if spirvDir != "" {
			path := filepath.Join(spirvDir, p.Name+".spv")
			if err := os.WriteFile(path, spv, 0o644); err != nil {
				return err
			}
			shadekit.Logger().Info("wrote SPIR-V", "program", p.Name, "path", path, "bytes", len(spv))
		}
	}
	return nil
}

// openBackend creates the configured backend, falling back to software
// when a GPU cannot be opened.
func openBackend(cfg config.Config) (shadekit.Backend, error) {
	b, err := shadekit.NewBackend(cfg.Backend, cfg.Options()...)
	if err == nil || cfg.Backend == "software" {
		return b, err
	}
	shadekit.Logger().Warn("backend unavailable, using software", "backend", cfg.Backend, "err", err)
	return shadekit.NewBackend("software", cfg.Options()...)
}

func render(cfg config.Config, out string, progress io.Writer) error {
	b, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	f, err := shadekit.NewFrame(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}

	var tex *shadekit.Texture
	if cfg.Program == shadekit.ProgramTextured {
		if tex, err = loadTexture(cfg.Texture); err != nil {
			return err
		}
	}
	sampler, err := cfg.SamplerState()
	if err != nil {
		return err
	}

	frames := cfg.Animation.Frames
	var bar *progressbar.ProgressBar
	if frames > 1 {
		bar = progressbar.NewOptions(frames,
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionShowCount(),
		)
		defer bar.Close()
	}

	camera := cfg.CameraState()
	proj := cfg.ProjectionState()
	for i := range frames {
		cam := camera.Orbit(mgl32.DegToRad(cfg.Animation.OrbitDegrees * float32(i)))
		f.Clear(cfg.ClearColorRGBA())

		switch cfg.Program {
		case shadekit.ProgramUnlit:
			err = b.DrawUnlit(f, shadekit.TriangleMesh())
		default:
			err = b.DrawTextured(f, shadekit.SquareMesh(), shadekit.ViewProjection(cam, proj), tex, sampler)
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}

		path := framePath(out, i, frames)
		if err := f.Color.SavePNG(path); err != nil {
			return err
		}
		shadekit.Logger().Info("frame written", "path", path, "backend", b.Name(), "program", cfg.Program)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return nil
}

// loadTexture loads the configured image or generates a checkerboard.
func loadTexture(tc config.TextureConfig) (*shadekit.Texture, error) {
	var (
		tex *shadekit.Texture
		err error
	)
	switch {
	case tc.Path == "":
		tex, err = shadekit.NewCheckerTexture(tc.CheckerSize, tc.CheckerSize, tc.CheckerCell,
			shadekit.White, shadekit.RGB(0.2, 0.6, 0.3))
	case tc.Width > 0 && tc.Height > 0:
		tex, err = loadScaled(tc.Path, tc.Width, tc.Height)
	default:
		tex, err = shadekit.LoadTexture(tc.Path)
	}
	if err != nil {
		return nil, err
	}
	if tc.Mipmaps {
		tex.GenerateMips()
	}
	return tex, nil
}

func loadScaled(path string, w, h int) (*shadekit.Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return shadekit.TextureFromImageSize(img, w, h)
}

// framePath expands a %d-style verb in pattern with the frame index. A
// pattern without one gets _NNN before the extension when several frames
// are rendered.
func framePath(pattern string, i, frames int) string {
	if strings.Contains(pattern, "%") {
		return fmt.Sprintf(pattern, i)
	}
	if frames <= 1 {
		return pattern
	}
	ext := filepath.Ext(pattern)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(pattern, ext), i, ext)
}
