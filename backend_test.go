package shadekit

import (
	"errors"
	"slices"
	"testing"
)

type fakeBackend struct {
	closed bool
}

func (*fakeBackend) Name() string                             { return "fake" }
func (*fakeBackend) DrawUnlit(*Frame, Mesh[ColorVertex]) error { return nil }
func (*fakeBackend) DrawTextured(*Frame, Mesh[TextureVertex], Mat4, *Texture, Sampler) error {
	return nil
}
func (b *fakeBackend) Close() { b.closed = true }

func TestSoftwareBackendRegistered(t *testing.T) {
	if !slices.Contains(Backends(), "software") {
		t.Fatalf("Backends() = %v, want software", Backends())
	}
	b, err := NewBackend("software", WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if b.Name() != "software" {
		t.Errorf("Name() = %q", b.Name())
	}
}

func TestRegisterBackend(t *testing.T) {
	if err := RegisterBackend("", nil); err == nil {
		t.Error("expected error for empty registration")
	}

	var gotOpts int
	err := RegisterBackend("fake", func(opts ...RendererOption) (Backend, error) {
		gotOpts = len(opts)
		return &fakeBackend{}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		backendMu.Lock()
		delete(backends, "fake")
		backendMu.Unlock()
	})

	b, err := NewBackend("fake", WithCullMode(CullNone), WithDepthTest(false))
	if err != nil {
		t.Fatal(err)
	}
	if gotOpts != 2 {
		t.Errorf("factory received %d options, want 2", gotOpts)
	}
	b.Close()
	if !b.(*fakeBackend).closed {
		t.Error("Close not forwarded")
	}
}

func TestNewBackendErrors(t *testing.T) {
	if _, err := NewBackend("no-such-backend"); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("err = %v, want ErrBackendUnavailable", err)
	}

	boom := errors.New("no adapter")
	_ = RegisterBackend("broken", func(...RendererOption) (Backend, error) { return nil, boom })
	t.Cleanup(func() {
		backendMu.Lock()
		delete(backends, "broken")
		backendMu.Unlock()
	})
	if _, err := NewBackend("broken"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped factory error", err)
	}
}

func TestParseProgram(t *testing.T) {
	for _, name := range []string{ProgramUnlit, ProgramTextured} {
		if got, err := ParseProgram(name); err != nil || got != name {
			t.Errorf("ParseProgram(%q) = %q, %v", name, got, err)
		}
	}
	if _, err := ParseProgram("lit"); !errors.Is(err, ErrUnknownProgram) {
		t.Errorf("err = %v, want ErrUnknownProgram", err)
	}
}
