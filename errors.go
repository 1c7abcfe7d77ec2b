package shadekit

import "errors"

var (
	// ErrInvalidDimensions is returned for a frame or texture with a
	// non-positive width or height, or one larger than MaxDimension.
	ErrInvalidDimensions = errors.New("shadekit: invalid dimensions")

	// ErrIndexCount is returned when a mesh index count is not a multiple of 3.
	ErrIndexCount = errors.New("shadekit: index count is not a multiple of 3")

	// ErrIndexOutOfRange is returned when an index refers past the vertex slice.
	ErrIndexOutOfRange = errors.New("shadekit: index out of range")

	// ErrVertexCount is returned for a non-indexed mesh whose vertex count
	// is not a multiple of 3.
	ErrVertexCount = errors.New("shadekit: vertex count is not a multiple of 3")

	// ErrNilTexture is returned when a textured draw has no texture bound.
	ErrNilTexture = errors.New("shadekit: nil texture")

	// ErrNilFrame is returned when a draw targets a nil frame.
	ErrNilFrame = errors.New("shadekit: nil frame")

	// ErrBackendUnavailable is returned by NewBackend for an unregistered name.
	ErrBackendUnavailable = errors.New("shadekit: backend not available")

	// ErrUnknownProgram is returned for a program name other than
	// "unlit" or "textured".
	ErrUnknownProgram = errors.New("shadekit: unknown program")

	// ErrClosed is returned when drawing with a closed backend.
	ErrClosed = errors.New("shadekit: backend closed")
)
