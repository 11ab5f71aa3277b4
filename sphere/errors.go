package sphere

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimension  = errors.New("sphere: pixel count must be positive")
	ErrTextureSize       = errors.New("sphere: textures must be square, equal-sized and at least 3x3")
	ErrNonFiniteTexture  = errors.New("sphere: texture contains NaN or Inf")
	ErrDegenerateTexture = errors.New("sphere: texture has zero intensity range")
	ErrEmptyLibrary      = errors.New("sphere: texture library is empty")
	ErrNilProvider       = errors.New("sphere: nil texture provider")
)

// DegenerateTextureError is returned when a texture is constant-valued and
// therefore cannot be min-max normalized.
type DegenerateTextureError struct {
	Face  Face
	Value float64
}

func (e *DegenerateTextureError) Error() string {
	return fmt.Sprintf("sphere: %s texture is constant (%g)", e.Face, e.Value)
}

func (e *DegenerateTextureError) Unwrap() error {
	return ErrDegenerateTexture
}
