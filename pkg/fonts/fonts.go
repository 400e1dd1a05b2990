// Package fonts provides the font faces used to measure node captions, port
// labels and comment text.
//
// The faces come from the Go font family bundled with golang.org/x/image, so
// measurements are identical on every machine and need no system fonts.
// Parsed fonts are cached; faces are created per size.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// DefaultSize is the point size used when none is configured.
const DefaultSize = 12

var (
	regularOnce sync.Once
	regularFont *opentype.Font
	regularErr  error

	boldOnce sync.Once
	boldFont *opentype.Font
	boldErr  error
)

// Regular returns a Go Regular face at the given point size and 72 DPI, so
// one point equals one graph unit.
func Regular(size float64) (font.Face, error) {
	regularOnce.Do(func() {
		regularFont, regularErr = opentype.Parse(goregular.TTF)
	})
	if regularErr != nil {
		return nil, fmt.Errorf("parse go regular: %w", regularErr)
	}
	return newFace(regularFont, size)
}

// Bold returns a Go Bold face, used for group captions.
func Bold(size float64) (font.Face, error) {
	boldOnce.Do(func() {
		boldFont, boldErr = opentype.Parse(gobold.TTF)
	})
	if boldErr != nil {
		return nil, fmt.Errorf("parse go bold: %w", boldErr)
	}
	return newFace(boldFont, size)
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultSize
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return face, nil
}
