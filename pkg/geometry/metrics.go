package geometry

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Metrics measures text for layout.
type Metrics interface {
	// LineHeight is the distance between consecutive baselines.
	LineHeight() float64
	// Advance is the horizontal extent of s on a single line.
	Advance(s string) float64
}

// FaceMetrics measures text with a font face.
type FaceMetrics struct {
	face font.Face
}

// NewFaceMetrics wraps face.
func NewFaceMetrics(face font.Face) *FaceMetrics {
	return &FaceMetrics{face: face}
}

// DefaultMetrics returns metrics for the 7x13 basic bitmap face.
func DefaultMetrics() *FaceMetrics {
	return NewFaceMetrics(basicfont.Face7x13)
}

func (m *FaceMetrics) LineHeight() float64 {
	return fixedToFloat(m.face.Metrics().Height)
}

func (m *FaceMetrics) Advance(s string) float64 {
	return fixedToFloat(font.MeasureString(m.face, s))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Wrap breaks text into lines no wider than width. Explicit newlines are kept,
// words are packed greedily, and a single word wider than width is split
// between runes. An empty text yields no lines.
func Wrap(text string, width float64, m Metrics) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, w := range words {
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if m.Advance(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			for m.Advance(w) > width {
				head := splitAt(w, width, m)
				lines = append(lines, head)
				w = w[len(head):]
			}
			line = w
		}
		lines = append(lines, line)
	}
	return lines
}

// splitAt returns the longest prefix of w that fits width, at least one rune.
func splitAt(w string, width float64, m Metrics) string {
	end := 0
	for i, r := range w {
		next := i + utf8.RuneLen(r)
		if end > 0 && m.Advance(w[:next]) > width {
			break
		}
		end = next
	}
	return w[:end]
}
