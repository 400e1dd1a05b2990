package style

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/nodegraph/pkg/errors"
)

// Load reads a TOML style file and applies it on top of [Default].
// Keys missing from the file keep their default value; unknown keys are
// rejected so typos do not pass silently.
func Load(path string) (*Style, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open style %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a TOML style from r and applies it on top of [Default].
func Decode(r io.Reader) (*Style, error) {
	s := Default()
	md, err := toml.NewDecoder(r).Decode(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "decode style")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style keys: %s", strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode writes s as TOML.
func (s *Style) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("encode style: %w", err)
	}
	return nil
}

// Validate checks that the layout metrics are usable.
func (s *Style) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"node.width", s.Node.Width},
		{"node.port_radius", s.Node.PortRadius},
		{"node.vertical_stretching", s.Node.VerticalStretching},
		{"node.header_height_scale", s.Node.HeaderHeightScale},
		{"link.hit_width", s.Link.HitWidth},
		{"group.resize_handle", s.Group.ResizeHandle},
		{"comment.width", s.Comment.Width},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return errors.New(errors.ErrCodeInvalidStyle, "%s must be positive, got %g", p.name, p.value)
		}
	}
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"node.padding", s.Node.Padding},
		{"node.padding_widget_width", s.Node.PaddingWidgetWidth},
		{"node.padding_widget_height", s.Node.PaddingWidgetHeight},
		{"node.port_radius_not_selectable", s.Node.PortRadiusNotSelectable},
		{"comment.rounding_radius", s.Comment.RoundingRadius},
		{"editor.zoom_margin", s.Editor.ZoomMargin},
	}
	for _, p := range nonNegative {
		if p.value < 0 {
			return errors.New(errors.ErrCodeInvalidStyle, "%s must not be negative, got %g", p.name, p.value)
		}
	}
	if s.Link.Curvature < 0 || s.Link.Curvature > 1 {
		return errors.New(errors.ErrCodeInvalidStyle, "link.curvature must be within [0, 1], got %g", s.Link.Curvature)
	}
	if s.Node.PortDataColors == nil {
		s.Node.PortDataColors = map[string]Color{}
	}
	if s.Node.CategoryColors == nil {
		s.Node.CategoryColors = map[string]Color{}
	}
	return nil
}
