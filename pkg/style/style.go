// Package style holds the visual configuration consumed by the geometry
// engine, the link router and the interaction layer.
//
// A [Style] is a plain value. It is built with [Default], optionally
// overridden from a TOML file with [Load] or [Decode], and passed explicitly
// to the code that needs it. There is no package-level instance.
//
// Example TOML override:
//
//	[node]
//	width = 160.0
//	port_radius = 7.0
//
//	[node.port_data_colors]
//	float = "#8be9fd"
//	image = "#ffb86c"
//
//	[link]
//	curvature = 0.35
package style

// Style groups the per-entity settings.
type Style struct {
	Editor  Editor  `toml:"editor" json:"editor"`
	Node    Node    `toml:"node" json:"node"`
	Link    Link    `toml:"link" json:"link"`
	Group   Group   `toml:"group" json:"group"`
	Comment Comment `toml:"comment" json:"comment"`
}

// Editor holds canvas-level settings.
type Editor struct {
	Background Color `toml:"background" json:"background"`
	// ZoomMargin is the relative margin added around content by
	// zoom-to-content.
	ZoomMargin float64 `toml:"zoom_margin" json:"zoom_margin"`
}

// Node holds node layout metrics and colors.
type Node struct {
	Width                   float64 `toml:"width" json:"width"`
	Padding                 float64 `toml:"padding" json:"padding"`
	PaddingWidgetWidth      float64 `toml:"padding_widget_width" json:"padding_widget_width"`
	PaddingWidgetHeight     float64 `toml:"padding_widget_height" json:"padding_widget_height"`
	RoundingRadius          float64 `toml:"rounding_radius" json:"rounding_radius"`
	PortRadius              float64 `toml:"port_radius" json:"port_radius"`
	PortRadiusNotSelectable float64 `toml:"port_radius_not_selectable" json:"port_radius_not_selectable"`
	VerticalStretching      float64 `toml:"vertical_stretching" json:"vertical_stretching"`
	HeaderHeightScale       float64 `toml:"header_height_scale" json:"header_height_scale"`

	PenWidth         float64 `toml:"pen_width" json:"pen_width"`
	PenWidthHovered  float64 `toml:"pen_width_hovered" json:"pen_width_hovered"`
	PenWidthSelected float64 `toml:"pen_width_selected" json:"pen_width_selected"`

	Background        Color            `toml:"background" json:"background"`
	BackgroundLight   Color            `toml:"background_light" json:"background_light"`
	Border            Color            `toml:"border" json:"border"`
	BorderHovered     Color            `toml:"border_hovered" json:"border_hovered"`
	Caption           Color            `toml:"caption" json:"caption"`
	Selected          Color            `toml:"selected" json:"selected"`
	PortHovered       Color            `toml:"port_hovered" json:"port_hovered"`
	PortSelected      Color            `toml:"port_selected" json:"port_selected"`
	PortDataDefault   Color            `toml:"port_data_default" json:"port_data_default"`
	PortNotSelectable Color            `toml:"port_not_selectable" json:"port_not_selectable"`
	PortDataColors    map[string]Color `toml:"port_data_colors" json:"port_data_colors,omitempty"`
	CategoryColors    map[string]Color `toml:"category_colors" json:"category_colors,omitempty"`
}

// PortColor returns the color for a port data type, falling back to
// PortDataDefault for unknown types.
func (n Node) PortColor(dataType string) Color {
	if c, ok := n.PortDataColors[dataType]; ok {
		return c
	}
	return n.PortDataDefault
}

// CategoryColor returns the header color for a category. A category path
// like "Noise/Coherent" is matched on its full path first, then on its
// top-level segment.
func (n Node) CategoryColor(category string) (Color, bool) {
	if c, ok := n.CategoryColors[category]; ok {
		return c, true
	}
	for i := 0; i < len(category); i++ {
		if category[i] == '/' {
			c, ok := n.CategoryColors[category[:i]]
			return c, ok
		}
	}
	return Color{}, false
}

// MutedPortColor is the color drawn for a hovered port that is not a legal
// connection target.
func (n Node) MutedPortColor(dataType string) Color {
	return n.PortColor(dataType).Blend(n.PortNotSelectable, 0.75)
}

// Link holds link rendering settings.
type Link struct {
	PenWidth         float64 `toml:"pen_width" json:"pen_width"`
	PenWidthHovered  float64 `toml:"pen_width_hovered" json:"pen_width_hovered"`
	PenWidthSelected float64 `toml:"pen_width_selected" json:"pen_width_selected"`
	PortTipRadius    float64 `toml:"port_tip_radius" json:"port_tip_radius"`
	Curvature        float64 `toml:"curvature" json:"curvature"`
	// HitWidth is the width of the invisible stroke used for hit-testing.
	HitWidth float64 `toml:"hit_width" json:"hit_width"`
	Default  Color   `toml:"default" json:"default"`
	Selected Color   `toml:"selected" json:"selected"`
}

// NamedColor is one entry of the group color palette.
type NamedColor struct {
	Name  string `toml:"name" json:"name"`
	Color Color  `toml:"color" json:"color"`
}

// Group holds group rendering settings.
type Group struct {
	PenWidth            float64      `toml:"pen_width" json:"pen_width"`
	PenWidthHovered     float64      `toml:"pen_width_hovered" json:"pen_width_hovered"`
	PenWidthSelected    float64      `toml:"pen_width_selected" json:"pen_width_selected"`
	RoundingRadius      float64      `toml:"rounding_radius" json:"rounding_radius"`
	ResizeHandle        float64      `toml:"resize_handle" json:"resize_handle"`
	DefaultWidth        float64      `toml:"default_width" json:"default_width"`
	DefaultHeight       float64      `toml:"default_height" json:"default_height"`
	MinWidth            float64      `toml:"min_width" json:"min_width"`
	MinHeight           float64      `toml:"min_height" json:"min_height"`
	Color               Color        `toml:"color" json:"color"`
	BackgroundFillAlpha float64      `toml:"background_fill_alpha" json:"background_fill_alpha"`
	Selected            Color        `toml:"selected" json:"selected"`
	BoldCaption         bool         `toml:"bold_caption" json:"bold_caption"`
	Palette             []NamedColor `toml:"palette" json:"palette"`
}

// PaletteColor looks up a palette entry by name.
func (g Group) PaletteColor(name string) (Color, bool) {
	for _, nc := range g.Palette {
		if nc.Name == name {
			return nc.Color, true
		}
	}
	return Color{}, false
}

// Comment holds free-text comment settings.
type Comment struct {
	Width               float64 `toml:"width" json:"width"`
	RoundingRadius      float64 `toml:"rounding_radius" json:"rounding_radius"`
	Background          Color   `toml:"background" json:"background"`
	BackgroundFillAlpha float64 `toml:"background_fill_alpha" json:"background_fill_alpha"`
	Text                Color   `toml:"text" json:"text"`
	Selected            Color   `toml:"selected" json:"selected"`
}

var accent = RGB(80, 250, 123)

// Default returns the built-in style.
func Default() *Style {
	return &Style{
		Editor: Editor{
			Background: RGB(42, 42, 42),
			ZoomMargin: 0.3,
		},
		Node: Node{
			Width:                   128,
			Padding:                 6,
			PaddingWidgetWidth:      4,
			PaddingWidgetHeight:     6,
			RoundingRadius:          8,
			PortRadius:              6,
			PortRadiusNotSelectable: 5,
			VerticalStretching:      1.3,
			HeaderHeightScale:       1.2,
			PenWidth:                1.5,
			PenWidthHovered:         2,
			PenWidthSelected:        2,
			Background:              RGB(102, 102, 102),
			BackgroundLight:         RGB(108, 108, 108),
			Border:                  Black,
			BorderHovered:           Black,
			Caption:                 White,
			Selected:                accent,
			PortHovered:             White,
			PortSelected:            accent,
			PortDataDefault:         LightGray,
			PortNotSelectable:       RGB(102, 102, 102),
			PortDataColors:          map[string]Color{},
			CategoryColors:          map[string]Color{},
		},
		Link: Link{
			PenWidth:         1,
			PenWidthHovered:  2,
			PenWidthSelected: 3,
			PortTipRadius:    2,
			Curvature:        0.5,
			HitWidth:         40,
			Default:          LightGray,
			Selected:         accent,
		},
		Group: Group{
			PenWidth:            1,
			PenWidthHovered:     1,
			PenWidthSelected:    3,
			RoundingRadius:      16,
			ResizeHandle:        20,
			DefaultWidth:        256,
			DefaultHeight:       128,
			MinWidth:            40,
			MinHeight:           40,
			Color:               White,
			BackgroundFillAlpha: 0.1,
			Selected:            accent,
			BoldCaption:         true,
			Palette: []NamedColor{
				{"White", White},
				{"Cyan", RGB(139, 233, 253)},
				{"Green", RGB(80, 250, 123)},
				{"Orange", RGB(255, 184, 108)},
				{"Pink", RGB(255, 121, 198)},
				{"Purple", RGB(189, 147, 249)},
				{"Red", RGB(255, 85, 85)},
				{"Yellow", RGB(241, 250, 140)},
				{"Black", Black},
			},
		},
		Comment: Comment{
			Width:               256,
			RoundingRadius:      8,
			Background:          RGB(241, 250, 140),
			BackgroundFillAlpha: 0.1,
			Text:                White,
			Selected:            accent,
		},
	}
}

// Clone returns a deep copy of s.
func (s *Style) Clone() *Style {
	c := *s
	c.Node.PortDataColors = cloneMap(s.Node.PortDataColors)
	c.Node.CategoryColors = cloneMap(s.Node.CategoryColors)
	c.Group.Palette = append([]NamedColor(nil), s.Group.Palette...)
	return &c
}

func cloneMap(m map[string]Color) map[string]Color {
	out := make(map[string]Color, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
