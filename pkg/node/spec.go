package node

import (
	"fmt"
	"strings"

	"github.com/matzehuels/nodegraph/pkg/geom"
)

// PortSpec describes one port of a [Spec].
type PortSpec struct {
	ID        string    `json:"id,omitempty" bson:"id,omitempty"`
	Caption   string    `json:"caption" bson:"caption"`
	Direction Direction `json:"direction" bson:"direction"`
	DataType  string    `json:"data_type" bson:"data_type"`
}

// Spec is a static [Descriptor]. It is what the CLI, the server and tests use
// when no host application supplies live node models.
type Spec struct {
	NodeID       string     `json:"-" bson:"-"`
	Type         string     `json:"caption" bson:"caption"`
	NodeCategory string     `json:"category,omitempty" bson:"category,omitempty"`
	Text         string     `json:"comment,omitempty" bson:"comment,omitempty"`
	Widget       geom.Size  `json:"widget,omitzero" bson:"widget,omitempty"`
	Ports        []PortSpec `json:"ports" bson:"ports"`
}

var (
	_ Descriptor = (*Spec)(nil)
	_ Embedded   = (*Spec)(nil)
	_ Fielder    = (*Spec)(nil)
)

func (s *Spec) ID() string                    { return s.NodeID }
func (s *Spec) Caption() string               { return s.Type }
func (s *Spec) Category() string              { return s.NodeCategory }
func (s *Spec) Comment() string               { return s.Text }
func (s *Spec) PortCount() int                { return len(s.Ports) }
func (s *Spec) PortCaption(i int) string      { return s.Ports[i].Caption }
func (s *Spec) PortDirection(i int) Direction { return s.Ports[i].Direction }
func (s *Spec) PortDataType(i int) string     { return s.Ports[i].DataType }
func (s *Spec) EmbeddedSize() geom.Size       { return s.Widget }

// PortID returns the port's id, defaulting to its caption.
func (s *Spec) PortID(i int) string {
	if id := s.Ports[i].ID; id != "" {
		return id
	}
	return s.Ports[i].Caption
}

// Fields returns the host fields written next to id and position in a graph
// document.
func (s *Spec) Fields() map[string]any {
	ports := make([]map[string]any, len(s.Ports))
	for i, p := range s.Ports {
		ports[i] = map[string]any{
			"id":        s.PortID(i),
			"caption":   p.Caption,
			"direction": p.Direction.String(),
			"data_type": p.DataType,
		}
	}
	f := map[string]any{
		"caption": s.Type,
		"ports":   ports,
	}
	if s.NodeCategory != "" {
		f["category"] = s.NodeCategory
	}
	if s.Text != "" {
		f["comment"] = s.Text
	}
	if !s.Widget.IsZero() {
		f["widget"] = map[string]any{"width": s.Widget.W, "height": s.Widget.H}
	}
	return f
}

// SpecFromFields builds a Spec from the host fields of a document node, as
// produced by [Spec.Fields]. Unknown fields are ignored. The caption defaults
// to the part of the id before "##", the separator hosts use to number
// instances of a node type.
func SpecFromFields(id string, fields map[string]any) (*Spec, error) {
	s := &Spec{NodeID: id}
	s.Type, _ = fields["caption"].(string)
	if s.Type == "" {
		s.Type, _, _ = strings.Cut(id, "##")
	}
	s.NodeCategory, _ = fields["category"].(string)
	s.Text, _ = fields["comment"].(string)

	if w, ok := fields["widget"].(map[string]any); ok {
		s.Widget.W, _ = w["width"].(float64)
		s.Widget.H, _ = w["height"].(float64)
	}

	var raw []any
	switch v := fields["ports"].(type) {
	case []any:
		raw = v
	case []map[string]any:
		for _, m := range v {
			raw = append(raw, m)
		}
	}
	seen := make(map[string]bool, len(raw))
	for i, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("port %d: not an object", i)
		}
		var p PortSpec
		p.ID, _ = m["id"].(string)
		p.Caption, _ = m["caption"].(string)
		p.DataType, _ = m["data_type"].(string)
		if dir, ok := m["direction"].(string); ok {
			d, err := ParseDirection(dir)
			if err != nil {
				return nil, fmt.Errorf("port %d: %w", i, err)
			}
			p.Direction = d
		}
		if p.ID == "" && p.Caption == "" {
			return nil, fmt.Errorf("port %d: missing id and caption", i)
		}
		s.Ports = append(s.Ports, p)
		pid := s.PortID(len(s.Ports) - 1)
		if seen[pid] {
			return nil, fmt.Errorf("port %d: duplicate port id %q", i, pid)
		}
		seen[pid] = true
	}
	return s, nil
}
