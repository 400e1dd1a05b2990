// Package node defines the read-only view of a host node that the editing
// engine consumes.
//
// The host owns node semantics: what a node computes, which data types exist,
// how settings work. The engine only needs the [Descriptor] surface to lay a
// node out and to validate connections. Optional capabilities are discovered
// through the small [Embedded] and [Fielder] interfaces.
package node

import (
	"fmt"
	"strings"

	"github.com/matzehuels/nodegraph/pkg/geom"
)

// Direction is the flow direction of a port.
type Direction int

const (
	In Direction = iota
	Out
)

// String returns "in" or "out".
func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Out {
		return In
	}
	return Out
}

// ParseDirection accepts "in"/"out" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "input":
		return In, nil
	case "out", "output":
		return Out, nil
	}
	return In, fmt.Errorf("unknown port direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Descriptor is the host-supplied view of a node. Port indices run from 0 to
// PortCount()-1 and are only stable for the lifetime of one descriptor; port
// ids are stable across descriptor changes and are what documents store.
type Descriptor interface {
	ID() string
	Caption() string
	Category() string
	PortCount() int
	PortCaption(i int) string
	PortID(i int) string
	PortDirection(i int) Direction
	PortDataType(i int) string
	// Comment is free text shown below the ports. Empty means no comment block.
	Comment() string
}

// Embedded is implemented by descriptors that carry an embedded control.
type Embedded interface {
	EmbeddedSize() geom.Size
}

// Fielder is implemented by descriptors that contribute host-defined fields
// to serialized graph documents.
type Fielder interface {
	Fields() map[string]any
}

// EmbeddedSizeOf returns the embedded control size of d, or zero.
func EmbeddedSizeOf(d Descriptor) geom.Size {
	if e, ok := d.(Embedded); ok {
		return e.EmbeddedSize()
	}
	return geom.Size{}
}

// PortIndex returns the index of the port with the given id, or -1.
func PortIndex(d Descriptor, portID string) int {
	for i := range d.PortCount() {
		if d.PortID(i) == portID {
			return i
		}
	}
	return -1
}

// FieldsOf returns the document fields of d. Descriptors that are not a
// [Fielder] contribute their caption, category, comment and ports.
func FieldsOf(d Descriptor) map[string]any {
	if f, ok := d.(Fielder); ok {
		return f.Fields()
	}
	s := &Spec{
		NodeID:       d.ID(),
		Type:         d.Caption(),
		NodeCategory: d.Category(),
		Text:         d.Comment(),
		Ports:        make([]PortSpec, d.PortCount()),
	}
	for i := range s.Ports {
		s.Ports[i] = PortSpec{
			ID:        d.PortID(i),
			Caption:   d.PortCaption(i),
			Direction: d.PortDirection(i),
			DataType:  d.PortDataType(i),
		}
	}
	return s.Fields()
}
