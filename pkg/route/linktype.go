package route

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/nodegraph/pkg/errors"
)

// LinkType selects the routing algorithm of a link.
type LinkType int

const (
	Cubic LinkType = iota
	Linear
	BrokenLine
	Circuit
	Deported
	Quadratic
	Jagged
)

// LinkTypes lists every link type in toggle order.
var LinkTypes = []LinkType{Cubic, Linear, BrokenLine, Circuit, Deported, Quadratic, Jagged}

var linkTypeNames = [...]string{
	Cubic:      "cubic",
	Linear:     "linear",
	BrokenLine: "broken_line",
	Circuit:    "circuit",
	Deported:   "deported",
	Quadratic:  "quadratic",
	Jagged:     "jagged",
}

// String returns the lower-case tag used in documents.
func (t LinkType) String() string {
	if t < 0 || int(t) >= len(linkTypeNames) {
		return "LinkType(" + strconv.Itoa(int(t)) + ")"
	}
	return linkTypeNames[t]
}

// Valid reports whether t is a known link type.
func (t LinkType) Valid() bool { return t >= 0 && int(t) < len(linkTypeNames) }

// Next returns the link type following t in toggle order, wrapping around.
func (t LinkType) Next() LinkType {
	for i, lt := range LinkTypes {
		if lt == t {
			return LinkTypes[(i+1)%len(LinkTypes)]
		}
	}
	return LinkTypes[0]
}

// ParseLinkType accepts a tag ("broken_line"), an upper-case name
// ("BROKEN_LINE") or a decimal index.
func ParseLinkType(s string) (LinkType, error) {
	s = strings.TrimSpace(s)
	key := strings.ToLower(strings.ReplaceAll(s, "-", "_"))
	for i, name := range linkTypeNames {
		if name == key {
			return LinkType(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && LinkType(n).Valid() {
		return LinkType(n), nil
	}
	return Cubic, errors.New(errors.ErrCodeInvalidLinkType, "unknown link type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t LinkType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid link type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *LinkType) UnmarshalText(b []byte) error {
	v, err := ParseLinkType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// UnmarshalJSON accepts both the string tag and a bare integer index.
func (t *LinkType) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if !LinkType(n).Valid() {
			return errors.New(errors.ErrCodeInvalidLinkType, "unknown link type %d", n)
		}
		*t = LinkType(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("link type: %w", err)
	}
	return t.UnmarshalText([]byte(s))
}
