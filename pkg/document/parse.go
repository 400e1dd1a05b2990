package document

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/matzehuels/nodegraph/pkg/errors"
	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/route"
)

// Issue describes one document entry that was skipped.
type Issue struct {
	// Section is "nodes", "links", "groups", "comments" or "document".
	Section string
	// Index is the position of the entry in its section, or -1 when the
	// issue concerns the section itself.
	Index  int
	Reason string
}

func (i Issue) String() string {
	if i.Index < 0 {
		return fmt.Sprintf("%s: %s", i.Section, i.Reason)
	}
	return fmt.Sprintf("%s[%d]: %s", i.Section, i.Index, i.Reason)
}

// Parse reads a document. Data that is not a JSON object is an
// INVALID_DOCUMENT error. Otherwise every section is optional, and an entry
// that cannot be read is skipped and reported as an Issue. Nodes may use the
// flat "scene_position.x"/"scene_position.y" keys of older documents, and
// group and comment positions may be [x, y] arrays.
func Parse(data []byte) (Document, []Issue, error) {
	if !gjson.ValidBytes(data) {
		return Document{}, nil, errors.New(errors.ErrCodeInvalidDocument, "document is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Document{}, nil, errors.New(errors.ErrCodeInvalidDocument, "document root must be an object")
	}

	var issues []Issue
	doc := Document{ID: root.Get("id").String()}

	if r := root.Get("current_link_type"); r.Exists() {
		t, err := parseLinkType(r)
		if err != nil {
			issues = append(issues, Issue{"document", -1, err.Error()})
		}
		doc.LinkType = t
	}

	each(root, "nodes", &issues, func(r gjson.Result) error {
		n, err := parseNode(r)
		if err == nil {
			doc.Nodes = append(doc.Nodes, n)
		}
		return err
	})
	each(root, "links", &issues, func(r gjson.Result) error {
		l, err := parseLink(r, doc.LinkType)
		if err == nil {
			doc.Links = append(doc.Links, l)
		}
		return err
	})
	each(root, "groups", &issues, func(r gjson.Result) error {
		gr, err := parseGroup(r)
		if err == nil {
			doc.Groups = append(doc.Groups, gr)
		}
		return err
	})
	each(root, "comments", &issues, func(r gjson.Result) error {
		c, err := parseComment(r)
		if err == nil {
			doc.Comments = append(doc.Comments, c)
		}
		return err
	})
	return doc, issues, nil
}

// each calls fn for every element of root[section]. A missing or null
// section is empty; a section that is not an array is one issue.
func each(root gjson.Result, section string, issues *[]Issue, fn func(gjson.Result) error) {
	arr := root.Get(section)
	if !arr.Exists() || arr.Type == gjson.Null {
		return
	}
	if !arr.IsArray() {
		*issues = append(*issues, Issue{section, -1, "not an array"})
		return
	}
	for i, r := range arr.Array() {
		if err := fn(r); err != nil {
			*issues = append(*issues, Issue{section, i, err.Error()})
		}
	}
}

func resultOf(b []byte) gjson.Result { return gjson.ParseBytes(b) }

func parseLinkType(r gjson.Result) (route.LinkType, error) {
	switch r.Type {
	case gjson.Number:
		t := route.LinkType(r.Int())
		if !t.Valid() {
			return route.Cubic, errors.New(errors.ErrCodeInvalidLinkType, "unknown link type %d", r.Int())
		}
		return t, nil
	case gjson.String:
		return route.ParseLinkType(r.Str)
	}
	return route.Cubic, errors.New(errors.ErrCodeInvalidLinkType, "link type must be a string or number")
}

func parseNode(r gjson.Result) (Node, error) {
	if !r.IsObject() {
		return Node{}, fmt.Errorf("not an object")
	}
	id := r.Get(keyID)
	if id.Type != gjson.String {
		return Node{}, fmt.Errorf("missing node id")
	}
	if err := errors.ValidateNodeID(id.Str); err != nil {
		return Node{}, err
	}
	n := Node{ID: id.Str, WidgetVisible: true, Fields: map[string]any{}}

	pos, ok := parsePosition(r.Get(keyPosition))
	if !ok {
		x, y := r.Get(`scene_position\.x`), r.Get(`scene_position\.y`)
		if x.Type != gjson.Number || y.Type != gjson.Number {
			return Node{}, fmt.Errorf("node %q: missing or malformed scene_position", id.Str)
		}
		pos = Position{X: x.Num, Y: y.Num}
	}
	n.Position = pos

	if v := r.Get(keyWidgetVisible); v.Exists() {
		n.WidgetVisible = v.Bool()
	}

	r.ForEach(func(k, v gjson.Result) bool {
		if !reservedNodeKey(k.Str) {
			n.Fields[k.Str] = v.Value()
		}
		return true
	})
	return n, nil
}

// parsePosition accepts {"x": .., "y": ..} and [x, y].
func parsePosition(r gjson.Result) (Position, bool) {
	switch {
	case r.IsObject():
		x, y := r.Get("x"), r.Get("y")
		if x.Type == gjson.Number && y.Type == gjson.Number {
			return Position{X: x.Num, Y: y.Num}, true
		}
	case r.IsArray():
		a := r.Array()
		if len(a) == 2 && a[0].Type == gjson.Number && a[1].Type == gjson.Number {
			return Position{X: a[0].Num, Y: a[1].Num}, true
		}
	}
	return Position{}, false
}

func parseLink(r gjson.Result, def route.LinkType) (Link, error) {
	if !r.IsObject() {
		return Link{}, fmt.Errorf("not an object")
	}
	l := Link{Type: def}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"node_out_id", &l.NodeOut},
		{"port_out_id", &l.PortOut},
		{"node_in_id", &l.NodeIn},
		{"port_in_id", &l.PortIn},
	} {
		v := r.Get(f.key)
		if v.Type != gjson.String || v.Str == "" {
			return Link{}, fmt.Errorf("missing %s", f.key)
		}
		*f.dst = v.Str
	}
	if v := r.Get("link_type"); v.Exists() {
		if t, err := parseLinkType(v); err == nil {
			l.Type = t
		}
	}
	return l, nil
}

func parseGroup(r gjson.Result) (Group, error) {
	if !r.IsObject() {
		return Group{}, fmt.Errorf("not an object")
	}
	pos, ok := parsePosition(r.Get("position"))
	if !ok {
		return Group{}, fmt.Errorf("missing or malformed position")
	}
	w, h := r.Get("width"), r.Get("height")
	if w.Type != gjson.Number || h.Type != gjson.Number || w.Num <= 0 || h.Num <= 0 {
		return Group{}, fmt.Errorf("width and height must be positive numbers")
	}
	gr := Group{Caption: r.Get("caption").String(), Position: pos, Width: w.Num, Height: h.Num}
	if c := r.Get("color"); c.Exists() {
		a := c.Array()
		if !c.IsArray() || (len(a) != 3 && len(a) != 4) {
			return Group{}, fmt.Errorf("color must be [r, g, b] or [r, g, b, a]")
		}
		rgba := [4]int{3: 255}
		for i, v := range a {
			rgba[i] = int(v.Int())
		}
		gr.Color = &rgba
	}
	return gr, nil
}

func parseComment(r gjson.Result) (Comment, error) {
	if !r.IsObject() {
		return Comment{}, fmt.Errorf("not an object")
	}
	pos, ok := parsePosition(r.Get("position"))
	if !ok {
		return Comment{}, fmt.Errorf("missing or malformed position")
	}
	text := graph.DefaultCommentText
	if t := r.Get("comment_text"); t.Type == gjson.String {
		text = t.Str
	}
	return Comment{Text: text, Position: pos}, nil
}
