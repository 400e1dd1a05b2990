package editor

import (
	"github.com/matzehuels/nodegraph/pkg/connect"
	"github.com/matzehuels/nodegraph/pkg/geom"
)

// Request is a graph-level action the host performs, usually because of a
// keyboard shortcut.
type Request int

const (
	RequestNew Request = iota
	RequestOpen
	RequestSave
	RequestSaveAs
	RequestImport
	RequestClear
	RequestSettings
	RequestQuit
	RequestReload
	RequestAutoLayout
)

var requestNames = [...]string{
	RequestNew:        "new",
	RequestOpen:       "open",
	RequestSave:       "save",
	RequestSaveAs:     "save-as",
	RequestImport:     "import",
	RequestClear:      "clear",
	RequestSettings:   "settings",
	RequestQuit:       "quit",
	RequestReload:     "reload",
	RequestAutoLayout: "auto-layout",
}

func (r Request) String() string {
	if r >= 0 && int(r) < len(requestNames) {
		return requestNames[r]
	}
	return "unknown"
}

// Events is the host callback surface. Callbacks run synchronously on the
// goroutine that delivered the input.
//
// Connection callbacks use port ids, not indices. ConnectionFinished always
// reports the OUT side first.
type Events interface {
	connect.Listener

	// ConnectionDeleted reports a removed link. replaced is true when the
	// link made room for a new link on the same IN port; a
	// ConnectionFinished follows immediately.
	ConnectionDeleted(outNode, outPort, inNode, inPort string, replaced bool)

	NodeSelected(nodeID string)
	NodeDeselected(nodeID string)
	NodeDeleted(nodeID string)

	NodeReloadRequest(nodeID string)
	NodeSettingsRequest(nodeID string)
	NodeRightClicked(nodeID string, pos geom.Point)
	BackgroundRightClicked(pos geom.Point)

	SelectionChanged()
	GraphRequest(r Request)

	NodesCopyRequest(ids []string, positions []geom.Point)
	NodesDuplicateRequest(ids []string, positions []geom.Point)
	NodesPasteRequest()
	NewNodeRequest(nodeType string, pos geom.Point)
}

// NoopEvents implements Events with no-ops. Embed it to handle a subset.
type NoopEvents struct {
	connect.NoopListener
}

func (NoopEvents) ConnectionDeleted(string, string, string, string, bool) {}
func (NoopEvents) NodeSelected(string)                                    {}
func (NoopEvents) NodeDeselected(string)                                  {}
func (NoopEvents) NodeDeleted(string)                                     {}
func (NoopEvents) NodeReloadRequest(string)                               {}
func (NoopEvents) NodeSettingsRequest(string)                             {}
func (NoopEvents) NodeRightClicked(string, geom.Point)                    {}
func (NoopEvents) BackgroundRightClicked(geom.Point)                      {}
func (NoopEvents) SelectionChanged()                                      {}
func (NoopEvents) GraphRequest(Request)                                   {}
func (NoopEvents) NodesCopyRequest([]string, []geom.Point)                {}
func (NoopEvents) NodesDuplicateRequest([]string, []geom.Point)           {}
func (NoopEvents) NodesPasteRequest()                                     {}
func (NoopEvents) NewNodeRequest(string, geom.Point)                      {}

var _ Events = NoopEvents{}
