package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/graph"
	"github.com/matzehuels/nodegraph/pkg/node"
)

var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	tabActive    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactive  = lipgloss.NewStyle().Foreground(colorGray)
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var stylePath string

	cmd := &cobra.Command{
		Use:   "inspect [graph.json]",
		Short: "Browse the nodes, links and annotations of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadGraph(cmd.Context(), args[0], stylePath)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewInspectModel(l.graph), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&stylePath, "style", "", "TOML style override")

	return cmd
}

// =============================================================================
// InspectModel - Interactive document browser
// =============================================================================

// inspectTab is one page of the inspector.
type inspectTab struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Details holds an optional extra line per row, shown for the row under
	// the cursor.
	Details []string
}

// InspectModel is the bubbletea model of the document inspector.
type InspectModel struct {
	Title  string
	Tabs   []inspectTab
	Tab    int
	Cursor int
	Offset int
	Height int
}

// NewInspectModel builds the inspector pages for g.
func NewInspectModel(g *graph.Graph) InspectModel {
	return InspectModel{
		Title:  fmt.Sprintf("%s · %s links", g.ID(), g.LinkType()),
		Tabs:   []inspectTab{nodesTab(g), linksTab(g), annotationsTab(g)},
		Height: 15,
	}
}

func nodesTab(g *graph.Graph) inspectTab {
	t := inspectTab{Title: "Nodes", Headers: []string{"ID", "Caption", "Category", "In", "Out", "Position"}}
	for _, n := range g.Nodes() {
		d := n.Descriptor()
		var ins, outs int
		var ports []string
		for i := range d.PortCount() {
			if d.PortDirection(i) == node.In {
				ins++
			} else {
				outs++
			}
			ports = append(ports, fmt.Sprintf("%s %s:%s", d.PortDirection(i), d.PortID(i), d.PortDataType(i)))
		}
		t.Rows = append(t.Rows, []string{
			n.ID(), n.Caption(), d.Category(),
			fmt.Sprint(ins), fmt.Sprint(outs),
			fmt.Sprintf("%.0f, %.0f", n.Pos.X, n.Pos.Y),
		})
		t.Details = append(t.Details, strings.Join(ports, "  "))
	}
	return t
}

func linksTab(g *graph.Graph) inspectTab {
	t := inspectTab{Title: "Links", Headers: []string{"From", "To", "Type", "Length"}}
	for _, l := range g.Links() {
		t.Rows = append(t.Rows, []string{
			portLabel(g, l.Out), portLabel(g, l.In), l.Type.String(),
			fmt.Sprintf("%.0f", l.Path().Length()),
		})
		t.Details = append(t.Details, l.Path().SVG())
	}
	return t
}

func annotationsTab(g *graph.Graph) inspectTab {
	t := inspectTab{Title: "Annotations", Headers: []string{"Kind", "Text", "Rect"}}
	for _, gr := range g.Groups() {
		t.Rows = append(t.Rows, []string{"group", gr.Caption, rectLabel(gr.Rect.X, gr.Rect.Y, gr.Rect.W, gr.Rect.H)})
		t.Details = append(t.Details, "color "+gr.Color.Hex())
	}
	for _, c := range g.Comments() {
		text, _, _ := strings.Cut(c.Text, "\n")
		b := c.Rect()
		t.Rows = append(t.Rows, []string{"comment", text, rectLabel(b.X, b.Y, b.W, b.H)})
		t.Details = append(t.Details, c.Text)
	}
	return t
}

func portLabel(g *graph.Graph, ref graph.PortRef) string {
	n := g.Node(ref.Node)
	if n == nil {
		return ref.Node + ".?"
	}
	return ref.Node + "." + n.Descriptor().PortID(ref.Port)
}

func rectLabel(x, y, w, h float64) string {
	return fmt.Sprintf("%.0f,%.0f %.0f×%.0f", x, y, w, h)
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		rows := len(m.Tabs[m.Tab].Rows)
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.Tab = (m.Tab + 1) % len(m.Tabs)
			m.Cursor, m.Offset = 0, 0
		case "shift+tab", "left", "h":
			m.Tab = (m.Tab + len(m.Tabs) - 1) % len(m.Tabs)
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < rows-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-9, 5)
	}
	return m, nil
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	for i, t := range m.Tabs {
		label := fmt.Sprintf("%s (%d)", t.Title, len(t.Rows))
		if i == m.Tab {
			b.WriteString(tabActive.Render(label))
		} else {
			b.WriteString(tabInactive.Render(label))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ page  ↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	tab := m.Tabs[m.Tab]
	if len(tab.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  (empty)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(tab.Rows))
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(tab.Headers...).
		Rows(tab.Rows[m.Offset:end]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case m.Offset+row == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.Cursor < len(tab.Details) && tab.Details[m.Cursor] != "" {
		b.WriteString(StyleDim.Render("  " + tab.Details[m.Cursor]))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(tab.Rows))))

	return b.String()
}
