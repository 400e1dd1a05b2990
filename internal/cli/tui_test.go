package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func inspectSample(t *testing.T) InspectModel {
	t.Helper()
	l, err := loadGraph(context.Background(), writeDoc(t, "g.json", sampleDoc), "")
	if err != nil {
		t.Fatal(err)
	}
	return NewInspectModel(l.graph)
}

func press(m InspectModel, key string) InspectModel {
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(InspectModel)
}

func TestInspectPages(t *testing.T) {
	m := inspectSample(t)

	if got := len(m.Tabs); got != 3 {
		t.Fatalf("tabs = %d", got)
	}
	if rows := m.Tabs[0].Rows; len(rows) != 2 || rows[0][1] != "Noise" || rows[0][4] != "1" {
		t.Errorf("node rows = %v", rows)
	}
	if rows := m.Tabs[1].Rows; len(rows) != 1 || rows[0][0] != "a.out" || rows[0][1] != "b.in" || rows[0][2] != "linear" {
		t.Errorf("link rows = %v", rows)
	}
	if rows := m.Tabs[2].Rows; len(rows) != 2 || rows[0][0] != "group" || rows[1][1] != "first line" {
		t.Errorf("annotation rows = %v", rows)
	}
}

func TestInspectNavigation(t *testing.T) {
	m := inspectSample(t)

	m = press(m, "down")
	m = press(m, "down")
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want clamp at 1", m.Cursor)
	}
	if view := m.View(); !strings.Contains(view, "Preview") || !strings.Contains(view, "[2/2]") {
		t.Errorf("view:\n%s", view)
	}

	m = press(m, "tab")
	if m.Tab != 1 || m.Cursor != 0 {
		t.Errorf("after tab: tab=%d cursor=%d", m.Tab, m.Cursor)
	}
	if view := m.View(); !strings.Contains(view, "a.out") {
		t.Errorf("links view:\n%s", view)
	}

	m = press(m, "k")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above first row: %d", m.Cursor)
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should quit")
	}
}
