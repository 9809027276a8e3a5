package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/client"
)

type childrenLoadedMsg struct {
	parent string
	nodes  []chart.TreeNode
	err    error
}

// treeRow is one visible line of the chart tree.
type treeRow struct {
	node     chart.TreeNode
	depth    int
	expanded bool
}

// chartTreeModel browses a chart one level at a time through the children endpoint.
type chartTreeModel struct {
	chartName string
	rows      []treeRow
	cursor    int
	loading   bool
	err       error
	width     int
	height    int
}

func (m *chartTreeModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	m.rows = nil
	m.cursor = 0
	return m.load(c, "")
}

func (m *chartTreeModel) load(c *client.Client, parent string) tea.Cmd {
	name := m.chartName
	return func() tea.Msg {
		nodes, err := c.ChartChildren(context.Background(), name, parent)
		return childrenLoadedMsg{parent: parent, nodes: nodes, err: err}
	}
}

func (m chartTreeModel) update(msg tea.Msg, c *client.Client) (chartTreeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case childrenLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.rows = insertChildren(m.rows, msg.parent, msg.nodes)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if row, ok := m.selected(); ok && row.expanded {
				m.rows = collapse(m.rows, m.cursor)
				return m, nil
			}
			return m, m.expand(c)
		case key.Matches(msg, keys.Expand):
			return m, m.expand(c)
		case key.Matches(msg, keys.Collapse):
			m.rows = collapse(m.rows, m.cursor)
		}
	}
	return m, nil
}

func (m *chartTreeModel) expand(c *client.Client) tea.Cmd {
	row, ok := m.selected()
	if !ok || !row.node.Expandable || row.expanded {
		return nil
	}
	m.rows[m.cursor].expanded = true
	m.loading = true
	return m.load(c, row.node.Value)
}

func (m *chartTreeModel) selected() (treeRow, bool) {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return m.rows[m.cursor], true
	}
	return treeRow{}, false
}

// insertChildren places nodes directly below their parent row, or appends them as roots
// when parent is empty.
func insertChildren(rows []treeRow, parent string, nodes []chart.TreeNode) []treeRow {
	at, depth := len(rows), 0
	if parent != "" {
		at = -1
		for i, r := range rows {
			if r.node.Value == parent {
				at, depth = i+1, r.depth+1
				break
			}
		}
		if at < 0 {
			return rows
		}
	}

	added := make([]treeRow, 0, len(nodes))
	for _, n := range nodes {
		added = append(added, treeRow{node: n, depth: depth})
	}
	out := make([]treeRow, 0, len(rows)+len(added))
	out = append(out, rows[:at]...)
	out = append(out, added...)
	return append(out, rows[at:]...)
}

// collapse removes every row below index i that is deeper than it.
func collapse(rows []treeRow, i int) []treeRow {
	if i < 0 || i >= len(rows) || !rows[i].expanded {
		return rows
	}
	end := i + 1
	for end < len(rows) && rows[end].depth > rows[i].depth {
		end++
	}
	rows[i].expanded = false
	return append(rows[:i+1], rows[end:]...)
}

func (m *chartTreeModel) view(labels func(value string) string) string {
	if m.loading && len(m.rows) == 0 {
		return "Loading chart..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.rows) == 0 {
		return dimStyle.Render("The chart has no accounts.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.chartName))
	b.WriteString("\n")

	maxRows := m.height - 4
	if maxRows < 1 {
		maxRows = 20
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.rows) && i < start+maxRows; i++ {
		r := m.rows[i]
		marker := "  "
		if r.node.Expandable {
			marker = "+ "
			if r.expanded {
				marker = "- "
			}
		}
		line := strings.Repeat("  ", r.depth) + marker + labels(r.node.Value)
		switch {
		case i == m.cursor:
			b.WriteString(selectedStyle.Render("> " + line))
		case r.node.Expandable:
			b.WriteString("  " + groupStyle.Render(line))
		default:
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n  %d rows shown", len(m.rows)))
	return b.String()
}
