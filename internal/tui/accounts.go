package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/client"
	"github.com/simonvc/lbcoa/internal/ledger"
)

type accountsLoadedMsg struct {
	accounts []ledger.Account
	labels   *client.AccountLabels
	err      error
}

// accountListModel lists a company's accounts under their labels in one language.
type accountListModel struct {
	company  string
	language string
	accounts []ledger.Account
	labels   map[string]chart.Label
	enabled  bool
	cursor   int
	loading  bool
	err      error
	width    int
	height   int
}

func (m *accountListModel) init(c *client.Client) tea.Cmd {
	if m.company == "" {
		return nil
	}
	m.loading = true
	company, lang := m.company, m.language
	return func() tea.Msg {
		ctx := context.Background()
		accounts, err := c.ListAccounts(ctx, company, client.AccountQuery{})
		if err != nil {
			return accountsLoadedMsg{err: err}
		}
		labels, err := c.AccountLabels(ctx, company, lang)
		return accountsLoadedMsg{accounts: accounts, labels: labels, err: err}
	}
}

func (m accountListModel) update(msg tea.Msg) (accountListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.accounts = msg.accounts
			m.labels = msg.labels.Labels
			m.enabled = msg.labels.Enabled
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.accounts)-1 {
				m.cursor++
			}
		}
	}
	return m, nil
}

// label returns the translated label of an account id, or fallback.
func (m *accountListModel) label(id, fallback string) string {
	if l, ok := m.labels[id]; ok && m.enabled {
		return l.Label
	}
	return fallback
}

func (m *accountListModel) view() string {
	if m.company == "" {
		return dimStyle.Render("No company selected. Start with --company to browse its accounts.")
	}
	if m.loading {
		return "Loading accounts..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.accounts) == 0 {
		return dimStyle.Render("This company has no accounts.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Accounts of " + m.company))
	b.WriteString("\n")
	if !m.enabled {
		b.WriteString(subtitleStyle.Render("Translated labels are only available for Lebanese charts."))
		b.WriteString("\n")
	}

	header := fmt.Sprintf("  %-50s %-10s %-14s %-22s %s", "ACCOUNT", "ROOT", "REPORT", "TYPE", "CCY")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 5
	if maxRows < 1 {
		maxRows = 20
	}
	start := 0
	if m.cursor >= maxRows {
		start = m.cursor - maxRows + 1
	}

	for i := start; i < len(m.accounts) && i < start+maxRows; i++ {
		a := m.accounts[i]
		name := m.label(a.ID, ledger.DisplayNumber(a.AccountNumber, a.AccountName))
		if r := []rune(name); len(r) > 48 {
			name = string(r[:48]) + ".."
		}
		line := fmt.Sprintf("  %-50s %-10s %-14s %-22s %s", name, a.RootType, a.ReportType, a.AccountType, a.Currency)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n  %d accounts, language %s", len(m.accounts), m.language))
	return b.String()
}
