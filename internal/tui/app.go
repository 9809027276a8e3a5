package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/client"
	"github.com/simonvc/lbcoa/internal/ledger"
)

type mode int

const (
	modeChart mode = iota
	modeAccounts
	modeCompany
)

var tabModes = []mode{modeChart, modeAccounts, modeCompany}

var languages = []string{chart.LangEnglish, chart.LangArabic, chart.LangFrench}

func tabLabel(m mode) string {
	switch m {
	case modeChart:
		return "Chart"
	case modeAccounts:
		return "Accounts"
	case modeCompany:
		return "Company"
	default:
		return ""
	}
}

type App struct {
	client        *client.Client
	mode          mode
	tabIndex      int
	width, height int
	statusMsg     string
	language      int

	// abbr scopes chart values to the company's account ids for relabelling.
	abbr string

	tree     chartTreeModel
	accounts accountListModel
	company  companyModel
}

// NewApp browses chartName and, when company is set, that company's accounts.
func NewApp(c *client.Client, chartName, company string) *App {
	app := &App{client: c, mode: modeChart}
	app.tree.chartName = chartName
	app.accounts.company = company
	app.accounts.language = chart.LangEnglish
	app.company.name = company
	return app
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.tree.init(a.client),
		a.accounts.init(a.client),
		a.company.init(a.client),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.tree.width = msg.Width
		a.tree.height = msg.Height - 6
		a.accounts.width = msg.Width
		a.accounts.height = msg.Height - 6
		a.company.width = msg.Width
		return a, nil

	// Loads are routed to their model whatever the active tab.
	case childrenLoadedMsg:
		var cmd tea.Cmd
		a.tree, cmd = a.tree.update(msg, a.client)
		return a, cmd
	case accountsLoadedMsg:
		var cmd tea.Cmd
		a.accounts, cmd = a.accounts.update(msg)
		return a, cmd
	case companyLoadedMsg:
		var cmd tea.Cmd
		a.company, cmd = a.company.update(msg)
		if msg.company != nil {
			a.abbr = msg.company.Abbr
		}
		return a, cmd
	case companyProvisionedMsg:
		var cmd tea.Cmd
		a.company, cmd = a.company.update(msg)
		if msg.err == nil {
			a.statusMsg = "Company re-provisioned"
			return a, tea.Batch(a.company.init(a.client), a.accounts.init(a.client))
		}
		return a, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, keys.Tab):
			a.tabIndex = (a.tabIndex + 1) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, nil

		case key.Matches(msg, keys.ShiftTab):
			a.tabIndex = (a.tabIndex - 1 + len(tabModes)) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, nil

		case key.Matches(msg, keys.Language):
			a.language = (a.language + 1) % len(languages)
			a.accounts.language = languages[a.language]
			a.statusMsg = "Language: " + languages[a.language]
			return a, a.accounts.init(a.client)

		case key.Matches(msg, keys.Provision):
			a.statusMsg = "Provisioning..."
			return a, a.company.provision(a.client)

		case key.Matches(msg, keys.Refresh):
			switch a.mode {
			case modeChart:
				return a, a.tree.init(a.client)
			case modeAccounts:
				return a, a.accounts.init(a.client)
			case modeCompany:
				return a, a.company.init(a.client)
			}
		}
	}

	var cmd tea.Cmd
	switch a.mode {
	case modeChart:
		a.tree, cmd = a.tree.update(msg, a.client)
	case modeAccounts:
		a.accounts, cmd = a.accounts.update(msg)
	case modeCompany:
		a.company, cmd = a.company.update(msg)
	}
	return a, cmd
}

// treeLabel relabels a chart value through the company's account labels when the
// company uses this chart.
func (a *App) treeLabel(value string) string {
	if a.abbr == "" {
		return value
	}
	return a.accounts.label(ledger.CompanyScopedName(value, a.abbr), value)
}

func (a *App) View() string {
	tabs := ""
	for i, m := range tabModes {
		label := tabLabel(m)
		if i == a.tabIndex {
			tabs += activeTabStyle.Render(label)
		} else {
			tabs += inactiveTabStyle.Render(label)
		}
		if i < len(tabModes)-1 {
			tabs += " "
		}
	}

	var content string
	switch a.mode {
	case modeChart:
		content = a.tree.view(a.treeLabel)
	case modeAccounts:
		content = a.accounts.view()
	case modeCompany:
		content = a.company.view()
	}

	status := ""
	if a.statusMsg != "" {
		status = successStyle.Render(a.statusMsg)
	}

	helpText := dimStyle.Render("tab:switch  enter:expand/collapse  left/right:fold  L:language  p:provision  r:refresh  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		tabs,
		"",
		content,
		"",
		status,
		helpText,
	)
}
