package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonvc/lbcoa/internal/client"
	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/provision"
)

type companyLoadedMsg struct {
	company    *ledger.Company
	taxes      []ledger.TaxTemplate
	warehouses []ledger.Warehouse
	err        error
}

type companyProvisionedMsg struct {
	report *provision.Report
	err    error
}

// companyModel shows a company's defaults and the outcome of the last provisioning run.
type companyModel struct {
	name       string
	company    *ledger.Company
	taxes      []ledger.TaxTemplate
	warehouses []ledger.Warehouse
	report     *provision.Report
	loading    bool
	err        error
	width      int
}

func (m *companyModel) init(c *client.Client) tea.Cmd {
	if m.name == "" {
		return nil
	}
	m.loading = true
	name := m.name
	return func() tea.Msg {
		ctx := context.Background()
		co, err := c.GetCompany(ctx, name)
		if err != nil {
			return companyLoadedMsg{err: err}
		}
		taxes, err := c.ListTaxTemplates(ctx, name)
		if err != nil {
			return companyLoadedMsg{err: err}
		}
		whs, err := c.ListWarehouses(ctx, name)
		return companyLoadedMsg{company: co, taxes: taxes, warehouses: whs, err: err}
	}
}

func (m *companyModel) provision(c *client.Client) tea.Cmd {
	if m.name == "" {
		return nil
	}
	name := m.name
	return func() tea.Msg {
		res, err := c.ProvisionCompany(context.Background(), name, provision.Flags{})
		if err != nil {
			return companyProvisionedMsg{err: err}
		}
		return companyProvisionedMsg{report: res.Report}
	}
}

func (m companyModel) update(msg tea.Msg) (companyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case companyLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.company = msg.company
			m.taxes = msg.taxes
			m.warehouses = msg.warehouses
		}
	case companyProvisionedMsg:
		m.err = msg.err
		m.report = msg.report
	}
	return m, nil
}

func (m *companyModel) view() string {
	if m.name == "" {
		return dimStyle.Render("No company selected. Start with --company to inspect one.")
	}
	if m.loading {
		return "Loading company..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.company == nil {
		return ""
	}

	co := m.company
	var b strings.Builder
	b.WriteString(titleStyle.Render(co.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Abbreviation"), co.Abbr))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Country"), co.Country))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Currency"), co.DefaultCurrency))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Chart"), co.ChartOfAccounts))

	b.WriteString("\n" + headerStyle.Render("Defaults") + "\n")
	if len(co.Defaults) == 0 {
		b.WriteString(dimStyle.Render("none") + "\n")
	}
	for _, f := range co.Defaults.Fields() {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(f), co.Defaults[f]))
	}

	b.WriteString("\n" + headerStyle.Render("Tax templates") + "\n")
	for _, t := range m.taxes {
		rate := ""
		if len(t.Rows) > 0 {
			rate = t.Rows[0].Rate.String() + "%"
		}
		b.WriteString(fmt.Sprintf("  %-24s %-10s %s\n", t.Title, t.Kind, rate))
	}

	b.WriteString("\n" + headerStyle.Render("Warehouses") + "\n")
	for _, w := range m.warehouses {
		b.WriteString(fmt.Sprintf("  %-32s %s\n", w.ID, w.WarehouseType))
	}

	if m.report != nil {
		b.WriteString("\n" + reportView(m.report))
	}
	return b.String()
}

func reportView(r *provision.Report) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Provisioning run "+r.RunID) + "\n")
	for _, s := range r.Steps {
		switch {
		case s.Skipped:
			b.WriteString(dimStyle.Render(fmt.Sprintf("  skip %-24s %s", s.Name, s.Message)))
		case s.OK:
			b.WriteString(successStyle.Render(fmt.Sprintf("  ok   %-24s %s", s.Name, s.Duration)))
		default:
			b.WriteString(errorStyle.Render(fmt.Sprintf("  FAIL %-24s %s: %s", s.Name, s.Kind, s.Message)))
		}
		b.WriteString("\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
