package server

import (
	"net/http"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/provision"
	"github.com/simonvc/lbcoa/internal/store"
)

// labelsResponse is what the account tree view needs to relabel a company's accounts.
type labelsResponse struct {
	Enabled  bool                   `json:"enabled"`
	Language string                 `json:"language,omitempty"`
	Labels   map[string]chart.Label `json:"labels"`
}

// accountLabels resolves every account of a Lebanese company to its label in the
// requested language. Other companies, and unknown ones, get enabled=false.
func (s *Server) accountLabels(w http.ResponseWriter, r *http.Request) {
	disabled := labelsResponse{Labels: map[string]chart.Label{}}

	c, err := s.store.GetCompany(r.Context(), pathParam(r, "company"))
	if err != nil {
		if mapError(err) == http.StatusNotFound {
			writeJSON(w, http.StatusOK, disabled)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !chart.IsLebaneseChart(c.ChartOfAccounts) {
		writeJSON(w, http.StatusOK, disabled)
		return
	}

	tree, err := chart.Lebanese.Load()
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	idx := chart.BuildLabelIndex(tree.Tree)

	accounts, err := s.store.ListAccounts(r.Context(), store.AccountFilter{Company: c.Name})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	lang := chart.NormalizeLanguage(r.URL.Query().Get("language"))
	labels := make(map[string]chart.Label, len(accounts))
	for _, a := range accounts {
		labels[a.ID] = chart.ResolveLabel(a, lang, idx)
	}
	writeJSON(w, http.StatusOK, labelsResponse{Enabled: true, Language: lang, Labels: labels})
}

// chartChildren returns one level of a chart for incremental tree expansion.
func (s *Server) chartChildren(w http.ResponseWriter, r *http.Request) {
	c, err := s.registry.Get(pathParam(r, "chart"), true)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, chart.Children(c.Tree, r.URL.Query().Get("parent")))
}

// listCharts lists the charts offered for a country, Lebanon by default. Lebanese charts
// are returned alone when any exists.
func (s *Server) listCharts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	country := q.Get("country")
	if country == "" {
		country = provision.LebanonCountry
	}

	names, err := s.registry.Names(country, true)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if q.Get("with_standard") != "true" {
		names = withoutStandard(names)
	}
	names = chart.PreferLebanese(names)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func withoutStandard(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != ledger.StandardChartName {
			out = append(out, n)
		}
	}
	return out
}
