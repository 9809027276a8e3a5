package server

import (
	"encoding/json"
	"net/http"

	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/provision"
	"github.com/simonvc/lbcoa/internal/store"
)

type createCompanyRequest struct {
	Name                  string `json:"name"`
	Abbr                  string `json:"abbr"`
	Country               string `json:"country"`
	DefaultCurrency       string `json:"default_currency"`
	ChartOfAccounts       string `json:"chart_of_accounts"`
	AllowUnverifiedCharts bool   `json:"allow_unverified_charts,omitempty"`
}

// companyResponse is a company with the report of the provisioning run that touched it.
type companyResponse struct {
	Company *ledger.Company   `json:"company"`
	Report  *provision.Report `json:"report"`
}

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) {
	var req createCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	c := &ledger.Company{
		Name:            req.Name,
		Abbr:            req.Abbr,
		Country:         req.Country,
		DefaultCurrency: req.DefaultCurrency,
		ChartOfAccounts: req.ChartOfAccounts,
	}
	report, err := s.companies.Create(r.Context(), c, provision.Flags{AllowUnverifiedCharts: req.AllowUnverifiedCharts})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	created, err := s.store.GetCompany(r.Context(), c.Name)
	if err != nil {
		writeJSON(w, http.StatusCreated, companyResponse{Company: c, Report: report})
		return
	}
	writeJSON(w, http.StatusCreated, companyResponse{Company: created, Report: report})
}

func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.store.ListCompanies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if companies == nil {
		companies = []ledger.Company{}
	}
	writeJSON(w, http.StatusOK, companies)
}

func (s *Server) getCompany(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCompany(r.Context(), pathParam(r, "company"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) provisionCompany(w http.ResponseWriter, r *http.Request) {
	var flags provision.Flags
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&flags); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}

	name := pathParam(r, "company")
	report, err := s.companies.Provision(r.Context(), name, flags)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	c, err := s.store.GetCompany(r.Context(), name)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, companyResponse{Company: c, Report: report})
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "company")
	if _, err := s.store.GetCompany(r.Context(), name); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	q := r.URL.Query()
	filter := store.AccountFilter{
		Company:       name,
		AccountNumber: q.Get("account_number"),
		AccountType:   ledger.AccountType(q.Get("account_type")),
		RootType:      ledger.RootType(q.Get("root_type")),
	}
	if q.Has("parent") {
		parent := q.Get("parent")
		filter.ParentID = &parent
	}
	if g := q.Get("is_group"); g != "" {
		v := g == "true" || g == "1"
		filter.IsGroup = &v
	}

	accounts, err := s.store.ListAccounts(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if accounts == nil {
		accounts = []ledger.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) listCostCenters(w http.ResponseWriter, r *http.Request) {
	ccs, err := s.store.ListCostCenters(r.Context(), pathParam(r, "company"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if ccs == nil {
		ccs = []ledger.CostCenter{}
	}
	writeJSON(w, http.StatusOK, ccs)
}

func (s *Server) listWarehouses(w http.ResponseWriter, r *http.Request) {
	whs, err := s.store.ListWarehouses(r.Context(), pathParam(r, "company"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if whs == nil {
		whs = []ledger.Warehouse{}
	}
	writeJSON(w, http.StatusOK, whs)
}

func (s *Server) listTaxTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := s.store.ListTaxTemplates(r.Context(), pathParam(r, "company"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if tpls == nil {
		tpls = []ledger.TaxTemplate{}
	}
	writeJSON(w, http.StatusOK, tpls)
}
