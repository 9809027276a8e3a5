package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/simonvc/lbcoa/internal/ledger"
	"github.com/simonvc/lbcoa/internal/provision"
	"github.com/simonvc/lbcoa/internal/setup"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// pathParam returns an unescaped URL parameter; company and chart names carry spaces.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func mapError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrCompanyNotFound),
		errors.Is(err, ledger.ErrChartNotFound),
		errors.Is(err, ledger.ErrCostCenterNotFound),
		errors.Is(err, ledger.ErrWarehouseNotFound),
		errors.Is(err, ledger.ErrTaxTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateAccount),
		errors.Is(err, ledger.ErrDuplicateCompany):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidAccount),
		errors.Is(err, ledger.ErrInvalidRootType),
		errors.Is(err, ledger.ErrReportTypeMismatch),
		errors.Is(err, ledger.ErrInvalidCurrency),
		errors.Is(err, ledger.ErrInvalidCompany),
		errors.Is(err, setup.ErrMissingCompanyName):
		return http.StatusBadRequest
	}

	var se *provision.StepError
	if errors.As(err, &se) {
		switch se.Kind {
		case provision.KindConfigNotFound:
			return http.StatusNotFound
		case provision.KindImportAbort, provision.KindPartialProvisioning, provision.KindParentMissing:
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}
