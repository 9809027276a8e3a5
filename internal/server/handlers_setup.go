package server

import (
	"encoding/json"
	"net/http"

	"github.com/simonvc/lbcoa/internal/setup"
)

type stageResponse struct {
	Status  string `json:"status"`
	FailMsg string `json:"fail_msg"`
}

func (s *Server) setupStages(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.CountCompanies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	stages := s.wizard.Stages(&setup.Args{}, n > 0)
	out := make([]stageResponse, 0, len(stages))
	for _, st := range stages {
		out = append(out, stageResponse{Status: st.Status, FailMsg: st.FailMsg})
	}
	writeJSON(w, http.StatusOK, out)
}

// completeSetup always answers 200; the wizard outcome is in the body's status.
func (s *Server) completeSetup(w http.ResponseWriter, r *http.Request) {
	var args setup.Args
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.wizard.Complete(r.Context(), args))
}

func (s *Server) listSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.ListSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if settings == nil {
		settings = map[string]string{}
	}
	writeJSON(w, http.StatusOK, settings)
}
