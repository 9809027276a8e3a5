package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/simonvc/lbcoa/internal/chart"
	"github.com/simonvc/lbcoa/internal/company"
	"github.com/simonvc/lbcoa/internal/logger"
	"github.com/simonvc/lbcoa/internal/provision"
	"github.com/simonvc/lbcoa/internal/setup"
	"github.com/simonvc/lbcoa/internal/store"
)

type Server struct {
	store     *store.Store
	registry  *chart.Registry
	companies *company.Service
	wizard    *setup.Wizard
	log       *logger.Logger
	router    chi.Router
	httpSrv   *http.Server
}

// New wires the Lebanese lifecycle over the host defaults and mounts the API.
func New(st *store.Store, registry *chart.Registry, log *logger.Logger, addr string) (*Server, error) {
	host, err := provision.NewHostDefaults(st, registry)
	if err != nil {
		return nil, err
	}
	hooks, err := provision.NewCoordinator(st, registry, host)
	if err != nil {
		return nil, err
	}
	companies := company.NewService(st, hooks)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	s := &Server{
		store:     st,
		registry:  registry,
		companies: companies,
		wizard:    setup.New(st, companies),
		log:       log,
		router:    r,
		httpSrv:   &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second},
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Companies
		r.Post("/companies", s.createCompany)
		r.Get("/companies", s.listCompanies)
		r.Get("/companies/{company}", s.getCompany)
		r.Post("/companies/{company}/provision", s.provisionCompany)
		r.Get("/companies/{company}/accounts", s.listAccounts)
		r.Get("/companies/{company}/account-labels", s.accountLabels)
		r.Get("/companies/{company}/cost-centers", s.listCostCenters)
		r.Get("/companies/{company}/warehouses", s.listWarehouses)
		r.Get("/companies/{company}/tax-templates", s.listTaxTemplates)

		// Charts
		r.Get("/charts", s.listCharts)
		r.Get("/charts/{chart}/children", s.chartChildren)

		// Setup wizard
		r.Get("/setup/stages", s.setupStages)
		r.Post("/setup/complete", s.completeSetup)
		r.Get("/settings", s.listSettings)
	})

	return s, nil
}

// requestLogger logs one line per request with the chi request id.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			reqLog := log.With("request_id", middleware.GetReqID(r.Context()))
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(logger.ToContext(r.Context(), reqLog)))

			reqLog.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}

// ListenAndServe serves until Shutdown; a shutdown is not reported as an error.
func (s *Server) ListenAndServe() error {
	s.log.Infow("lbcoa server listening", "addr", s.httpSrv.Addr)
	return ignoreClosed(s.httpSrv.ListenAndServe())
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.Infow("lbcoa server listening", "addr", ln.Addr().String())
	return ignoreClosed(s.httpSrv.Serve(ln))
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Handler() http.Handler {
	return s.router
}
