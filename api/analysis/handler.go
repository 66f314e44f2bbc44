// Package analysis exposes the friction analyzer over HTTP.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	coreanalysis "github.com/kilianp07/rentalfriction/core/analysis"
	"github.com/kilianp07/rentalfriction/core/dataset"
	"github.com/kilianp07/rentalfriction/core/monitoring"
)

// Service is the part of the analyzer used by the handlers.
type Service interface {
	Overview(ctx context.Context, scope string) (coreanalysis.OverviewReport, error)
	RunSimulation(ctx context.Context, req coreanalysis.SimulationRequest) (coreanalysis.SimulationReport, error)
	Status() coreanalysis.Status
	Reload(ctx context.Context) (coreanalysis.Status, error)
}

// Register mounts every analysis route on mux. An empty adminToken disables
// the reload route.
func Register(mux *http.ServeMux, svc Service, adminToken string) {
	mux.Handle("/api/overview", NewOverviewHandler(svc))
	mux.Handle("/api/simulation", NewSimulationHandler(svc))
	mux.Handle("/api/dataset/reload", NewReloadHandler(svc, adminToken))
	mux.Handle("/healthz", NewHealthHandler(svc))
}

// NewOverviewHandler serves GET /api/overview?scope=.
func NewOverviewHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rep, err := svc.Overview(r.Context(), r.URL.Query().Get("scope"))
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	})
}

// NewSimulationHandler serves
// GET /api/simulation?scope=&threshold=&start=&end=&step=.
func NewSimulationHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := r.URL.Query()
		req := coreanalysis.SimulationRequest{Scope: q.Get("scope")}
		for name, dst := range map[string]**float64{
			"threshold": &req.Threshold,
			"start":     &req.Start,
			"end":       &req.End,
			"step":      &req.Step,
		} {
			v, err := floatParam(q.Get(name))
			if err != nil {
				http.Error(w, fmt.Sprintf("%s: %v", name, err), http.StatusBadRequest)
				return
			}
			*dst = v
		}
		rep, err := svc.RunSimulation(r.Context(), req)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	})
}

// NewReloadHandler serves POST /api/dataset/reload. Requests must carry
// "Authorization: Bearer <token>".
func NewReloadHandler(svc Service, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token == "" {
			http.Error(w, "reload disabled", http.StatusForbidden)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		st, err := svc.Reload(r.Context())
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	})
}

// NewHealthHandler serves GET /healthz with the dataset load state.
func NewHealthHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Status  string              `json:"status"`
			Dataset coreanalysis.Status `json:"dataset"`
		}{Status: "ok", Dataset: svc.Status()})
	})
}

func floatParam(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return &v, nil
}

// fail writes err with its status code. Server-side failures are reported
// to the error tracker.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		monitoring.CaptureException(err, map[string]string{"route": r.URL.Path})
	}
	http.Error(w, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, coreanalysis.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, dataset.ErrLoad):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
