// Package pricing exposes price predictions and the prediction journal over
// HTTP.
package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/rentalfriction/core/events"
	"github.com/kilianp07/rentalfriction/core/monitoring"
	"github.com/kilianp07/rentalfriction/core/pricing"
	"github.com/kilianp07/rentalfriction/core/pricing/journal"
	"github.com/kilianp07/rentalfriction/internal/eventbus"
)

const (
	welcomeMessage = "Welcome to the rental pricing API. POST a car description to /predict to get a daily price."
	maxBodyBytes   = 1 << 20
)

// Register mounts the pricing routes on mux. A nil predictor answers 503 on
// /predict and a nil store leaves /api/predictions unmounted.
func Register(mux *http.ServeMux, p pricing.Predictor, bus *eventbus.TypedBus[events.PredictionEvent], store journal.Store, token string) {
	mux.Handle("/", NewWelcomeHandler())
	mux.Handle("/predict", NewPredictHandler(p, bus))
	if store != nil {
		mux.Handle("/api/predictions", NewJournalHandler(store, token))
	}
}

// NewWelcomeHandler answers GET / with a short message.
func NewWelcomeHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
	})
}

// PredictHandler serves POST /predict.
type PredictHandler struct {
	predictor pricing.Predictor
	bus       *eventbus.TypedBus[events.PredictionEvent]
	now       func() time.Time
}

// NewPredictHandler creates the handler. bus may be nil.
func NewPredictHandler(p pricing.Predictor, bus *eventbus.TypedBus[events.PredictionEvent]) *PredictHandler {
	return &PredictHandler{predictor: p, bus: bus, now: time.Now}
}

func (h *PredictHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.predictor == nil {
		http.Error(w, "pricing disabled", http.StatusServiceUnavailable)
		return
	}
	var req predictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusUnprocessableEntity)
		return
	}

	id := uuid.NewString()
	start := h.now()
	var price float64
	f, err := req.features()
	if err == nil {
		price, err = h.predictor.Predict(r.Context(), f)
	}
	if h.bus != nil {
		h.bus.Publish(events.PredictionEvent{
			ID:        id,
			Time:      start,
			Predictor: h.predictor.Name(),
			Features:  f,
			Price:     price,
			Err:       err,
			Latency:   h.now().Sub(start),
		})
	}
	w.Header().Set("X-Prediction-ID", id)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			monitoring.CaptureException(err, map[string]string{"route": r.URL.Path, "predictor": h.predictor.Name()})
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"prediction": price})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pricing.ErrInvalidFeatures):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pricing.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewJournalHandler returns an HTTP handler exposing recorded predictions via
// GET /api/predictions?start=&end=&model_key=&limit=. Requests must include
// an Authorization header with "Bearer <token>" when token is non-empty.
func NewJournalHandler(store journal.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		params := r.URL.Query()
		q := journal.Query{ModelKey: params.Get("model_key")}
		var err error
		if q.Start, err = timeParam(params.Get("start")); err != nil {
			http.Error(w, "start: "+err.Error(), http.StatusBadRequest)
			return
		}
		if q.End, err = timeParam(params.Get("end")); err != nil {
			http.Error(w, "end: "+err.Error(), http.StatusBadRequest)
			return
		}
		if s := params.Get("limit"); s != "" {
			if q.Limit, err = strconv.Atoi(s); err != nil || q.Limit < 0 {
				http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			monitoring.CaptureException(err, map[string]string{"route": r.URL.Path})
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []journal.Record{}
		}
		writeJSON(w, http.StatusOK, records)
	})
}

func timeParam(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
