package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	PingProcessor(ctx context.Context, timeout time.Duration) error
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker          Checker
	ProcessorTimeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on the payment processor probe.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.Checker == nil {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}
	processorStatus := "ok"
	if err := h.Checker.PingProcessor(r.Context(), h.processorTimeout()); err != nil {
		processorStatus = "unreachable"
	}
	status := map[string]string{
		"processor": processorStatus,
	}
	w.Header().Set("Content-Type", "application/json")
	if processorStatus != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (h Handler) processorTimeout() time.Duration {
	if h.ProcessorTimeout <= 0 {
		return time.Second
	}
	return h.ProcessorTimeout
}
