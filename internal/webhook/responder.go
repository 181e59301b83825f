package webhook

import "net/http"

// ackResponder enforces single-write discipline on the response. Once the
// acknowledgment has been sent and flushed, the response is final: later
// best-effort status writes are dropped instead of corrupting the transport.
type ackResponder struct {
	w     http.ResponseWriter
	acked bool
}

func newAckResponder(w http.ResponseWriter) *ackResponder {
	return &ackResponder{w: w}
}

// Accept writes and flushes the 202 acknowledgment. Subsequent calls are no-ops.
func (a *ackResponder) Accept() {
	if a.acked {
		return
	}
	a.acked = true
	a.w.WriteHeader(http.StatusAccepted)
	if f, ok := a.w.(http.Flusher); ok {
		f.Flush()
	}
}

// WriteStatus records a terminal status for the request. It reports whether
// the status actually reached the client; after acknowledgment it never does,
// and the outcome is observable through logs and metrics only.
func (a *ackResponder) WriteStatus(code int) bool {
	if a.acked {
		return false
	}
	a.acked = true
	a.w.WriteHeader(code)
	return true
}
