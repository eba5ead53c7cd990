package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"citygram-orlando/internal/handler/http/respond"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"` // healthy, degraded or unhealthy
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ReadinessReporter reports whether a background component has finished
// starting up. *worker.Warmer satisfies it.
type ReadinessReporter interface {
	Ready() bool
}

// BreakerReporter exposes a circuit breaker's state.
type BreakerReporter interface {
	Name() string
	IsOpen() bool
}

// HealthHandler reports database connectivity and the state of the feed
// pipeline. Only a failed database check makes the service unhealthy.
type HealthHandler struct {
	DB      *sql.DB
	Version string
	Warmer  ReadinessReporter
	Breaker BreakerReporter
	// DBBreaker guards store reads; nil when the store has no breaker.
	DBBreaker BreakerReporter
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{"database": h.checkDatabase(ctx)}
	if h.Warmer != nil {
		checks["feed_warmer"] = checkReady(h.Warmer)
	}
	if h.Breaker != nil {
		checks["upstream"] = checkBreaker(h.Breaker)
	}
	if h.DBBreaker != nil {
		checks["database_breaker"] = checkBreaker(h.DBBreaker)
	}

	status, code := "healthy", http.StatusOK
	if checks["database"].Status == "unhealthy" {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: "unhealthy", Message: "not configured"}
	}
	if err := h.DB.PingContext(ctx); err != nil {
		slog.Default().Warn("health: database ping failed", slog.Any("error", respond.SanitizeError(err)))
		return CheckStatus{Status: "unhealthy", Message: "ping failed"}
	}

	stats := h.DB.Stats()
	return CheckStatus{
		Status: "healthy",
		Details: map[string]any{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
		},
	}
}

func checkReady(r ReadinessReporter) CheckStatus {
	if r.Ready() {
		return CheckStatus{Status: "healthy"}
	}
	return CheckStatus{Status: "degraded", Message: "first warm run pending"}
}

func checkBreaker(b BreakerReporter) CheckStatus {
	details := map[string]any{"breaker": b.Name()}
	if b.IsOpen() {
		return CheckStatus{Status: "degraded", Message: "circuit open", Details: details}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// ReadyHandler is the readiness probe: 200 once the database answers.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB == nil {
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.DB.PingContext(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler is the liveness probe and always answers 200.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("alive"))
}
