package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/pkg/logger"
	"github.com/jmoiron/sqlx"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// SimpleHealth is the GET /health body the kiosk and load balancers poll.
type SimpleHealth struct {
	OK    bool   `json:"ok"`
	DB    int    `json:"db,omitempty"`
	Error string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

type HealthHandler struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

func (h *HealthHandler) pingDB(ctx context.Context) (int, error) {
	ctx, cancel := internal.WithTimeout(ctx, h.timeout)
	defer cancel()

	var one int
	if err := h.db.GetContext(ctx, &one, "SELECT 1 AS ok"); err != nil {
		return 0, err
	}
	return one, nil
}

// pingHandler → just says service is up
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// healthHandler → round-trips a query to the database
func (h *HealthHandler) healthHandler(w http.ResponseWriter, r *http.Request) {
	one, err := h.pingDB(r.Context())
	if err != nil {
		logger.From(r.Context()).Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, SimpleHealth{OK: false, Error: "database unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, SimpleHealth{OK: true, DB: one})
}

// readinessHandler → per-component report with timings
func (h *HealthHandler) readinessHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	_, err := h.pingDB(r.Context())

	entry := CheckEntry{
		Status:     HealthHealthy,
		CheckedAt:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
	}

	if err != nil {
		logger.From(r.Context()).Error("readiness check failed", "error", err)
		entry.Status = HealthUnhealthy
		entry.Message = "database unavailable"
	} else {
		stats := h.db.Stats()
		entry.Details = map[string]any{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		}
	}

	resp := HealthResponse{
		Status:     entry.Status,
		CheckedAt:  time.Now(),
		Components: map[string]CheckEntry{"postgres": entry},
	}

	statusCode := http.StatusOK
	if entry.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
