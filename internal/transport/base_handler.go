package transport

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/pkg/logger"
)

const (
	HeaderOriginMachine = "X-PC-Name"
	HeaderForwardedFor  = "X-Forwarded-For"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes the {ok:false, error} envelope
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, internal.Response{OK: false, Error: message})
}

// HandleServiceError maps service errors onto HTTP responses. Anything that is not an
// AppError, and every internal AppError, is answered with a generic message.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.From(r.Context())

	appErr, ok := internal.IsAppError(err)
	if !ok || appErr.Type == internal.ErrorTypeInternal {
		log.Error("internal error", "error", err, "method", r.Method, "path", r.URL.Path)
		h.WriteJSON(w, http.StatusInternalServerError, internal.Response{
			OK:    false,
			Error: internal.MsgInternal,
			Code:  internal.ErrCodeInternal,
		})
		return
	}

	log.Warn("request rejected", "code", appErr.Code, "status", appErr.StatusCode, "path", r.URL.Path)
	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// ClientAddress returns the first X-Forwarded-For hop when it is an IP address, or
// the peer address without its port.
func (h *BaseHandler) ClientAddress(r *http.Request) string {
	if fwd := r.Header.Get(HeaderForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); net.ParseIP(first) != nil {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// OriginMachine returns the workstation label the client sent, if any.
func (h *BaseHandler) OriginMachine(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderOriginMachine))
}
