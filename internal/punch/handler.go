package punch

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/transport"
	"github.com/frahmantamala/timeclock/pkg/logger"
)

type ServiceAPI interface {
	RegisterPunch(ctx context.Context, dto RegisterPunchDTO) (*Punch, error)
	GetTodayStatus(ctx context.Context, login string) (*TodayStatus, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// RegisterPunch handles POST /pontos/bater
func (h *Handler) RegisterPunch(w http.ResponseWriter, r *http.Request) {
	var dto RegisterPunchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		logger.From(r.Context()).Warn("RegisterPunch: invalid request body", "error", err)
		h.HandleServiceError(w, r, internal.ErrInvalidBody)
		return
	}
	dto.OriginMachine = h.OriginMachine(r)
	dto.SourceAddress = h.ClientAddress(r)

	p, err := h.Service.RegisterPunch(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RegisterPunchResponse{
		OK:    true,
		Punch: p.ToResponse(),
	})
}

// GetTodayStatus handles GET /pontos/hoje?login=
func (h *Handler) GetTodayStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.Service.GetTodayStatus(r.Context(), r.URL.Query().Get("login"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, status.ToResponse())
}
