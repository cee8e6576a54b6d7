package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const EventTypePunchRecorded = "punch.recorded"

type PunchRecordedEvent struct {
	BaseEvent
	PunchID       int64     `json:"punch_id"`
	UserID        int64     `json:"user_id"`
	Login         string    `json:"login"`
	Kind          string    `json:"kind"`
	Date          string    `json:"date"`
	PunchedAt     time.Time `json:"punched_at"`
	OriginMachine string    `json:"origin_machine,omitempty"`
	SourceAddress string    `json:"source_address,omitempty"`
}

func NewPunchRecordedEvent(punchID, userID int64, login, kind, date string, punchedAt time.Time, originMachine, sourceAddress string) *PunchRecordedEvent {
	return &PunchRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePunchRecorded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"punch_id":   punchID,
				"user_id":    userID,
				"login":      login,
				"kind":       kind,
				"date":       date,
				"punched_at": punchedAt,
			},
		},
		PunchID:       punchID,
		UserID:        userID,
		Login:         login,
		Kind:          kind,
		Date:          date,
		PunchedAt:     punchedAt,
		OriginMachine: originMachine,
		SourceAddress: sourceAddress,
	}
}

// AuditLogger returns a handler that writes one structured line per recorded punch.
func AuditLogger(logger *slog.Logger) Handler {
	return func(_ context.Context, event Event) error {
		recorded, ok := event.(*PunchRecordedEvent)
		if !ok {
			return nil
		}
		logger.Info("punch recorded",
			"event_id", recorded.EventID(),
			"punch_id", recorded.PunchID,
			"login", recorded.Login,
			"kind", recorded.Kind,
			"date", recorded.Date,
			"punched_at", recorded.PunchedAt,
			"origin_machine", recorded.OriginMachine,
			"source_address", recorded.SourceAddress)
		return nil
	}
}
