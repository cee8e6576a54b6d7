package punch

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/core/calendar"
	"github.com/frahmantamala/timeclock/internal/core/common/validation"
	"github.com/frahmantamala/timeclock/internal/user"
)

// Column sizes of punches.origin_machine and punches.source_address, in characters.
const (
	MaxOriginMachineLength = 120
	MaxSourceAddressLength = 64
)

// RegisterPunchDTO is the POST /pontos/bater body. OriginMachine and SourceAddress come
// from request headers, never from the body.
type RegisterPunchDTO struct {
	Login         string  `json:"login"`
	Kind          string  `json:"tipo"`
	Moment        *string `json:"momento,omitempty"`
	OriginMachine string  `json:"-"`
	SourceAddress string  `json:"-"`
}

func (dto *RegisterPunchDTO) Normalize() {
	dto.Login = strings.TrimSpace(dto.Login)
	dto.Kind = strings.TrimSpace(dto.Kind)
	if dto.Moment != nil && strings.TrimSpace(*dto.Moment) == "" {
		dto.Moment = nil
	}
	dto.OriginMachine = truncate(dto.OriginMachine, MaxOriginMachineLength)
	dto.SourceAddress = truncate(dto.SourceAddress, MaxSourceAddressLength)
}

// truncate keeps at most max runes of s.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func (dto RegisterPunchDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("login", dto.Login).
		Required(internal.MsgLoginAndKindRequired, internal.ErrCodeValidationFailed).
		MaxLength(user.MaxLoginLength, internal.MsgLoginTooLong, internal.ErrCodeLoginTooLong)
	v.Field("tipo", dto.Kind).
		Required(internal.MsgLoginAndKindRequired, internal.ErrCodeValidationFailed).
		OneOf(KindNames(), internal.MsgInvalidKind, internal.ErrCodeInvalidKind)
	v.Field("momento", dto.Moment).
		Timestamp(internal.MsgInvalidMoment, internal.ErrCodeInvalidMoment)
	return v.Validate()
}

// ParsedMoment returns the caller supplied instant, if any. Call after Validate.
func (dto RegisterPunchDTO) ParsedMoment() (*time.Time, error) {
	if dto.Moment == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *dto.Moment)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type PunchResponse struct {
	PunchID   int64     `json:"ponto_id"`
	UserID    int64     `json:"usuario_id"`
	Date      string    `json:"data"`
	Kind      Kind      `json:"tipo"`
	PunchedAt time.Time `json:"momento"`
}

type RegisterPunchResponse struct {
	OK    bool          `json:"ok"`
	Punch PunchResponse `json:"ponto"`
}

type TodayStatusResponse struct {
	OK      bool      `json:"ok"`
	Date    string    `json:"data"`
	Punched KindFlags `json:"batidos"`
	Times   KindTimes `json:"horarios"`
}

func (p *Punch) ToResponse() PunchResponse {
	return PunchResponse{
		PunchID:   p.ID,
		UserID:    p.UserID,
		Date:      calendar.Format(p.Date),
		Kind:      p.Kind,
		PunchedAt: p.PunchedAt,
	}
}

func (s *TodayStatus) ToResponse() TodayStatusResponse {
	return TodayStatusResponse{
		OK:      true,
		Date:    calendar.Format(s.Date),
		Punched: s.Punched,
		Times:   s.Times,
	}
}
