package punch

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/core/calendar"
	"github.com/frahmantamala/timeclock/internal/core/common/validation"
	"github.com/frahmantamala/timeclock/internal/core/events"
	"github.com/frahmantamala/timeclock/internal/user"
)

type Repository interface {
	Create(ctx context.Context, p *Punch) error
	ListByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*Punch, error)
}

// UserResolver finds the active user behind a login.
type UserResolver interface {
	ResolveActive(ctx context.Context, login string) (*user.User, error)
}

type EventPublisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	users     UserResolver
	calendar  *calendar.Calendar
	publisher EventPublisher
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*Service)

// WithClock replaces the wall clock used for default punch instants and "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func NewService(repo Repository, users UserResolver, cal *calendar.Calendar, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		users:    users,
		calendar: cal,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterPunch records one punch for the user behind dto.Login. Kinds are
// independent of each other; only a repeat of the same kind on the same civil
// date is refused.
func (s *Service) RegisterPunch(ctx context.Context, dto RegisterPunchDTO) (*Punch, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		s.logger.Warn("punch validation failed", "error", appErr.GetDetailedMessage(), "login", dto.Login)
		return nil, appErr
	}

	u, err := s.users.ResolveActive(ctx, dto.Login)
	if err != nil {
		return nil, err
	}

	moment, err := dto.ParsedMoment()
	if err != nil {
		return nil, internal.ErrInvalidMoment
	}
	punchedAt := s.now()
	if moment != nil {
		punchedAt = *moment
	}
	punchedAt = punchedAt.UTC()

	p := &Punch{
		UserID:        u.ID,
		Date:          s.calendar.DateOf(punchedAt),
		Kind:          Kind(dto.Kind),
		PunchedAt:     punchedAt,
		OriginMachine: optional(dto.OriginMachine),
		SourceAddress: optional(dto.SourceAddress),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicatePunch) {
			s.logger.Info("duplicate punch refused",
				"user_id", u.ID,
				"kind", p.Kind,
				"date", calendar.Format(p.Date))
			return nil, internal.ErrDuplicatePunch
		}
		s.logger.Error("failed to create punch", "error", err, "user_id", u.ID, "kind", p.Kind)
		return nil, internal.NewInternalError(internal.MsgInternal, err)
	}

	if s.publisher != nil {
		event := events.NewPunchRecordedEvent(p.ID, u.ID, u.Login, string(p.Kind), calendar.Format(p.Date),
			p.PunchedAt, dto.OriginMachine, dto.SourceAddress)
		if err := s.publisher.PublishSync(ctx, event); err != nil {
			// the punch is stored at this point; subscriber failures are only logged
			s.logger.Error("punch recorded event not delivered", "error", err, "punch_id", p.ID)
		}
	}

	s.logger.Info("punch registered",
		"punch_id", p.ID,
		"user_id", u.ID,
		"kind", p.Kind,
		"date", calendar.Format(p.Date))

	return p, nil
}

// GetTodayStatus reports which kinds the user already punched on the current civil date.
func (s *Service) GetTodayStatus(ctx context.Context, login string) (*TodayStatus, error) {
	login = strings.TrimSpace(login)
	v := validation.NewValidator()
	v.Field("login", login).
		Required(internal.MsgLoginRequired, internal.ErrCodeLoginRequired).
		MaxLength(user.MaxLoginLength, internal.MsgLoginTooLong, internal.ErrCodeLoginTooLong)
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	u, err := s.users.ResolveActive(ctx, login)
	if err != nil {
		return nil, err
	}

	today := s.calendar.Today(s.now())
	punches, err := s.repo.ListByUserAndDate(ctx, u.ID, today)
	if err != nil {
		s.logger.Error("failed to list punches", "error", err, "user_id", u.ID, "date", calendar.Format(today))
		return nil, internal.NewInternalError(internal.MsgInternal, err)
	}

	return NewTodayStatus(today, punches), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
