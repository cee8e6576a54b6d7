package user

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/timeclock/internal"
)

type Repository interface {
	GetByLogin(ctx context.Context, login string) (*User, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ResolveActive looks a login up and rejects unknown or inactive users.
func (s *Service) ResolveActive(ctx context.Context, login string) (*User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, internal.ErrLoginRequired
	}

	u, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("unknown login", "login", login)
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError(internal.MsgInternal, err)
	}

	if !u.IsActiveUser() {
		s.logger.Warn("inactive user attempted access", "login", login, "user_id", u.ID)
		return nil, internal.ErrUserInactive
	}

	return u, nil
}
