// Package kiosk is the terminal front end employees punch from.
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/frahmantamala/timeclock/internal/punch"
)

const (
	MsgLoginMissing    = "Informe o login do usuário"
	MsgConnectionError = "Erro de conexão com a API"
	MsgTodayLoadError  = "Erro de conexão ao carregar marcações de hoje"
)

type (
	Flags = punch.KindFlags
	Times = punch.KindTimes
)

// API is the part of Client the board depends on.
type API interface {
	Today(ctx context.Context, login string) (*TodayResponse, error)
	Punch(ctx context.Context, login string, kind punch.Kind) (*PunchResponse, error)
}

// Board holds what the kiosk screen shows for the current login.
type Board struct {
	Login   string
	Punched Flags
	Times   Times
	Message string

	api      API
	now      func() time.Time
	location *time.Location
}

type BoardOption func(*Board)

func WithBoardClock(now func() time.Time) BoardOption {
	return func(b *Board) {
		b.now = now
	}
}

// WithLocation sets the zone times are rendered in. Defaults to time.Local.
func WithLocation(loc *time.Location) BoardOption {
	return func(b *Board) {
		b.location = loc
	}
}

func NewBoard(api API, opts ...BoardOption) *Board {
	b := &Board{
		api:      api,
		now:      time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetLogin switches the board to login and loads today's punches. On failure the
// previous records stay on screen.
func (b *Board) SetLogin(ctx context.Context, login string) {
	b.Login = strings.TrimSpace(login)
	if b.Login == "" {
		b.Punched = Flags{}
		b.Times = Times{}
		b.Message = ""
		return
	}

	today, err := b.api.Today(ctx, b.Login)
	if err != nil {
		b.Message = messageFor(err, MsgTodayLoadError)
		return
	}

	b.Punched = today.Punched
	b.Times = today.Times
	b.Message = ""
}

// Press punches kind for the current login. A kind already recorded is ignored.
func (b *Board) Press(ctx context.Context, kind punch.Kind) {
	if b.Login == "" {
		b.Message = MsgLoginMissing
		return
	}
	if !b.Enabled(kind) {
		return
	}

	if _, err := b.api.Punch(ctx, b.Login, kind); err != nil {
		b.Message = messageFor(err, MsgConnectionError)
		return
	}

	now := b.now()
	b.Punched.Set(kind, true)
	b.Times.Set(kind, &now)
	b.Message = fmt.Sprintf("Ponto registrado: %s", kind)
}

// Enabled reports whether the button for kind can still be pressed.
func (b *Board) Enabled(kind punch.Kind) bool {
	if _, ok := punch.ParseKind(string(kind)); !ok {
		return false
	}
	return !b.Punched.Get(kind)
}

// Render draws the board as plain text.
func (b *Board) Render(w io.Writer) error {
	login := b.Login
	if login == "" {
		login = "-"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Login: %s\n", login)
	for i, kind := range punch.Kinds {
		marker := " "
		if !b.Enabled(kind) {
			marker = "x"
		}
		fmt.Fprintf(&sb, "[%s] %d %-13s %s\n", marker, i+1, kind, b.formatTime(b.Times.Get(kind)))
	}
	if b.Message != "" {
		fmt.Fprintf(&sb, "%s\n", b.Message)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (b *Board) formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.In(b.location).Format("15:04")
}

func messageFor(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
