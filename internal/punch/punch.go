package punch

import (
	"errors"
	"time"

	punchDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/punch"
)

// Kind is one of the four daily punch categories. The string values are the wire names.
type Kind string

const (
	KindEntry    Kind = "ENTRADA"
	KindLunchOut Kind = "SAIDA_ALMOCO"
	KindLunchIn  Kind = "VOLTA_ALMOCO"
	KindExit     Kind = "SAIDA"
)

// Kinds lists every kind in the order a regular working day records them.
var Kinds = []Kind{KindEntry, KindLunchOut, KindLunchIn, KindExit}

func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

func KindNames() []string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return names
}

type Punch struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Date          time.Time `json:"date"`
	Kind          Kind      `json:"kind"`
	PunchedAt     time.Time `json:"punched_at"`
	OriginMachine *string   `json:"origin_machine,omitempty"`
	SourceAddress *string   `json:"source_address,omitempty"`
}

// KindFlags records, per kind, whether it was punched.
type KindFlags struct {
	Entry    bool `json:"ENTRADA"`
	LunchOut bool `json:"SAIDA_ALMOCO"`
	LunchIn  bool `json:"VOLTA_ALMOCO"`
	Exit     bool `json:"SAIDA"`
}

func (f *KindFlags) field(k Kind) *bool {
	switch k {
	case KindEntry:
		return &f.Entry
	case KindLunchOut:
		return &f.LunchOut
	case KindLunchIn:
		return &f.LunchIn
	case KindExit:
		return &f.Exit
	}
	return nil
}

func (f KindFlags) Get(k Kind) bool {
	if p := f.field(k); p != nil {
		return *p
	}
	return false
}

func (f *KindFlags) Set(k Kind, v bool) {
	if p := f.field(k); p != nil {
		*p = v
	}
}

// KindTimes holds the punch instant per kind; nil means not punched.
type KindTimes struct {
	Entry    *time.Time `json:"ENTRADA"`
	LunchOut *time.Time `json:"SAIDA_ALMOCO"`
	LunchIn  *time.Time `json:"VOLTA_ALMOCO"`
	Exit     *time.Time `json:"SAIDA"`
}

func (t *KindTimes) field(k Kind) **time.Time {
	switch k {
	case KindEntry:
		return &t.Entry
	case KindLunchOut:
		return &t.LunchOut
	case KindLunchIn:
		return &t.LunchIn
	case KindExit:
		return &t.Exit
	}
	return nil
}

func (t KindTimes) Get(k Kind) *time.Time {
	if p := t.field(k); p != nil {
		return *p
	}
	return nil
}

func (t *KindTimes) Set(k Kind, v *time.Time) {
	if p := t.field(k); p != nil {
		*p = v
	}
}

// TodayStatus is the per-kind picture of one user's civil day.
type TodayStatus struct {
	Date    time.Time
	Punched KindFlags
	Times   KindTimes
}

// NewTodayStatus folds punches ordered by instant into a status. When a kind shows up
// more than once the earliest punch wins.
func NewTodayStatus(date time.Time, punches []*Punch) *TodayStatus {
	status := &TodayStatus{Date: date}
	for _, p := range punches {
		if status.Punched.Get(p.Kind) {
			continue
		}
		if _, ok := ParseKind(string(p.Kind)); !ok {
			continue
		}
		at := p.PunchedAt
		status.Punched.Set(p.Kind, true)
		status.Times.Set(p.Kind, &at)
	}
	return status
}

var ErrDuplicatePunch = errors.New("punch already recorded for this user, date and kind")

func ToDataModel(p *Punch) *punchDatamodel.Punch {
	return &punchDatamodel.Punch{
		ID:            p.ID,
		UserID:        p.UserID,
		PunchDate:     p.Date,
		Kind:          string(p.Kind),
		PunchedAt:     p.PunchedAt,
		OriginMachine: p.OriginMachine,
		SourceAddress: p.SourceAddress,
	}
}

func FromDataModel(p *punchDatamodel.Punch) *Punch {
	return &Punch{
		ID:            p.ID,
		UserID:        p.UserID,
		Date:          p.PunchDate,
		Kind:          Kind(p.Kind),
		PunchedAt:     p.PunchedAt,
		OriginMachine: p.OriginMachine,
		SourceAddress: p.SourceAddress,
	}
}
