package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	punchDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/punch"
	"github.com/frahmantamala/timeclock/internal/punch"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation is the SQLSTATE Postgres reports for a unique index conflict.
const uniqueViolation = "23505"

type PunchRepository struct {
	db *gorm.DB
}

func NewPunchRepository(db *gorm.DB) *PunchRepository {
	return &PunchRepository{db: db}
}

// Create inserts the punch and fills its ID. A second punch for the same user,
// date and kind yields punch.ErrDuplicatePunch.
func (r *PunchRepository) Create(ctx context.Context, p *punch.Punch) error {
	row := punch.ToDataModel(p)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return punch.ErrDuplicatePunch
		}
		return fmt.Errorf("insert punch: %w", err)
	}
	p.ID = row.ID
	return nil
}

func (r *PunchRepository) ListByUserAndDate(ctx context.Context, userID int64, date time.Time) ([]*punch.Punch, error) {
	var rows []*punchDatamodel.Punch
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND punch_date = ?", userID, date).
		Order("punched_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list punches: %w", err)
	}

	punches := make([]*punch.Punch, 0, len(rows))
	for _, row := range rows {
		punches = append(punches, punch.FromDataModel(row))
	}
	return punches, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	// sqlite without error translation
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
