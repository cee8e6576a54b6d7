package punch

import "time"

// Punch is one row of the punches table. The composite unique index is what turns
// a second punch of the same kind on the same civil date into a conflict.
type Punch struct {
	ID            int64     `gorm:"primaryKey"`
	UserID        int64     `gorm:"column:user_id;not null;uniqueIndex:uk_punches_user_date_kind,priority:1"`
	PunchDate     time.Time `gorm:"column:punch_date;type:date;not null;uniqueIndex:uk_punches_user_date_kind,priority:2"`
	Kind          string    `gorm:"column:kind;type:varchar(20);not null;uniqueIndex:uk_punches_user_date_kind,priority:3"`
	PunchedAt     time.Time `gorm:"column:punched_at;not null;index"`
	OriginMachine *string   `gorm:"column:origin_machine;size:120"`
	SourceAddress *string   `gorm:"column:source_address;size:64"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Punch) TableName() string {
	return "punches"
}
