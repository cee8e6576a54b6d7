package user

import "time"

type User struct {
	ID        int64     `gorm:"primaryKey" db:"id"`
	Login     string    `gorm:"column:login;uniqueIndex;not null" db:"login"`
	Name      string    `gorm:"column:name;not null" db:"name"`
	IsActive  bool      `gorm:"column:is_active;not null" db:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" db:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
