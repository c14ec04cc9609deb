package sequence

import "time"

// Counter is the last value issued for one series.
type Counter struct {
	Name      string    `gorm:"primaryKey;type:varchar(32)"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Counter) TableName() string { return "sequence_counters" }
