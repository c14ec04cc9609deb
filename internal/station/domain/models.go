package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Address struct {
	Street  string `json:"street,omitempty" gorm:"type:varchar(255)"`
	City    string `json:"city,omitempty" gorm:"type:varchar(128)"`
	State   string `json:"state,omitempty" gorm:"type:varchar(128)"`
	Pincode string `json:"pincode,omitempty" gorm:"type:varchar(6)"`
	Country string `json:"country" gorm:"type:varchar(64);default:India"`
}

type Station struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	Name            string       `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Code            string       `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`
	Description     string       `gorm:"type:text" json:"description,omitempty"`
	Address         Address      `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Phone           string       `gorm:"type:varchar(16)" json:"phone,omitempty"`
	Email           string       `gorm:"type:varchar(255)" json:"email,omitempty"`
	TotalCustomers  int64        `gorm:"not null" json:"total_customers"`
	TotalJobWorkers int64        `gorm:"not null" json:"total_job_workers"`
	IsActive        bool         `gorm:"not null" json:"is_active"`
	Notes           string       `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy       string       `gorm:"type:varchar(32)" json:"created_by,omitempty"`
	UpdatedBy       string       `gorm:"type:varchar(32)" json:"updated_by,omitempty"`
	CreatedAt       time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null" json:"updated_at"`
}

func (Station) TableName() string { return "stations" }
