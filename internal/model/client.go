package model

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a law-firm client record
type Client struct {
	ID             uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName      string         `json:"first_name" gorm:"type:varchar(255);not null"`
	LastName       string         `json:"last_name" gorm:"type:varchar(255);not null"`
	MiddleName     string         `json:"middle_name,omitempty" gorm:"type:varchar(255)"`
	PrimaryPhone   string         `json:"primary_phone,omitempty" gorm:"type:varchar(32)"`
	MobilePhone    string         `json:"mobile_phone,omitempty" gorm:"type:varchar(32)"`
	// Binary collation keeps address matching case-exact under MySQL's
	// case-insensitive default.
	PrimaryEmail   string         `json:"primary_email,omitempty" gorm:"type:varchar(255) COLLATE utf8mb4_bin;index"`
	AlternateEmail string         `json:"alternate_email,omitempty" gorm:"type:varchar(255) COLLATE utf8mb4_bin;index"`
	AddressLine1   string         `json:"address_line1,omitempty" gorm:"type:varchar(255)"`
	AddressLine2   string         `json:"address_line2,omitempty" gorm:"type:varchar(255)"`
	City           string         `json:"city,omitempty" gorm:"type:varchar(128)"`
	State          string         `json:"state,omitempty" gorm:"type:varchar(64)"`
	ZipCode        string         `json:"zip_code,omitempty" gorm:"type:varchar(16)"`
	Country        string         `json:"country,omitempty" gorm:"type:varchar(128);default:'United States'"`
	BirthDate      *time.Time     `json:"birth_date,omitempty"`
	CaseType       string         `json:"case_type,omitempty" gorm:"type:varchar(128)"`
	CaseStatus     string         `json:"case_status,omitempty" gorm:"type:varchar(64)"`
	CaseDate       *time.Time     `json:"case_date,omitempty"`
	DateOfInjury   *time.Time     `json:"date_of_injury,omitempty"`
	CompanyName    string         `json:"company_name,omitempty" gorm:"type:varchar(255)"`
	JobTitle       string         `json:"job_title,omitempty" gorm:"type:varchar(255)"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}
