package migrations

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts ahead of adapter use.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&parcelRecord{},
		&businessRulesRecord{},
		&departmentRecord{},
	)
}

// Parcel schema mirrors the parcels Postgres adapter.
type parcelRecord struct {
	ID                int64     `gorm:"primaryKey;column:id"`
	ParcelID          string    `gorm:"column:parcel_id;size:128;uniqueIndex"`
	Weight            float64   `gorm:"column:weight"`
	Value             float64   `gorm:"column:value"`
	Recipient         string    `gorm:"column:recipient"`
	Destination       string    `gorm:"column:destination"`
	Department        string    `gorm:"column:department;type:varchar(32);index:idx_parcels_department_status"`
	Status            string    `gorm:"column:status;type:varchar(32);index:idx_parcels_department_status"`
	RequiresInsurance bool      `gorm:"column:requires_insurance"`
	InsuranceApproved bool      `gorm:"column:insurance_approved"`
	ProcessingTime    time.Time `gorm:"column:processing_time"`
	ErrorMessage      *string   `gorm:"column:error_message"`
	CreatedAt         time.Time `gorm:"column:created_at;index"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (parcelRecord) TableName() string { return "parcels" }

// Rule set history; at most one row is active.
type businessRulesRecord struct {
	ID        int64          `gorm:"primaryKey;column:id"`
	Rules     datatypes.JSON `gorm:"column:rules;type:jsonb"`
	IsActive  bool           `gorm:"column:is_active;index"`
	CreatedAt time.Time      `gorm:"column:created_at"`
}

func (businessRulesRecord) TableName() string { return "business_rules" }

// Department schema mirrors the departments Postgres adapter.
type departmentRecord struct {
	ID          string    `gorm:"primaryKey;column:id;type:uuid"`
	Name        string    `gorm:"column:name;size:64;uniqueIndex"`
	Description string    `gorm:"column:description"`
	Color       string    `gorm:"column:color;size:32"`
	Icon        string    `gorm:"column:icon;size:64"`
	IsCustom    bool      `gorm:"column:is_custom"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (departmentRecord) TableName() string { return "departments" }
