package models

import (
	"time"

	"github.com/google/uuid"
)

// ClinicStock is the per-(clinic, material) balance maintained by the ledger.
// Rows are created lazily on first allocation; QuantityAvailable never goes
// below zero. IsOpen/OpenedAt move together: open implies a timestamp,
// closed implies null.
type ClinicStock struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClinicID          uuid.UUID  `gorm:"column:clinic_id;type:uuid;not null;uniqueIndex:idx_clinic_stocks_pair"`
	MaterialID        uuid.UUID  `gorm:"column:material_id;type:uuid;not null;uniqueIndex:idx_clinic_stocks_pair"`
	QuantityAvailable int        `gorm:"column:quantity_available;not null;default:0"`
	IsOpen            bool       `gorm:"column:is_open;not null;default:false"`
	OpenedAt          *time.Time `gorm:"column:opened_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
