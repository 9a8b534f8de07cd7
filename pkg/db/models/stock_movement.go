package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsalves/clinistock-backend/pkg/enums"
)

// StockMovement records an immutable quantity change against a clinic.
// Movements are only ever created or bulk-deleted per clinic; they are never
// updated.
type StockMovement struct {
	ID                uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClinicID          uuid.UUID          `gorm:"column:clinic_id;type:uuid;not null;index"`
	MaterialID        uuid.UUID          `gorm:"column:material_id;type:uuid;not null"`
	PerformedByUserID uuid.UUID          `gorm:"column:performed_by_user_id;type:uuid;not null"`
	Type              enums.MovementType `gorm:"column:movement_type;type:movement_type_enum;not null"`
	Quantity          int                `gorm:"column:quantity;not null"`
	Note              string             `gorm:"column:note;type:text;not null;default:''"`
	CreatedAt         time.Time          `gorm:"column:created_at;autoCreateTime"`
}
