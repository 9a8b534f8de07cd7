package movements

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsalves/clinistock-backend/pkg/enums"
)

// MovementView is the presentation shape of one log entry, enriched with the
// material name and the acting user's username.
type MovementView struct {
	ID           uuid.UUID          `json:"id" gorm:"column:id"`
	MaterialID   uuid.UUID          `json:"material_id" gorm:"column:material_id"`
	MaterialName string             `json:"material_name" gorm:"column:material_name"`
	Type         enums.MovementType `json:"type" gorm:"column:movement_type"`
	Quantity     int                `json:"quantity" gorm:"column:quantity"`
	Note         string             `json:"note" gorm:"column:note"`
	PerformedBy  string             `json:"performed_by" gorm:"column:performed_by"`
	CreatedAt    time.Time          `json:"created_at" gorm:"column:created_at"`
}
