package stock

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsalves/clinistock-backend/pkg/db/models"
	"github.com/hsalves/clinistock-backend/pkg/enums"
)

// ClinicStockView is the presentation shape of one clinic balance, enriched
// with the material's catalog data.
type ClinicStockView struct {
	MaterialID        uuid.UUID              `json:"material_id" gorm:"column:material_id"`
	MaterialName      string                 `json:"material_name" gorm:"column:material_name"`
	Category          enums.MaterialCategory `json:"category" gorm:"column:category"`
	QuantityAvailable int                    `json:"quantity_available" gorm:"column:quantity_available"`
	IsOpen            bool                   `json:"is_open" gorm:"column:is_open"`
	OpenedAt          *time.Time             `json:"opened_at,omitempty" gorm:"column:opened_at"`
}

// AllocationResult carries the post-allocation balances.
type AllocationResult struct {
	Material *models.Material    `json:"material"`
	Stock    *models.ClinicStock `json:"clinic_stock"`
}

// ConsumptionResult carries the post-consumption clinic balance.
type ConsumptionResult struct {
	Stock             *models.ClinicStock `json:"clinic_stock"`
	RemainingQuantity int                 `json:"remaining_quantity"`
}
