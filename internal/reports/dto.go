package reports

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsalves/clinistock-backend/pkg/enums"
)

// ClinicSummary aggregates one clinic's stock holdings.
type ClinicSummary struct {
	ClinicID      uuid.UUID `json:"clinic_id" gorm:"column:clinic_id"`
	ClinicName    string    `json:"clinic_name" gorm:"column:clinic_name"`
	MaterialCount int       `json:"material_count" gorm:"column:material_count"`
	TotalQuantity int       `json:"total_quantity" gorm:"column:total_quantity"`
}

// DashboardSummary is the top-level aggregation for the dashboard view.
type DashboardSummary struct {
	TotalClinics           int             `json:"total_clinics"`
	TotalMaterials         int             `json:"total_materials"`
	TotalWarehouseQuantity int             `json:"total_warehouse_quantity"`
	TotalDistributed       int             `json:"total_distributed"`
	Clinics                []ClinicSummary `json:"clinics"`
}

// ClinicQuantity is one clinic's share of a material's distribution.
type ClinicQuantity struct {
	ClinicID   uuid.UUID `json:"clinic_id" gorm:"column:clinic_id"`
	ClinicName string    `json:"clinic_name" gorm:"column:clinic_name"`
	Quantity   int       `json:"quantity" gorm:"column:quantity"`
}

// MaterialDistribution shows where a material's quantity currently sits.
type MaterialDistribution struct {
	MaterialID        uuid.UUID              `json:"material_id"`
	MaterialName      string                 `json:"material_name"`
	Category          enums.MaterialCategory `json:"category"`
	WarehouseQuantity int                    `json:"warehouse_quantity"`
	TotalDistributed  int                    `json:"total_distributed"`
	Clinics           []ClinicQuantity       `json:"clinics"`
}

// ClinicOpenStatus is one clinic's balance and open flag for a material.
type ClinicOpenStatus struct {
	ClinicID   uuid.UUID  `json:"clinic_id" gorm:"column:clinic_id"`
	ClinicName string     `json:"clinic_name" gorm:"column:clinic_name"`
	Quantity   int        `json:"quantity" gorm:"column:quantity"`
	IsOpen     bool       `json:"is_open" gorm:"column:is_open"`
	OpenedAt   *time.Time `json:"opened_at,omitempty" gorm:"column:opened_at"`
}

// MaterialOpenStatus pairs a material with its per-clinic open flags.
type MaterialOpenStatus struct {
	MaterialID        uuid.UUID              `json:"material_id"`
	MaterialName      string                 `json:"material_name"`
	Category          enums.MaterialCategory `json:"category"`
	WarehouseQuantity int                    `json:"warehouse_quantity"`
	TotalDistributed  int                    `json:"total_distributed"`
	Clinics           []ClinicOpenStatus     `json:"clinics"`
}
