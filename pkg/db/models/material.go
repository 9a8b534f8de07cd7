package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsalves/clinistock-backend/pkg/enums"
)

// Material is a catalog entry plus the central warehouse pool for it.
// WarehouseQuantity is the unallocated quantity; clinic allocations draw
// from it and never push it below zero.
type Material struct {
	ID                uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string                 `gorm:"column:name;type:text;not null"`
	Category          enums.MaterialCategory `gorm:"column:category;type:material_category_enum;not null"`
	WarehouseQuantity int                    `gorm:"column:warehouse_quantity;not null;default:0"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
