package reports

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsalves/clinistock-backend/pkg/db/models"
)

// Repository runs the read-side aggregation queries. Everything here is
// recomputed per request from clinic_stocks and materials; nothing is
// materialized.
type Repository interface {
	ClinicSummaries(ctx context.Context) ([]ClinicSummary, error)
	Totals(ctx context.Context) (clinics, materials, warehouse, distributed int, err error)
	DistributionRows(ctx context.Context, materialID uuid.UUID) ([]ClinicQuantity, error)
	OpenStatusRows(ctx context.Context, materialID uuid.UUID) ([]ClinicOpenStatus, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a reporting repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ClinicSummaries(ctx context.Context) ([]ClinicSummary, error) {
	var summaries []ClinicSummary
	if err := r.db.WithContext(ctx).
		Table("clinics").
		Select("clinics.id AS clinic_id, clinics.name AS clinic_name, COUNT(clinic_stocks.id) AS material_count, COALESCE(SUM(clinic_stocks.quantity_available), 0) AS total_quantity").
		Joins("LEFT JOIN clinic_stocks ON clinic_stocks.clinic_id = clinics.id").
		Group("clinics.id, clinics.name").
		Order("clinics.name ASC").
		Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *repository) Totals(ctx context.Context) (int, int, int, int, error) {
	var clinicCount, materialCount int64
	if err := r.db.WithContext(ctx).Model(&models.Clinic{}).Count(&clinicCount).Error; err != nil {
		return 0, 0, 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Material{}).Count(&materialCount).Error; err != nil {
		return 0, 0, 0, 0, err
	}

	var warehouse int
	if err := r.db.WithContext(ctx).Model(&models.Material{}).
		Select("COALESCE(SUM(warehouse_quantity), 0)").
		Scan(&warehouse).Error; err != nil {
		return 0, 0, 0, 0, err
	}

	var distributed int
	if err := r.db.WithContext(ctx).Model(&models.ClinicStock{}).
		Select("COALESCE(SUM(quantity_available), 0)").
		Scan(&distributed).Error; err != nil {
		return 0, 0, 0, 0, err
	}

	return int(clinicCount), int(materialCount), warehouse, distributed, nil
}

func (r *repository) DistributionRows(ctx context.Context, materialID uuid.UUID) ([]ClinicQuantity, error) {
	var rows []ClinicQuantity
	if err := r.db.WithContext(ctx).
		Table("clinic_stocks").
		Select("clinic_stocks.clinic_id, clinics.name AS clinic_name, clinic_stocks.quantity_available AS quantity").
		Joins("JOIN clinics ON clinics.id = clinic_stocks.clinic_id").
		Where("clinic_stocks.material_id = ? AND clinic_stocks.quantity_available > 0", materialID).
		Order("clinic_stocks.quantity_available DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) OpenStatusRows(ctx context.Context, materialID uuid.UUID) ([]ClinicOpenStatus, error) {
	var rows []ClinicOpenStatus
	if err := r.db.WithContext(ctx).
		Table("clinic_stocks").
		Select("clinic_stocks.clinic_id, clinics.name AS clinic_name, clinic_stocks.quantity_available AS quantity, clinic_stocks.is_open, clinic_stocks.opened_at").
		Joins("JOIN clinics ON clinics.id = clinic_stocks.clinic_id").
		Where("clinic_stocks.material_id = ?", materialID).
		Order("clinics.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
