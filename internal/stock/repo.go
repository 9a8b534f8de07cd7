package stock

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsalves/clinistock-backend/pkg/db/models"
)

// Repository manages persistence for per-clinic stock balances.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPair(ctx context.Context, clinicID, materialID uuid.UUID) (*models.ClinicStock, error)
	Create(ctx context.Context, stock *models.ClinicStock) error
	Update(ctx context.Context, stock *models.ClinicStock) error
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]ClinicStockView, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a clinic stock repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindPair(ctx context.Context, clinicID, materialID uuid.UUID) (*models.ClinicStock, error) {
	var stock models.ClinicStock
	if err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND material_id = ?", clinicID, materialID).
		First(&stock).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *repository) Create(ctx context.Context, stock *models.ClinicStock) error {
	if stock.ID == uuid.Nil {
		stock.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(stock).Error
}

func (r *repository) Update(ctx context.Context, stock *models.ClinicStock) error {
	return r.db.WithContext(ctx).Save(stock).Error
}

func (r *repository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]ClinicStockView, error) {
	var views []ClinicStockView
	if err := r.db.WithContext(ctx).
		Table("clinic_stocks").
		Select("clinic_stocks.material_id, materials.name AS material_name, materials.category, clinic_stocks.quantity_available, clinic_stocks.is_open, clinic_stocks.opened_at").
		Joins("JOIN materials ON materials.id = clinic_stocks.material_id").
		Where("clinic_stocks.clinic_id = ?", clinicID).
		Order("materials.name ASC").
		Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}
