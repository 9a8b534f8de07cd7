package movements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsalves/clinistock-backend/pkg/db/models"
)

// Repository manages persistence for the movement log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, movement *models.StockMovement) error
	RecentByClinic(ctx context.Context, clinicID uuid.UUID, limit int) ([]MovementView, error)
	CountByClinic(ctx context.Context, clinicID uuid.UUID) (int64, error)
	DeleteByClinic(ctx context.Context, clinicID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a movement log repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, movement *models.StockMovement) error {
	if movement.ID == uuid.Nil {
		movement.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) RecentByClinic(ctx context.Context, clinicID uuid.UUID, limit int) ([]MovementView, error) {
	var views []MovementView
	if err := r.db.WithContext(ctx).
		Table("stock_movements").
		Select("stock_movements.id, stock_movements.material_id, materials.name AS material_name, stock_movements.movement_type, stock_movements.quantity, stock_movements.note, COALESCE(users.username, '') AS performed_by, stock_movements.created_at").
		Joins("JOIN materials ON materials.id = stock_movements.material_id").
		Joins("LEFT JOIN users ON users.id = stock_movements.performed_by_user_id").
		Where("stock_movements.clinic_id = ?", clinicID).
		Order("stock_movements.created_at DESC").
		Limit(limit).
		Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func (r *repository) CountByClinic(ctx context.Context, clinicID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.StockMovement{}).
		Where("clinic_id = ?", clinicID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) DeleteByClinic(ctx context.Context, clinicID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.StockMovement{}, "clinic_id = ?", clinicID).Error
}
