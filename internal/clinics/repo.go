package clinics

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsalves/clinistock-backend/pkg/db/models"
)

// Repository manages persistence for clinics.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, clinic *models.Clinic) error
	List(ctx context.Context) ([]models.Clinic, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error)
	Update(ctx context.Context, clinic *models.Clinic) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a clinics repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, clinic *models.Clinic) error {
	if clinic.ID == uuid.Nil {
		clinic.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(clinic).Error
}

func (r *repository) List(ctx context.Context) ([]models.Clinic, error) {
	var clinics []models.Clinic
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&clinics).Error; err != nil {
		return nil, err
	}
	return clinics, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error) {
	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &clinic, nil
}

func (r *repository) Update(ctx context.Context, clinic *models.Clinic) error {
	return r.db.WithContext(ctx).Save(clinic).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Clinic{}, "id = ?", id).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Clinic{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
