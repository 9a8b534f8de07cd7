package clinics

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsalves/clinistock-backend/pkg/db/models"
	pkgerrors "github.com/hsalves/clinistock-backend/pkg/errors"
)

// Service defines clinic registry operations.
type Service interface {
	Create(ctx context.Context, input CreateClinicInput) (*models.Clinic, error)
	List(ctx context.Context) ([]models.Clinic, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Clinic, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateClinicInput) (*models.Clinic, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// CreateClinicInput captures the data needed to register a clinic.
type CreateClinicInput struct {
	Name string `json:"name" validate:"required"`
}

// UpdateClinicInput captures the mutable clinic fields.
type UpdateClinicInput struct {
	Name string `json:"name" validate:"required"`
}

// NewService wires a clinic service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("clinics repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateClinicInput) (*models.Clinic, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "clinic name is required")
	}

	clinic := &models.Clinic{Name: name}
	if err := s.repo.Create(ctx, clinic); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create clinic")
	}
	return clinic, nil
}

func (s *service) List(ctx context.Context) ([]models.Clinic, error) {
	clinics, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clinics")
	}
	return clinics, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Clinic, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "clinic id is required")
	}
	clinic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "clinic not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load clinic")
	}
	return clinic, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateClinicInput) (*models.Clinic, error) {
	clinic, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "clinic name is required")
	}

	clinic.Name = name
	if err := s.repo.Update(ctx, clinic); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update clinic")
	}
	return clinic, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	// clinic_stocks and stock_movements go with it via FK cascade
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete clinic")
	}
	return nil
}
