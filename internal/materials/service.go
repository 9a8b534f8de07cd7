package materials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsalves/clinistock-backend/pkg/db/models"
	"github.com/hsalves/clinistock-backend/pkg/enums"
	pkgerrors "github.com/hsalves/clinistock-backend/pkg/errors"
)

// Service defines material catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateMaterialInput) (*models.Material, error)
	List(ctx context.Context) ([]models.Material, error)
	ListByCategory(ctx context.Context, category string) ([]models.Material, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Material, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateMaterialInput) (*models.Material, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddStock(ctx context.Context, id uuid.UUID, delta int) (*models.Material, error)
}

type service struct {
	repo Repository
}

// CreateMaterialInput captures the data needed to register a material.
type CreateMaterialInput struct {
	Name            string `json:"name" validate:"required"`
	Category        string `json:"category" validate:"required"`
	InitialQuantity int    `json:"initial_quantity" validate:"gte=0"`
}

// UpdateMaterialInput captures the mutable material fields.
type UpdateMaterialInput struct {
	Name              string `json:"name" validate:"required"`
	Category          string `json:"category" validate:"required"`
	WarehouseQuantity int    `json:"warehouse_quantity" validate:"gte=0"`
}

// NewService wires a material catalog service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("materials repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateMaterialInput) (*models.Material, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material name is required")
	}
	category, err := enums.ParseMaterialCategory(input.Category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid material category")
	}
	if input.InitialQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial quantity cannot be negative")
	}

	material := &models.Material{
		Name:              name,
		Category:          category,
		WarehouseQuantity: input.InitialQuantity,
	}
	if err := s.repo.Create(ctx, material); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create material")
	}
	return material, nil
}

func (s *service) List(ctx context.Context) ([]models.Material, error) {
	materials, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list materials")
	}
	return materials, nil
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]models.Material, error) {
	parsed, err := enums.ParseMaterialCategory(category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid material category")
	}
	materials, err := s.repo.ListByCategory(ctx, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list materials by category")
	}
	return materials, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material id is required")
	}
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load material")
	}
	return material, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateMaterialInput) (*models.Material, error) {
	material, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material name is required")
	}
	category, err := enums.ParseMaterialCategory(input.Category)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid material category")
	}
	if input.WarehouseQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "warehouse quantity cannot be negative")
	}

	material.Name = name
	material.Category = category
	material.WarehouseQuantity = input.WarehouseQuantity
	if err := s.repo.Update(ctx, material); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update material")
	}
	return material, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	// clinic_stocks and stock_movements go with it via FK cascade
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete material")
	}
	return nil
}

// AddStock replenishes the central warehouse pool. It does not touch any
// clinic balance and records no movement.
func (s *service) AddStock(ctx context.Context, id uuid.UUID, delta int) (*models.Material, error) {
	if delta <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	material, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	material.WarehouseQuantity += delta
	if err := s.repo.Update(ctx, material); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add warehouse stock")
	}
	return material, nil
}
