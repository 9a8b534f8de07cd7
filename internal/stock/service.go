package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsalves/clinistock-backend/internal/clinics"
	"github.com/hsalves/clinistock-backend/internal/materials"
	"github.com/hsalves/clinistock-backend/internal/movements"
	"github.com/hsalves/clinistock-backend/pkg/db/models"
	"github.com/hsalves/clinistock-backend/pkg/enums"
	pkgerrors "github.com/hsalves/clinistock-backend/pkg/errors"
	"github.com/hsalves/clinistock-backend/pkg/metrics"
)

// Default notes stamped on ledger entries when the caller leaves the note blank.
const (
	DefaultAllocationNote  = "Distribuição do estoque geral"
	DefaultConsumptionNote = "Consumo de material"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the clinic stock ledger. Every mutation runs inside one
// transaction: balance reads, sufficiency checks, balance writes, and the
// movement append commit together or not at all.
type Service interface {
	Allocate(ctx context.Context, input AllocateInput) (*AllocationResult, error)
	Consume(ctx context.Context, input ConsumeInput) (*ConsumptionResult, error)
	SetOpenFlag(ctx context.Context, input OpenFlagInput) (*models.ClinicStock, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]ClinicStockView, error)
}

type service struct {
	repo      Repository
	materials materials.Repository
	clinics   clinics.Repository
	movements movements.Repository
	tx        txRunner
	metrics   *metrics.StockMetrics
}

// AllocateInput moves quantity from the central warehouse into a clinic.
type AllocateInput struct {
	ClinicID    uuid.UUID
	MaterialID  uuid.UUID
	Quantity    int
	Note        string
	ActorUserID uuid.UUID
}

// ConsumeInput draws quantity down from a clinic's available balance.
type ConsumeInput struct {
	ClinicID    uuid.UUID
	MaterialID  uuid.UUID
	Quantity    int
	Note        string
	ActorUserID uuid.UUID
}

// OpenFlagInput marks a clinic's stock of a material as opened or closed.
type OpenFlagInput struct {
	ClinicID   uuid.UUID
	MaterialID uuid.UUID
	Open       bool
}

// ServiceParams bundles the dependencies required to build the ledger service.
type ServiceParams struct {
	Repo      Repository
	Materials materials.Repository
	Clinics   clinics.Repository
	Movements movements.Repository
	Tx        txRunner
	Metrics   *metrics.StockMetrics
}

// NewService builds the stock ledger service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if params.Materials == nil {
		return nil, fmt.Errorf("materials repository required")
	}
	if params.Clinics == nil {
		return nil, fmt.Errorf("clinics repository required")
	}
	if params.Movements == nil {
		return nil, fmt.Errorf("movements repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      params.Repo,
		materials: params.Materials,
		clinics:   params.Clinics,
		movements: params.Movements,
		tx:        params.Tx,
		metrics:   params.Metrics,
	}, nil
}

func (s *service) Allocate(ctx context.Context, input AllocateInput) (*AllocationResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("allocate", time.Since(start)) }()

	if input.Quantity <= 0 {
		s.metrics.IncRejection("invalid_quantity")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result *AllocationResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		stockRepo := s.repo.WithTx(tx)
		materialRepo := s.materials.WithTx(tx)
		clinicRepo := s.clinics.WithTx(tx)
		movementRepo := s.movements.WithTx(tx)

		if _, err := clinicRepo.FindByID(ctx, input.ClinicID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "clinic not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load clinic")
		}

		material, err := materialRepo.FindByID(ctx, input.MaterialID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load material")
		}

		if material.WarehouseQuantity < input.Quantity {
			s.metrics.IncRejection("insufficient_warehouse_stock")
			return pkgerrors.New(pkgerrors.CodeInsufficientWarehouse, "insufficient warehouse stock").
				WithDetails(map[string]int{
					"available": material.WarehouseQuantity,
					"requested": input.Quantity,
				})
		}

		material.WarehouseQuantity -= input.Quantity
		if err := materialRepo.Update(ctx, material); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit warehouse")
		}

		clinicStock, err := stockRepo.FindPair(ctx, input.ClinicID, input.MaterialID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			clinicStock = &models.ClinicStock{
				ClinicID:          input.ClinicID,
				MaterialID:        input.MaterialID,
				QuantityAvailable: input.Quantity,
			}
			if err := stockRepo.Create(ctx, clinicStock); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create clinic stock")
			}
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load clinic stock")
		default:
			clinicStock.QuantityAvailable += input.Quantity
			if err := stockRepo.Update(ctx, clinicStock); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit clinic stock")
			}
		}

		movement := &models.StockMovement{
			ClinicID:          input.ClinicID,
			MaterialID:        input.MaterialID,
			PerformedByUserID: input.ActorUserID,
			Type:              enums.MovementTypeEntrada,
			Quantity:          input.Quantity,
			Note:              noteOrDefault(input.Note, DefaultAllocationNote),
		}
		if err := movementRepo.Create(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append movement")
		}

		result = &AllocationResult{Material: material, Stock: clinicStock}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncAllocation()
	return result, nil
}

func (s *service) Consume(ctx context.Context, input ConsumeInput) (*ConsumptionResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("consume", time.Since(start)) }()

	if input.Quantity <= 0 {
		s.metrics.IncRejection("invalid_quantity")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result *ConsumptionResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		stockRepo := s.repo.WithTx(tx)
		clinicRepo := s.clinics.WithTx(tx)
		movementRepo := s.movements.WithTx(tx)

		if _, err := clinicRepo.FindByID(ctx, input.ClinicID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "clinic not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load clinic")
		}

		clinicStock, err := stockRepo.FindPair(ctx, input.ClinicID, input.MaterialID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "material not stocked at clinic")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load clinic stock")
		}

		if clinicStock.QuantityAvailable < input.Quantity {
			s.metrics.IncRejection("insufficient_clinic_stock")
			return pkgerrors.New(pkgerrors.CodeInsufficientClinic, "insufficient clinic stock").
				WithDetails(map[string]int{
					"available": clinicStock.QuantityAvailable,
					"requested": input.Quantity,
				})
		}

		// warehouse pool is untouched; the quantity left it at allocation time
		clinicStock.QuantityAvailable -= input.Quantity
		if err := stockRepo.Update(ctx, clinicStock); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit clinic stock")
		}

		movement := &models.StockMovement{
			ClinicID:          input.ClinicID,
			MaterialID:        input.MaterialID,
			PerformedByUserID: input.ActorUserID,
			Type:              enums.MovementTypeSaida,
			Quantity:          input.Quantity,
			Note:              noteOrDefault(input.Note, DefaultConsumptionNote),
		}
		if err := movementRepo.Create(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append movement")
		}

		result = &ConsumptionResult{Stock: clinicStock, RemainingQuantity: clinicStock.QuantityAvailable}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncConsumption()
	return result, nil
}

func (s *service) SetOpenFlag(ctx context.Context, input OpenFlagInput) (*models.ClinicStock, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("set_open_flag", time.Since(start)) }()

	var result *models.ClinicStock
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		stockRepo := s.repo.WithTx(tx)
		materialRepo := s.materials.WithTx(tx)
		clinicRepo := s.clinics.WithTx(tx)

		if _, err := clinicRepo.FindByID(ctx, input.ClinicID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "clinic not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load clinic")
		}

		material, err := materialRepo.FindByID(ctx, input.MaterialID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load material")
		}
		if !material.Category.Openable() {
			s.metrics.IncRejection("category_not_openable")
			return pkgerrors.New(pkgerrors.CodeStateConflict, "material category cannot be opened")
		}

		clinicStock, err := stockRepo.FindPair(ctx, input.ClinicID, input.MaterialID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "material not stocked at clinic")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load clinic stock")
		}

		// already in the desired state, no write
		if clinicStock.IsOpen == input.Open {
			result = clinicStock
			return nil
		}

		if input.Open {
			now := time.Now().UTC()
			clinicStock.IsOpen = true
			clinicStock.OpenedAt = &now
		} else {
			clinicStock.IsOpen = false
			clinicStock.OpenedAt = nil
		}
		if err := stockRepo.Update(ctx, clinicStock); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update open flag")
		}

		result = clinicStock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]ClinicStockView, error) {
	if clinicID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "clinic id is required")
	}
	views, err := s.repo.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clinic stock")
	}
	return views, nil
}

func noteOrDefault(note, fallback string) string {
	if trimmed := strings.TrimSpace(note); trimmed != "" {
		return trimmed
	}
	return fallback
}
