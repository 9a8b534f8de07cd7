package reports

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hsalves/clinistock-backend/internal/materials"
	"github.com/hsalves/clinistock-backend/pkg/db/models"
	pkgerrors "github.com/hsalves/clinistock-backend/pkg/errors"
)

type materialLister interface {
	List(ctx context.Context) ([]models.Material, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Material, error)
}

// Service produces the derived read-only aggregations for dashboards. The
// views always reconcile with clinic_stocks sums; they are never a source of
// truth.
type Service interface {
	DashboardSummary(ctx context.Context) (*DashboardSummary, error)
	MaterialDistribution(ctx context.Context, materialID uuid.UUID) (*MaterialDistribution, error)
	MaterialsWithOpenStatus(ctx context.Context) ([]MaterialOpenStatus, error)
}

type service struct {
	repo      Repository
	materials materialLister
}

// NewService wires a reporting service with the provided dependencies.
func NewService(repo Repository, materialSvc materials.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if materialSvc == nil {
		return nil, fmt.Errorf("materials service required")
	}
	return &service{repo: repo, materials: materialSvc}, nil
}

func (s *service) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	clinicCount, materialCount, warehouse, distributed, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate totals")
	}
	summaries, err := s.repo.ClinicSummaries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate clinic summaries")
	}

	return &DashboardSummary{
		TotalClinics:           clinicCount,
		TotalMaterials:         materialCount,
		TotalWarehouseQuantity: warehouse,
		TotalDistributed:       distributed,
		Clinics:                summaries,
	}, nil
}

func (s *service) MaterialDistribution(ctx context.Context, materialID uuid.UUID) (*MaterialDistribution, error) {
	material, err := s.materials.Get(ctx, materialID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.DistributionRows(ctx, materialID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate distribution")
	}

	total := 0
	for _, row := range rows {
		total += row.Quantity
	}

	return &MaterialDistribution{
		MaterialID:        material.ID,
		MaterialName:      material.Name,
		Category:          material.Category,
		WarehouseQuantity: material.WarehouseQuantity,
		TotalDistributed:  total,
		Clinics:           rows,
	}, nil
}

func (s *service) MaterialsWithOpenStatus(ctx context.Context) ([]MaterialOpenStatus, error) {
	catalog, err := s.materials.List(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MaterialOpenStatus, 0, len(catalog))
	for _, material := range catalog {
		rows, err := s.repo.OpenStatusRows(ctx, material.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate open status")
		}

		total := 0
		for _, row := range rows {
			total += row.Quantity
		}

		statuses = append(statuses, MaterialOpenStatus{
			MaterialID:        material.ID,
			MaterialName:      material.Name,
			Category:          material.Category,
			WarehouseQuantity: material.WarehouseQuantity,
			TotalDistributed:  total,
			Clinics:           rows,
		})
	}
	return statuses, nil
}
