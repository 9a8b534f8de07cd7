package movements

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsalves/clinistock-backend/pkg/db/models"
	pkgerrors "github.com/hsalves/clinistock-backend/pkg/errors"
)

// DefaultRecentLimit bounds the "recent movements" views when the caller does
// not ask for a specific window.
const DefaultRecentLimit = 50

// MaxRecentLimit caps caller-provided windows.
const MaxRecentLimit = 500

type clinicFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error)
}

// Service defines read and administrative operations over the movement log.
type Service interface {
	RecentByClinic(ctx context.Context, clinicID uuid.UUID, limit int) ([]MovementView, error)
	ClearByClinic(ctx context.Context, clinicID uuid.UUID) error
}

type service struct {
	repo    Repository
	clinics clinicFinder
}

// NewService wires a movement log service with the provided dependencies.
func NewService(repo Repository, clinics clinicFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("movements repository required")
	}
	if clinics == nil {
		return nil, fmt.Errorf("clinic finder required")
	}
	return &service{repo: repo, clinics: clinics}, nil
}

func (s *service) RecentByClinic(ctx context.Context, clinicID uuid.UUID, limit int) ([]MovementView, error) {
	if err := s.requireClinic(ctx, clinicID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	views, err := s.repo.RecentByClinic(ctx, clinicID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent movements")
	}
	return views, nil
}

// ClearByClinic is a destructive log trim. Balances are never re-derived from
// movements, so clearing leaves every clinic_stocks row untouched.
func (s *service) ClearByClinic(ctx context.Context, clinicID uuid.UUID) error {
	if err := s.requireClinic(ctx, clinicID); err != nil {
		return err
	}
	if err := s.repo.DeleteByClinic(ctx, clinicID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear movements")
	}
	return nil
}

func (s *service) requireClinic(ctx context.Context, clinicID uuid.UUID) error {
	if clinicID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "clinic id is required")
	}
	if _, err := s.clinics.FindByID(ctx, clinicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "clinic not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load clinic")
	}
	return nil
}
