package materials

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsalves/clinistock-backend/pkg/db/models"
	"github.com/hsalves/clinistock-backend/pkg/enums"
	pkgerrors "github.com/hsalves/clinistock-backend/pkg/errors"
)

type fakeRepository struct {
	createFn   func(ctx context.Context, material *models.Material) error
	findByIDFn func(ctx context.Context, id uuid.UUID) (*models.Material, error)
	updateFn   func(ctx context.Context, material *models.Material) error
	deleteFn   func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, material *models.Material) error {
	if f.createFn != nil {
		return f.createFn(ctx, material)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context) ([]models.Material, error) {
	return nil, nil
}

func (f *fakeRepository) ListByCategory(ctx context.Context, category enums.MaterialCategory) ([]models.Material, error) {
	return nil, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, material *models.Material) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, material)
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func TestService_Create(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	var created *models.Material
	repo.createFn = func(ctx context.Context, material *models.Material) error {
		created = material
		return nil
	}

	got, err := svc.Create(context.Background(), CreateMaterialInput{
		Name:            "Luvas de procedimento",
		Category:        "descartaveis",
		InitialQuantity: 500,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if created == nil {
		t.Fatal("expected material to be created")
	}
	if created.Category != enums.MaterialCategoryDescartavel || created.WarehouseQuantity != 500 {
		t.Fatalf("unexpected material data: %+v", created)
	}
	if got != created {
		t.Fatal("service should return created material")
	}
}

func TestService_CreateRejectsUnknownCategory(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	_, err = svc.Create(context.Background(), CreateMaterialInput{
		Name:     "Gaze",
		Category: "inexistente",
	})
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_ListByCategoryRejectsUnknownCategory(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	if _, err := svc.ListByCategory(context.Background(), "whatever"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestService_AddStock(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	id := uuid.New()
	repo.findByIDFn = func(ctx context.Context, got uuid.UUID) (*models.Material, error) {
		return &models.Material{ID: id, Name: "Seringa", Category: enums.MaterialCategoryDescartavel, WarehouseQuantity: 40}, nil
	}

	var saved *models.Material
	repo.updateFn = func(ctx context.Context, material *models.Material) error {
		saved = material
		return nil
	}

	got, err := svc.AddStock(context.Background(), id, 60)
	if err != nil {
		t.Fatalf("AddStock error: %v", err)
	}
	if saved == nil || saved.WarehouseQuantity != 100 {
		t.Fatalf("expected warehouse quantity 100, got %+v", saved)
	}
	if got.WarehouseQuantity != 100 {
		t.Fatalf("expected returned quantity 100, got %d", got.WarehouseQuantity)
	}
}

func TestService_AddStockRejectsNonPositiveDelta(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	looked := false
	repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.Material, error) {
		looked = true
		return nil, gorm.ErrRecordNotFound
	}

	for _, delta := range []int{0, -5} {
		_, err := svc.AddStock(context.Background(), uuid.New(), delta)
		if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for delta %d, got %v", delta, err)
		}
	}
	if looked {
		t.Fatal("invalid delta should be rejected before any lookup")
	}
}
