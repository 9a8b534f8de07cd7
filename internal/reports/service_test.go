package reports

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hsalves/clinistock-backend/internal/materials"
	"github.com/hsalves/clinistock-backend/pkg/db/models"
	"github.com/hsalves/clinistock-backend/pkg/enums"
	pkgerrors "github.com/hsalves/clinistock-backend/pkg/errors"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// summary tests assert global counts, so each test gets its own database
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS clinics (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS materials (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  warehouse_quantity INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS clinic_stocks (
  id TEXT PRIMARY KEY,
  clinic_id TEXT NOT NULL,
  material_id TEXT NOT NULL,
  quantity_available INTEGER NOT NULL DEFAULT 0,
  is_open INTEGER NOT NULL DEFAULT 0,
  opened_at DATETIME,
  updated_at DATETIME,
  UNIQUE (clinic_id, material_id)
);`,
	}
	for _, schema := range schemas {
		require.NoError(t, conn.Exec(schema).Error)
	}
	return conn
}

type reportsFixture struct {
	conn     *gorm.DB
	svc      Service
	clinicA  *models.Clinic
	clinicB  *models.Clinic
	material *models.Material
}

func setupReports(t *testing.T) *reportsFixture {
	t.Helper()

	conn := setupReportsTestDB(t)

	materialSvc, err := materials.NewService(materials.NewRepository(conn))
	require.NoError(t, err)
	svc, err := NewService(NewRepository(conn), materialSvc)
	require.NoError(t, err)

	clinicA := &models.Clinic{ID: uuid.New(), Name: "Clínica Norte"}
	clinicB := &models.Clinic{ID: uuid.New(), Name: "Clínica Sul"}
	require.NoError(t, conn.Create(clinicA).Error)
	require.NoError(t, conn.Create(clinicB).Error)

	material := &models.Material{
		ID:                uuid.New(),
		Name:              "Soro fisiológico",
		Category:          enums.MaterialCategoryOutros,
		WarehouseQuantity: 55,
	}
	require.NoError(t, conn.Create(material).Error)

	return &reportsFixture{conn: conn, svc: svc, clinicA: clinicA, clinicB: clinicB, material: material}
}

func (f *reportsFixture) stock(t *testing.T, clinic *models.Clinic, qty int, open bool) {
	t.Helper()
	require.NoError(t, f.conn.Create(&models.ClinicStock{
		ID:                uuid.New(),
		ClinicID:          clinic.ID,
		MaterialID:        f.material.ID,
		QuantityAvailable: qty,
		IsOpen:            open,
	}).Error)
}

func TestMaterialDistributionSortedAndZeroExcluded(t *testing.T) {
	f := setupReports(t)
	f.stock(t, f.clinicA, 5, false)
	f.stock(t, f.clinicB, 40, false)

	// a third clinic holding zero must not appear
	clinicC := &models.Clinic{ID: uuid.New(), Name: "Clínica Leste"}
	require.NoError(t, f.conn.Create(clinicC).Error)
	require.NoError(t, f.conn.Create(&models.ClinicStock{
		ID:         uuid.New(),
		ClinicID:   clinicC.ID,
		MaterialID: f.material.ID,
	}).Error)

	dist, err := f.svc.MaterialDistribution(context.Background(), f.material.ID)
	require.NoError(t, err)

	assert.Equal(t, 55, dist.WarehouseQuantity)
	assert.Equal(t, 45, dist.TotalDistributed)
	require.Len(t, dist.Clinics, 2)
	assert.Equal(t, f.clinicB.ID, dist.Clinics[0].ClinicID)
	assert.Equal(t, 40, dist.Clinics[0].Quantity)
	assert.Equal(t, f.clinicA.ID, dist.Clinics[1].ClinicID)
	assert.Equal(t, 5, dist.Clinics[1].Quantity)
}

func TestMaterialDistributionUnknownMaterial(t *testing.T) {
	f := setupReports(t)

	_, err := f.svc.MaterialDistribution(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDashboardSummaryReconcilesWithStocks(t *testing.T) {
	f := setupReports(t)
	f.stock(t, f.clinicA, 12, false)
	f.stock(t, f.clinicB, 8, true)

	summary, err := f.svc.DashboardSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalClinics)
	assert.Equal(t, 1, summary.TotalMaterials)
	assert.Equal(t, 55, summary.TotalWarehouseQuantity)
	assert.Equal(t, 20, summary.TotalDistributed)

	require.Len(t, summary.Clinics, 2)
	byName := map[string]ClinicSummary{}
	for _, clinic := range summary.Clinics {
		byName[clinic.ClinicName] = clinic
	}
	assert.Equal(t, 12, byName["Clínica Norte"].TotalQuantity)
	assert.Equal(t, 1, byName["Clínica Norte"].MaterialCount)
	assert.Equal(t, 8, byName["Clínica Sul"].TotalQuantity)
}

func TestMaterialsWithOpenStatus(t *testing.T) {
	f := setupReports(t)
	f.stock(t, f.clinicA, 3, true)
	f.stock(t, f.clinicB, 7, false)

	statuses, err := f.svc.MaterialsWithOpenStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 1)

	status := statuses[0]
	assert.Equal(t, f.material.ID, status.MaterialID)
	assert.Equal(t, 10, status.TotalDistributed)
	require.Len(t, status.Clinics, 2)

	open := 0
	for _, clinic := range status.Clinics {
		if clinic.IsOpen {
			open++
		}
	}
	assert.Equal(t, 1, open)
}
