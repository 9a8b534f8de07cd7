package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hsalves/clinistock-backend/internal/auth"
	"github.com/hsalves/clinistock-backend/internal/clinics"
	"github.com/hsalves/clinistock-backend/internal/materials"
	"github.com/hsalves/clinistock-backend/internal/movements"
	"github.com/hsalves/clinistock-backend/internal/reports"
	"github.com/hsalves/clinistock-backend/internal/stock"
	"github.com/hsalves/clinistock-backend/internal/users"
	pkgAuth "github.com/hsalves/clinistock-backend/pkg/auth"
	"github.com/hsalves/clinistock-backend/pkg/config"
	"github.com/hsalves/clinistock-backend/pkg/db/models"
	"github.com/hsalves/clinistock-backend/pkg/enums"
	"github.com/hsalves/clinistock-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) Create(ctx context.Context, input users.CreateUserInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) List(ctx context.Context) ([]users.UserDTO, error) {
	return []users.UserDTO{}, nil
}

func (stubUsersService) Get(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) Update(ctx context.Context, id uuid.UUID, input users.UpdateUserInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubClinicsService struct{}

func (stubClinicsService) Create(ctx context.Context, input clinics.CreateClinicInput) (*models.Clinic, error) {
	panic("unimplemented")
}

func (stubClinicsService) List(ctx context.Context) ([]models.Clinic, error) {
	return []models.Clinic{}, nil
}

func (stubClinicsService) Get(ctx context.Context, id uuid.UUID) (*models.Clinic, error) {
	panic("unimplemented")
}

func (stubClinicsService) Update(ctx context.Context, id uuid.UUID, input clinics.UpdateClinicInput) (*models.Clinic, error) {
	panic("unimplemented")
}

func (stubClinicsService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubMaterialsService struct{}

func (stubMaterialsService) Create(ctx context.Context, input materials.CreateMaterialInput) (*models.Material, error) {
	panic("unimplemented")
}

func (stubMaterialsService) List(ctx context.Context) ([]models.Material, error) {
	return []models.Material{}, nil
}

func (stubMaterialsService) ListByCategory(ctx context.Context, category string) ([]models.Material, error) {
	return []models.Material{}, nil
}

func (stubMaterialsService) Get(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	panic("unimplemented")
}

func (stubMaterialsService) Update(ctx context.Context, id uuid.UUID, input materials.UpdateMaterialInput) (*models.Material, error) {
	panic("unimplemented")
}

func (stubMaterialsService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubMaterialsService) AddStock(ctx context.Context, id uuid.UUID, delta int) (*models.Material, error) {
	panic("unimplemented")
}

type stubStockService struct{}

func (stubStockService) Allocate(ctx context.Context, input stock.AllocateInput) (*stock.AllocationResult, error) {
	return &stock.AllocationResult{}, nil
}

func (stubStockService) Consume(ctx context.Context, input stock.ConsumeInput) (*stock.ConsumptionResult, error) {
	return &stock.ConsumptionResult{}, nil
}

func (stubStockService) SetOpenFlag(ctx context.Context, input stock.OpenFlagInput) (*models.ClinicStock, error) {
	return &models.ClinicStock{}, nil
}

func (stubStockService) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]stock.ClinicStockView, error) {
	return []stock.ClinicStockView{}, nil
}

type stubMovementsService struct{}

func (stubMovementsService) RecentByClinic(ctx context.Context, clinicID uuid.UUID, limit int) ([]movements.MovementView, error) {
	return []movements.MovementView{}, nil
}

func (stubMovementsService) ClearByClinic(ctx context.Context, clinicID uuid.UUID) error {
	return nil
}

type stubReportsService struct{}

func (stubReportsService) DashboardSummary(ctx context.Context) (*reports.DashboardSummary, error) {
	return &reports.DashboardSummary{}, nil
}

func (stubReportsService) MaterialDistribution(ctx context.Context, materialID uuid.UUID) (*reports.MaterialDistribution, error) {
	return &reports.MaterialDistribution{}, nil
}

func (stubReportsService) MaterialsWithOpenStatus(ctx context.Context) ([]reports.MaterialOpenStatus, error) {
	return []reports.MaterialOpenStatus{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("error"), Output: io.Discard})
	return NewRouter(Dependencies{
		Config:    cfg,
		Logger:    logg,
		DB:        stubPinger{},
		Sessions:  stubSessionChecker{},
		Auth:      stubAuthService{},
		Users:     stubUsersService{},
		Clinics:   stubClinicsService{},
		Materials: stubMaterialsService{},
		Stock:     stubStockService{},
		Movements: stubMovementsService{},
		Reports:   stubReportsService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "enf.ana",
		Role:     role,
		JTI:      uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/materials", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestUsersGroupRequiresMasterRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	regular := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	regular.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, regular)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for regular user got %d", resp.Code)
	}

	master := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	master.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleMaster))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, master)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for master got %d", resp.Code)
	}
}

func TestMaterialMutationsRequireMasterRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/materials/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleUser))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for regular user delete got %d", resp.Code)
	}
}

func TestConsumeRequiresUserRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	asMaster := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/clinics/%s/consume", uuid.New()), nil)
	asMaster.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleMaster))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, asMaster)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for master consuming got %d", resp.Code)
	}
}

func TestReadEndpointsAllowBothRoles(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	for _, role := range []enums.UserRole{enums.UserRoleUser, enums.UserRoleMaster} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/clinics/", nil)
		req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, role))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", role, resp.Code)
		}
	}
}
