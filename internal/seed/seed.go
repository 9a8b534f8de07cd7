package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/hsalves/clinistock-backend/internal/clinics"
	"github.com/hsalves/clinistock-backend/internal/users"
	"github.com/hsalves/clinistock-backend/pkg/config"
	"github.com/hsalves/clinistock-backend/pkg/db"
	"github.com/hsalves/clinistock-backend/pkg/db/models"
	"github.com/hsalves/clinistock-backend/pkg/enums"
	"github.com/hsalves/clinistock-backend/pkg/logger"
	"github.com/hsalves/clinistock-backend/pkg/security"
)

// Run bootstraps an empty database: one master user and the configured
// default clinics. It only writes when the respective tables are empty, so
// running it on every startup is safe.
func Run(ctx context.Context, client *db.Client, cfg *config.Config, logg *logger.Logger) error {
	if client == nil {
		return fmt.Errorf("db client is required")
	}
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if !cfg.Seed.Enabled {
		return nil
	}

	userRepo := users.NewRepository(client.DB())
	clinicRepo := clinics.NewRepository(client.DB())

	if err := seedAdmin(ctx, userRepo, cfg, logg); err != nil {
		return err
	}
	return seedClinics(ctx, clinicRepo, cfg, logg)
}

func seedAdmin(ctx context.Context, repo users.Repository, cfg *config.Config, logg *logger.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := cfg.Seed.AdminPassword
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("seed admin password is required on an empty database")
	}
	hash, err := security.HashPassword(password, cfg.Password)
	if err != nil {
		return fmt.Errorf("hash seed admin password: %w", err)
	}

	admin := &models.User{
		Username:     cfg.Seed.AdminUsername,
		Email:        cfg.Seed.AdminEmail,
		PasswordHash: hash,
		Role:         enums.UserRoleMaster,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create seed admin: %w", err)
	}

	logg.Info(logg.WithField(ctx, "username", admin.Username), "seeded master user")
	return nil
}

func seedClinics(ctx context.Context, repo clinics.Repository, cfg *config.Config, logg *logger.Logger) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count clinics: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, name := range cfg.Seed.ClinicNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := repo.Create(ctx, &models.Clinic{Name: name}); err != nil {
			return fmt.Errorf("create seed clinic %q: %w", name, err)
		}
	}

	logg.Info(logg.WithField(ctx, "clinics", len(cfg.Seed.ClinicNames)), "seeded default clinics")
	return nil
}
