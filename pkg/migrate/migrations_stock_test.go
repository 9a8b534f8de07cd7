package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClinicStocksMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_clinic_stocks_table.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS clinic_stocks",
		"CHECK (quantity_available >= 0)",
		"FOREIGN KEY (clinic_id) REFERENCES clinics(id) ON DELETE CASCADE",
		"FOREIGN KEY (material_id) REFERENCES materials(id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_clinic_stocks_pair",
		"DROP TABLE IF EXISTS clinic_stocks",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestStockMovementsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_stock_movements_table.sql")

	checks := []string{
		"CREATE TYPE movement_type_enum AS ENUM ('entrada', 'saida')",
		"CREATE TABLE IF NOT EXISTS stock_movements",
		"CHECK (quantity > 0)",
		"FOREIGN KEY (clinic_id) REFERENCES clinics(id) ON DELETE CASCADE",
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_clinic_created",
		"DROP TABLE IF EXISTS stock_movements",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMaterialsMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_materials_table.sql")

	checks := []string{
		"CREATE TYPE material_category_enum AS ENUM ('materiais_de_uso', 'descartaveis', 'outros')",
		"CREATE TABLE IF NOT EXISTS materials",
		"CHECK (warehouse_quantity >= 0)",
		"CREATE INDEX IF NOT EXISTS idx_materials_category",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
