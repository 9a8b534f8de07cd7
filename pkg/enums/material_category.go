package enums

import "fmt"

// MaterialCategory maps to the material_category_enum enum in Postgres.
type MaterialCategory string

const (
	MaterialCategoryUso         MaterialCategory = "materiais_de_uso"
	MaterialCategoryDescartavel MaterialCategory = "descartaveis"
	MaterialCategoryOutros      MaterialCategory = "outros"
)

var validMaterialCategories = []MaterialCategory{
	MaterialCategoryUso,
	MaterialCategoryDescartavel,
	MaterialCategoryOutros,
}

// IsValid reports whether the value matches the canonical category enum.
func (c MaterialCategory) IsValid() bool {
	for _, candidate := range validMaterialCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Openable reports whether stock of this category may carry an open flag.
// Only in-use materials and disposables are physically opened at a clinic.
func (c MaterialCategory) Openable() bool {
	return c == MaterialCategoryUso || c == MaterialCategoryDescartavel
}

// ParseMaterialCategory converts raw input into MaterialCategory.
func ParseMaterialCategory(value string) (MaterialCategory, error) {
	for _, candidate := range validMaterialCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid material category %q", value)
}
