package entity

import (
	"fmt"

	"github.com/jhoicas/medifinder-mcp/internal/domain"
)

// Medicine representa un medicamento del catálogo (tabla products).
// Solo lectura: la carga del catálogo ocurre fuera de este sistema.
type Medicine struct {
	ID         int
	Code       string // código de clasificación, opcional
	Name       string
	DosageForm string // forma farmacéutica (tableta, jarabe, ...)
	Strength   string // concentración (500 mg, ...)
}

// NewMedicine valida invariantes de construcción: id positivo y nombre no vacío.
func NewMedicine(id int, code, name, dosageForm, strength string) (*Medicine, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id de medicamento %d", domain.ErrValidation, id)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: nombre de medicamento vacío", domain.ErrValidation)
	}
	return &Medicine{ID: id, Code: code, Name: name, DosageForm: dosageForm, Strength: strength}, nil
}
