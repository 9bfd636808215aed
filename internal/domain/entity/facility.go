package entity

import (
	"fmt"

	"github.com/jhoicas/medifinder-mcp/internal/domain"
)

// Facility representa un establecimiento de salud (tabla medical_centers).
// RegionCode es el código de la agrupación administrativa tipo DIRESA.
type Facility struct {
	ID              int
	Code            string
	Name            string
	RegionCode      string
	RegionName      string
	Category        string // categoría del establecimiento (I-1, II-2, ...)
	InstitutionType string
	ReporterName    string
	Address         string
}

// NewFacility valida invariantes de construcción: id positivo, nombre y región no vacíos.
func NewFacility(id int, code, name, regionCode, regionName string) (*Facility, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id de establecimiento %d", domain.ErrValidation, id)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: nombre de establecimiento vacío", domain.ErrValidation)
	}
	if regionCode == "" {
		return nil, fmt.Errorf("%w: establecimiento %d sin código de región", domain.ErrValidation, id)
	}
	return &Facility{ID: id, Code: code, Name: name, RegionCode: regionCode, RegionName: regionName}, nil
}
