package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/medifinder-mcp/internal/domain"
)

// StockStatus estado derivado de una entrada de inventario. Es función pura
// de la cantidad y el umbral configurado; nunca se almacena por separado.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
	StatusUnknown    StockStatus = "unknown"
)

// Valid reporta si el estado pertenece a la enumeración.
func (s StockStatus) Valid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock, StatusUnknown:
		return true
	}
	return false
}

// StockEntry relaciona un medicamento con un establecimiento.
// Quantity nil significa cantidad no reportada (estado unknown).
type StockEntry struct {
	MedicineID int
	FacilityID int
	Quantity   *int
	Status     StockStatus
	UpdatedAt  time.Time
}

// NewStockEntry valida invariantes de construcción: cantidad no negativa,
// estado dentro de la enumeración y coherente con la cantidad reportada.
func NewStockEntry(medicineID, facilityID int, quantity *int, status StockStatus, updatedAt time.Time) (*StockEntry, error) {
	if quantity != nil && *quantity < 0 {
		return nil, fmt.Errorf("%w: cantidad negativa %d (medicamento %d, establecimiento %d)",
			domain.ErrValidation, *quantity, medicineID, facilityID)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estado de stock desconocido %q", domain.ErrValidation, status)
	}
	if quantity == nil && status != StatusUnknown {
		return nil, fmt.Errorf("%w: estado %q sin cantidad reportada", domain.ErrValidation, status)
	}
	return &StockEntry{
		MedicineID: medicineID,
		FacilityID: facilityID,
		Quantity:   quantity,
		Status:     status,
		UpdatedAt:  updatedAt,
	}, nil
}
