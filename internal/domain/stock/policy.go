// Package stock contiene la política de clasificación de inventario:
// umbral de bajo stock y meses de cobertura. Cálculo puro, sin I/O.
package stock

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/medifinder-mcp/internal/domain/entity"
)

// DefaultLowStockThreshold umbral por defecto: cantidades de 1 a 10 son low_stock.
const DefaultLowStockThreshold = 10

// Policy clasifica cantidades en estados de stock según un umbral configurable.
type Policy struct {
	LowStockThreshold int
}

// NewPolicy construye la política. Umbrales negativos caen al valor por defecto.
func NewPolicy(lowStockThreshold int) Policy {
	if lowStockThreshold < 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return Policy{LowStockThreshold: lowStockThreshold}
}

// Classify deriva el estado de una cantidad reportada:
// nil -> unknown; 0 -> out_of_stock; 1..umbral -> low_stock; resto -> in_stock.
func (p Policy) Classify(quantity *int) entity.StockStatus {
	switch {
	case quantity == nil:
		return entity.StatusUnknown
	case *quantity == 0:
		return entity.StatusOutOfStock
	case *quantity <= p.LowStockThreshold:
		return entity.StatusLowStock
	default:
		return entity.StatusInStock
	}
}

// NewEntry construye una entrada de stock clasificando la cantidad con la política.
func (p Policy) NewEntry(medicineID, facilityID int, quantity *int, updatedAt time.Time) (*entity.StockEntry, error) {
	return entity.NewStockEntry(medicineID, facilityID, quantity, p.Classify(quantity), updatedAt)
}

// MonthsOfSupply calcula los meses de cobertura: stock / consumo promedio
// mensual, redondeado a dos decimales. Devuelve nil si no hay consumo
// reportado o es cero (cobertura indefinida, no infinita ni cero).
func MonthsOfSupply(quantity int, avgMonthlyConsumption *float64) *decimal.Decimal {
	if avgMonthlyConsumption == nil || *avgMonthlyConsumption <= 0 {
		return nil
	}
	months := decimal.NewFromInt(int64(quantity)).
		Div(decimal.NewFromFloat(*avgMonthlyConsumption)).
		Round(2)
	return &months
}
