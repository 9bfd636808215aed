package repository

import (
	"context"
	"time"

	"github.com/jhoicas/medifinder-mcp/internal/domain/entity"
	"github.com/jhoicas/medifinder-mcp/internal/domain/stats"
)

// SearchFilter filtros ya normalizados para la búsqueda de medicamentos.
// Al menos uno de NameFragment/RegionCode debe venir no vacío; esa validación
// ocurre en el constructor de consultas, no aquí.
type SearchFilter struct {
	NameFragment string
	RegionCode   string
}

// SearchResult tupla cruda (medicamento, establecimiento, inventario) de la
// búsqueda. La cantidad puede ser nil si el establecimiento no reportó.
type SearchResult struct {
	Medicine  entity.Medicine
	Facility  entity.Facility
	Quantity  *int
	UpdatedAt time.Time
}

// LocationResult establecimiento con stock disponible de un medicamento.
type LocationResult struct {
	Facility              entity.Facility
	Quantity              int
	AvgMonthlyConsumption *float64
	UpdatedAt             time.Time
}

// StockResult entrada de inventario de un medicamento en un establecimiento,
// para el reporte de stock agrupado por establecimiento.
type StockResult struct {
	Medicine              entity.Medicine
	Facility              entity.Facility
	Quantity              *int
	AvgMonthlyConsumption *float64
	UpdatedAt             time.Time
}

// InventoryReader consultas de solo lectura sobre el inventario de
// medicamentos. Las implementaciones no modifican datos y clasifican sus
// fallas en la taxonomía de domain (ErrConnectivity / ErrQuery).
type InventoryReader interface {
	// SearchMedicines busca por fragmento de nombre y/o región. Resultados
	// ordenados por nombre de medicamento y luego nombre de establecimiento.
	SearchMedicines(ctx context.Context, filter SearchFilter) ([]SearchResult, error)

	// GetMedicineByID devuelve el medicamento o nil si no existe.
	GetMedicineByID(ctx context.Context, id int) (*entity.Medicine, error)

	// FindMedicinesByName resuelve medicamentos por subcadena de nombre,
	// ordenados por nombre.
	FindMedicinesByName(ctx context.Context, name string, limit int) ([]entity.Medicine, error)

	// ListLocations devuelve los establecimientos con stock ≥ minStock para
	// un medicamento, ordenados por stock descendente y nombre como desempate.
	ListLocations(ctx context.Context, medicineID, minStock int) ([]LocationResult, error)

	// ListStockEntries devuelve las entradas de inventario de los
	// medicamentos dados, ordenadas por establecimiento y medicamento.
	ListStockEntries(ctx context.Context, medicineIDs []int) ([]StockResult, error)

	// ListStatsRows devuelve las filas crudas para agregación de una región
	// (o de todas si regionCode es vacío), incluyendo regiones sin
	// establecimientos y establecimientos sin inventario.
	ListStatsRows(ctx context.Context, regionCode string) ([]stats.Row, error)
}
