package entity

import "github.com/shopspring/decimal"

// StatusCounts conteo de entradas de inventario por estado derivado.
type StatusCounts struct {
	InStock    int
	LowStock   int
	OutOfStock int
	Unknown    int
}

// Total suma de todos los estados.
func (c StatusCounts) Total() int {
	return c.InStock + c.LowStock + c.OutOfStock + c.Unknown
}

// RegionStatistics agregado de inventario para una región DIRESA.
// Coverage = establecimientos con ≥1 entrada con cantidad > 0 / establecimientos totales.
// Es nil cuando la región no tiene establecimientos: la razón es indefinida,
// no cero.
type RegionStatistics struct {
	RegionCode      string
	RegionName      string
	TotalMedicines  int // medicamentos distintos con inventario en la región
	TotalFacilities int
	TotalEntries    int
	Counts          StatusCounts
	Coverage        *float64 // ∈ [0,1]; nil si TotalFacilities == 0
}

// SystemStatistics agregado global más el desglose por región,
// ordenado por código de región ascendente.
type SystemStatistics struct {
	TotalMedicines  int
	TotalFacilities int
	TotalRegions    int
	TotalEntries    int
	Counts          StatusCounts
	// Coverage ponderado por establecimientos; las regiones sin
	// establecimientos no participan. Nil si ninguna región tiene.
	Coverage *float64
	// AvailabilityRate = entradas con cantidad > 0 / entradas totales, en
	// porcentaje con dos decimales. Cero cuando no hay entradas.
	AvailabilityRate decimal.Decimal
	Regions          []RegionStatistics
	// Warnings avisos de integridad de datos detectados durante la
	// agregación. No bloquean el resultado.
	Warnings []string
}
