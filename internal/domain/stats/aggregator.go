// Package stats reduce filas crudas de inventario a estadísticas regionales
// y globales. Todo el cálculo es puro e in-memory: las filas llegan ya
// resueltas por la capa de datos (joins explícitos, sin carga perezosa).
package stats

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/medifinder-mcp/internal/domain"
	"github.com/jhoicas/medifinder-mcp/internal/domain/entity"
	"github.com/jhoicas/medifinder-mcp/internal/domain/stock"
)

// Row fila cruda para agregación. Viene de regions LEFT JOIN medical_centers
// LEFT JOIN inventory, de modo que:
//   - FacilityID nil: región sin establecimientos.
//   - MedicineID nil: establecimiento sin entradas de inventario.
//   - Quantity nil con MedicineID presente: cantidad no reportada (unknown).
type Row struct {
	RegionCode string
	RegionName string
	FacilityID *int
	MedicineID *int
	Quantity   *int
}

// Aggregator agrupa y reduce filas según la política de clasificación.
type Aggregator struct {
	policy stock.Policy
}

// New construye el agregador.
func New(policy stock.Policy) Aggregator {
	return Aggregator{policy: policy}
}

// regionAccum estado intermedio por región durante la reducción.
type regionAccum struct {
	code        string
	name        string
	facilities  map[int]bool // id -> tiene al menos una entrada con cantidad > 0
	medicines   map[int]struct{}
	counts      entity.StatusCounts
	entries     int
	seenEntries map[[2]int]int // (facility, medicine) -> apariciones
}

// Regional reduce las filas a estadísticas por región, ordenadas por código de
// región ascendente. Devuelve además avisos de integridad no bloqueantes
// (entradas duplicadas por par establecimiento/medicamento).
//
// Cualquier fila malformada (región vacía, cantidad negativa) aborta la
// agregación completa: nunca se devuelven estadísticas parciales.
func (a Aggregator) Regional(rows []Row) ([]entity.RegionStatistics, []string, error) {
	accums := make(map[string]*regionAccum)

	for i, row := range rows {
		if err := validateRow(i, row); err != nil {
			return nil, nil, err
		}

		acc, ok := accums[row.RegionCode]
		if !ok {
			acc = &regionAccum{
				code:        row.RegionCode,
				name:        row.RegionName,
				facilities:  make(map[int]bool),
				medicines:   make(map[int]struct{}),
				seenEntries: make(map[[2]int]int),
			}
			accums[row.RegionCode] = acc
		}

		if row.FacilityID == nil {
			continue // región sin establecimientos: solo registra su existencia
		}
		if _, seen := acc.facilities[*row.FacilityID]; !seen {
			acc.facilities[*row.FacilityID] = false
		}
		if row.MedicineID == nil {
			continue // establecimiento sin entradas de inventario
		}

		acc.medicines[*row.MedicineID] = struct{}{}
		acc.entries++

		key := [2]int{*row.FacilityID, *row.MedicineID}
		acc.seenEntries[key]++

		switch a.policy.Classify(row.Quantity) {
		case entity.StatusInStock:
			acc.counts.InStock++
			acc.facilities[*row.FacilityID] = true
		case entity.StatusLowStock:
			acc.counts.LowStock++
			acc.facilities[*row.FacilityID] = true
		case entity.StatusOutOfStock:
			acc.counts.OutOfStock++
		case entity.StatusUnknown:
			acc.counts.Unknown++
		}
	}

	codes := make([]string, 0, len(accums))
	for code := range accums {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	results := make([]entity.RegionStatistics, 0, len(codes))
	var warnings []string
	for _, code := range codes {
		acc := accums[code]
		results = append(results, acc.statistics())
		warnings = append(warnings, acc.integrityWarnings()...)
	}
	return results, warnings, nil
}

// System reduce las filas al agregado global con desglose por región.
// El coverage global es el promedio ponderado por establecimientos: las
// regiones sin establecimientos quedan excluidas del promedio pero sus
// conteos (todos cero) sí aparecen en el desglose.
func (a Aggregator) System(rows []Row) (*entity.SystemStatistics, error) {
	regions, warnings, err := a.Regional(rows)
	if err != nil {
		return nil, err
	}

	sys := &entity.SystemStatistics{
		TotalRegions: len(regions),
		Regions:      regions,
		Warnings:     warnings,
	}

	medicines := make(map[int]struct{})
	facilities := make(map[int]bool) // id -> tiene al menos una entrada con cantidad > 0
	for _, row := range rows {
		if row.MedicineID != nil {
			medicines[*row.MedicineID] = struct{}{}
		}
		if row.FacilityID != nil {
			if _, seen := facilities[*row.FacilityID]; !seen {
				facilities[*row.FacilityID] = false
			}
			if st := a.policy.Classify(row.Quantity); st == entity.StatusInStock || st == entity.StatusLowStock {
				facilities[*row.FacilityID] = true
			}
		}
	}
	sys.TotalMedicines = len(medicines)
	sys.TotalFacilities = len(facilities)

	for _, r := range regions {
		sys.TotalEntries += r.TotalEntries
		sys.Counts.InStock += r.Counts.InStock
		sys.Counts.LowStock += r.Counts.LowStock
		sys.Counts.OutOfStock += r.Counts.OutOfStock
		sys.Counts.Unknown += r.Counts.Unknown
	}

	// Promedio ponderado por establecimientos: equivale a la fracción global
	// de establecimientos cubiertos; las regiones sin establecimientos no
	// aportan denominador.
	if sys.TotalFacilities > 0 {
		covered := 0
		for _, hasStock := range facilities {
			if hasStock {
				covered++
			}
		}
		cov := float64(covered) / float64(sys.TotalFacilities)
		sys.Coverage = &cov
	}

	available := sys.Counts.InStock + sys.Counts.LowStock
	if sys.TotalEntries > 0 {
		sys.AvailabilityRate = decimal.NewFromInt(int64(available)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(sys.TotalEntries))).
			Round(2)
	} else {
		sys.AvailabilityRate = decimal.Zero
	}
	return sys, nil
}

func validateRow(i int, row Row) error {
	if row.RegionCode == "" {
		return fmt.Errorf("%w: fila %d sin código de región", domain.ErrQuery, i)
	}
	if row.MedicineID != nil && row.FacilityID == nil {
		return fmt.Errorf("%w: fila %d con medicamento %d sin establecimiento",
			domain.ErrQuery, i, *row.MedicineID)
	}
	if row.Quantity != nil && *row.Quantity < 0 {
		return fmt.Errorf("%w: fila %d con cantidad negativa %d",
			domain.ErrQuery, i, *row.Quantity)
	}
	return nil
}

func (acc *regionAccum) statistics() entity.RegionStatistics {
	stats := entity.RegionStatistics{
		RegionCode:      acc.code,
		RegionName:      acc.name,
		TotalMedicines:  len(acc.medicines),
		TotalFacilities: len(acc.facilities),
		TotalEntries:    acc.entries,
		Counts:          acc.counts,
	}
	if len(acc.facilities) > 0 {
		covered := 0
		for _, hasStock := range acc.facilities {
			if hasStock {
				covered++
			}
		}
		cov := float64(covered) / float64(len(acc.facilities))
		stats.Coverage = &cov
	}
	return stats
}

// integrityWarnings detecta pares (establecimiento, medicamento) con más de
// una entrada de inventario: inconsistencia de datos que se reporta junto al
// resultado sin bloquearlo.
func (acc *regionAccum) integrityWarnings() []string {
	type dup struct {
		key   [2]int
		count int
	}
	var dups []dup
	for key, count := range acc.seenEntries {
		if count > 1 {
			dups = append(dups, dup{key, count})
		}
	}
	sort.Slice(dups, func(i, j int) bool {
		if dups[i].key[0] != dups[j].key[0] {
			return dups[i].key[0] < dups[j].key[0]
		}
		return dups[i].key[1] < dups[j].key[1]
	})

	warnings := make([]string, 0, len(dups))
	for _, d := range dups {
		warnings = append(warnings, fmt.Sprintf(
			"región %s: %d entradas de inventario para establecimiento %d y medicamento %d",
			acc.code, d.count, d.key[0], d.key[1]))
	}
	return warnings
}
