package stats_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medifinder-mcp/internal/domain"
	"github.com/jhoicas/medifinder-mcp/internal/domain/stats"
	"github.com/jhoicas/medifinder-mcp/internal/domain/stock"
)

func intPtr(n int) *int { return &n }

func newAggregator() stats.Aggregator {
	return stats.New(stock.NewPolicy(stock.DefaultLowStockThreshold))
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario de referencia: Paracetamol en R1 con dos establecimientos,
// uno con stock (50) y otro desabastecido (0) -> cobertura 0.5.
// ──────────────────────────────────────────────────────────────────────────────

func paracetamolR1() []stats.Row {
	return []stats.Row{
		{RegionCode: "R1", RegionName: "Región Uno", FacilityID: intPtr(1), MedicineID: intPtr(100), Quantity: intPtr(50)},
		{RegionCode: "R1", RegionName: "Región Uno", FacilityID: intPtr(2), MedicineID: intPtr(100), Quantity: intPtr(0)},
	}
}

func TestRegional_CoberturaMitad(t *testing.T) {
	agg := newAggregator()

	regions, warnings, err := agg.Regional(paracetamolR1())
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Empty(t, warnings)

	r1 := regions[0]
	assert.Equal(t, "R1", r1.RegionCode)
	assert.Equal(t, 2, r1.TotalFacilities)
	assert.Equal(t, 1, r1.TotalMedicines)
	assert.Equal(t, 2, r1.TotalEntries)
	assert.Equal(t, 1, r1.Counts.InStock)
	assert.Equal(t, 1, r1.Counts.OutOfStock)
	assert.Equal(t, 0, r1.Counts.LowStock)
	assert.Equal(t, 0, r1.Counts.Unknown)

	require.NotNil(t, r1.Coverage, "la cobertura debe estar definida con establecimientos presentes")
	assert.InDelta(t, 0.5, *r1.Coverage, 1e-9)
}

func TestRegional_RegionSinEstablecimientos(t *testing.T) {
	agg := newAggregator()

	rows := []stats.Row{{RegionCode: "R2", RegionName: "Región Dos"}}
	regions, _, err := agg.Regional(rows)
	require.NoError(t, err)
	require.Len(t, regions, 1)

	r2 := regions[0]
	assert.Equal(t, 0, r2.TotalFacilities)
	assert.Equal(t, 0, r2.Counts.Total())
	assert.Nil(t, r2.Coverage, "región sin establecimientos: cobertura indefinida, no cero")
}

func TestRegional_EstablecimientoSinInventario(t *testing.T) {
	agg := newAggregator()

	// El establecimiento cuenta en el denominador aunque no reporte inventario
	rows := append(paracetamolR1(), stats.Row{
		RegionCode: "R1", RegionName: "Región Uno", FacilityID: intPtr(3),
	})
	regions, _, err := agg.Regional(rows)
	require.NoError(t, err)
	require.Len(t, regions, 1)

	assert.Equal(t, 3, regions[0].TotalFacilities)
	require.NotNil(t, regions[0].Coverage)
	assert.InDelta(t, 1.0/3.0, *regions[0].Coverage, 1e-9)
}

func TestRegional_CantidadNulaEsUnknown(t *testing.T) {
	agg := newAggregator()

	rows := []stats.Row{
		{RegionCode: "R1", FacilityID: intPtr(1), MedicineID: intPtr(100), Quantity: nil},
	}
	regions, _, err := agg.Regional(rows)
	require.NoError(t, err)
	assert.Equal(t, 1, regions[0].Counts.Unknown)
	require.NotNil(t, regions[0].Coverage)
	assert.Zero(t, *regions[0].Coverage, "unknown no cuenta como cubierto")
}

func TestRegional_LowStockCuentaComoCubierto(t *testing.T) {
	agg := newAggregator()

	rows := []stats.Row{
		{RegionCode: "R1", FacilityID: intPtr(1), MedicineID: intPtr(100), Quantity: intPtr(5)},
	}
	regions, _, err := agg.Regional(rows)
	require.NoError(t, err)
	assert.Equal(t, 1, regions[0].Counts.LowStock)
	require.NotNil(t, regions[0].Coverage)
	assert.InDelta(t, 1.0, *regions[0].Coverage, 1e-9)
}

func TestRegional_OrdenPorCodigoAscendente(t *testing.T) {
	agg := newAggregator()

	rows := []stats.Row{
		{RegionCode: "R3", FacilityID: intPtr(31), MedicineID: intPtr(1), Quantity: intPtr(1)},
		{RegionCode: "R1", FacilityID: intPtr(11), MedicineID: intPtr(1), Quantity: intPtr(1)},
		{RegionCode: "R2", FacilityID: intPtr(21), MedicineID: intPtr(1), Quantity: intPtr(1)},
	}
	regions, _, err := agg.Regional(rows)
	require.NoError(t, err)
	require.Len(t, regions, 3)

	codes := []string{regions[0].RegionCode, regions[1].RegionCode, regions[2].RegionCode}
	assert.Equal(t, []string{"R1", "R2", "R3"}, codes)
}

func TestRegional_FilasMalformadasAbortanTodo(t *testing.T) {
	agg := newAggregator()

	cases := []struct {
		name string
		row  stats.Row
	}{
		{"cantidad negativa", stats.Row{RegionCode: "R1", FacilityID: intPtr(1), MedicineID: intPtr(1), Quantity: intPtr(-1)}},
		{"sin código de región", stats.Row{FacilityID: intPtr(1), MedicineID: intPtr(1), Quantity: intPtr(1)}},
		{"medicamento sin establecimiento", stats.Row{RegionCode: "R1", MedicineID: intPtr(1), Quantity: intPtr(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows := append(paracetamolR1(), tc.row)
			regions, warnings, err := agg.Regional(rows)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrQuery)
			assert.Nil(t, regions, "nunca se devuelven estadísticas parciales")
			assert.Nil(t, warnings)
		})
	}
}

func TestRegional_EntradasDuplicadasGeneranAviso(t *testing.T) {
	agg := newAggregator()

	rows := append(paracetamolR1(), stats.Row{
		RegionCode: "R1", FacilityID: intPtr(1), MedicineID: intPtr(100), Quantity: intPtr(8),
	})
	regions, warnings, err := agg.Regional(rows)
	require.NoError(t, err, "la inconsistencia avisa, no bloquea")
	require.Len(t, regions, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "establecimiento 1")
	assert.Contains(t, warnings[0], "medicamento 100")
}

func TestRegional_Idempotente(t *testing.T) {
	agg := newAggregator()

	first, _, err := agg.Regional(paracetamolR1())
	require.NoError(t, err)
	second, _, err := agg.Regional(paracetamolR1())
	require.NoError(t, err)
	assert.Equal(t, first, second, "mismas filas deben producir el mismo resultado ordenado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregado global
// ──────────────────────────────────────────────────────────────────────────────

func TestSystem_ExcluyeRegionesSinEstablecimientosDelPromedio(t *testing.T) {
	agg := newAggregator()

	rows := append(paracetamolR1(), stats.Row{RegionCode: "R2", RegionName: "Región Dos"})
	sys, err := agg.System(rows)
	require.NoError(t, err)

	assert.Equal(t, 2, sys.TotalRegions)
	assert.Equal(t, 2, sys.TotalFacilities)
	assert.Equal(t, 1, sys.TotalMedicines)
	require.NotNil(t, sys.Coverage)
	assert.InDelta(t, 0.5, *sys.Coverage, 1e-9,
		"R2 sin establecimientos no participa del promedio ponderado")

	// R2 aparece en el desglose con conteos crudos en cero
	require.Len(t, sys.Regions, 2)
	assert.Equal(t, "R2", sys.Regions[1].RegionCode)
	assert.Nil(t, sys.Regions[1].Coverage)
	assert.Zero(t, sys.Regions[1].Counts.Total())
}

func TestSystem_TasaDeDisponibilidad(t *testing.T) {
	agg := newAggregator()

	// 1 entrada con stock de 2 totales -> 50%
	sys, err := agg.System(paracetamolR1())
	require.NoError(t, err)
	assert.True(t, sys.AvailabilityRate.Equal(decimal.NewFromInt(50)),
		"disponibilidad debe ser 50, fue %s", sys.AvailabilityRate)
}

func TestSystem_SinEntradas(t *testing.T) {
	agg := newAggregator()

	sys, err := agg.System([]stats.Row{{RegionCode: "R9"}})
	require.NoError(t, err)
	assert.True(t, sys.AvailabilityRate.IsZero())
	assert.Nil(t, sys.Coverage)
	assert.Equal(t, 0, sys.TotalEntries)
}

func TestSystem_VacioTotal(t *testing.T) {
	agg := newAggregator()

	sys, err := agg.System(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, sys.TotalRegions)
	assert.Nil(t, sys.Coverage)
	assert.True(t, sys.AvailabilityRate.IsZero())
}
