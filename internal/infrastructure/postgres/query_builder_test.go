package postgres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medifinder-mcp/internal/domain"
	"github.com/jhoicas/medifinder-mcp/internal/infrastructure/postgres"
)

func newBuilder() *postgres.Builder {
	return postgres.NewBuilder(50)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariante central: ningún valor del usuario se concatena al SQL; todo
// viaja como parámetro enlazado.
// ──────────────────────────────────────────────────────────────────────────────

func TestMedicineSearch_InyeccionQuedaLiteral(t *testing.T) {
	b := newBuilder()

	spec, err := b.MedicineSearch("'; DROP TABLE products;--", "")
	require.NoError(t, err)

	assert.NotContains(t, spec.SQL, "DROP TABLE", "el texto del usuario no debe aparecer en el SQL")
	assert.NotContains(t, spec.SQL, "drop table")
	assert.Contains(t, spec.SQL, "$1", "debe usar placeholders posicionales")
	require.Len(t, spec.Args, 1)
	assert.Equal(t, "%'; drop table products;--%", spec.Args[0],
		"el valor va normalizado y enlazado como patrón literal")
}

func TestMedicineSearch_ComodinesEscapados(t *testing.T) {
	b := newBuilder()

	spec, err := b.MedicineSearch("50%", "")
	require.NoError(t, err)
	require.Len(t, spec.Args, 1)
	assert.Equal(t, `%50\%%`, spec.Args[0])
}

func TestMedicineSearch_SinFiltrosEsInvalido(t *testing.T) {
	b := newBuilder()

	cases := []struct {
		name, fragment, region string
	}{
		{"ambos vacíos", "", ""},
		{"solo espacios", "   ", "  "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.MedicineSearch(tc.fragment, tc.region)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestMedicineSearch_NormalizaFiltros(t *testing.T) {
	b := newBuilder()

	spec, err := b.MedicineSearch("  ParaCETAMOL ", " LIMA ")
	require.NoError(t, err)
	require.Len(t, spec.Args, 2)
	assert.Equal(t, "%paracetamol%", spec.Args[0])
	assert.Equal(t, "lima", spec.Args[1])
}

func TestMedicineSearch_OrdenEstable(t *testing.T) {
	b := newBuilder()

	spec, err := b.MedicineSearch("amoxicilina", "")
	require.NoError(t, err)
	assert.Contains(t, spec.SQL, "ORDER BY", "el orden lo fija el SQL, no el cliente")
	assert.Contains(t, spec.SQL, "lower(")
	assert.Contains(t, spec.SQL, "LIMIT")
	assert.Equal(t, postgres.KindMedicineSearch, spec.Kind)
}

func TestMedicineSearch_SoloRegion(t *testing.T) {
	b := newBuilder()

	spec, err := b.MedicineSearch("", "R1")
	require.NoError(t, err)
	require.Len(t, spec.Args, 1)
	assert.Equal(t, "r1", spec.Args[0])
}

func TestMedicineByID(t *testing.T) {
	b := newBuilder()

	_, err := b.MedicineByID(0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = b.MedicineByID(-3)
	assert.ErrorIs(t, err, domain.ErrValidation)

	spec, err := b.MedicineByID(42)
	require.NoError(t, err)
	assert.Equal(t, postgres.KindMedicineByID, spec.Kind)
	require.Len(t, spec.Args, 1)
	assert.EqualValues(t, 42, spec.Args[0])
}

func TestMedicinesByName_NombreVacioEsInvalido(t *testing.T) {
	b := newBuilder()

	_, err := b.MedicinesByName("   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLocations(t *testing.T) {
	b := newBuilder()

	_, err := b.Locations(0, 1)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = b.Locations(7, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	spec, err := b.Locations(7, 1)
	require.NoError(t, err)
	assert.Equal(t, postgres.KindLocations, spec.Kind)
	assert.Contains(t, spec.SQL, "DESC", "ubicaciones ordenadas por stock descendente")
	assert.Len(t, spec.Args, 2)
}

func TestStockEntries(t *testing.T) {
	b := newBuilder()

	_, err := b.StockEntries(nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = b.StockEntries([]int{3, 0})
	assert.ErrorIs(t, err, domain.ErrValidation)

	spec, err := b.StockEntries([]int{3, 9})
	require.NoError(t, err)
	assert.Equal(t, postgres.KindStockEntries, spec.Kind)
	assert.Len(t, spec.Args, 2)
	assert.Contains(t, spec.SQL, "IN")
}

func TestStatsRows(t *testing.T) {
	b := newBuilder()

	// Sin región: todas, sin parámetros y con LEFT JOIN para que aparezcan
	// regiones sin establecimientos
	spec, err := b.StatsRows("")
	require.NoError(t, err)
	assert.Equal(t, postgres.KindStatsRows, spec.Kind)
	assert.Empty(t, spec.Args)
	assert.Contains(t, spec.SQL, "LEFT")

	// Con región: un único parámetro normalizado
	spec, err = b.StatsRows(" Lima ")
	require.NoError(t, err)
	require.Len(t, spec.Args, 1)
	assert.Equal(t, "lima", spec.Args[0])
}

func TestSystemStatsRows_SinParametros(t *testing.T) {
	b := newBuilder()

	spec, err := b.SystemStatsRows()
	require.NoError(t, err)
	assert.Empty(t, spec.Args)
}
