package postgres

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/jhoicas/medifinder-mcp/internal/domain"
	"github.com/jhoicas/medifinder-mcp/pkg/normalize"
)

// QueryKind identifica el tipo de consulta para el mapeo de filas: cada kind
// tiene exactamente una forma de resultado, nunca se infiere en runtime.
type QueryKind string

const (
	KindMedicineSearch  QueryKind = "medicine_search"
	KindMedicineByID    QueryKind = "medicine_by_id"
	KindMedicinesByName QueryKind = "medicines_by_name"
	KindLocations       QueryKind = "locations"
	KindStockEntries    QueryKind = "stock_entries"
	KindStatsRows       QueryKind = "stats_rows"
)

// QuerySpec representación intermedia y parametrizada de una consulta.
// SQL solo contiene texto generado por el builder; todo valor del usuario
// viaja en Args como parámetro enlazado.
type QuerySpec struct {
	Kind QueryKind
	SQL  string
	Args []any
}

// Builder construye QuerySpecs parametrizados a partir de filtros tipados.
// Normaliza los valores (trim + case folding) antes de enlazarlos y valida
// la entrada, fallando con ErrValidation ante filtros malformados.
type Builder struct {
	dialect    goqu.DialectWrapper
	maxResults int
}

// NewBuilder construye el builder. maxResults acota las filas de las
// consultas de búsqueda (no aplica a las de agregación).
func NewBuilder(maxResults int) *Builder {
	if maxResults <= 0 {
		maxResults = 50
	}
	return &Builder{
		dialect:    goqu.Dialect("postgres"),
		maxResults: maxResults,
	}
}

var medicineCols = []any{
	goqu.I("p.product_id"), goqu.I("p.code"), goqu.I("p.name"),
	goqu.I("p.dosage_form"), goqu.I("p.strength"),
}

var facilityCols = []any{
	goqu.I("c.center_id"), goqu.I("c.code"), goqu.I("c.name"),
	goqu.I("r.code").As("region_code"), goqu.I("r.name").As("region_name"),
	goqu.I("c.category"), goqu.I("c.institution_type"),
	goqu.I("c.reporter_name"), goqu.I("c.address"),
}

// MedicineSearch busca medicamentos por fragmento de nombre y/o región.
// Al menos un filtro debe venir no vacío tras la normalización.
func (b *Builder) MedicineSearch(nameFragment, regionCode string) (*QuerySpec, error) {
	name := normalize.Filter(nameFragment)
	region := normalize.Filter(regionCode)
	if name == "" && region == "" {
		return nil, fmt.Errorf("%w: la búsqueda requiere fragmento de nombre o código de región", domain.ErrValidation)
	}

	cols := append(append([]any{}, medicineCols...), facilityCols...)
	cols = append(cols, goqu.I("i.current_stock"), goqu.I("i.report_date"))

	ds := b.dialect.From(goqu.T("products").As("p")).
		InnerJoin(goqu.T("inventory").As("i"),
			goqu.On(goqu.I("i.product_id").Eq(goqu.I("p.product_id")))).
		InnerJoin(goqu.T("medical_centers").As("c"),
			goqu.On(goqu.I("c.center_id").Eq(goqu.I("i.center_id")))).
		InnerJoin(goqu.T("regions").As("r"),
			goqu.On(goqu.I("r.region_id").Eq(goqu.I("c.region_id")))).
		Select(cols...)

	if name != "" {
		ds = ds.Where(goqu.I("p.name").ILike(normalize.LikePattern(name)))
	}
	if region != "" {
		ds = ds.Where(goqu.Func("lower", goqu.I("r.code")).Eq(region))
	}

	ds = ds.Order(
		goqu.Func("lower", goqu.I("p.name")).Asc(),
		goqu.Func("lower", goqu.I("c.name")).Asc(),
	).Limit(uint(b.maxResults))

	return b.spec(KindMedicineSearch, ds)
}

// MedicineByID consulta un medicamento por id. Un id no positivo es malformado;
// que no exista se resuelve en ejecución, no aquí.
func (b *Builder) MedicineByID(id int) (*QuerySpec, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id de medicamento %d", domain.ErrValidation, id)
	}
	ds := b.dialect.From(goqu.T("products").As("p")).
		Select(medicineCols...).
		Where(goqu.I("p.product_id").Eq(id))
	return b.spec(KindMedicineByID, ds)
}

// MedicinesByName resuelve medicamentos por subcadena de nombre, sin
// distinguir mayúsculas. Nombre vacío es inválido.
func (b *Builder) MedicinesByName(name string) (*QuerySpec, error) {
	n := normalize.Filter(name)
	if n == "" {
		return nil, fmt.Errorf("%w: nombre de medicamento vacío", domain.ErrValidation)
	}
	ds := b.dialect.From(goqu.T("products").As("p")).
		Select(medicineCols...).
		Where(goqu.I("p.name").ILike(normalize.LikePattern(n))).
		Order(goqu.Func("lower", goqu.I("p.name")).Asc()).
		Limit(uint(b.maxResults))
	return b.spec(KindMedicinesByName, ds)
}

// Locations lista establecimientos con stock ≥ minStock para un medicamento,
// ordenados por stock descendente y nombre de establecimiento como desempate.
func (b *Builder) Locations(medicineID, minStock int) (*QuerySpec, error) {
	if medicineID <= 0 {
		return nil, fmt.Errorf("%w: id de medicamento %d", domain.ErrValidation, medicineID)
	}
	if minStock < 0 {
		return nil, fmt.Errorf("%w: stock mínimo negativo %d", domain.ErrValidation, minStock)
	}

	cols := append(append([]any{}, facilityCols...),
		goqu.I("i.current_stock"), goqu.I("i.avg_monthly_consumption"), goqu.I("i.report_date"))

	ds := b.dialect.From(goqu.T("inventory").As("i")).
		InnerJoin(goqu.T("medical_centers").As("c"),
			goqu.On(goqu.I("c.center_id").Eq(goqu.I("i.center_id")))).
		InnerJoin(goqu.T("regions").As("r"),
			goqu.On(goqu.I("r.region_id").Eq(goqu.I("c.region_id")))).
		Select(cols...).
		Where(
			goqu.I("i.product_id").Eq(medicineID),
			goqu.I("i.current_stock").Gte(minStock),
		).
		Order(
			goqu.I("i.current_stock").Desc(),
			goqu.Func("lower", goqu.I("c.name")).Asc(),
		)
	return b.spec(KindLocations, ds)
}

// StockEntries lista las entradas de inventario de los medicamentos dados,
// agrupables por establecimiento (orden: establecimiento, medicamento).
func (b *Builder) StockEntries(medicineIDs []int) (*QuerySpec, error) {
	if len(medicineIDs) == 0 {
		return nil, fmt.Errorf("%w: lista de medicamentos vacía", domain.ErrValidation)
	}
	for _, id := range medicineIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: id de medicamento %d", domain.ErrValidation, id)
		}
	}

	cols := append(append([]any{}, medicineCols...), facilityCols...)
	cols = append(cols, goqu.I("i.current_stock"), goqu.I("i.avg_monthly_consumption"), goqu.I("i.report_date"))

	ds := b.dialect.From(goqu.T("inventory").As("i")).
		InnerJoin(goqu.T("products").As("p"),
			goqu.On(goqu.I("p.product_id").Eq(goqu.I("i.product_id")))).
		InnerJoin(goqu.T("medical_centers").As("c"),
			goqu.On(goqu.I("c.center_id").Eq(goqu.I("i.center_id")))).
		InnerJoin(goqu.T("regions").As("r"),
			goqu.On(goqu.I("r.region_id").Eq(goqu.I("c.region_id")))).
		Select(cols...).
		Where(goqu.I("i.product_id").In(medicineIDs)).
		Order(
			goqu.Func("lower", goqu.I("c.name")).Asc(),
			goqu.Func("lower", goqu.I("p.name")).Asc(),
		)
	return b.spec(KindStockEntries, ds)
}

// StatsRows devuelve las filas crudas para agregación. LEFT JOIN desde
// regions para que aparezcan regiones sin establecimientos y establecimientos
// sin inventario; regionCode vacío significa todas las regiones.
func (b *Builder) StatsRows(regionCode string) (*QuerySpec, error) {
	ds := b.dialect.From(goqu.T("regions").As("r")).
		LeftJoin(goqu.T("medical_centers").As("c"),
			goqu.On(goqu.I("c.region_id").Eq(goqu.I("r.region_id")))).
		LeftJoin(goqu.T("inventory").As("i"),
			goqu.On(goqu.I("i.center_id").Eq(goqu.I("c.center_id")))).
		Select(
			goqu.I("r.code").As("region_code"),
			goqu.I("r.name").As("region_name"),
			goqu.I("c.center_id"),
			goqu.I("i.product_id"),
			goqu.I("i.current_stock"),
		).
		Order(goqu.I("r.code").Asc(), goqu.I("c.center_id").Asc())

	if region := normalize.Filter(regionCode); region != "" {
		ds = ds.Where(goqu.Func("lower", goqu.I("r.code")).Eq(region))
	}
	return b.spec(KindStatsRows, ds)
}

// SystemStatsRows filas crudas de todas las regiones para el estado global.
func (b *Builder) SystemStatsRows() (*QuerySpec, error) {
	return b.StatsRows("")
}

func (b *Builder) spec(kind QueryKind, ds *goqu.SelectDataset) (*QuerySpec, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%w: generar SQL de %s: %v", domain.ErrQuery, kind, err)
	}
	return &QuerySpec{Kind: kind, SQL: sql, Args: args}, nil
}
