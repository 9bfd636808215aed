package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/medifinder-mcp/internal/domain"
	"github.com/jhoicas/medifinder-mcp/internal/domain/entity"
	"github.com/jhoicas/medifinder-mcp/internal/domain/repository"
	"github.com/jhoicas/medifinder-mcp/internal/domain/stats"
)

var _ repository.InventoryReader = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryReader sobre PostgreSQL.
// Cada consulta tiene su mapeo de filas explícito: una forma fija de
// resultado por QueryKind, sin inspección de columnas en runtime.
type InventoryRepo struct {
	builder *Builder
	exec    *Executor
}

// NewInventoryRepository construye el adaptador de lectura de inventario.
func NewInventoryRepository(builder *Builder, exec *Executor) *InventoryRepo {
	return &InventoryRepo{builder: builder, exec: exec}
}

// SearchMedicines busca por fragmento de nombre y/o región.
func (r *InventoryRepo) SearchMedicines(ctx context.Context, filter repository.SearchFilter) ([]repository.SearchResult, error) {
	spec, err := r.builder.MedicineSearch(filter.NameFragment, filter.RegionCode)
	if err != nil {
		return nil, err
	}

	var results []repository.SearchResult
	err = r.exec.Query(ctx, spec, func(rows pgx.Rows) error {
		results = nil
		for rows.Next() {
			var (
				med        rawMedicine
				fac        rawFacility
				quantity   *int
				reportDate *time.Time
			)
			if err := rows.Scan(
				&med.id, &med.code, &med.name, &med.dosageForm, &med.strength,
				&fac.id, &fac.code, &fac.name, &fac.regionCode, &fac.regionName,
				&fac.category, &fac.institutionType, &fac.reporterName, &fac.address,
				&quantity, &reportDate,
			); err != nil {
				return fmt.Errorf("%w: scan de búsqueda: %v", domain.ErrQuery, err)
			}
			medicine, err := med.entity()
			if err != nil {
				return err
			}
			facility, err := fac.entity()
			if err != nil {
				return err
			}
			results = append(results, repository.SearchResult{
				Medicine:  *medicine,
				Facility:  *facility,
				Quantity:  quantity,
				UpdatedAt: derefTime(reportDate),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetMedicineByID devuelve el medicamento o nil si no existe.
func (r *InventoryRepo) GetMedicineByID(ctx context.Context, id int) (*entity.Medicine, error) {
	spec, err := r.builder.MedicineByID(id)
	if err != nil {
		return nil, err
	}

	var medicine *entity.Medicine
	err = r.exec.Query(ctx, spec, func(rows pgx.Rows) error {
		medicine = nil
		for rows.Next() {
			var med rawMedicine
			if err := rows.Scan(&med.id, &med.code, &med.name, &med.dosageForm, &med.strength); err != nil {
				return fmt.Errorf("%w: scan de medicamento: %v", domain.ErrQuery, err)
			}
			m, err := med.entity()
			if err != nil {
				return err
			}
			medicine = m
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return medicine, nil
}

// FindMedicinesByName resuelve medicamentos por subcadena de nombre.
func (r *InventoryRepo) FindMedicinesByName(ctx context.Context, name string, limit int) ([]entity.Medicine, error) {
	spec, err := r.builder.MedicinesByName(name)
	if err != nil {
		return nil, err
	}

	var medicines []entity.Medicine
	err = r.exec.Query(ctx, spec, func(rows pgx.Rows) error {
		medicines = nil
		for rows.Next() {
			var med rawMedicine
			if err := rows.Scan(&med.id, &med.code, &med.name, &med.dosageForm, &med.strength); err != nil {
				return fmt.Errorf("%w: scan de medicamento: %v", domain.ErrQuery, err)
			}
			m, err := med.entity()
			if err != nil {
				return err
			}
			medicines = append(medicines, *m)
			if limit > 0 && len(medicines) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return medicines, nil
}

// ListLocations devuelve establecimientos con stock ≥ minStock.
func (r *InventoryRepo) ListLocations(ctx context.Context, medicineID, minStock int) ([]repository.LocationResult, error) {
	spec, err := r.builder.Locations(medicineID, minStock)
	if err != nil {
		return nil, err
	}

	var locations []repository.LocationResult
	err = r.exec.Query(ctx, spec, func(rows pgx.Rows) error {
		locations = nil
		for rows.Next() {
			var (
				fac        rawFacility
				quantity   int
				cpma       *float64
				reportDate *time.Time
			)
			if err := rows.Scan(
				&fac.id, &fac.code, &fac.name, &fac.regionCode, &fac.regionName,
				&fac.category, &fac.institutionType, &fac.reporterName, &fac.address,
				&quantity, &cpma, &reportDate,
			); err != nil {
				return fmt.Errorf("%w: scan de ubicaciones: %v", domain.ErrQuery, err)
			}
			facility, err := fac.entity()
			if err != nil {
				return err
			}
			locations = append(locations, repository.LocationResult{
				Facility:              *facility,
				Quantity:              quantity,
				AvgMonthlyConsumption: cpma,
				UpdatedAt:             derefTime(reportDate),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locations, nil
}

// ListStockEntries devuelve entradas de inventario de los medicamentos dados.
func (r *InventoryRepo) ListStockEntries(ctx context.Context, medicineIDs []int) ([]repository.StockResult, error) {
	spec, err := r.builder.StockEntries(medicineIDs)
	if err != nil {
		return nil, err
	}

	var entries []repository.StockResult
	err = r.exec.Query(ctx, spec, func(rows pgx.Rows) error {
		entries = nil
		for rows.Next() {
			var (
				med        rawMedicine
				fac        rawFacility
				quantity   *int
				cpma       *float64
				reportDate *time.Time
			)
			if err := rows.Scan(
				&med.id, &med.code, &med.name, &med.dosageForm, &med.strength,
				&fac.id, &fac.code, &fac.name, &fac.regionCode, &fac.regionName,
				&fac.category, &fac.institutionType, &fac.reporterName, &fac.address,
				&quantity, &cpma, &reportDate,
			); err != nil {
				return fmt.Errorf("%w: scan de stock: %v", domain.ErrQuery, err)
			}
			medicine, err := med.entity()
			if err != nil {
				return err
			}
			facility, err := fac.entity()
			if err != nil {
				return err
			}
			entries = append(entries, repository.StockResult{
				Medicine:              *medicine,
				Facility:              *facility,
				Quantity:              quantity,
				AvgMonthlyConsumption: cpma,
				UpdatedAt:             derefTime(reportDate),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListStatsRows devuelve filas crudas para agregación.
func (r *InventoryRepo) ListStatsRows(ctx context.Context, regionCode string) ([]stats.Row, error) {
	spec, err := r.builder.StatsRows(regionCode)
	if err != nil {
		return nil, err
	}

	var result []stats.Row
	err = r.exec.Query(ctx, spec, func(rows pgx.Rows) error {
		result = nil
		for rows.Next() {
			var (
				row        stats.Row
				regionName *string
			)
			if err := rows.Scan(&row.RegionCode, &regionName, &row.FacilityID, &row.MedicineID, &row.Quantity); err != nil {
				return fmt.Errorf("%w: scan de estadísticas: %v", domain.ErrQuery, err)
			}
			if regionName != nil {
				row.RegionName = *regionName
			}
			result = append(result, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ── Mapeo crudo -> entidad ───────────────────────────────────────────────────

// rawMedicine columnas crudas de products; los textos opcionales son nullable.
type rawMedicine struct {
	id         int
	code       *string
	name       string
	dosageForm *string
	strength   *string
}

func (m rawMedicine) entity() (*entity.Medicine, error) {
	med, err := entity.NewMedicine(m.id, derefString(m.code), m.name, derefString(m.dosageForm), derefString(m.strength))
	if err != nil {
		// Una fila que viola invariantes de entidad es un problema de datos
		// del almacén, no del caller.
		return nil, fmt.Errorf("%w: fila de medicamento inválida: %v", domain.ErrQuery, err)
	}
	return med, nil
}

// rawFacility columnas crudas de medical_centers + regions.
type rawFacility struct {
	id              int
	code            *string
	name            string
	regionCode      string
	regionName      *string
	category        *string
	institutionType *string
	reporterName    *string
	address         *string
}

func (f rawFacility) entity() (*entity.Facility, error) {
	fac, err := entity.NewFacility(f.id, derefString(f.code), f.name, f.regionCode, derefString(f.regionName))
	if err != nil {
		return nil, fmt.Errorf("%w: fila de establecimiento inválida: %v", domain.ErrQuery, err)
	}
	fac.Category = derefString(f.category)
	fac.InstitutionType = derefString(f.institutionType)
	fac.ReporterName = derefString(f.reporterName)
	fac.Address = derefString(f.address)
	return fac, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
