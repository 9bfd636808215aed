package query

import (
	"github.com/jhoicas/medifinder-mcp/internal/application/dto"
	"github.com/jhoicas/medifinder-mcp/internal/domain/entity"
	"github.com/jhoicas/medifinder-mcp/internal/domain/stock"
)

// Conversión entidad -> DTO. La fachada expone datos planos; el framing de
// protocolo es trabajo del colaborador.

func toMedicineDTO(m entity.Medicine) dto.MedicineDTO {
	return dto.MedicineDTO{
		ID:         m.ID,
		Code:       m.Code,
		Name:       m.Name,
		DosageForm: m.DosageForm,
		Strength:   m.Strength,
	}
}

func toFacilityDTO(f entity.Facility) dto.FacilityDTO {
	return dto.FacilityDTO{
		ID:              f.ID,
		Code:            f.Code,
		Name:            f.Name,
		RegionCode:      f.RegionCode,
		RegionName:      f.RegionName,
		Category:        f.Category,
		InstitutionType: f.InstitutionType,
		ReporterName:    f.ReporterName,
		Address:         f.Address,
	}
}

func toStockDTO(e *entity.StockEntry, avgMonthlyConsumption *float64) dto.StockEntryDTO {
	d := dto.StockEntryDTO{
		Quantity:  e.Quantity,
		Status:    string(e.Status),
		UpdatedAt: e.UpdatedAt,
	}
	if e.Quantity != nil {
		d.MonthsOfSupply = stock.MonthsOfSupply(*e.Quantity, avgMonthlyConsumption)
	}
	return d
}

func toCountsDTO(c entity.StatusCounts) dto.StatusCountsDTO {
	return dto.StatusCountsDTO{
		InStock:    c.InStock,
		LowStock:   c.LowStock,
		OutOfStock: c.OutOfStock,
		Unknown:    c.Unknown,
	}
}

func toRegionStatsDTO(r entity.RegionStatistics) dto.RegionStatsDTO {
	return dto.RegionStatsDTO{
		RegionCode:      r.RegionCode,
		RegionName:      r.RegionName,
		TotalMedicines:  r.TotalMedicines,
		TotalFacilities: r.TotalFacilities,
		TotalEntries:    r.TotalEntries,
		Counts:          toCountsDTO(r.Counts),
		Coverage:        r.Coverage,
	}
}
