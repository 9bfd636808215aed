package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MedicineDTO datos planos de un medicamento.
type MedicineDTO struct {
	ID         int    `json:"id"`
	Code       string `json:"code,omitempty"`
	Name       string `json:"name"`
	DosageForm string `json:"dosage_form,omitempty"`
	Strength   string `json:"strength,omitempty"`
}

// FacilityDTO datos planos de un establecimiento de salud.
type FacilityDTO struct {
	ID              int    `json:"id"`
	Code            string `json:"code,omitempty"`
	Name            string `json:"name"`
	RegionCode      string `json:"region_code"`
	RegionName      string `json:"region_name,omitempty"`
	Category        string `json:"category,omitempty"`
	InstitutionType string `json:"institution_type,omitempty"`
	ReporterName    string `json:"reporter_name,omitempty"`
	Address         string `json:"address,omitempty"`
}

// StockEntryDTO entrada de inventario con su estado derivado.
// MonthsOfSupply solo viene cuando hay consumo promedio reportado.
type StockEntryDTO struct {
	Quantity       *int             `json:"quantity"`
	Status         string           `json:"status"`
	MonthsOfSupply *decimal.Decimal `json:"months_of_supply,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// SearchRequest filtros de búsqueda de medicamentos. Al menos uno requerido.
type SearchRequest struct {
	Name   string `json:"name,omitempty"`
	Region string `json:"region,omitempty"`
}

// SearchResultDTO tupla (medicamento, establecimiento, inventario).
type SearchResultDTO struct {
	Medicine MedicineDTO   `json:"medicine"`
	Facility FacilityDTO   `json:"facility"`
	Stock    StockEntryDTO `json:"stock"`
}

// SearchResponse resultados ordenados por nombre de medicamento y de establecimiento.
type SearchResponse struct {
	Count   int               `json:"count"`
	Results []SearchResultDTO `json:"results"`
}

// LocationsRequest búsqueda de ubicaciones con stock para un medicamento,
// por id o por nombre (exactamente uno).
type LocationsRequest struct {
	MedicineID   *int   `json:"medicine_id,omitempty"`
	MedicineName string `json:"medicine_name,omitempty"`
	MinStock     int    `json:"min_stock,omitempty"`
}

// LocationDTO establecimiento con stock disponible.
type LocationDTO struct {
	Facility FacilityDTO   `json:"facility"`
	Stock    StockEntryDTO `json:"stock"`
}

// LocationsResponse ubicaciones con stock, ordenadas por stock descendente.
type LocationsResponse struct {
	Medicine  MedicineDTO   `json:"medicine"`
	MinStock  int           `json:"min_stock"`
	Count     int           `json:"count"`
	Locations []LocationDTO `json:"locations"`
}

// FacilityStockDTO entradas de inventario de un establecimiento.
type FacilityStockDTO struct {
	Facility FacilityDTO    `json:"facility"`
	Entries  []StockItemDTO `json:"entries"`
}

// StockItemDTO entrada de inventario con el medicamento que la origina.
type StockItemDTO struct {
	Medicine MedicineDTO   `json:"medicine"`
	Stock    StockEntryDTO `json:"stock"`
}

// StockResponse stock de un medicamento agrupado por establecimiento,
// establecimientos ordenados por nombre.
type StockResponse struct {
	Query      string             `json:"query"`
	Count      int                `json:"count"`
	Facilities []FacilityStockDTO `json:"facilities"`
}

// StatusCountsDTO conteos por estado derivado.
type StatusCountsDTO struct {
	InStock    int `json:"in_stock"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
	Unknown    int `json:"unknown"`
}

// RegionStatsDTO estadísticas de una región. Coverage nil significa razón
// indefinida (región sin establecimientos), no cero.
type RegionStatsDTO struct {
	RegionCode      string          `json:"region_code"`
	RegionName      string          `json:"region_name,omitempty"`
	TotalMedicines  int             `json:"total_medicines"`
	TotalFacilities int             `json:"total_facilities"`
	TotalEntries    int             `json:"total_entries"`
	Counts          StatusCountsDTO `json:"counts"`
	Coverage        *float64        `json:"coverage"`
}

// RegionalStatsResponse estadísticas regionales, código ascendente.
type RegionalStatsResponse struct {
	Count    int              `json:"count"`
	Regions  []RegionStatsDTO `json:"regions"`
	Warnings []string         `json:"warnings,omitempty"`
}

// SystemStatusResponse agregado global con desglose por región.
type SystemStatusResponse struct {
	TotalMedicines   int              `json:"total_medicines"`
	TotalFacilities  int              `json:"total_facilities"`
	TotalRegions     int              `json:"total_regions"`
	TotalEntries     int              `json:"total_entries"`
	Counts           StatusCountsDTO  `json:"counts"`
	Coverage         *float64         `json:"coverage"`
	AvailabilityRate decimal.Decimal  `json:"availability_rate"`
	Regions          []RegionStatsDTO `json:"regions"`
	Warnings         []string         `json:"warnings,omitempty"`
}
