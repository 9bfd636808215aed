// Package query contiene la fachada de consultas: el único punto de entrada
// que el colaborador de protocolo invoca. Orquesta constructor de consultas,
// capa de datos y agregación, y mapea toda falla a la taxonomía estable.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/medifinder-mcp/internal/application/dto"
	"github.com/jhoicas/medifinder-mcp/internal/domain"
	"github.com/jhoicas/medifinder-mcp/internal/domain/entity"
	"github.com/jhoicas/medifinder-mcp/internal/domain/repository"
	"github.com/jhoicas/medifinder-mcp/internal/domain/stats"
	"github.com/jhoicas/medifinder-mcp/internal/domain/stock"
	"github.com/jhoicas/medifinder-mcp/pkg/logger"
	"github.com/jhoicas/medifinder-mcp/pkg/normalize"
)

// Service fachada de consultas de inventario. Sin estado mutable compartido:
// cada request es independiente y puede ejecutar concurrente con otros; el
// único recurso compartido es el pool de conexiones detrás del repositorio.
type Service struct {
	repo            repository.InventoryReader
	agg             stats.Aggregator
	policy          stock.Policy
	defaultMinStock int
	log             *logger.Logger
}

// NewService construye la fachada. defaultMinStock aplica cuando el caller
// no indica stock mínimo en la búsqueda de ubicaciones.
func NewService(repo repository.InventoryReader, policy stock.Policy, defaultMinStock int, log *logger.Logger) *Service {
	if defaultMinStock <= 0 {
		defaultMinStock = 1
	}
	return &Service{
		repo:            repo,
		agg:             stats.New(policy),
		policy:          policy,
		defaultMinStock: defaultMinStock,
		log:             log,
	}
}

// MapError convierte cualquier error en el registro de falla uniforme.
// Nunca deja pasar errores de capas inferiores sin clasificar.
func (s *Service) MapError(err error) dto.ErrorResponse {
	return dto.ErrorResponse{Code: domain.Kind(err), Message: err.Error()}
}

// SearchMedicines busca medicamentos por fragmento de nombre y/o región.
// Resultados ordenados por nombre de medicamento y luego de establecimiento.
func (s *Service) SearchMedicines(ctx context.Context, req dto.SearchRequest) (*dto.SearchResponse, error) {
	log, done := s.begin("search_medicines")

	results, err := s.repo.SearchMedicines(ctx, repository.SearchFilter{
		NameFragment: req.Name,
		RegionCode:   req.Region,
	})
	if err != nil {
		return nil, done(log, err)
	}

	resp := &dto.SearchResponse{Results: make([]dto.SearchResultDTO, 0, len(results))}
	for _, r := range results {
		entry, err := s.policy.NewEntry(r.Medicine.ID, r.Facility.ID, r.Quantity, r.UpdatedAt)
		if err != nil {
			return nil, done(log, fmt.Errorf("%w: entrada de inventario inválida en el almacén: %v", domain.ErrQuery, err))
		}
		resp.Results = append(resp.Results, dto.SearchResultDTO{
			Medicine: toMedicineDTO(r.Medicine),
			Facility: toFacilityDTO(r.Facility),
			Stock:    toStockDTO(entry, nil),
		})
	}
	resp.Count = len(resp.Results)
	done(log, nil)
	return resp, nil
}

// GetMedicineLocations lista establecimientos con stock disponible para un
// medicamento identificado por id o por nombre. Id inexistente es NotFound,
// no un éxito vacío.
func (s *Service) GetMedicineLocations(ctx context.Context, req dto.LocationsRequest) (*dto.LocationsResponse, error) {
	log, done := s.begin("get_medicine_locations")

	minStock := req.MinStock
	if minStock <= 0 {
		minStock = s.defaultMinStock
	}

	medicine, err := s.resolveMedicine(ctx, req.MedicineID, req.MedicineName)
	if err != nil {
		return nil, done(log, err)
	}

	locations, err := s.repo.ListLocations(ctx, medicine.ID, minStock)
	if err != nil {
		return nil, done(log, err)
	}

	resp := &dto.LocationsResponse{
		Medicine:  toMedicineDTO(*medicine),
		MinStock:  minStock,
		Locations: make([]dto.LocationDTO, 0, len(locations)),
	}
	for _, loc := range locations {
		qty := loc.Quantity
		entry, err := s.policy.NewEntry(medicine.ID, loc.Facility.ID, &qty, loc.UpdatedAt)
		if err != nil {
			return nil, done(log, fmt.Errorf("%w: entrada de inventario inválida en el almacén: %v", domain.ErrQuery, err))
		}
		resp.Locations = append(resp.Locations, dto.LocationDTO{
			Facility: toFacilityDTO(loc.Facility),
			Stock:    toStockDTO(entry, loc.AvgMonthlyConsumption),
		})
	}
	resp.Count = len(resp.Locations)
	done(log, nil)
	return resp, nil
}

// GetMedicineStock devuelve el inventario de un medicamento agrupado por
// establecimiento. El medicamento es el sujeto de la búsqueda: sin
// coincidencias de nombre es NotFound; con coincidencias y cero entradas,
// éxito vacío.
func (s *Service) GetMedicineStock(ctx context.Context, medicineName string) (*dto.StockResponse, error) {
	log, done := s.begin("get_medicine_stock")

	medicines, err := s.repo.FindMedicinesByName(ctx, medicineName, 0)
	if err != nil {
		return nil, done(log, err)
	}
	if len(medicines) == 0 {
		return nil, done(log, fmt.Errorf("%w: medicamento %q", domain.ErrNotFound, medicineName))
	}

	ids := make([]int, 0, len(medicines))
	for _, m := range medicines {
		ids = append(ids, m.ID)
	}
	entries, err := s.repo.ListStockEntries(ctx, ids)
	if err != nil {
		return nil, done(log, err)
	}

	resp := &dto.StockResponse{Query: medicineName, Facilities: []dto.FacilityStockDTO{}}
	groupIdx := make(map[int]int)
	for _, e := range entries {
		entry, err := s.policy.NewEntry(e.Medicine.ID, e.Facility.ID, e.Quantity, e.UpdatedAt)
		if err != nil {
			return nil, done(log, fmt.Errorf("%w: entrada de inventario inválida en el almacén: %v", domain.ErrQuery, err))
		}
		item := dto.StockItemDTO{
			Medicine: toMedicineDTO(e.Medicine),
			Stock:    toStockDTO(entry, e.AvgMonthlyConsumption),
		}
		idx, ok := groupIdx[e.Facility.ID]
		if !ok {
			resp.Facilities = append(resp.Facilities, dto.FacilityStockDTO{
				Facility: toFacilityDTO(e.Facility),
			})
			idx = len(resp.Facilities) - 1
			groupIdx[e.Facility.ID] = idx
		}
		resp.Facilities[idx].Entries = append(resp.Facilities[idx].Entries, item)
		resp.Count++
	}
	done(log, nil)
	return resp, nil
}

// GetRegionalStatistics agrega estadísticas de una región o de todas
// (código vacío), ordenadas por código ascendente. Una región pedida
// explícitamente que no existe es NotFound.
func (s *Service) GetRegionalStatistics(ctx context.Context, regionCode string) (*dto.RegionalStatsResponse, error) {
	log, done := s.begin("get_regional_statistics")

	region := normalize.Filter(regionCode)
	rows, err := s.repo.ListStatsRows(ctx, region)
	if err != nil {
		return nil, done(log, err)
	}
	if region != "" && len(rows) == 0 {
		return nil, done(log, fmt.Errorf("%w: región %q", domain.ErrNotFound, region))
	}

	// La agregación no toca el almacén: si el caller canceló durante la
	// consulta, no se inicia.
	if err := ctx.Err(); err != nil {
		return nil, done(log, err)
	}
	regions, warnings, err := s.agg.Regional(rows)
	if err != nil {
		return nil, done(log, err)
	}

	resp := &dto.RegionalStatsResponse{
		Count:    len(regions),
		Regions:  make([]dto.RegionStatsDTO, 0, len(regions)),
		Warnings: warnings,
	}
	for _, r := range regions {
		resp.Regions = append(resp.Regions, toRegionStatsDTO(r))
	}
	done(log, nil)
	return resp, nil
}

// GetSystemStatus agrega el estado global del sistema con desglose regional.
func (s *Service) GetSystemStatus(ctx context.Context) (*dto.SystemStatusResponse, error) {
	log, done := s.begin("get_system_status")

	rows, err := s.repo.ListStatsRows(ctx, "")
	if err != nil {
		return nil, done(log, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, done(log, err)
	}
	sys, err := s.agg.System(rows)
	if err != nil {
		return nil, done(log, err)
	}

	resp := &dto.SystemStatusResponse{
		TotalMedicines:   sys.TotalMedicines,
		TotalFacilities:  sys.TotalFacilities,
		TotalRegions:     sys.TotalRegions,
		TotalEntries:     sys.TotalEntries,
		Counts:           toCountsDTO(sys.Counts),
		Coverage:         sys.Coverage,
		AvailabilityRate: sys.AvailabilityRate,
		Regions:          make([]dto.RegionStatsDTO, 0, len(sys.Regions)),
		Warnings:         sys.Warnings,
	}
	for _, r := range sys.Regions {
		resp.Regions = append(resp.Regions, toRegionStatsDTO(r))
	}
	done(log, nil)
	return resp, nil
}

// resolveMedicine resuelve el sujeto de una búsqueda de ubicaciones: por id
// si viene, si no por nombre (primera coincidencia en orden alfabético).
func (s *Service) resolveMedicine(ctx context.Context, id *int, name string) (*entity.Medicine, error) {
	switch {
	case id != nil:
		medicine, err := s.repo.GetMedicineByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if medicine == nil {
			return nil, fmt.Errorf("%w: medicamento con id %d", domain.ErrNotFound, *id)
		}
		return medicine, nil
	case name != "":
		medicines, err := s.repo.FindMedicinesByName(ctx, name, 1)
		if err != nil {
			return nil, err
		}
		if len(medicines) == 0 {
			return nil, fmt.Errorf("%w: medicamento %q", domain.ErrNotFound, name)
		}
		return &medicines[0], nil
	default:
		return nil, fmt.Errorf("%w: se requiere id o nombre de medicamento", domain.ErrValidation)
	}
}

// begin abre el ciclo de vida de un request: sublogger con request id y
// cierre que registra resultado y duración.
func (s *Service) begin(op string) (zerolog.Logger, func(zerolog.Logger, error) error) {
	log := s.log.With().
		Str("request_id", uuid.NewString()).
		Str("operation", op).
		Logger()
	log.Debug().Msg("request recibido")
	start := time.Now()

	return log, func(l zerolog.Logger, err error) error {
		if err != nil {
			l.Warn().
				Str("kind", domain.Kind(err)).
				Dur("elapsed", time.Since(start)).
				Err(err).
				Msg("request fallido")
			return err
		}
		l.Info().Dur("elapsed", time.Since(start)).Msg("request completado")
		return nil
	}
}
