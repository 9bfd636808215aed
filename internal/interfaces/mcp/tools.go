package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jhoicas/medifinder-mcp/internal/application/dto"
	"github.com/jhoicas/medifinder-mcp/internal/application/query"
)

// InventoryTools adapta las operaciones de la fachada a herramientas MCP.
// Capa delgada: valida nada por sí misma y no contiene lógica de dominio.
type InventoryTools struct {
	Service *query.Service
}

// ── Tipos de entrada ─────────────────────────────────────────────────────────

type SearchMedicinesInput struct {
	Name   string `json:"name,omitempty" jsonschema:"Fragmento del nombre del medicamento (búsqueda por subcadena, sin distinguir mayúsculas)"`
	Region string `json:"region,omitempty" jsonschema:"Código de región DIRESA; al menos uno de name/region es obligatorio"`
}

type MedicineLocationsInput struct {
	MedicineID   *int   `json:"medicine_id,omitempty" jsonschema:"Id del medicamento; alternativo a medicine_name"`
	MedicineName string `json:"medicine_name,omitempty" jsonschema:"Nombre del medicamento; alternativo a medicine_id"`
	MinStock     int    `json:"min_stock,omitempty" jsonschema:"Stock mínimo para considerar disponible (por defecto 1)"`
}

type MedicineStockInput struct {
	MedicineName string `json:"medicine_name" jsonschema:"Nombre del medicamento a consultar"`
}

type RegionalStatisticsInput struct {
	Region string `json:"region,omitempty" jsonschema:"Código de región DIRESA; vacío devuelve todas las regiones"`
}

// ── Handlers ─────────────────────────────────────────────────────────────────

func (t *InventoryTools) SearchMedicines(ctx context.Context, _ *mcp.CallToolRequest, input SearchMedicinesInput) (*mcp.CallToolResult, any, error) {
	resp, err := t.Service.SearchMedicines(ctx, dto.SearchRequest{Name: input.Name, Region: input.Region})
	if err != nil {
		return t.failure(err), nil, nil
	}
	return toolJSON(resp)
}

func (t *InventoryTools) GetMedicineLocations(ctx context.Context, _ *mcp.CallToolRequest, input MedicineLocationsInput) (*mcp.CallToolResult, any, error) {
	resp, err := t.Service.GetMedicineLocations(ctx, dto.LocationsRequest{
		MedicineID:   input.MedicineID,
		MedicineName: input.MedicineName,
		MinStock:     input.MinStock,
	})
	if err != nil {
		return t.failure(err), nil, nil
	}
	return toolJSON(resp)
}

func (t *InventoryTools) GetMedicineStock(ctx context.Context, _ *mcp.CallToolRequest, input MedicineStockInput) (*mcp.CallToolResult, any, error) {
	resp, err := t.Service.GetMedicineStock(ctx, input.MedicineName)
	if err != nil {
		return t.failure(err), nil, nil
	}
	return toolJSON(resp)
}

func (t *InventoryTools) GetRegionalStatistics(ctx context.Context, _ *mcp.CallToolRequest, input RegionalStatisticsInput) (*mcp.CallToolResult, any, error) {
	resp, err := t.Service.GetRegionalStatistics(ctx, input.Region)
	if err != nil {
		return t.failure(err), nil, nil
	}
	return toolJSON(resp)
}

func (t *InventoryTools) GetSystemStatus(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	resp, err := t.Service.GetSystemStatus(ctx)
	if err != nil {
		return t.failure(err), nil, nil
	}
	return toolJSON(resp)
}

// failure serializa el registro de falla uniforme de la fachada.
func (t *InventoryTools) failure(err error) *mcp.CallToolResult {
	payload, mErr := json.Marshal(map[string]dto.ErrorResponse{"error": t.Service.MapError(err)})
	if mErr != nil {
		return toolError("error interno: %v", mErr)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
		IsError: true,
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("error serializando resultado: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
