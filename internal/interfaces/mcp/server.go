package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jhoicas/medifinder-mcp/internal/application/query"
)

const serverVersion = "1.0.0"

// New crea el servidor MCP con las cinco operaciones de consulta registradas.
func New(svc *query.Service) *mcp.Server {
	t := &InventoryTools{Service: svc}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "medifinder-mcp",
		Version: serverVersion,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_medicines",
		Description: "Busca medicamentos por fragmento de nombre y/o región DIRESA, con su inventario por establecimiento",
	}, t.SearchMedicines)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_medicine_locations",
		Description: "Lista establecimientos con stock disponible de un medicamento (por id o nombre)",
	}, t.GetMedicineLocations)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_medicine_stock",
		Description: "Inventario de un medicamento agrupado por establecimiento, con meses de cobertura",
	}, t.GetMedicineStock)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_regional_statistics",
		Description: "Estadísticas de inventario por región DIRESA: conteos por estado y razón de cobertura",
	}, t.GetRegionalStatistics)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_system_status",
		Description: "Estado global del inventario con desglose por región y tasa de disponibilidad",
	}, t.GetSystemStatus)

	return srv
}
