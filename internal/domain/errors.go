package domain

import "errors"

// Errores de dominio (sin dependencias externas). Taxonomía de cuatro clases:
//
//   - ErrValidation: entrada del caller inválida; se corrige y se reintenta.
//   - ErrNotFound: el sujeto de una búsqueda por id/nombre no existe. Distinto
//     de una búsqueda válida con cero filas, que es un éxito vacío.
//   - ErrConnectivity: el almacén no está disponible; transitorio, la capa de
//     datos reintenta según política antes de propagarlo.
//   - ErrQuery: violación de contrato interno entre el constructor de consultas
//     y la capa de datos. Siempre es un bug; nunca se reintenta.
var (
	ErrValidation   = errors.New("entrada inválida")
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrConnectivity = errors.New("almacén de datos no disponible")
	ErrQuery        = errors.New("consulta interna inválida")
)

// Códigos estables que la fachada expone al colaborador externo.
const (
	KindValidation   = "validation_error"
	KindNotFound     = "not_found"
	KindConnectivity = "connectivity_error"
	KindQuery        = "query_error"
	KindInternal     = "internal_error"
)

// Kind clasifica un error en su código estable. Errores fuera de la taxonomía
// se reportan como internal_error para no filtrar detalles de capas inferiores.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConnectivity):
		return KindConnectivity
	case errors.Is(err, ErrQuery):
		return KindQuery
	default:
		return KindInternal
	}
}
