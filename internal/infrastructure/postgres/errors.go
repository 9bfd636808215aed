package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/medifinder-mcp/internal/domain"
)

// classify traduce errores de pgx/red a la taxonomía de dominio.
//
//   - Cancelación del caller: se propaga tal cual (no es falla del almacén).
//   - Timeout de consulta, fallas de conexión y clases SQLSTATE 08/53/57:
//     ErrConnectivity (transitorio, reintentable).
//   - Cualquier otro PgError (sintaxis, columnas inexistentes, tipos): el
//     constructor de consultas violó su contrato -> ErrQuery.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: timeout de consulta: %v", domain.ErrConnectivity, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if len(pgErr.Code) >= 2 {
			switch pgErr.Code[:2] {
			case "08", "53", "57": // connection_exception, insufficient_resources, operator_intervention
				return fmt.Errorf("%w: %v", domain.ErrConnectivity, err)
			}
		}
		return fmt.Errorf("%w: %v", domain.ErrQuery, err)
	}

	// Errores de red, DNS o pool agotado: transitorios.
	return fmt.Errorf("%w: %v", domain.ErrConnectivity, err)
}
