package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/medifinder-mcp/internal/domain"
	"github.com/jhoicas/medifinder-mcp/pkg/logger"
)

// maxRetries reintentos ante ErrConnectivity. Agotados, la falla se propaga
// como connectivity; nunca se degrada a resultado vacío.
const maxRetries = 2

// Executor ejecuta QuerySpecs contra el pool. La conexión se adquiere justo
// antes de la consulta y se libera apenas se leen las filas: el timeout cubre
// la ejecución, no la vida del request, así una agregación lenta no retiene
// conexiones. Con el pool saturado, la espera por una conexión se acota con
// acquireTimeout, separado del timeout de consulta.
type Executor struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
	queryTimeout   time.Duration
	log            *logger.Logger
}

// NewExecutor construye el ejecutor.
func NewExecutor(pool *pgxpool.Pool, acquireTimeout, queryTimeout time.Duration, log *logger.Logger) *Executor {
	if acquireTimeout <= 0 {
		acquireTimeout = 5 * time.Second
	}
	if queryTimeout <= 0 {
		queryTimeout = 10 * time.Second
	}
	return &Executor{pool: pool, acquireTimeout: acquireTimeout, queryTimeout: queryTimeout, log: log}
}

// Query ejecuta el spec y entrega las filas al scan. El scan debe sobrescribir
// (no acumular sobre) su destino: ante un reintento se invoca de nuevo.
// Errores del scan son violaciones de mapeo y no se reintentan.
func (e *Executor) Query(ctx context.Context, spec *QuerySpec, scan func(rows pgx.Rows) error) error {
	err := withRetry(ctx, e.log, spec.Kind, func() error {
		return e.runOnce(ctx, spec, scan)
	})
	if err != nil {
		if errors.Is(err, domain.ErrQuery) {
			// Bug entre builder y ejecutor: se registra distinto de las fallas operativas.
			e.log.Error().
				Str("query_kind", string(spec.Kind)).
				Err(err).
				Msg("violación de contrato interno en consulta")
		}
		return err
	}
	return nil
}

// withRetry aplica la política de reintentos: solo ErrConnectivity se
// reintenta, hasta maxRetries, con backoff exponencial acotado. La
// cancelación del contexto corta la espera de inmediato.
func withRetry(ctx context.Context, log *logger.Logger, kind QueryKind, op func() error) error {
	operation := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrConnectivity) {
			log.Warn().
				Str("query_kind", string(kind)).
				Err(err).
				Msg("falla transitoria del almacén, reintentando")
			return err
		}
		return backoff.Permanent(err)
	}
	return backoff.Retry(operation, backoff.WithContext(newBackoff(), ctx))
}

func (e *Executor) runOnce(ctx context.Context, spec *QuerySpec, scan func(rows pgx.Rows) error) error {
	qctx, cancel := context.WithTimeout(ctx, e.queryTimeout)
	defer cancel()

	actx, acancel := context.WithTimeout(qctx, e.acquireTimeout)
	conn, err := e.pool.Acquire(actx)
	acancel()
	if err != nil {
		return classify(err)
	}
	defer conn.Release()

	rows, err := conn.Query(qctx, spec.SQL, spec.Args...)
	if err != nil {
		return classify(err)
	}
	defer rows.Close()

	if err := scan(rows); err != nil {
		return err
	}
	return classify(rows.Err())
}

func newBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxInterval = time.Second
	return backoff.WithMaxRetries(bo, maxRetries)
}
