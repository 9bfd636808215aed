package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jhoicas/medifinder-mcp/internal/application/query"
	"github.com/jhoicas/medifinder-mcp/internal/domain/stock"
	"github.com/jhoicas/medifinder-mcp/internal/infrastructure/postgres"
	appmcp "github.com/jhoicas/medifinder-mcp/internal/interfaces/mcp"
	"github.com/jhoicas/medifinder-mcp/pkg/config"
	"github.com/jhoicas/medifinder-mcp/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("transport", cfg.MCP.Transport).
		Msg("iniciando servidor")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	builder := postgres.NewBuilder(cfg.Search.MaxResults)
	executor := postgres.NewExecutor(pool, cfg.DB.AcquireTimeout, cfg.DB.QueryTimeout, log)
	repo := postgres.NewInventoryRepository(builder, executor)

	policy := stock.NewPolicy(cfg.Search.LowStockThreshold)
	svc := query.NewService(repo, policy, cfg.Search.MinStock, log)

	srv := appmcp.New(svc)

	switch cfg.MCP.Transport {
	case "stdio":
		if err := srv.Run(ctx, &sdkmcp.StdioTransport{}); err != nil {
			log.Fatal().Err(err).Msg("servidor MCP (stdio)")
		}
	case "http":
		addr := fmt.Sprintf(":%d", cfg.MCP.Port)
		handler := sdkmcp.NewStreamableHTTPHandler(func(r *http.Request) *sdkmcp.Server {
			return srv
		}, nil)
		log.Info().Str("addr", addr).Msg("servidor MCP escuchando (http)")
		if err := http.ListenAndServe(addr, handler); err != nil {
			log.Fatal().Err(err).Msg("servidor MCP (http)")
		}
	default:
		log.Fatal().Str("transport", cfg.MCP.Transport).Msg("transporte MCP desconocido (use stdio o http)")
	}

	log.Info().Msg("servidor detenido")
}
