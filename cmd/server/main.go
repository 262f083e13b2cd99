package main

import (
	"context"
	"net/http"
	"os"
	"time"

	webAdapter "textile-books/internal/adapters/web"
	"textile-books/internal/app"
	"textile-books/internal/core"
	"textile-books/internal/db"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable not set")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	docService := core.NewDocumentService(pool)
	ledger := core.NewLedger(pool, docService)
	ruleEngine := core.NewRuleEngine(pool)
	orderService := core.NewOrderService(pool, nil)
	inventoryService := core.NewInventoryService(pool, ruleEngine)
	invoiceService := core.NewInvoiceService(pool, ruleEngine, nil)
	reportingService := core.NewReportingService(pool)
	staffService := core.NewStaffService(pool, nil)

	svc := app.NewAppService(pool, ledger, docService, orderService, inventoryService,
		invoiceService, reportingService, staffService)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Info().Str("port", port).Msg("server starting")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
