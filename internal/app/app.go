package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"funilaria-puma/backend/internal/app/config"
	apphttp "funilaria-puma/backend/internal/app/http"
	"funilaria-puma/backend/internal/app/http/handlers"
	"funilaria-puma/backend/internal/domain/quote"
	pdfgen "funilaria-puma/backend/internal/domain/quote/pdf/gofpdf"
	"funilaria-puma/backend/internal/infra/db/postgres"
	"funilaria-puma/backend/pkg/logging"
)

func Run() {
	logging.Setup()
	cfg := config.MustLoad()

	db, err := postgres.New(context.Background(), postgres.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		RootCert: cfg.DBSSLRootCert,
	})
	if err != nil {
		slog.Error("db", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	h := handlers.New(quote.NewService(db), pdfgen.New())
	router := apphttp.NewRouter(cfg, h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("listening", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server", "err", err)
		os.Exit(1)
	}
}
