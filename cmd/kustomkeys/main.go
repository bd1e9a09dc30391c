package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"kustomkeys/internal/config"
	"kustomkeys/internal/http/handlers"
	applog "kustomkeys/internal/log"
	"kustomkeys/internal/platform"
	"kustomkeys/internal/services"
	"kustomkeys/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg, err := applog.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()
	lg.Info("config.loaded",
		zap.String("env", cfg.Env),
		zap.String("store", cfg.StoreDriver),
		zap.String("images", cfg.ImageBackend),
		zap.Bool("csrf", cfg.CSRF),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	stores, closeStores, err := platform.OpenStores(ctx, cfg)
	if err != nil {
		cancel()
		lg.Fatal("store.open.fail", zap.Error(err))
	}
	defer closeStores()
	imgs, err := platform.OpenImages(ctx, cfg)
	cancel()
	if err != nil {
		lg.Fatal("images.open.fail", zap.Error(err))
	}
	defer imgs.Close()

	// ---------- App handlers ----------
	deps := handlers.NewDeps(services.NewCatalog(stores, imgs.Service))
	if imgs.Objects != nil {
		deps.Objects = imgs.Objects
	}
	app := handlers.NewApp(cfg, web.Views(cfg.Development()), web.Static(), deps)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		lg.Info("server.shutdown")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	lg.Info("server.listen", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		lg.Error("server.listen.fail", zap.Error(err))
	}
}
