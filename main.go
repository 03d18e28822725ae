package main

import (
	"time"

	"github.com/corvan/pixwall/config"
	"github.com/corvan/pixwall/gallery"
	"github.com/corvan/pixwall/routes"
	"github.com/corvan/pixwall/store"
	"github.com/corvan/pixwall/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	backend := cfg.StoreBackend
	if cfg.PreviewMode {
		backend = store.BackendPreview
	}
	st, err := store.Open(backend, cfg.ImagesDir, cfg.BadgerPath)
	if err != nil {
		utils.Sugar.Fatalf("open %s store: %v", backend, err)
	}
	defer st.Close()

	svc := gallery.New(st, cfg)
	r := routes.SetupRouter(svc)

	// Reclaim binaries orphaned by interrupted ingestions (best-effort)
	if cfg.SweepEnabled && backend == store.BackendFlatFile {
		gallery.StartOrphanSweeper(
			cfg.ImagesDir,
			time.Duration(cfg.SweepIntervalMins)*time.Minute,
			time.Duration(cfg.SweepGraceMins)*time.Minute,
		)
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
