// Command generate writes the index and folder pages as static HTML below
// OUTPUT_ROOT.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/docshelf/internal/config"
	"github.com/dgallion1/docshelf/internal/generate"
	"github.com/dgallion1/docshelf/internal/library"
	"github.com/dgallion1/docshelf/internal/render"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))

	root, err := os.OpenRoot(cfg.DocumentRoot)
	if err != nil {
		log.Error("open document root", "path", cfg.DocumentRoot, "error", err)
		os.Exit(1)
	}
	defer root.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := generate.New(library.New(root.FS(), cfg.Extension), generate.Options{
		OutputRoot: cfg.OutputRoot,
		ReadmeName: cfg.ReadmeName,
		Links:      render.StaticLinks{DocumentBase: cfg.StaticDocumentBase},
	}, log)

	sum, err := gen.Run(ctx)
	if err != nil {
		log.Error("generate pages failed", "error", err)
		os.Exit(1)
	}
	log.Info("generated pages", "output_root", cfg.OutputRoot, "folders", sum.Folders, "documents", sum.Documents)
}
