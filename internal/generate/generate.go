// Package generate writes the index and folder pages into a static output tree.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/docshelf/internal/library"
	"github.com/dgallion1/docshelf/internal/render"
)

// Options configures a Generator.
type Options struct {
	OutputRoot string
	ReadmeName string
	Links      render.Links
}

// Summary counts what a run wrote.
type Summary struct {
	Folders   int `json:"folders"`
	Documents int `json:"documents"`
}

// Generator renders every folder of a library to <OutputRoot>/<folder>/index.html
// and the overview to <OutputRoot>/index.html. Runs must not overlap.
type Generator struct {
	lib   *library.Library
	pages *render.Renderer
	opts  Options
	log   *slog.Logger
}

func New(lib *library.Library, opts Options, log *slog.Logger) *Generator {
	if opts.Links == nil {
		opts.Links = render.StaticLinks{}
	}
	return &Generator{
		lib:   lib,
		pages: render.New(opts.Links),
		opts:  opts,
		log:   log,
	}
}

// Run regenerates the whole output tree, overwriting earlier pages.
func (g *Generator) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	folders, err := g.lib.Folders()
	if err != nil {
		return sum, err
	}
	if err := os.MkdirAll(g.opts.OutputRoot, 0o755); err != nil {
		return sum, fmt.Errorf("create output root: %w", err)
	}

	for _, folder := range folders {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		n, err := g.folder(folder)
		if err != nil {
			return sum, err
		}
		sum.Folders++
		sum.Documents += n
		g.log.Info("generated folder page", "folder", folder, "documents", n)
	}

	var buf bytes.Buffer
	if err := g.pages.Index(&buf, folders); err != nil {
		return sum, err
	}
	if err := writePage(filepath.Join(g.opts.OutputRoot, "index.html"), buf.Bytes()); err != nil {
		return sum, err
	}
	g.log.Info("generated index page", "folders", sum.Folders, "documents", sum.Documents)
	return sum, nil
}

func (g *Generator) folder(folder string) (int, error) {
	// Folder names come from a directory listing, but they still become a
	// path below the output root.
	if err := library.ValidateName(folder); err != nil {
		return 0, err
	}
	docs, err := g.lib.Documents(folder)
	if err != nil {
		return 0, err
	}
	intro, err := render.FolderIntro(g.lib, folder, g.opts.ReadmeName)
	if err != nil {
		g.log.Warn("render folder readme failed", "folder", folder, "error", err)
	}

	var buf bytes.Buffer
	page := render.FolderPage{Name: folder, Documents: render.Views(docs), Intro: intro}
	if err := g.pages.Folder(&buf, page); err != nil {
		return 0, err
	}

	dir := filepath.Join(g.opts.OutputRoot, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create folder output %q: %w", folder, err)
	}
	if err := writePage(filepath.Join(dir, "index.html"), buf.Bytes()); err != nil {
		return 0, err
	}
	return len(docs), nil
}

func writePage(path string, page []byte) error {
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
