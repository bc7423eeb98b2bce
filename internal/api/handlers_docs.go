package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/docshelf/internal/inspect"
	"github.com/dgallion1/docshelf/internal/library"
	"github.com/dgallion1/docshelf/internal/render"
)

type documentJSON struct {
	Label    string `json:"label"`
	Filename string `json:"filename"`
	Date     string `json:"date"`
	URL      string `json:"url"`
}

// handleListFolders lists all folders below the document root.
func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.lib.Folders()
	if err != nil {
		s.log.Error("list folders failed", "error", err)
		jsonError(w, "failed to list folders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"folders": folders})
}

// handleListDocuments lists a folder's dated documents, most recent first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	folder, err := pathParam(r, "folder")
	if err != nil {
		jsonError(w, "invalid name", http.StatusBadRequest)
		return
	}

	docs, err := s.lib.Documents(folder)
	if err != nil {
		s.libraryError(w, err, "folder not found")
		return
	}

	links := render.ServerLinks{}
	out := make([]documentJSON, len(docs))
	for i, d := range docs {
		out[i] = documentJSON{
			Label:    d.Label,
			Filename: d.Filename,
			Date:     d.Date.Format("2006-01-02"),
			URL:      links.Document(folder, d.Filename),
		}
	}
	writeJSON(w, map[string]any{"folder": folder, "documents": out})
}

// handleDocumentInfo reports metadata read from a single document.
func (s *Server) handleDocumentInfo(w http.ResponseWriter, r *http.Request) {
	folder, err := pathParam(r, "folder")
	if err != nil {
		jsonError(w, "invalid name", http.StatusBadRequest)
		return
	}
	name, err := pathParam(r, "name")
	if err != nil {
		jsonError(w, "invalid name", http.StatusBadRequest)
		return
	}

	data, err := s.lib.ReadFile(folder, name)
	if err != nil {
		s.libraryError(w, err, "file not found")
		return
	}

	info, err := inspect.File(data, name)
	switch {
	case errors.Is(err, inspect.ErrUnsupported):
		jsonError(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	case err != nil:
		s.log.Warn("inspect document failed", "folder", folder, "name", name, "error", err)
		jsonError(w, "document could not be read", http.StatusUnprocessableEntity)
		return
	}

	resp := map[string]any{
		"folder":   folder,
		"filename": name,
		"size":     len(data),
		"info":     info,
	}
	if doc, ok := library.ParseFilename(name, s.lib.Extension()); ok {
		resp["label"] = doc.Label
		resp["date"] = doc.Date.Format("2006-01-02")
	}
	writeJSON(w, resp)
}

// libraryError maps library errors to JSON responses.
func (s *Server) libraryError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, library.ErrInvalidName):
		jsonError(w, "invalid name", http.StatusBadRequest)
	case errors.Is(err, library.ErrNotFound):
		jsonError(w, notFound, http.StatusNotFound)
	default:
		s.log.Error("library error", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
