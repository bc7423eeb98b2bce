package api

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/dgallion1/docshelf/internal/inspect"
	"github.com/dgallion1/docshelf/internal/library"
	"github.com/dgallion1/docshelf/internal/render"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	folders, err := s.lib.Folders()
	if err != nil {
		s.log.Error("list folders failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.pages.Index(&buf, folders); err != nil {
		s.log.Error("render index failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) handleFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := pathParam(r, "folder")
	if err != nil {
		http.Error(w, "invalid name", http.StatusBadRequest)
		return
	}

	docs, err := s.lib.Documents(folder)
	switch {
	case errors.Is(err, library.ErrInvalidName):
		http.Error(w, "invalid name", http.StatusBadRequest)
		return
	case errors.Is(err, library.ErrNotFound):
		http.Error(w, "folder not found", http.StatusNotFound)
		return
	case err != nil:
		s.log.Error("list documents failed", "folder", folder, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	views := render.Views(docs)
	if s.cfg.ShowPageCount {
		s.addPageCounts(folder, views)
	}

	var buf bytes.Buffer
	page := render.FolderPage{Name: folder, Documents: views, Intro: s.folderIntro(folder)}
	if err := s.pages.Folder(&buf, page); err != nil {
		s.log.Error("render folder failed", "folder", folder, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	folder, err := pathParam(r, "folder")
	if err != nil {
		http.Error(w, "invalid name", http.StatusBadRequest)
		return
	}
	name, err := pathParam(r, "name")
	if err != nil {
		http.Error(w, "invalid name", http.StatusBadRequest)
		return
	}

	f, info, err := s.lib.Open(folder, name)
	switch {
	case errors.Is(err, library.ErrInvalidName):
		http.Error(w, "invalid name", http.StatusBadRequest)
		return
	case errors.Is(err, library.ErrNotFound):
		http.Error(w, "file not found", http.StatusNotFound)
		return
	case err != nil:
		s.log.Error("open document failed", "folder", folder, "name", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))

	rs, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			s.log.Error("read document failed", "folder", folder, "name", name, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		rs = bytes.NewReader(data)
	}
	http.ServeContent(w, r, name, info.ModTime(), rs)
}

// folderIntro renders the folder's readme, if it has one.
func (s *Server) folderIntro(folder string) template.HTML {
	intro, err := render.FolderIntro(s.lib, folder, s.cfg.ReadmeName)
	if err != nil {
		s.log.Warn("render folder readme failed", "folder", folder, "error", err)
		return ""
	}
	return intro
}

// addPageCounts fills in page counts where the document can be inspected.
// Unreadable documents are still listed, just without a count.
func (s *Server) addPageCounts(folder string, views []render.DocumentView) {
	for i := range views {
		data, err := s.lib.ReadFile(folder, views[i].Filename)
		if err != nil {
			s.log.Debug("read document for page count failed", "folder", folder, "name", views[i].Filename, "error", err)
			continue
		}
		info, err := inspect.File(data, views[i].Filename)
		if err != nil {
			s.log.Debug("inspect document failed", "folder", folder, "name", views[i].Filename, "error", err)
			continue
		}
		views[i].Pages = info.Pages
	}
}

func writeHTML(w http.ResponseWriter, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
