package api

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dgallion1/docshelf/internal/config"
	"github.com/dgallion1/docshelf/internal/library"
	"github.com/dgallion1/docshelf/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP server for the document library.
type Server struct {
	router chi.Router
	lib    *library.Library
	pages  *render.Renderer
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(lib *library.Library, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		lib:   lib,
		pages: render.New(render.ServerLinks{}),
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.GetHead)
	r.Use(RequestLogger(s.log))
	r.Use(SecurityHeaders(DefaultHeaders()))

	r.Get("/health", s.handleHealth)

	// Documents are streamed as-is; ranges must not pass through the compressor.
	r.Get("/pdf/{folder}/{name}", s.handleDocument)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5, "text/html", "application/json"))

		r.Get("/", s.handleIndex)
		r.Get("/folder/{folder}", s.handleFolder)

		r.Get("/api/folders", s.handleListFolders)
		r.Get("/api/folders/{folder}", s.handleListDocuments)
		r.Get("/api/folders/{folder}/documents/{name}/info", s.handleDocumentInfo)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// pathParam returns a decoded route parameter. chi matches on the raw path when
// the request carried escapes, so "%2F" arrives still encoded and must be
// decoded here before the name is validated.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}
