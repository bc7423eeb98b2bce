package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dgallion1/docshelf/internal/config"
	"github.com/dgallion1/docshelf/internal/library"
)

func testServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	fsys := fstest.MapFS{
		"Math/Algebra (01.03.2024).pdf":  {Data: []byte("%PDF-1.4 algebra")},
		"Math/Geometry (15.01.2024).pdf": {Data: []byte("%PDF-1.4 geometry")},
		"Math/notes.txt":                 {Data: []byte("notes")},
		"Math/README.md":                 {Data: []byte("# Mathe\n\nKlausur am **Freitag**.")},
		"Deutsch/Faust (10.10.2023).pdf": {Data: []byte("%PDF-1.4 faust")},
		"Leer/.keep":                     {},
		"secret.txt":                     {Data: []byte("top secret")},
	}
	return newServer(t, fsys, mutate)
}

func newServer(t *testing.T, fsys fstest.MapFS, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Defaults()
	if mutate != nil {
		mutate(&cfg)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(library.New(fsys, cfg.Extension), log, cfg)
}

// minimalPDF returns a PDF with the given number of empty pages.
func minimalPDF(pages int) []byte {
	objs := []string{"<< /Type /Catalog /Pages 2 0 R >>"}
	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for range pages {
		objs = append(objs, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\n", len(objs)+1)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	rr := get(t, testServer(t, nil), "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != `{"status":"ok"}` {
		t.Errorf("unexpected body %q", rr.Body.String())
	}
}

func TestIndex(t *testing.T) {
	rr := get(t, testServer(t, nil), "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("expected html content type, got %q", ct)
	}
	body := rr.Body.String()
	for _, href := range []string{`href="/folder/Deutsch"`, `href="/folder/Leer"`, `href="/folder/Math"`} {
		if !strings.Contains(body, href) {
			t.Errorf("expected %s in index", href)
		}
	}
	if strings.Index(body, "/folder/Deutsch") > strings.Index(body, "/folder/Math") {
		t.Error("expected folders sorted by name")
	}
	if strings.Contains(body, "secret.txt") {
		t.Error("expected root files to be left out")
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
}

func TestFolder_Listing(t *testing.T) {
	rr := get(t, testServer(t, nil), "/folder/Math")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	algebra := strings.Index(body, ">Algebra<")
	geometry := strings.Index(body, ">Geometry<")
	if algebra < 0 || geometry < 0 {
		t.Fatalf("expected both documents in listing:\n%s", body)
	}
	if algebra > geometry {
		t.Error("expected Algebra (March) before Geometry (January)")
	}
	if strings.Contains(body, "notes.txt") {
		t.Error("expected notes.txt to be hidden")
	}
	if !strings.Contains(body, `href="/pdf/Math/Algebra%20%2801.03.2024%29.pdf"`) {
		t.Error("expected document link to the pdf route")
	}
	if !strings.Contains(body, "<strong>Freitag</strong>") {
		t.Error("expected the folder readme to be rendered")
	}
}

func TestFolder_Empty(t *testing.T) {
	rr := get(t, testServer(t, nil), "/folder/Leer")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), `class="pdf-box"`) {
		t.Error("expected an empty grid")
	}
}

func TestFolder_NotFound(t *testing.T) {
	s := testServer(t, nil)
	for _, target := range []string{"/folder/DoesNotExist", "/folder/secret.txt"} {
		rr := get(t, s, target)
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", target, rr.Code)
		}
		if strings.TrimSpace(rr.Body.String()) != "folder not found" {
			t.Errorf("%s: unexpected body %q", target, rr.Body.String())
		}
	}
}

func TestFolder_ReadmeDisabled(t *testing.T) {
	s := testServer(t, func(c *config.Config) { c.ReadmeName = "" })
	rr := get(t, s, "/folder/Math")
	if strings.Contains(rr.Body.String(), "Freitag") {
		t.Error("expected no intro when the readme name is empty")
	}
}

func TestFolder_PageCountSkipsUnreadable(t *testing.T) {
	s := testServer(t, func(c *config.Config) { c.ShowPageCount = true })
	rr := get(t, s, "/folder/Math")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, ">Algebra<") {
		t.Error("expected unreadable pdf to stay listed")
	}
	if strings.Contains(body, " S.</span>") {
		t.Error("expected no page count for unreadable pdfs")
	}
}

func TestFolder_PageCount(t *testing.T) {
	fsys := fstest.MapFS{
		"Physik/Mechanik (03.04.2024).pdf": {Data: minimalPDF(3)},
		"Physik/Optik (01.02.2024).pdf":    {Data: []byte("%PDF-1.4 truncated")},
	}
	s := newServer(t, fsys, func(c *config.Config) { c.ShowPageCount = true })
	rr := get(t, s, "/folder/Physik")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "03.04.2024 &middot; 3 S.</span>") && !strings.Contains(body, "03.04.2024 · 3 S.</span>") {
		t.Errorf("expected page count for the readable pdf, got:\n%s", body)
	}
	if !strings.Contains(body, "01.02.2024</span>") {
		t.Error("expected the unreadable pdf listed without a count")
	}

	rr = get(t, newServer(t, fsys, nil), "/folder/Physik")
	if strings.Contains(rr.Body.String(), " S.</span>") {
		t.Error("expected no page counts when disabled")
	}
}

func TestHead(t *testing.T) {
	s := testServer(t, nil)
	for _, target := range []string{"/", "/folder/Math", "/pdf/Math/notes.txt"} {
		req := httptest.NewRequest(http.MethodHead, target, nil)
		rr := httptest.NewRecorder()
		s.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("HEAD %s: expected 200, got %d", target, rr.Code)
		}
	}

	req := httptest.NewRequest(http.MethodHead, "/folder/DoesNotExist", nil)
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("HEAD missing folder: expected 404, got %d", rr.Code)
	}
}

func TestDocument_Stream(t *testing.T) {
	rr := get(t, testServer(t, nil), "/pdf/Math/Algebra%20(01.03.2024).pdf")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if rr.Body.String() != "%PDF-1.4 algebra" {
		t.Errorf("expected raw file bytes, got %q", rr.Body.String())
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline") {
		t.Errorf("expected inline disposition, got %q", cd)
	}
}

func TestDocument_UndatedStillFetchable(t *testing.T) {
	rr := get(t, testServer(t, nil), "/pdf/Math/notes.txt")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("expected text/plain, got %q", rr.Header().Get("Content-Type"))
	}
}

func TestDocument_Range(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/pdf/Deutsch/Faust%20(10.10.2023).pdf", nil)
	req.Header.Set("Range", "bytes=0-3")
	rr := httptest.NewRecorder()
	testServer(t, nil).ServeHTTP(rr, req)
	if rr.Code != http.StatusPartialContent {
		t.Fatalf("expected 206, got %d", rr.Code)
	}
	if rr.Body.String() != "%PDF" {
		t.Errorf("expected first four bytes, got %q", rr.Body.String())
	}
}

func TestDocument_NotFound(t *testing.T) {
	s := testServer(t, nil)
	for _, target := range []string{"/pdf/Math/missing.pdf", "/pdf/Nope/Algebra%20(01.03.2024).pdf", "/pdf/Math/Leer"} {
		rr := get(t, s, target)
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", target, rr.Code)
		}
		if strings.TrimSpace(rr.Body.String()) != "file not found" {
			t.Errorf("%s: unexpected body %q", target, rr.Body.String())
		}
	}
}

func TestPathTraversalRejected(t *testing.T) {
	s := testServer(t, nil)
	targets := []string{
		"/pdf/..%2F..%2Fetc/passwd",
		"/pdf/Math/..%2Fsecret.txt",
		"/pdf/../secret.txt",
		"/pdf/Math/..",
		"/pdf/Math/%2E%2E",
		"/pdf/Math%2F..%2F/secret.txt",
		"/pdf/Math/..%5Csecret.txt",
		"/folder/..",
		"/folder/..%2F..%2Fetc",
		"/api/folders/..%2F",
		"/api/folders/Math/documents/..%2F..%2Fsecret.txt/info",
	}
	for _, target := range targets {
		rr := get(t, s, target)
		if rr.Code == http.StatusOK {
			t.Errorf("%s: expected rejection, got 200 with %q", target, rr.Body.String())
		}
		if strings.Contains(rr.Body.String(), "top secret") {
			t.Errorf("%s: leaked a file outside the folder", target)
		}
		if rr.Code != http.StatusBadRequest && rr.Code != http.StatusNotFound {
			t.Errorf("%s: expected 400 or 404, got %d", target, rr.Code)
		}
	}

	rr := get(t, s, "/pdf/..%2F..%2Fetc/passwd")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for encoded traversal, got %d", rr.Code)
	}
}

func TestAPI_ListFolders(t *testing.T) {
	rr := get(t, testServer(t, nil), "/api/folders")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Folders []string `json:"folders"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(resp.Folders, ",") != "Deutsch,Leer,Math" {
		t.Errorf("unexpected folders %v", resp.Folders)
	}
}

func TestAPI_ListDocuments(t *testing.T) {
	rr := get(t, testServer(t, nil), "/api/folders/Math")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Folder    string         `json:"folder"`
		Documents []documentJSON `json:"documents"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Folder != "Math" {
		t.Errorf("expected folder Math, got %q", resp.Folder)
	}
	if len(resp.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(resp.Documents))
	}
	first := resp.Documents[0]
	if first.Label != "Algebra" || first.Date != "2024-03-01" || first.Filename != "Algebra (01.03.2024).pdf" {
		t.Errorf("unexpected first document %+v", first)
	}
	if first.URL != "/pdf/Math/Algebra%20%2801.03.2024%29.pdf" {
		t.Errorf("unexpected url %q", first.URL)
	}

	rr = get(t, testServer(t, nil), "/api/folders/Nope")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json error, got %q", ct)
	}
}

func TestAPI_DocumentInfo(t *testing.T) {
	s := testServer(t, nil)

	rr := get(t, s, "/api/folders/Math/documents/README.md/info")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Filename string `json:"filename"`
		Size     int    `json:"size"`
		Info     struct {
			Title    string `json:"title"`
			Headings int    `json:"headings"`
		} `json:"info"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Info.Title != "Mathe" || resp.Info.Headings != 1 {
		t.Errorf("unexpected info %+v", resp.Info)
	}

	if rr := get(t, s, "/api/folders/Math/documents/notes.txt/info"); rr.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415 for txt, got %d", rr.Code)
	}
	if rr := get(t, s, "/api/folders/Math/documents/Algebra%20(01.03.2024).pdf/info"); rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for an unreadable pdf, got %d", rr.Code)
	}
	if rr := get(t, s, "/api/folders/Math/documents/missing.pdf/info"); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestPathParam_LiteralPercent(t *testing.T) {
	fsys := fstest.MapFS{"F/100% (01.01.2024).pdf": {Data: []byte("x")}}
	s := NewServer(library.New(fsys, ".pdf"), slog.New(slog.NewTextHandler(io.Discard, nil)), config.Defaults())
	rr := get(t, s, "/pdf/F/100%25%20(01.01.2024).pdf")
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 for an escaped percent sign, got %d", rr.Code)
	}
}
