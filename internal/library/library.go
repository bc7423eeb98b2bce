// Package library reads folders of dated documents from a document root.
//
// The filesystem is the only source of truth: every call reads the directory
// fresh and nothing is cached between calls.
package library

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
)

var (
	// ErrNotFound is returned when a folder or file does not exist under the root.
	ErrNotFound = errors.New("not found")
	// ErrInvalidName is returned for folder or file names that could leave the root.
	ErrInvalidName = errors.New("invalid name")
)

// Library lists folders and documents below a document root.
type Library struct {
	fsys fs.FS
	ext  string
}

// New returns a Library over fsys, recognising documents by the exact suffix ext.
func New(fsys fs.FS, ext string) *Library {
	return &Library{fsys: fsys, ext: ext}
}

// Extension returns the document extension, e.g. ".pdf".
func (l *Library) Extension() string {
	return l.ext
}

// ValidateName rejects names that are not a single path segment.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}

// Folders returns the immediate subdirectories of the root sorted by name.
func (l *Library) Folders() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read document root: %w", err)
	}
	folders := make([]string, 0, len(entries))
	for _, e := range entries {
		if l.isDir(e, e.Name()) {
			folders = append(folders, e.Name())
		}
	}
	slices.Sort(folders)
	return folders, nil
}

// HasFolder reports whether folder is a directory directly below the root.
func (l *Library) HasFolder(folder string) (bool, error) {
	if err := ValidateName(folder); err != nil {
		return false, err
	}
	info, err := fs.Stat(l.fsys, folder)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat folder %q: %w", folder, err)
	}
	return info.IsDir(), nil
}

// Documents returns the dated documents of folder, most recent first. Files
// with the wrong extension or without a parseable date are left out. Documents
// sharing a date are ordered by filename.
func (l *Library) Documents(folder string) ([]Document, error) {
	ok, err := l.HasFolder(folder)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("folder %q: %w", folder, ErrNotFound)
	}

	entries, err := fs.ReadDir(l.fsys, folder)
	if err != nil {
		return nil, fmt.Errorf("read folder %q: %w", folder, err)
	}

	var docs []Document
	for _, e := range entries {
		doc, ok := ParseFilename(e.Name(), l.ext)
		if !ok {
			continue
		}
		if !l.isRegular(e, path.Join(folder, e.Name())) {
			continue
		}
		docs = append(docs, doc)
	}

	slices.SortFunc(docs, func(a, b Document) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Filename, b.Filename)
	})
	return docs, nil
}

// Open opens the regular file name inside folder. The name does not have to
// carry a date; any file below the root can be fetched by its exact name.
// The caller must close the returned file.
func (l *Library) Open(folder, name string) (fs.File, fs.FileInfo, error) {
	p, err := joinNames(folder, name)
	if err != nil {
		return nil, nil, err
	}
	f, err := l.fsys.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("file %q: %w", p, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", p, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat %q: %w", p, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, fmt.Errorf("file %q: %w", p, ErrNotFound)
	}
	return f, info, nil
}

// ReadFile returns the contents of the regular file name inside folder.
func (l *Library) ReadFile(folder, name string) ([]byte, error) {
	f, _, err := l.Open(folder, name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path.Join(folder, name), err)
	}
	return data, nil
}

func joinNames(folder, name string) (string, error) {
	if err := ValidateName(folder); err != nil {
		return "", err
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return path.Join(folder, name), nil
}

// isDir follows symlinks so linked folders are listed like real ones.
func (l *Library) isDir(e fs.DirEntry, p string) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := fs.Stat(l.fsys, p)
	return err == nil && info.IsDir()
}

func (l *Library) isRegular(e fs.DirEntry, p string) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := fs.Stat(l.fsys, p)
	return err == nil && info.Mode().IsRegular()
}
