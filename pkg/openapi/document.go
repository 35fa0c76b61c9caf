package openapi

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Source identifies where a schema document originated. Loading stays
// offline: documents come from disk or an fs.FS, never the network.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
)

type fileSource struct {
	path string
}

func (s fileSource) Kind() SourceKind { return SourceKindFile }
func (s fileSource) Location() string { return s.path }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	fsys fs.FS
	name string
}

func (s fsSource) Kind() SourceKind { return SourceKindFS }
func (s fsSource) Location() string { return s.name }

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(fsys fs.FS, name string) Source {
	return fsSource{fsys: fsys, name: name}
}

// Document wraps a raw schema payload and its origin so the public API stays
// decoupled from kin-openapi types.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// Load reads the document the source points at.
func Load(src Source) (Document, error) {
	switch s := src.(type) {
	case fileSource:
		data, err := os.ReadFile(s.path)
		if err != nil {
			return Document{}, err
		}
		return NewDocument(src, data)
	case fsSource:
		data, err := fs.ReadFile(s.fsys, s.name)
		if err != nil {
			return Document{}, err
		}
		return NewDocument(src, data)
	default:
		return Document{}, errors.New("openapi: unsupported source")
	}
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source { return d.source }

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte { return append([]byte(nil), d.raw...) }

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}
