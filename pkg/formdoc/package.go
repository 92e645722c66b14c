package formdoc

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"time"
)

// Package is a serialized DOCX package. The zero value is empty. A Package
// never exposes its backing slice, so values can be shared freely.
type Package struct {
	data []byte
}

// NewPackage wraps a copy of data.
func NewPackage(data []byte) Package {
	return Package{data: bytes.Clone(data)}
}

// Bytes returns a copy of the serialized package.
func (p Package) Bytes() []byte {
	return bytes.Clone(p.data)
}

// Len returns the size of the serialized package in bytes.
func (p Package) Len() int {
	return len(p.data)
}

// IsZero reports whether the package holds no data.
func (p Package) IsZero() bool {
	return len(p.data) == 0
}

// NewReader returns a reader over the serialized package.
func (p Package) NewReader() *bytes.Reader {
	return bytes.NewReader(p.data)
}

// WriteTo writes the serialized package to w.
func (p Package) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.data)
	return int64(n), err
}

// Open indexes the package parts for reading.
func (p Package) Open() (*DocxReader, error) {
	return NewDocxReader(bytes.NewReader(p.data), int64(len(p.data)))
}

// partOrder puts [Content_Types].xml first and the rest in name order.
func partOrder(names []string) []string {
	sorted := append([]string(nil), names...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i] == contentTypesPart {
			return sorted[j] != contentTypesPart
		}
		if sorted[j] == contentTypesPart {
			return false
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// zipTimestamp is stamped on every entry so equal inputs give equal packages.
var zipTimestamp = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// buildPackage zips parts into a new Package.
func buildPackage(parts map[string][]byte) (Package, error) {
	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range partOrder(names) {
		header := &zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: zipTimestamp,
		}
		fw, err := w.CreateHeader(header)
		if err != nil {
			return Package{}, NewSerializationError(name, err)
		}
		if _, err := fw.Write(parts[name]); err != nil {
			return Package{}, NewSerializationError(name, err)
		}
	}
	if err := w.Close(); err != nil {
		return Package{}, NewSerializationError("", err)
	}
	return Package{data: buf.Bytes()}, nil
}
