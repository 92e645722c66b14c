package formdoc

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// workArea is a private scratch directory holding one extracted package.
// Every area gets a unique directory, so concurrent merges never share state.
// Callers release it with defer on every path.
type workArea struct {
	dir      string
	released bool
}

// newWorkArea creates an empty area below parent, or below os.TempDir() when
// parent is empty.
func newWorkArea(parent, label string) (*workArea, error) {
	if parent == "" {
		parent = os.TempDir()
	}
	pattern := fmt.Sprintf("formdoc-%s-%s-*", label, uuid.NewString())
	dir, err := os.MkdirTemp(parent, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create work area: %w", err)
	}
	return &workArea{dir: dir}, nil
}

// Dir returns the area's root directory.
func (w *workArea) Dir() string {
	return w.dir
}

// partPath maps a part name onto the area, rejecting names that would escape it.
func (w *workArea) partPath(name string) (string, error) {
	local := filepath.FromSlash(name)
	if name == "" || strings.Contains(name, `\`) || !filepath.IsLocal(local) {
		return "", fmt.Errorf("unsafe part name %q", name)
	}
	return filepath.Join(w.dir, local), nil
}

// Extract unpacks pkg into the area. index identifies the package in errors.
func (w *workArea) Extract(pkg Package, index int) error {
	reader, err := pkg.Open()
	if err != nil {
		return NewMalformedPackageError(index, "", err)
	}
	for _, file := range reader.Files() {
		target, err := w.partPath(strings.TrimSuffix(file.Name, "/"))
		if err != nil {
			return NewMalformedPackageError(index, file.Name, err)
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return NewMalformedPackageError(index, file.Name, err)
			}
			continue
		}
		if err := extractFile(file.Open, target); err != nil {
			return NewMalformedPackageError(index, file.Name, err)
		}
	}
	return nil
}

func extractFile(open func() (io.ReadCloser, error), target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// HasPart reports whether the area holds a file for name.
func (w *workArea) HasPart(name string) bool {
	target, err := w.partPath(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(target)
	return err == nil && info.Mode().IsRegular()
}

// ReadPart returns the content of an extracted part.
func (w *workArea) ReadPart(name string) ([]byte, error) {
	target, err := w.partPath(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(target)
}

// WritePart creates or replaces a part.
func (w *workArea) WritePart(name string, data []byte) error {
	target, err := w.partPath(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

// Parts lists the part names in the area, slash separated.
func (w *workArea) Parts() ([]string, error) {
	var names []string
	err := filepath.WalkDir(w.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(w.dir, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	return names, err
}

// Archive zips the area's current content into a new package.
func (w *workArea) Archive() (Package, error) {
	names, err := w.Parts()
	if err != nil {
		return Package{}, NewSerializationError("", err)
	}
	parts := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := w.ReadPart(name)
		if err != nil {
			return Package{}, NewSerializationError(name, err)
		}
		parts[name] = data
	}
	return buildPackage(parts)
}

// Release removes the area. It is safe to call more than once.
func (w *workArea) Release() error {
	if w == nil || w.released {
		return nil
	}
	w.released = true
	return os.RemoveAll(w.dir)
}
