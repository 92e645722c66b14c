package formdoc

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// Placeholder tokens recognized in the template.
const (
	TokenUnit    = "[UNIDADE]"
	TokenDate    = "[DATA]"
	TokenCaption = "[LEGENDA]"
	TokenImages  = "[IMAGENS]"
)

//go:embed all:defaulttemplate
var defaultTemplateFS embed.FS

var defaultTemplate = sync.OnceValues(func() ([]byte, error) {
	root, err := fs.Sub(defaultTemplateFS, "defaulttemplate")
	if err != nil {
		return nil, err
	}
	pkg, err := packageFromFS(root)
	if err != nil {
		return nil, err
	}
	return pkg.data, nil
})

// DefaultTemplate returns the template shipped with the package.
func DefaultTemplate() (Package, error) {
	data, err := defaultTemplate()
	if err != nil {
		return Package{}, fmt.Errorf("failed to build default template: %w", err)
	}
	return NewPackage(data), nil
}

// packageFromFS zips every regular file in fsys, keyed by its slash path.
func packageFromFS(fsys fs.FS) (Package, error) {
	parts := make(map[string][]byte)
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		parts[name] = data
		return nil
	})
	if err != nil {
		return Package{}, err
	}
	return buildPackage(parts)
}

// readTemplateFile loads and sanity-checks a template package from disk.
func readTemplateFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateNotFoundError{Path: path, Cause: err}
	}
	if err := checkTemplate(data); err != nil {
		return nil, err
	}
	return data, nil
}

// checkTemplate verifies data is a package with a body part.
func checkTemplate(data []byte) error {
	if len(data) == 0 {
		return NewMalformedPackageError(-1, "", errors.New("empty template"))
	}
	if _, err := DocxReaderFromBytes(data); err != nil {
		return NewMalformedPackageError(-1, documentPart, err)
	}
	return nil
}

// templateSource resolves the template bytes an engine assembles from.
type templateSource struct {
	path  string
	data  []byte
	cache *TemplateCache
}

func (s *templateSource) load() ([]byte, error) {
	switch {
	case s.data != nil:
		return s.data, nil
	case s.path != "":
		return s.cache.Load(s.path, func() ([]byte, error) {
			return readTemplateFile(s.path)
		})
	default:
		return defaultTemplate()
	}
}

// describe names the template in log output.
func (s *templateSource) describe() string {
	switch {
	case s.data != nil:
		return "bytes"
	case s.path != "":
		return s.path
	default:
		return "embedded"
	}
}
