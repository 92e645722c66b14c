package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/benjaminschreck/go-formdoc/pkg/formdoc"
)

// Manifest describes a render job. Relative paths are resolved against the
// manifest's directory.
type Manifest struct {
	Template      string  `yaml:"template"`
	Config        string  `yaml:"config"`
	ImageHeightCm float64 `yaml:"image_height_cm"`
	Forms         []Form  `yaml:"forms"`

	dir string
}

// Form is one page of the output.
type Form struct {
	Unit    string   `yaml:"unit"`
	Date    string   `yaml:"date"`
	Caption string   `yaml:"caption"`
	Images  []string `yaml:"images"`
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if len(m.Forms) == 0 {
		return nil, errors.New("manifest lists no forms")
	}
	m.dir = filepath.Dir(path)
	return &m, nil
}

func (m *Manifest) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.dir, path)
}

// Requests reads the listed images and returns one request per form.
func (m *Manifest) Requests() ([]formdoc.FormRequest, error) {
	reqs := make([]formdoc.FormRequest, 0, len(m.Forms))
	for i, form := range m.Forms {
		req := formdoc.FormRequest{
			Unit:    form.Unit,
			Date:    form.Date,
			Caption: form.Caption,
		}
		for _, image := range form.Images {
			data, err := os.ReadFile(m.resolve(image))
			if err != nil {
				return nil, fmt.Errorf("form %d: failed to read image: %w", i+1, err)
			}
			req.Images = append(req.Images, data)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// Options converts the manifest settings into engine options.
func (m *Manifest) Options() ([]formdoc.Option, error) {
	var opts []formdoc.Option
	if m.Config != "" {
		config, err := formdoc.LoadConfigFile(m.resolve(m.Config))
		if err != nil {
			return nil, err
		}
		opts = append(opts, formdoc.WithConfig(config))
	}
	if m.Template != "" {
		opts = append(opts, formdoc.WithTemplatePath(m.resolve(m.Template)))
	}
	if m.ImageHeightCm > 0 {
		opts = append(opts, formdoc.WithImageHeight(m.ImageHeightCm))
	}
	return opts, nil
}
