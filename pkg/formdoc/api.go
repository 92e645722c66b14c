// Package formdoc fills a fixed DOCX form template from structured requests and
// merges the resulting single-page documents into one multi-page package.
//
// Basic Usage:
//
//	engine := formdoc.New()
//	out, err := engine.Generate(formdoc.FormRequest{
//	    Unit:    "Unit A",
//	    Date:    "01.01.2024",
//	    Caption: "Inspection",
//	    Images:  [][]byte{photo},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("report.docx", out, 0o644)
//
// Template Tokens:
//
// [UNIDADE], [DATA] and [LEGENDA] are replaced by the request's unit, date and
// caption wherever they appear in paragraph or table-cell text. The table cell
// containing [IMAGENS] receives up to four images laid out in a grid.
//
// GenerateMultiple assembles one page per request and joins the pages with hard
// page breaks.
package formdoc

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FormRequest is one normalized form submission.
type FormRequest struct {
	Unit    string
	Date    string
	Caption string
	// Images holds encoded image files. Only the first MaxImages are used.
	Images [][]byte
}

// Validate checks the fields the template cannot do without.
func (r FormRequest) Validate() error {
	return validateRequests([]FormRequest{r}, false)
}

func validateRequests(reqs []FormRequest, indexed bool) error {
	var issues []ValidationIssue
	if len(reqs) == 0 {
		issues = append(issues, ValidationIssue{Field: "requests", Message: "at least one request is required"})
	}
	for i, req := range reqs {
		prefix := ""
		if indexed {
			prefix = "requests[" + strconv.Itoa(i) + "]."
		}
		if strings.TrimSpace(req.Unit) == "" {
			issues = append(issues, ValidationIssue{Field: prefix + "unit", Message: "must not be empty"})
		}
		if strings.TrimSpace(req.Caption) == "" {
			issues = append(issues, ValidationIssue{Field: prefix + "caption", Message: "must not be empty"})
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// Engine assembles and merges form documents.
// Use New() to create a new engine instance. An Engine is safe for concurrent use.
type Engine struct {
	config       *Config
	cache        *TemplateCache
	logger       *Logger
	templateData []byte
}

// New creates a new engine with the global configuration.
func New() *Engine {
	return NewWithConfig(GetGlobalConfig())
}

// NewWithConfig creates a new engine with custom configuration.
func NewWithConfig(config *Config) *Engine {
	cfg := NewConfigWithDefaults(config)
	return &Engine{
		config: cfg,
		cache: NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: cfg.CacheMaxSize,
			TTL:     cfg.CacheTTL,
		}),
	}
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig returns an option that sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		cfg := NewConfigWithDefaults(config)
		e.config = cfg
		e.cache = NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: cfg.CacheMaxSize,
			TTL:     cfg.CacheTTL,
		})
	}
}

// WithTemplatePath returns an option that loads the template from path.
func WithTemplatePath(path string) Option {
	return func(e *Engine) {
		e.config.TemplatePath = path
	}
}

// WithTemplateBytes returns an option that uses data as the template. It takes
// precedence over any template path.
func WithTemplateBytes(data []byte) Option {
	return func(e *Engine) {
		e.templateData = bytes.Clone(data)
	}
}

// WithLogger returns an option that sets the engine's logger.
func WithLogger(logger *Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWorkDir returns an option that places merge working areas under dir.
func WithWorkDir(dir string) Option {
	return func(e *Engine) {
		e.config.WorkDir = dir
	}
}

// WithImageHeight returns an option that sets the image height in centimeters.
func WithImageHeight(cm float64) Option {
	return func(e *Engine) {
		e.config.ImageHeightCm = cm
	}
}

// NewWithOptions creates a new engine with the specified options.
func NewWithOptions(opts ...Option) *Engine {
	engine := New()
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	return *e.config
}

// ClearCache removes all templates from the cache.
func (e *Engine) ClearCache() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

func (e *Engine) log() *Logger {
	if e.logger != nil {
		return e.logger
	}
	return GetLogger()
}

func (e *Engine) templateSource() *templateSource {
	return &templateSource{
		path:  e.config.TemplatePath,
		data:  e.templateData,
		cache: e.cache,
	}
}

// merger returns a Merger sharing the engine's work dir and logger.
func (e *Engine) merger(logger *Logger) *Merger {
	return &Merger{WorkDir: e.config.WorkDir, Logger: logger}
}

// Generate validates req and returns the assembled single-page document.
func (e *Engine) Generate(req FormRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	pkg, err := e.Assemble(req)
	if err != nil {
		return nil, err
	}
	return pkg.Bytes(), nil
}

// GenerateMultiple assembles one page per request and merges them in order.
// A single request skips the merge.
func (e *Engine) GenerateMultiple(reqs []FormRequest) ([]byte, error) {
	if err := validateRequests(reqs, true); err != nil {
		return nil, err
	}

	logger := e.log().WithFields(Fields{
		"request":  uuid.NewString(),
		"requests": len(reqs),
	})

	pkgs := make([]Package, 0, len(reqs))
	for i, req := range reqs {
		pkg, err := e.assemble(req, logger.WithField("form", i))
		if err != nil {
			return nil, WithContext(err, "assemble", map[string]interface{}{"form": i})
		}
		pkgs = append(pkgs, pkg)
	}

	merged, err := e.merger(logger).Merge(pkgs)
	if err != nil {
		return nil, err
	}
	return merged.Bytes(), nil
}

// Merge joins pkgs into one package using the engine's work dir.
func (e *Engine) Merge(pkgs []Package) (Package, error) {
	return e.merger(e.log()).Merge(pkgs)
}

// DefaultEngine is the global default engine instance.
var DefaultEngine = New()

// Generate assembles a single document using the default engine.
func Generate(req FormRequest) ([]byte, error) {
	return DefaultEngine.Generate(req)
}

// GenerateMultiple assembles and merges documents using the default engine.
func GenerateMultiple(reqs []FormRequest) ([]byte, error) {
	return DefaultEngine.GenerateMultiple(reqs)
}
