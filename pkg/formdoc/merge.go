package formdoc

import (
	"fmt"
	"path"
	"strings"

	"github.com/benjaminschreck/go-formdoc/pkg/formdoc/ooxml"
)

// Merger joins single-page packages into one multi-page package. Each input
// is extracted into its own work area below WorkDir; areas are removed before
// Merge returns.
type Merger struct {
	// WorkDir is the parent of the work areas. Empty uses os.TempDir().
	WorkDir string
	// Logger receives progress output. Nil uses the global logger.
	Logger *Logger
}

// NewMerger creates a merger using the global configuration's work dir.
func NewMerger() *Merger {
	return &Merger{WorkDir: GetGlobalConfig().WorkDir}
}

func (m *Merger) log() *Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return GetLogger()
}

// mergeTarget is the base package being extended.
type mergeTarget struct {
	area         *workArea
	doc          *ooxml.Document
	rels         *Relationships
	contentTypes *ContentTypes
	ids          *RelIDAllocator

	nextMedia           int
	nextDocID           int
	contentTypesChanged bool
	pageBreaks          int
	mediaAdded          int
}

// Merge appends the bodies of pkgs[1:] to pkgs[0], each preceded by a hard page
// break, and returns the result as a new package. Image relationships of the
// appended packages get fresh ids and their media is renumbered after the
// highest media index of the base. A single package is returned unchanged.
func (m *Merger) Merge(pkgs []Package) (Package, error) {
	switch len(pkgs) {
	case 0:
		return Package{}, &ValidationError{Issues: []ValidationIssue{{
			Field: "packages", Message: "at least one package is required",
		}}}
	case 1:
		return pkgs[0], nil
	}

	logger := m.log()

	base, err := newWorkArea(m.WorkDir, "base")
	if err != nil {
		return Package{}, err
	}
	defer func() {
		if err := base.Release(); err != nil {
			logger.Warn("failed to remove work area %s: %v", base.Dir(), err)
		}
	}()

	target, err := openMergeTarget(base, pkgs[0])
	if err != nil {
		return Package{}, err
	}

	for i := 1; i < len(pkgs); i++ {
		if err := m.appendPackage(target, i, pkgs[i]); err != nil {
			return Package{}, err
		}
	}

	if err := target.flush(); err != nil {
		return Package{}, err
	}
	merged, err := base.Archive()
	if err != nil {
		return Package{}, err
	}

	logger.WithFields(Fields{
		"packages":    len(pkgs),
		"page_breaks": target.pageBreaks,
		"media":       target.mediaAdded,
	}).Info("merged %d packages (%d bytes)", len(pkgs), merged.Len())
	return merged, nil
}

func openMergeTarget(area *workArea, pkg Package) (*mergeTarget, error) {
	if err := area.Extract(pkg, 0); err != nil {
		return nil, err
	}
	doc, rels, err := loadBody(area, 0)
	if err != nil {
		return nil, err
	}

	data, err := area.ReadPart(contentTypesPart)
	if err != nil {
		return nil, NewMalformedPackageError(0, contentTypesPart, err)
	}
	contentTypes, err := parseContentTypes(data)
	if err != nil {
		return nil, NewMalformedPackageError(0, contentTypesPart, err)
	}

	names, err := area.Parts()
	if err != nil {
		return nil, err
	}

	return &mergeTarget{
		area:         area,
		doc:          doc,
		rels:         rels,
		contentTypes: contentTypes,
		ids:          NewRelIDAllocator(rels),
		nextMedia:    maxMediaIndex(names) + 1,
		nextDocID:    ooxml.MaxDrawingID(doc.Root()) + 1,
	}, nil
}

// loadBody parses the main document and its relationships from an extracted
// package. Both parts are required.
func loadBody(area *workArea, index int) (*ooxml.Document, *Relationships, error) {
	data, err := area.ReadPart(documentPart)
	if err != nil {
		return nil, nil, NewMalformedPackageError(index, documentPart, err)
	}
	doc, err := ooxml.ParseDocument(data)
	if err != nil {
		return nil, nil, NewMalformedPackageError(index, documentPart, err)
	}

	data, err = area.ReadPart(relationshipsPart)
	if err != nil {
		return nil, nil, NewMalformedPackageError(index, relationshipsPart, err)
	}
	rels, err := parseRelationships(data)
	if err != nil {
		return nil, nil, NewMalformedPackageError(index, relationshipsPart, err)
	}
	return doc, rels, nil
}

func (m *Merger) appendPackage(target *mergeTarget, index int, pkg Package) error {
	logger := m.log().WithField("package", index)

	area, err := newWorkArea(m.WorkDir, fmt.Sprintf("part%d", index))
	if err != nil {
		return err
	}
	defer func() {
		if err := area.Release(); err != nil {
			logger.Warn("failed to remove work area %s: %v", area.Dir(), err)
		}
	}()

	if err := area.Extract(pkg, index); err != nil {
		return err
	}
	doc, rels, err := loadBody(area, index)
	if err != nil {
		return err
	}

	mapping, err := target.importImages(area, index, rels)
	if err != nil {
		return err
	}

	body := doc.Body().Element()
	for _, ref := range ooxml.CollectAttrs(body, ooxml.ImageReference) {
		if _, ok := mapping[ref]; ok {
			continue
		}
		if _, ok := rels.Find(ref); !ok {
			return NewMalformedPackageError(index, relationshipsPart,
				fmt.Errorf("image reference %s has no relationship", ref))
		}
		logger.Warn("image reference %s does not point at embedded media, left as is", ref)
	}

	rewritten := ooxml.RewriteAttrs(body, ooxml.ImageReference, mapping)
	target.nextDocID = ooxml.RenumberDrawingIDs(body, target.nextDocID)

	root := target.doc.Root()
	for prefix, uri := range ooxml.Namespaces(doc.Root()) {
		ooxml.EnsureNamespace(root, prefix, uri)
	}

	targetBody := target.doc.Body()
	targetBody.Append(ooxml.NewPageBreakParagraph().Element())
	target.pageBreaks++
	for _, el := range doc.Body().Elements() {
		targetBody.Append(el.Copy())
	}

	logger.Debug("appended package: %d images, %d references rewritten", len(mapping), rewritten)
	return nil
}

// importImages copies the image media of an extracted package into the target
// and returns the old -> new relationship id mapping.
func (t *mergeTarget) importImages(area *workArea, index int, rels *Relationships) (map[string]string, error) {
	mapping := make(map[string]string)
	for _, rel := range rels.Images() {
		source := resolveTarget(rel.Target)
		data, err := area.ReadPart(source)
		if err != nil {
			return nil, NewMalformedPackageError(index, source, err)
		}

		ext := strings.ToLower(strings.TrimPrefix(path.Ext(source), "."))
		if ext == "" {
			info, err := SniffImage(data)
			if err != nil {
				return nil, NewMalformedPackageError(index, source, err)
			}
			ext = info.Ext
		}

		id, err := t.ids.Next()
		if err != nil {
			return nil, err
		}
		name := mediaPartName(t.nextMedia, ext)
		t.nextMedia++

		if err := t.area.WritePart(name, data); err != nil {
			return nil, NewSerializationError(name, err)
		}
		t.rels.Relationship = append(t.rels.Relationship, Relationship{
			ID:     id,
			Type:   imageRelationshipType,
			Target: mediaTarget(name),
		})
		if t.contentTypes.EnsureDefault(ext, contentTypeForPart(name)) {
			t.contentTypesChanged = true
		}
		mapping[rel.ID] = id
		t.mediaAdded++
	}
	return mapping, nil
}

// flush writes the edited parts back into the target's work area.
func (t *mergeTarget) flush() error {
	data, err := t.doc.Bytes()
	if err != nil {
		return NewSerializationError(documentPart, err)
	}
	if err := t.area.WritePart(documentPart, data); err != nil {
		return NewSerializationError(documentPart, err)
	}

	if data, err = marshalRelationships(t.rels); err != nil {
		return NewSerializationError(relationshipsPart, err)
	}
	if err := t.area.WritePart(relationshipsPart, data); err != nil {
		return NewSerializationError(relationshipsPart, err)
	}

	if !t.contentTypesChanged {
		return nil
	}
	if data, err = marshalContentTypes(t.contentTypes); err != nil {
		return NewSerializationError(contentTypesPart, err)
	}
	if err := t.area.WritePart(contentTypesPart, data); err != nil {
		return NewSerializationError(contentTypesPart, err)
	}
	return nil
}

// MergeBytes merges serialized packages with a default Merger.
func MergeBytes(docs ...[]byte) ([]byte, error) {
	pkgs := make([]Package, len(docs))
	for i, data := range docs {
		pkgs[i] = NewPackage(data)
	}
	merged, err := NewMerger().Merge(pkgs)
	if err != nil {
		return nil, err
	}
	return merged.Bytes(), nil
}
