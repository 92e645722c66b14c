package formdoc

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/benjaminschreck/go-formdoc/pkg/formdoc/ooxml"
)

// Assemble fills a fresh copy of the template from req and returns the
// serialized single-page package. The template itself is never modified.
func (e *Engine) Assemble(req FormRequest) (Package, error) {
	return e.assemble(req, e.log())
}

func (e *Engine) assemble(req FormRequest, logger *Logger) (Package, error) {
	if !validImageHeight(e.config.ImageHeightCm) {
		return Package{}, &ValidationError{Issues: []ValidationIssue{{
			Field:   "image_height_cm",
			Message: fmt.Sprintf("must be a positive number of centimeters, got %v", e.config.ImageHeightCm),
		}}}
	}

	source := e.templateSource()
	templateData, err := source.load()
	if err != nil {
		return Package{}, err
	}

	images := req.Images
	if len(images) > MaxImages {
		logger.Warn("request has %d images, only the first %d are used", len(images), MaxImages)
		images = images[:MaxImages]
	}
	media := make([]MediaInfo, len(images))
	for i, data := range images {
		info, err := SniffImage(data)
		if err != nil {
			return Package{}, &ImageError{Index: i, Cause: err}
		}
		media[i] = info
	}

	reader, err := DocxReaderFromBytes(templateData)
	if err != nil {
		return Package{}, NewMalformedPackageError(-1, "", err)
	}
	parts, err := readParts(reader, -1)
	if err != nil {
		return Package{}, err
	}

	doc, err := ooxml.ParseDocument(parts[documentPart])
	if err != nil {
		return Package{}, NewMalformedPackageError(-1, documentPart, err)
	}

	rels := &Relationships{Namespace: relationshipsNS}
	if data, ok := parts[relationshipsPart]; ok {
		if rels, err = parseRelationships(data); err != nil {
			return Package{}, NewMalformedPackageError(-1, relationshipsPart, err)
		}
	}

	contentTypesData, ok := parts[contentTypesPart]
	if !ok {
		return Package{}, NewMalformedPackageError(-1, contentTypesPart, errors.New("part is missing"))
	}
	contentTypes, err := parseContentTypes(contentTypesData)
	if err != nil {
		return Package{}, NewMalformedPackageError(-1, contentTypesPart, err)
	}

	result := Substitute(doc.Body(), Values{Unit: req.Unit, Date: req.Date, Caption: req.Caption})
	if result.ExtraImageCells > 0 {
		logger.Warn("template has %d extra %s cells, they are left empty", result.ExtraImageCells, TokenImages)
	}

	plan := PlanLayout(len(images), e.config.ImageHeightCm)
	switch {
	case plan.Empty():
	case result.ImageCell == nil:
		logger.Warn("template has no %s cell, %d images dropped", TokenImages, len(images))
	default:
		ids := NewRelIDAllocator(rels)
		nextMedia := maxMediaIndex(reader.ListParts()) + 1
		nextDocID := ooxml.MaxDrawingID(doc.Root()) + 1

		placed := make([]placedImage, len(images))
		for i, data := range images {
			id, err := ids.Next()
			if err != nil {
				return Package{}, err
			}
			name := mediaPartName(nextMedia+i, media[i].Ext)
			parts[name] = data
			rels.Relationship = append(rels.Relationship, Relationship{
				ID:     id,
				Type:   imageRelationshipType,
				Target: mediaTarget(name),
			})
			contentTypes.EnsureDefault(media[i].Ext, media[i].ContentType)
			placed[i] = placedImage{RelID: id, Name: path.Base(name), DocID: nextDocID + i}
		}

		root := doc.Root()
		ooxml.EnsureNamespace(root, "r", ooxml.RelationshipsNS)
		ooxml.EnsureNamespace(root, "wp", ooxml.DrawingNS)
		applyLayout(result.ImageCell, plan, placed)
	}

	if parts[documentPart], err = doc.Bytes(); err != nil {
		return Package{}, NewSerializationError(documentPart, err)
	}
	if parts[relationshipsPart], err = marshalRelationships(rels); err != nil {
		return Package{}, NewSerializationError(relationshipsPart, err)
	}
	if parts[contentTypesPart], err = marshalContentTypes(contentTypes); err != nil {
		return Package{}, NewSerializationError(contentTypesPart, err)
	}

	pkg, err := buildPackage(parts)
	if err != nil {
		return Package{}, err
	}

	logger.WithFields(Fields{
		"template":   source.describe(),
		"images":     plan.Count,
		"paragraphs": result.Paragraphs,
	}).Debug("assembled form page (%d bytes)", pkg.Len())
	return pkg, nil
}

// readParts loads every file entry of the package. pkg identifies the package
// in errors.
func readParts(reader *DocxReader, pkg int) (map[string][]byte, error) {
	parts := make(map[string][]byte, len(reader.Parts))
	for _, file := range reader.Files() {
		if strings.HasSuffix(file.Name, "/") {
			continue
		}
		data, err := reader.GetPart(file.Name)
		if err != nil {
			return nil, NewMalformedPackageError(pkg, file.Name, err)
		}
		parts[file.Name] = data
	}
	return parts, nil
}
