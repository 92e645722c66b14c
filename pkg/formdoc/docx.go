package formdoc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

// Well-known part names and relationship types.
const (
	documentPart      = "word/document.xml"
	relationshipsPart = "word/_rels/document.xml.rels"
	contentTypesPart  = "[Content_Types].xml"
	mediaDir          = "word/media"

	imageRelationshipType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relationshipsNS       = "http://schemas.openxmlformats.org/package/2006/relationships"
	contentTypesNS        = "http://schemas.openxmlformats.org/package/2006/content-types"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// DocxReader indexes the parts of an in-memory DOCX package.
type DocxReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// Relationship represents a relationship in the DOCX package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships represents the collection of relationships
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

// ContentTypes represents [Content_Types].xml
type ContentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []ContentTypeDefault  `xml:"Default"`
	Overrides []ContentTypeOverride `xml:"Override"`
}

// ContentTypeDefault maps a file extension to a content type
type ContentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypeOverride maps a single part to a content type
type ContentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// NewDocxReader creates a new DOCX reader
func NewDocxReader(r io.ReaderAt, size int64) (*DocxReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	dr := &DocxReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}

	for _, file := range zipReader.File {
		dr.Parts[file.Name] = file
	}

	if _, ok := dr.Parts[documentPart]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", documentPart)
	}

	return dr, nil
}

// DocxReaderFromBytes creates a DocxReader over data
func DocxReaderFromBytes(data []byte) (*DocxReader, error) {
	return NewDocxReader(bytes.NewReader(data), int64(len(data)))
}

// GetPart retrieves the content of a specific part
func (dr *DocxReader) GetPart(partName string) ([]byte, error) {
	file, ok := dr.Parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s not found", partName)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partName, err)
	}

	return content, nil
}

// HasPart reports whether the package contains partName
func (dr *DocxReader) HasPart(partName string) bool {
	_, ok := dr.Parts[partName]
	return ok
}

// Files returns the package entries in archive order
func (dr *DocxReader) Files() []*zip.File {
	return dr.reader.File
}

// ListParts returns a list of all part names in the DOCX
func (dr *DocxReader) ListParts() []string {
	parts := make([]string, 0, len(dr.reader.File))
	for _, file := range dr.reader.File {
		parts = append(parts, file.Name)
	}
	return parts
}

// parseRelationships decodes a relationships part.
func parseRelationships(data []byte) (*Relationships, error) {
	var rels Relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}
	if rels.Namespace == "" {
		rels.Namespace = relationshipsNS
	}
	return &rels, nil
}

// marshalRelationships encodes a relationships part with the XML declaration
// Word expects.
func marshalRelationships(rels *Relationships) ([]byte, error) {
	if rels.Namespace == "" {
		rels.Namespace = relationshipsNS
	}
	output, err := xml.Marshal(rels)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relationships: %w", err)
	}
	return append([]byte(xmlHeader), output...), nil
}

// Images returns the image relationships in document order.
func (r *Relationships) Images() []Relationship {
	var images []Relationship
	for _, rel := range r.Relationship {
		if isImageRelationship(rel) {
			images = append(images, rel)
		}
	}
	return images
}

// Find returns the relationship with id, if present.
func (r *Relationships) Find(id string) (Relationship, bool) {
	for _, rel := range r.Relationship {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// isImageRelationship checks if a relationship is an internal image relationship
func isImageRelationship(rel Relationship) bool {
	return rel.Type == imageRelationshipType && !strings.EqualFold(rel.TargetMode, "External")
}

// resolveTarget turns a relationship target of word/document.xml into a part name.
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join("word", target)
}

// parseContentTypes decodes [Content_Types].xml.
func parseContentTypes(data []byte) (*ContentTypes, error) {
	var ct ContentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("failed to parse content types: %w", err)
	}
	if ct.Namespace == "" {
		ct.Namespace = contentTypesNS
	}
	return &ct, nil
}

// marshalContentTypes encodes [Content_Types].xml.
func marshalContentTypes(ct *ContentTypes) ([]byte, error) {
	if ct.Namespace == "" {
		ct.Namespace = contentTypesNS
	}
	output, err := xml.Marshal(ct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content types: %w", err)
	}
	return append([]byte(xmlHeader), output...), nil
}

// EnsureDefault registers contentType for ext unless the extension is already
// known. It reports whether the set changed.
func (ct *ContentTypes) EnsureDefault(ext, contentType string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, def := range ct.Defaults {
		if strings.EqualFold(def.Extension, ext) {
			return false
		}
	}
	ct.Defaults = append(ct.Defaults, ContentTypeDefault{
		Extension:   ext,
		ContentType: contentType,
	})
	return true
}
