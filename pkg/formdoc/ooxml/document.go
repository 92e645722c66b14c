package ooxml

import (
	"fmt"

	"github.com/beevik/etree"
)

// Document is a parsed word/document.xml part.
type Document struct {
	tree *etree.Document
}

// ParseDocument parses the bytes of a main document part.
func ParseDocument(data []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	root := tree.Root()
	if root == nil || root.Tag != "document" {
		return nil, fmt.Errorf("failed to parse document: root element is not w:document")
	}
	if root.SelectElement("body") == nil {
		return nil, fmt.Errorf("failed to parse document: missing w:body")
	}

	return &Document{tree: tree}, nil
}

// Root returns the w:document element.
func (d *Document) Root() *etree.Element {
	return d.tree.Root()
}

// Body returns the document body.
func (d *Document) Body() *Body {
	return &Body{el: d.tree.Root().SelectElement("body")}
}

// Bytes serializes the document, keeping the original XML declaration.
func (d *Document) Bytes() ([]byte, error) {
	return d.tree.WriteToBytes()
}

// Body is the w:body element holding paragraphs, tables and the final w:sectPr.
type Body struct {
	el *etree.Element
}

// Element returns the underlying w:body element.
func (b *Body) Element() *etree.Element {
	return b.el
}

// Elements returns the top-level content elements in order, excluding w:sectPr.
func (b *Body) Elements() []*etree.Element {
	var elements []*etree.Element
	for _, child := range b.el.ChildElements() {
		if child.Tag == "sectPr" {
			continue
		}
		elements = append(elements, child)
	}
	return elements
}

// Paragraphs returns the top-level paragraphs.
func (b *Body) Paragraphs() []*Paragraph {
	var paragraphs []*Paragraph
	for _, el := range b.el.SelectElements("p") {
		paragraphs = append(paragraphs, &Paragraph{el: el})
	}
	return paragraphs
}

// Tables returns the top-level tables.
func (b *Body) Tables() []*Table {
	var tables []*Table
	for _, el := range b.el.SelectElements("tbl") {
		tables = append(tables, &Table{el: el})
	}
	return tables
}

// SectionProperties returns the trailing w:sectPr, or nil.
func (b *Body) SectionProperties() *etree.Element {
	return b.el.SelectElement("sectPr")
}

// Append adds el to the end of the body content. The body's w:sectPr stays last.
func (b *Body) Append(el *etree.Element) {
	if sectPr := b.SectionProperties(); sectPr != nil {
		for i, tok := range b.el.Child {
			if tok == sectPr {
				b.el.InsertChildAt(i, el)
				return
			}
		}
	}
	b.el.AddChild(el)
}
