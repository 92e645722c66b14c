package ooxml

import (
	"strings"

	"github.com/beevik/etree"
)

// Table is a view over a w:tbl element.
type Table struct {
	el *etree.Element
}

// Element returns the underlying w:tbl element.
func (t *Table) Element() *etree.Element {
	return t.el
}

// Cells returns every w:tc of the table in row-major order. Nested tables are not
// descended into.
func (t *Table) Cells() []*Cell {
	var cells []*Cell
	for _, row := range t.el.SelectElements("tr") {
		for _, tc := range row.SelectElements("tc") {
			cells = append(cells, &Cell{el: tc})
		}
	}
	return cells
}

// Cell is a view over a w:tc element.
type Cell struct {
	el *etree.Element
}

// Element returns the underlying w:tc element.
func (c *Cell) Element() *etree.Element {
	return c.el
}

// Paragraphs returns the cell's direct paragraphs.
func (c *Cell) Paragraphs() []*Paragraph {
	var paragraphs []*Paragraph
	for _, el := range c.el.SelectElements("p") {
		paragraphs = append(paragraphs, &Paragraph{el: el})
	}
	return paragraphs
}

// Text returns the paragraph texts of the cell joined by newlines.
func (c *Cell) Text() string {
	var texts []string
	for _, p := range c.Paragraphs() {
		texts = append(texts, p.Text())
	}
	return strings.Join(texts, "\n")
}

// AddParagraph appends an empty paragraph to the cell.
func (c *Cell) AddParagraph() *Paragraph {
	return &Paragraph{el: c.el.CreateElement("w:p")}
}

// ClearRuns removes the runs of every paragraph in the cell. A cell must keep at
// least one paragraph, so paragraphs themselves are left in place.
func (c *Cell) ClearRuns() {
	for _, p := range c.Paragraphs() {
		p.ClearRuns()
	}
}

// FirstParagraph returns the first paragraph, adding one if the cell has none.
func (c *Cell) FirstParagraph() *Paragraph {
	if el := c.el.SelectElement("p"); el != nil {
		return &Paragraph{el: el}
	}
	return c.AddParagraph()
}

// SetVerticalAlign replaces w:vAlign (top, center, bottom).
func (c *Cell) SetVerticalAlign(val string) {
	vAlign := etree.NewElement("w:vAlign")
	vAlign.CreateAttr("w:val", val)
	setProperty(propertiesElement(c.el, "tcPr"), vAlign, cellPropertyOrder)
}

// VerticalAlign returns the w:vAlign value, or "".
func (c *Cell) VerticalAlign() string {
	tcPr := c.el.SelectElement("tcPr")
	if tcPr == nil {
		return ""
	}
	if v := tcPr.SelectElement("vAlign"); v != nil {
		return v.SelectAttrValue("w:val", "")
	}
	return ""
}
