package ooxml

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Paragraph is a view over a w:p element.
type Paragraph struct {
	el *etree.Element
}

// NewParagraph returns a detached, empty w:p.
func NewParagraph() *Paragraph {
	return &Paragraph{el: etree.NewElement("w:p")}
}

// NewPageBreakParagraph returns a paragraph holding a single hard page break.
func NewPageBreakParagraph() *Paragraph {
	p := NewParagraph()
	br := p.AddRun().el.CreateElement("w:br")
	br.CreateAttr("w:type", "page")
	return p
}

// Element returns the underlying w:p element.
func (p *Paragraph) Element() *etree.Element {
	return p.el
}

// Runs returns the direct w:r children in document order.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, el := range p.el.SelectElements("r") {
		runs = append(runs, &Run{el: el})
	}
	return runs
}

// Text returns the concatenated text of the paragraph's direct runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, run := range p.Runs() {
		sb.WriteString(run.Text())
	}
	return sb.String()
}

// SetText collapses the paragraph's text into its first run. The first run keeps
// its formatting; the text of later runs is removed, and runs left with nothing
// but properties are dropped. Runs holding drawings or breaks are kept.
func (p *Paragraph) SetText(text string) {
	runs := p.Runs()
	if len(runs) == 0 {
		p.AddTextRun(text)
		return
	}

	runs[0].SetText(text)
	for _, run := range runs[1:] {
		run.clearText()
		if run.isEmpty() {
			p.el.RemoveChild(run.el)
		}
	}
}

// ClearRuns removes every run from the paragraph, keeping its properties.
func (p *Paragraph) ClearRuns() {
	for _, run := range p.Runs() {
		p.el.RemoveChild(run.el)
	}
}

// AddRun appends an empty run.
func (p *Paragraph) AddRun() *Run {
	return &Run{el: p.el.CreateElement("w:r")}
}

// AddTextRun appends a run holding text.
func (p *Paragraph) AddTextRun(text string) *Run {
	run := p.AddRun()
	run.SetText(text)
	return run
}

// SetAlignment sets w:jc (left, center, right, both).
func (p *Paragraph) SetAlignment(val string) {
	jc := etree.NewElement("w:jc")
	jc.CreateAttr("w:val", val)
	setProperty(propertiesElement(p.el, "pPr"), jc, paragraphPropertyOrder)
}

// Alignment returns the w:jc value, or "".
func (p *Paragraph) Alignment() string {
	pPr := p.el.SelectElement("pPr")
	if pPr == nil {
		return ""
	}
	if jc := pPr.SelectElement("jc"); jc != nil {
		return jc.SelectAttrValue("w:val", "")
	}
	return ""
}

// Spacing is the paragraph spacing in twentieths of a point. Unlike the template's
// own spacing, every attribute is written so zero values override style defaults.
type Spacing struct {
	Before   int
	After    int
	Line     int
	LineRule string
}

// SingleSpacing is zero before/after spacing with single line spacing.
var SingleSpacing = Spacing{Before: 0, After: 0, Line: 240, LineRule: "auto"}

// SetSpacing replaces w:spacing.
func (p *Paragraph) SetSpacing(s Spacing) {
	spacing := etree.NewElement("w:spacing")
	spacing.CreateAttr("w:before", strconv.Itoa(s.Before))
	spacing.CreateAttr("w:after", strconv.Itoa(s.After))
	spacing.CreateAttr("w:line", strconv.Itoa(s.Line))
	if s.LineRule != "" {
		spacing.CreateAttr("w:lineRule", s.LineRule)
	}
	setProperty(propertiesElement(p.el, "pPr"), spacing, paragraphPropertyOrder)
}

// Spacing returns the paragraph's w:spacing, and false when none is set.
func (p *Paragraph) Spacing() (Spacing, bool) {
	pPr := p.el.SelectElement("pPr")
	if pPr == nil {
		return Spacing{}, false
	}
	el := pPr.SelectElement("spacing")
	if el == nil {
		return Spacing{}, false
	}
	atoi := func(key string) int {
		n, _ := strconv.Atoi(el.SelectAttrValue(key, "0"))
		return n
	}
	return Spacing{
		Before:   atoi("w:before"),
		After:    atoi("w:after"),
		Line:     atoi("w:line"),
		LineRule: el.SelectAttrValue("w:lineRule", ""),
	}, true
}

// Run is a view over a w:r element.
type Run struct {
	el *etree.Element
}

// Element returns the underlying w:r element.
func (r *Run) Element() *etree.Element {
	return r.el
}

// Text returns the run's text. Tabs read as "\t", carriage returns as "\n" and
// non-breaking hyphens as "-".
func (r *Run) Text() string {
	var sb strings.Builder
	for _, child := range r.el.ChildElements() {
		switch child.Tag {
		case "t":
			sb.WriteString(child.Text())
		case "tab":
			sb.WriteByte('\t')
		case "cr":
			sb.WriteByte('\n')
		case "noBreakHyphen":
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

// SetText replaces the run's text content, placed where the first text element
// was. "\t" is written as w:tab and "\n" as w:cr.
func (r *Run) SetText(text string) {
	index := -1
	for i, tok := range r.el.Child {
		if el, ok := tok.(*etree.Element); ok && isTextContent(el) {
			index = i
			break
		}
	}
	r.clearText()
	if index < 0 || index > len(r.el.Child) {
		index = len(r.el.Child)
	}

	for _, el := range textElements(text) {
		r.el.InsertChildAt(index, el)
		index++
	}
}

func textElements(text string) []*etree.Element {
	var out []*etree.Element
	var pending strings.Builder
	flush := func() {
		if pending.Len() == 0 {
			return
		}
		t := etree.NewElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(pending.String())
		out = append(out, t)
		pending.Reset()
	}
	for _, c := range text {
		switch c {
		case '\t':
			flush()
			out = append(out, etree.NewElement("w:tab"))
		case '\n':
			flush()
			out = append(out, etree.NewElement("w:cr"))
		default:
			pending.WriteRune(c)
		}
	}
	flush()
	if len(out) == 0 {
		t := etree.NewElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		out = append(out, t)
	}
	return out
}

// AddElement appends el (for example a w:drawing) to the run.
func (r *Run) AddElement(el *etree.Element) {
	r.el.AddChild(el)
}

func (r *Run) clearText() {
	for _, el := range r.el.ChildElements() {
		if isTextContent(el) {
			r.el.RemoveChild(el)
		}
	}
}

// isTextContent reports whether el is run content that reads as text.
func isTextContent(el *etree.Element) bool {
	switch el.Tag {
	case "t", "tab", "cr", "noBreakHyphen":
		return true
	}
	return false
}

// isEmpty reports whether the run has no content besides w:rPr.
func (r *Run) isEmpty() bool {
	for _, child := range r.el.ChildElements() {
		if child.Tag != "rPr" {
			return false
		}
	}
	return true
}
