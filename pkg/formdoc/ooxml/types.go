package ooxml

import (
	"github.com/beevik/etree"
)

// Namespace URIs used by the markup this package reads and writes.
const (
	WordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	RelationshipsNS  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	DrawingNS        = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	DrawingMainNS    = "http://schemas.openxmlformats.org/drawingml/2006/main"
	PictureNS        = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	XMLNS            = "http://www.w3.org/XML/1998/namespace"
)

// NamespaceURI resolves prefix against the xmlns declarations of el and its
// ancestors. It returns "" when the prefix is not declared.
func NamespaceURI(el *etree.Element, prefix string) string {
	if prefix == "xml" {
		return XMLNS
	}
	for e := el; e != nil; e = e.Parent() {
		for _, attr := range e.Attr {
			if attr.Space == "xmlns" && attr.Key == prefix {
				return attr.Value
			}
		}
	}
	return ""
}

// Namespaces returns the prefix -> URI declarations made directly on el.
func Namespaces(el *etree.Element) map[string]string {
	result := make(map[string]string)
	for _, attr := range el.Attr {
		if attr.Space == "xmlns" {
			result[attr.Key] = attr.Value
		}
	}
	return result
}

// EnsureNamespace declares prefix on el unless it is already declared there.
func EnsureNamespace(el *etree.Element, prefix, uri string) {
	for _, attr := range el.Attr {
		if attr.Space == "xmlns" && attr.Key == prefix {
			return
		}
	}
	el.CreateAttr("xmlns:"+prefix, uri)
}

// paragraphPropertyOrder is the schema order of the w:pPr children we may insert.
var paragraphPropertyOrder = map[string]int{
	"pStyle":              0,
	"keepNext":            1,
	"keepLines":           2,
	"pageBreakBefore":     3,
	"framePr":             4,
	"widowControl":        5,
	"numPr":               6,
	"suppressLineNumbers": 7,
	"pBdr":                8,
	"shd":                 9,
	"tabs":                10,
	"suppressAutoHyphens": 11,
	"kinsoku":             12,
	"wordWrap":            13,
	"overflowPunct":       14,
	"topLinePunct":        15,
	"autoSpaceDE":         16,
	"autoSpaceDN":         17,
	"bidi":                18,
	"adjustRightInd":      19,
	"snapToGrid":          20,
	"spacing":             21,
	"ind":                 22,
	"contextualSpacing":   23,
	"mirrorIndents":       24,
	"suppressOverlap":     25,
	"jc":                  26,
	"textDirection":       27,
	"textAlignment":       28,
	"textboxTightWrap":    29,
	"outlineLvl":          30,
	"divId":               31,
	"cnfStyle":            32,
	"rPr":                 33,
	"sectPr":              34,
	"pPrChange":           35,
}

// cellPropertyOrder is the schema order of the w:tcPr children.
var cellPropertyOrder = map[string]int{
	"cnfStyle":      0,
	"tcW":           1,
	"gridSpan":      2,
	"hMerge":        3,
	"vMerge":        4,
	"tcBorders":     5,
	"shd":           6,
	"noWrap":        7,
	"tcMar":         8,
	"textDirection": 9,
	"tcFitText":     10,
	"vAlign":        11,
	"hideMark":      12,
	"headers":       13,
	"cellIns":       14,
	"cellDel":       15,
	"cellMerge":     16,
	"tcPrChange":    17,
}

// setProperty replaces the child of props named like child (local name) and keeps
// the children in schema order. Unknown siblings are left where they are.
func setProperty(props, child *etree.Element, order map[string]int) {
	if old := props.SelectElement(child.Tag); old != nil {
		props.RemoveChild(old)
	}

	rank, known := order[child.Tag]
	if known {
		for i, tok := range props.Child {
			sibling, ok := tok.(*etree.Element)
			if !ok {
				continue
			}
			if r, ok := order[sibling.Tag]; ok && r > rank {
				props.InsertChildAt(i, child)
				return
			}
		}
	}
	props.AddChild(child)
}

// propertiesElement returns the properties child (pPr, tcPr, rPr) of el, creating it
// as the first child when absent.
func propertiesElement(el *etree.Element, tag string) *etree.Element {
	if props := el.SelectElement(tag); props != nil {
		return props
	}
	props := etree.NewElement("w:" + tag)
	el.InsertChildAt(0, props)
	return props
}
