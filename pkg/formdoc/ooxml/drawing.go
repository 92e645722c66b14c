package ooxml

import (
	"math"
	"strconv"

	"github.com/beevik/etree"
)

const (
	// EMUPerInch is the number of English Metric Units in one inch.
	EMUPerInch = 914400
	// CmPerInch converts centimeters to inches.
	CmPerInch = 2.54
)

// EMUFromCm converts centimeters to EMU via inches, rounding to the nearest unit.
func EMUFromCm(cm float64) int64 {
	return int64(math.Round(cm / CmPerInch * EMUPerInch))
}

// InlineImage describes one picture placed inline in a run.
type InlineImage struct {
	RelID  string // relationship id of the media part
	Name   string // file name shown in the picture properties
	DocID  int    // wp:docPr id, unique within the document
	Width  int64  // EMU
	Height int64  // EMU
}

// NewInlineDrawing builds the w:drawing markup for img. The a and pic namespaces
// are declared locally; w, r and wp must be declared on the document root.
func NewInlineDrawing(img InlineImage) *etree.Element {
	cx := strconv.FormatInt(img.Width, 10)
	cy := strconv.FormatInt(img.Height, 10)
	docID := strconv.Itoa(img.DocID)

	drawing := etree.NewElement("w:drawing")
	inline := drawing.CreateElement("wp:inline")
	inline.CreateAttr("distT", "0")
	inline.CreateAttr("distB", "0")
	inline.CreateAttr("distL", "0")
	inline.CreateAttr("distR", "0")

	extent := inline.CreateElement("wp:extent")
	extent.CreateAttr("cx", cx)
	extent.CreateAttr("cy", cy)

	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", docID)
	docPr.CreateAttr("name", "Picture "+docID)

	framePr := inline.CreateElement("wp:cNvGraphicFramePr")
	locks := framePr.CreateElement("a:graphicFrameLocks")
	locks.CreateAttr("xmlns:a", DrawingMainNS)
	locks.CreateAttr("noChangeAspect", "1")

	graphic := inline.CreateElement("a:graphic")
	graphic.CreateAttr("xmlns:a", DrawingMainNS)
	graphicData := graphic.CreateElement("a:graphicData")
	graphicData.CreateAttr("uri", PictureNS)

	pic := graphicData.CreateElement("pic:pic")
	pic.CreateAttr("xmlns:pic", PictureNS)

	nvPicPr := pic.CreateElement("pic:nvPicPr")
	cNvPr := nvPicPr.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", "0")
	cNvPr.CreateAttr("name", img.Name)
	nvPicPr.CreateElement("pic:cNvPicPr")

	blipFill := pic.CreateElement("pic:blipFill")
	blip := blipFill.CreateElement("a:blip")
	blip.CreateAttr("r:embed", img.RelID)
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", cx)
	ext.CreateAttr("cy", cy)
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")

	return drawing
}

// Drawings returns every w:drawing below root.
func Drawings(root *etree.Element) []*etree.Element {
	return root.FindElements(".//drawing")
}

// Extent returns the wp:extent size of a w:drawing in EMU.
func Extent(drawing *etree.Element) (cx, cy int64, ok bool) {
	extent := drawing.FindElement(".//extent")
	if extent == nil {
		return 0, 0, false
	}
	cx, errX := strconv.ParseInt(extent.SelectAttrValue("cx", ""), 10, 64)
	cy, errY := strconv.ParseInt(extent.SelectAttrValue("cy", ""), 10, 64)
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return cx, cy, true
}

// DrawingIDs returns the wp:docPr elements below root, which carry the
// document-wide drawing object ids.
func DrawingIDs(root *etree.Element) []*etree.Element {
	return root.FindElements(".//docPr")
}

// MaxDrawingID returns the largest numeric wp:docPr id below root.
func MaxDrawingID(root *etree.Element) int {
	maxID := 0
	for _, docPr := range DrawingIDs(root) {
		if id, err := strconv.Atoi(docPr.SelectAttrValue("id", "")); err == nil && id > maxID {
			maxID = id
		}
	}
	return maxID
}

// RenumberDrawingIDs assigns consecutive wp:docPr ids below root starting at next
// and returns the next unused id.
func RenumberDrawingIDs(root *etree.Element, next int) int {
	for _, docPr := range DrawingIDs(root) {
		docPr.CreateAttr("id", strconv.Itoa(next))
		next++
	}
	return next
}
