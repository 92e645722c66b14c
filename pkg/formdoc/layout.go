package formdoc

import (
	"github.com/benjaminschreck/go-formdoc/pkg/formdoc/ooxml"
)

// MaxImages is the number of images placed on one page. Further images are ignored.
const MaxImages = 4

// Image widths in centimeters.
const (
	singleColumnWidthCm = 9.6
	twoColumnWidthCm    = 6.8
)

// rowGapTwips is the space after the first of two image rows (6pt).
const rowGapTwips = 120

// imageSeparator sits between side-by-side images.
const imageSeparator = "  "

// LayoutPlan places up to MaxImages images in a cell. Rows holds indices into
// the image list; sizes are in centimeters.
type LayoutPlan struct {
	Count  int
	Width  float64
	Height float64
	Rows   [][]int
}

// Empty reports whether the plan places no images.
func (p LayoutPlan) Empty() bool {
	return p.Count == 0
}

// PlanLayout computes the grid for n images at the given image height:
//
//	1 image:  one row, 9.6cm wide
//	2 images: stacked, 9.6cm wide
//	3 images: two side by side, one below, 6.8cm wide
//	4 images: 2x2, 6.8cm wide
//
// Counts above MaxImages are treated as MaxImages; zero or fewer give an empty plan.
func PlanLayout(n int, heightCm float64) LayoutPlan {
	if n <= 0 {
		return LayoutPlan{}
	}
	if n > MaxImages {
		n = MaxImages
	}

	plan := LayoutPlan{Count: n, Height: heightCm}
	switch n {
	case 1:
		plan.Width = singleColumnWidthCm
		plan.Rows = [][]int{{0}}
	case 2:
		plan.Width = singleColumnWidthCm
		plan.Rows = [][]int{{0}, {1}}
	case 3:
		plan.Width = twoColumnWidthCm
		plan.Rows = [][]int{{0, 1}, {2}}
	default:
		plan.Width = twoColumnWidthCm
		plan.Rows = [][]int{{0, 1}, {2, 3}}
	}
	return plan
}

// placedImage is an image already stored in the package.
type placedImage struct {
	RelID string
	Name  string
	DocID int
}

// applyLayout writes plan into cell. The cell is expected to have been cleared
// of runs; its existing paragraphs are reused row by row before new ones are
// added.
func applyLayout(cell *ooxml.Cell, plan LayoutPlan, images []placedImage) {
	if plan.Empty() {
		return
	}

	cell.SetVerticalAlign("center")

	width := ooxml.EMUFromCm(plan.Width)
	height := ooxml.EMUFromCm(plan.Height)
	existing := cell.Paragraphs()

	for i, row := range plan.Rows {
		var p *ooxml.Paragraph
		if i < len(existing) {
			p = existing[i]
		} else {
			p = cell.AddParagraph()
		}

		spacing := ooxml.SingleSpacing
		if i == 0 && len(plan.Rows) > 1 {
			spacing.After = rowGapTwips
		}
		p.SetSpacing(spacing)
		p.SetAlignment("center")

		for j, index := range row {
			if j > 0 {
				p.AddTextRun(imageSeparator)
			}
			img := images[index]
			p.AddRun().AddElement(ooxml.NewInlineDrawing(ooxml.InlineImage{
				RelID:  img.RelID,
				Name:   img.Name,
				DocID:  img.DocID,
				Width:  width,
				Height: height,
			}))
		}
	}
}
