package formdoc

import (
	"strings"

	"github.com/benjaminschreck/go-formdoc/pkg/formdoc/ooxml"
)

// Values holds the replacement text for the textual tokens.
type Values struct {
	Unit    string
	Date    string
	Caption string
}

// SubstitutionResult reports what Substitute changed.
type SubstitutionResult struct {
	// Paragraphs is the number of paragraphs whose text was rewritten.
	Paragraphs int
	// ImageCell is the cleared cell that held TokenImages, or nil.
	ImageCell *ooxml.Cell
	// ExtraImageCells counts further TokenImages cells, which are cleared and left empty.
	ExtraImageCells int
}

func (v Values) replacer() *strings.Replacer {
	return strings.NewReplacer(
		TokenUnit, v.Unit,
		TokenDate, v.Date,
		TokenCaption, v.Caption,
	)
}

func containsTextToken(s string) bool {
	return strings.Contains(s, TokenUnit) ||
		strings.Contains(s, TokenDate) ||
		strings.Contains(s, TokenCaption)
}

// Substitute replaces the textual tokens in the body's top-level paragraphs and
// table cells. All tokens are replaced in one pass, so a value that looks like
// a token is written literally. A cell whose text contains TokenImages is
// cleared of runs and returned for image layout; the image token is not
// recognized outside table cells.
func Substitute(body *ooxml.Body, v Values) SubstitutionResult {
	var result SubstitutionResult
	r := v.replacer()

	rewrite := func(p *ooxml.Paragraph) {
		text := p.Text()
		if !containsTextToken(text) {
			return
		}
		p.SetText(r.Replace(text))
		result.Paragraphs++
	}

	for _, p := range body.Paragraphs() {
		rewrite(p)
	}

	for _, table := range body.Tables() {
		for _, cell := range table.Cells() {
			if strings.Contains(cell.Text(), TokenImages) {
				cell.ClearRuns()
				if result.ImageCell == nil {
					result.ImageCell = cell
				} else {
					result.ExtraImageCells++
				}
				continue
			}
			for _, p := range cell.Paragraphs() {
				rewrite(p)
			}
		}
	}

	return result
}
