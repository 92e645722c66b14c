package formdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminschreck/go-formdoc/pkg/formdoc/ooxml"
)

func parseBody(t *testing.T, body string) *ooxml.Document {
	t.Helper()
	doc, err := ooxml.ParseDocument([]byte(documentXML(body)))
	require.NoError(t, err)
	return doc
}

func bodyTexts(doc *ooxml.Document) []string {
	var texts []string
	for _, p := range doc.Body().Paragraphs() {
		texts = append(texts, p.Text())
	}
	for _, table := range doc.Body().Tables() {
		for _, cell := range table.Cells() {
			texts = append(texts, cell.Text())
		}
	}
	return texts
}

var testValues = Values{Unit: "Unit A", Date: "01.01.2024", Caption: "Inspection"}

func TestSubstitute(t *testing.T) {
	doc := parseBody(t, formTemplateBody)

	result := Substitute(doc.Body(), testValues)

	assert.Equal(t, 3, result.Paragraphs)
	require.NotNil(t, result.ImageCell)
	assert.Zero(t, result.ExtraImageCells)
	assert.Equal(t, []string{"Unidade: Unit A", "Data: 01.01.2024", "", "Inspection"}, bodyTexts(doc))
}

func TestSubstituteSplitRuns(t *testing.T) {
	doc := parseBody(t, `<w:p>`+
		`<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Data: </w:t></w:r>`+
		`<w:r><w:t>[</w:t></w:r><w:r><w:rPr><w:i/></w:rPr><w:t>DATA]</w:t></w:r>`+
		`</w:p>`)

	Substitute(doc.Body(), testValues)

	p := doc.Body().Paragraphs()[0]
	assert.Equal(t, "Data: 01.01.2024", p.Text())
	runs := p.Runs()
	require.Len(t, runs, 1, "text is collapsed into the first run")
	assert.NotNil(t, runs[0].Element().SelectElement("rPr"), "first run keeps its formatting")
}

func TestSubstituteSinglePass(t *testing.T) {
	doc := parseBody(t, `<w:p><w:r><w:t>[UNIDADE] / [DATA]</w:t></w:r></w:p>`)

	Substitute(doc.Body(), Values{Unit: "[DATA]", Date: "[LEGENDA]", Caption: "x"})

	assert.Equal(t, "[DATA] / [LEGENDA]", doc.Body().Paragraphs()[0].Text())
}

func TestSubstituteIsIdempotent(t *testing.T) {
	doc := parseBody(t, formTemplateBody)
	Substitute(doc.Body(), testValues)
	first, err := doc.Bytes()
	require.NoError(t, err)

	result := Substitute(doc.Body(), testValues)
	second, err := doc.Bytes()
	require.NoError(t, err)

	assert.Zero(t, result.Paragraphs)
	assert.Nil(t, result.ImageCell)
	assert.Equal(t, string(first), string(second))
}

func TestSubstituteLeavesOtherParagraphs(t *testing.T) {
	body := `<w:p><w:r><w:t>Plain</w:t></w:r><w:r><w:t xml:space="preserve"> text</w:t></w:r></w:p>`
	doc := parseBody(t, body)

	result := Substitute(doc.Body(), testValues)

	assert.Zero(t, result.Paragraphs)
	assert.Len(t, doc.Body().Paragraphs()[0].Runs(), 2, "untouched paragraphs keep their runs")
}

func TestSubstituteImageToken(t *testing.T) {
	t.Run("cell with other tokens is cleared", func(t *testing.T) {
		doc := parseBody(t, `<w:tbl><w:tr><w:tc>`+
			`<w:p><w:r><w:t>[LEGENDA]</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>[IMAGENS]</w:t></w:r></w:p>`+
			`</w:tc></w:tr></w:tbl>`)

		result := Substitute(doc.Body(), testValues)

		require.NotNil(t, result.ImageCell)
		assert.Equal(t, "\n", result.ImageCell.Text())
		assert.Zero(t, result.Paragraphs)
	})

	t.Run("top-level token is ignored", func(t *testing.T) {
		doc := parseBody(t, `<w:p><w:r><w:t>[IMAGENS]</w:t></w:r></w:p>`)

		result := Substitute(doc.Body(), testValues)

		assert.Nil(t, result.ImageCell)
		assert.Equal(t, "[IMAGENS]", doc.Body().Paragraphs()[0].Text())
	})

	t.Run("extra cells are cleared", func(t *testing.T) {
		doc := parseBody(t, `<w:tbl><w:tr>`+
			`<w:tc><w:p><w:r><w:t>[IMAGENS]</w:t></w:r></w:p></w:tc>`+
			`<w:tc><w:p><w:r><w:t>[IMAGENS]</w:t></w:r></w:p></w:tc>`+
			`</w:tr></w:tbl>`)

		result := Substitute(doc.Body(), testValues)

		require.NotNil(t, result.ImageCell)
		assert.Equal(t, 1, result.ExtraImageCells)
		assert.Equal(t, []string{"", ""}, bodyTexts(doc))
	})
}
