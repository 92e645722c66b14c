package formdoc

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/benjaminschreck/go-formdoc/pkg/formdoc/ooxml"
)

const testNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"`

// createTestImage encodes a small solid image in the given format.
func createTestImage(t *testing.T, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 12, 8))
	for x := 0; x < 12; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{30, 120, 200, 255})
		}
	}

	buf := new(bytes.Buffer)
	var err error
	switch format {
	case "png":
		err = png.Encode(buf, img)
	case "jpeg":
		err = jpeg.Encode(buf, img, nil)
	case "gif":
		err = gif.Encode(buf, img, nil)
	default:
		t.Fatalf("unsupported format: %s", format)
	}
	require.NoError(t, err)
	return buf.Bytes()
}

func createTestImages(t *testing.T, n int) [][]byte {
	t.Helper()
	images := make([][]byte, n)
	for i := range images {
		images[i] = createTestImage(t, "png")
	}
	return images
}

// createTestDocx zips parts, keeping the given order.
func createTestDocx(t *testing.T, parts ...[2]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for _, part := range parts {
		f, err := w.Create(part[0])
		require.NoError(t, err)
		_, err = f.Write([]byte(part[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func documentXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + testNamespaces + `><w:body>` + body +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`
}

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const testRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

func relsXML(rels ...Relationship) string {
	out, err := marshalRelationships(&Relationships{Relationship: rels})
	if err != nil {
		panic(err)
	}
	return string(out)
}

// createTemplate builds a minimal template package around body.
func createTemplate(t *testing.T, body string) []byte {
	t.Helper()
	return createTestDocx(t,
		[2]string{contentTypesPart, testContentTypes},
		[2]string{"_rels/.rels", testRootRels},
		[2]string{documentPart, documentXML(body)},
		[2]string{relationshipsPart, relsXML()},
	)
}

// formTemplateBody is the layout of the default template reduced to its tokens.
const formTemplateBody = `<w:p><w:r><w:t>Unidade: [UNIDADE]</w:t></w:r></w:p>` +
	`<w:p><w:r><w:t>Data: [DATA]</w:t></w:r></w:p>` +
	`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>[IMAGENS]</w:t></w:r></w:p></w:tc></w:tr>` +
	`<w:tr><w:tc><w:p><w:r><w:t>[LEGENDA]</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`

// packageParts reads every part of a serialized package.
func packageParts(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	parts := make(map[string][]byte)
	for _, f := range reader.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		parts[f.Name] = content
	}
	return parts
}

func parsePackageDocument(t *testing.T, data []byte) *ooxml.Document {
	t.Helper()
	doc, err := ooxml.ParseDocument(packageParts(t, data)[documentPart])
	require.NoError(t, err)
	return doc
}

func parsePackageRels(t *testing.T, data []byte) *Relationships {
	t.Helper()
	rels, err := parseRelationships(packageParts(t, data)[relationshipsPart])
	require.NoError(t, err)
	return rels
}

// pageBreaks counts w:br elements of type page.
func pageBreaks(root *etree.Element) int {
	count := 0
	for _, br := range root.FindElements(".//br") {
		if br.SelectAttrValue("w:type", "") == "page" {
			count++
		}
	}
	return count
}

// mediaParts returns the names of the parts below word/media.
func mediaParts(parts map[string][]byte) []string {
	var names []string
	for name := range parts {
		if _, ok := mediaIndex(name); ok {
			names = append(names, name)
		}
	}
	return partOrder(names)
}

// assertReferencesResolve checks that every image reference in the body has an
// image relationship whose media part exists.
func assertReferencesResolve(t *testing.T, data []byte) {
	t.Helper()
	parts := packageParts(t, data)
	doc, err := ooxml.ParseDocument(parts[documentPart])
	require.NoError(t, err)
	rels, err := parseRelationships(parts[relationshipsPart])
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, rel := range rels.Relationship {
		require.False(t, seen[rel.ID], "duplicate relationship id %s", rel.ID)
		seen[rel.ID] = true
	}

	for _, ref := range ooxml.CollectAttrs(doc.Root(), ooxml.ImageReference) {
		rel, ok := rels.Find(ref)
		require.True(t, ok, "reference %s has no relationship", ref)
		_, ok = parts[resolveTarget(rel.Target)]
		require.True(t, ok, "relationship %s points at missing part %s", ref, rel.Target)
	}
}

// requireEmptyDir fails the test if dir has any entries.
func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "work dir should be empty")
}

// quietEngine returns an engine that logs nowhere and works below t.TempDir().
func quietEngine(t *testing.T, opts ...Option) (*Engine, string) {
	t.Helper()
	workDir := t.TempDir()
	base := []Option{
		WithLogger(NewLogger(io.Discard, LogDebug)),
		WithWorkDir(workDir),
	}
	return NewWithOptions(append(base, opts...)...), workDir
}
