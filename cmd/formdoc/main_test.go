package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminschreck/go-formdoc/pkg/formdoc"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

const testManifest = `
image_height_cm: 5
forms:
  - unit: Unit A
    date: 01/02/2024
    caption: Front view
    images: [images/one.png, images/two.png]
  - unit: Unit B
    date: 02/02/2024
    caption: Side view
    images: [images/one.png]
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "images"), 0o755))
	writePNG(t, filepath.Join(dir, "images", "one.png"))
	writePNG(t, filepath.Join(dir, "images", "two.png"))

	path := filepath.Join(dir, "forms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, testManifest)

	m, err := loadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Forms, 2)
	assert.Equal(t, 5.0, m.ImageHeightCm)

	reqs, err := m.Requests()
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "Unit A", reqs[0].Unit)
	assert.Len(t, reqs[0].Images, 2)
	assert.Len(t, reqs[1].Images, 1)

	opts, err := m.Options()
	require.NoError(t, err)
	engine := formdoc.NewWithOptions(opts...)
	assert.Equal(t, 5.0, engine.Config().ImageHeightCm)
}

func TestLoadManifestErrors(t *testing.T) {
	_, err := loadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = loadManifest(writeManifest(t, "forms: []\n"))
	assert.ErrorContains(t, err, "no forms")

	_, err = loadManifest(writeManifest(t, "forms: [unterminated\n"))
	assert.ErrorContains(t, err, "failed to parse manifest")

	m, err := loadManifest(writeManifest(t, "forms:\n  - unit: A\n    caption: B\n    images: [gone.png]\n"))
	require.NoError(t, err)
	_, err = m.Requests()
	assert.ErrorContains(t, err, "form 1")
}

func TestRun(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 0, run([]string{"version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), version)

	assert.Equal(t, 1, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage")

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"bogus"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Unknown command: bogus")

	assert.Equal(t, 1, run([]string{"render", "only-one"}, &stdout, &stderr))
}

func TestRunRender(t *testing.T) {
	manifest := writeManifest(t, testManifest)
	output := filepath.Join(t.TempDir(), "out.docx")

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"render", manifest, output}, &stdout, &stderr), stderr.String())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	reader, err := formdoc.NewPackage(data).Open()
	require.NoError(t, err)
	assert.True(t, reader.HasPart("word/media/image1.png"))
	assert.True(t, reader.HasPart("word/media/image3.png"), "media from both forms")
	assert.False(t, reader.HasPart("word/media/image4.png"))
}

func TestRunRenderInvalidForm(t *testing.T) {
	manifest := writeManifest(t, "forms:\n  - unit: A\n")
	output := filepath.Join(t.TempDir(), "out.docx")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"render", manifest, output}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "caption")
	assert.NoFileExists(t, output)
}
