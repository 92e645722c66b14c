package formdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffImage(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		ct     string
	}{
		{format: "png", ext: "png", ct: "image/png"},
		{format: "jpeg", ext: "jpeg", ct: "image/jpeg"},
		{format: "gif", ext: "gif", ct: "image/gif"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			info, err := SniffImage(createTestImage(t, tt.format))
			require.NoError(t, err)
			assert.Equal(t, MediaInfo{
				Format:      tt.format,
				Ext:         tt.ext,
				ContentType: tt.ct,
				Width:       12,
				Height:      8,
			}, info)
		})
	}
}

func TestSniffImageRejects(t *testing.T) {
	_, err := SniffImage(nil)
	assert.Error(t, err)

	_, err = SniffImage([]byte("%PDF-1.7"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestMediaIndex(t *testing.T) {
	tests := []struct {
		name  string
		index int
		ok    bool
	}{
		{name: "word/media/image1.png", index: 1, ok: true},
		{name: "word/media/image12.jpeg", index: 12, ok: true},
		{name: "word/media/logo.png", ok: false},
		{name: "word/media/imageX.png", ok: false},
		{name: "word/embeddings/image3.png", ok: false},
		{name: "word/media/sub/image3.png", ok: false},
	}
	for _, tt := range tests {
		index, ok := mediaIndex(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.index, index, tt.name)
	}

	assert.Equal(t, 12, maxMediaIndex([]string{"word/media/image1.png", "word/media/image12.jpeg", "word/document.xml"}))
	assert.Zero(t, maxMediaIndex(nil))
}

func TestMediaNames(t *testing.T) {
	name := mediaPartName(3, "png")
	assert.Equal(t, "word/media/image3.png", name)
	assert.Equal(t, "media/image3.png", mediaTarget(name))
	assert.Equal(t, "image/png", contentTypeForPart(name))
	assert.Equal(t, "image/x-emf", contentTypeForPart("word/media/image4.EMF"))
	assert.Equal(t, "application/octet-stream", contentTypeForPart("word/media/image5.xyz"))
}
