package formdoc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MediaInfo describes sniffed image bytes.
type MediaInfo struct {
	Format      string // decoder name reported by image.DecodeConfig
	Ext         string // file extension without the dot
	ContentType string
	Width       int // pixels
	Height      int // pixels
}

var formatExtensions = map[string]string{
	"png":  "png",
	"jpeg": "jpeg",
	"gif":  "gif",
	"bmp":  "bmp",
	"tiff": "tiff",
	"webp": "webp",
}

// extensionContentTypes maps media extensions to the content types
// [Content_Types].xml declares for them.
var extensionContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"tif":  "image/tiff",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
}

// SniffImage identifies the format of data from its header.
func SniffImage(data []byte) (MediaInfo, error) {
	if len(data) == 0 {
		return MediaInfo{}, errors.New("empty image data")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return MediaInfo{}, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	ext, ok := formatExtensions[format]
	if !ok {
		return MediaInfo{}, fmt.Errorf("%w: format %q", ErrUnsupportedImage, format)
	}
	return MediaInfo{
		Format:      format,
		Ext:         ext,
		ContentType: extensionContentTypes[ext],
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

// contentTypeForPart returns the content type for a media part name, falling
// back to application/octet-stream for unknown extensions.
func contentTypeForPart(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ct, ok := extensionContentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// mediaIndex extracts N from word/media/imageN.ext.
func mediaIndex(name string) (int, bool) {
	if path.Dir(name) != mediaDir {
		return 0, false
	}
	base := path.Base(name)
	base = strings.TrimSuffix(base, path.Ext(base))
	if !strings.HasPrefix(base, "image") {
		return 0, false
	}
	n, err := strconv.Atoi(base[len("image"):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// maxMediaIndex returns the highest imageN index among names, or 0.
func maxMediaIndex(names []string) int {
	highest := 0
	for _, name := range names {
		if n, ok := mediaIndex(name); ok && n > highest {
			highest = n
		}
	}
	return highest
}

func mediaPartName(index int, ext string) string {
	return fmt.Sprintf("%s/image%d.%s", mediaDir, index, ext)
}

// mediaTarget is the relationship target of a media part, relative to word/.
func mediaTarget(partName string) string {
	return strings.TrimPrefix(partName, "word/")
}
