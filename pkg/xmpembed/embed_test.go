package xmpembed_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/photocap/photocap/pkg/xmpembed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJPEG(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 180, B: 140, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "photo.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())

	return path
}

func TestEmbed_WritesCaptionAndKeepsJPEGDecodable(t *testing.T) {
	path := writeJPEG(t)

	require.NoError(t, xmpembed.Embed(path, "A sandstone wall in afternoon light."))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(data, []byte("A sandstone wall in afternoon light.")))
	assert.True(t, bytes.Contains(data, []byte("http://ns.adobe.com/xap/1.0/")))

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
}

// writeJPEGWithHeaders builds a minimal JPEG carrying a JFIF APP0 and an
// EXIF APP1 segment ahead of the image data markers.
func writeJPEGWithHeaders(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8}) // SOI

	app0Payload := []byte("JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	buf.Write([]byte{0xFF, 0xE0, byte((len(app0Payload) + 2) >> 8), byte(len(app0Payload) + 2)})
	buf.Write(app0Payload)

	exifPayload := []byte("Exif\x00\x00MM\x00\x2A\x00\x00\x00\x08\x00\x00")
	buf.Write([]byte{0xFF, 0xE1, byte((len(exifPayload) + 2) >> 8), byte(len(exifPayload) + 2)})
	buf.Write(exifPayload)

	buf.Write([]byte{0xFF, 0xD9}) // EOI

	path := filepath.Join(t.TempDir(), "headers.jpg")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	return path
}

func TestEmbed_PacketPlacedAfterJFIFAndEXIF(t *testing.T) {
	path := writeJPEGWithHeaders(t)

	require.NoError(t, xmpembed.Embed(path, "harbor at dusk"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	jfifAt := bytes.Index(data, []byte("JFIF"))
	exifAt := bytes.Index(data, []byte("Exif"))
	xmpAt := bytes.Index(data, []byte("http://ns.adobe.com/xap/1.0/"))
	require.NotEqual(t, -1, jfifAt)
	require.NotEqual(t, -1, exifAt)
	require.NotEqual(t, -1, xmpAt)

	assert.Less(t, jfifAt, exifAt)
	assert.Less(t, exifAt, xmpAt)

	// Re-embedding must keep the ordering and replace the packet in place.
	require.NoError(t, xmpembed.Embed(path, "harbor at dawn"))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(data, []byte("http://ns.adobe.com/xap/1.0/")))
	assert.Less(t, bytes.Index(data, []byte("Exif")), bytes.Index(data, []byte("harbor at dawn")))
}

func TestEmbed_ReplacesExistingPacket(t *testing.T) {
	path := writeJPEG(t)

	require.NoError(t, xmpembed.Embed(path, "first caption"))
	require.NoError(t, xmpembed.Embed(path, "second caption"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, bytes.Contains(data, []byte("first caption")))
	assert.True(t, bytes.Contains(data, []byte("second caption")))
	assert.Equal(t, 1, bytes.Count(data, []byte("http://ns.adobe.com/xap/1.0/")))
}

func TestEmbed_EscapesXMLSpecials(t *testing.T) {
	path := writeJPEG(t)

	require.NoError(t, xmpembed.Embed(path, `Fish & chips <on> the "pier"`))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(data, []byte("Fish &amp; chips &lt;on&gt; the")))
}

func TestEmbed_RejectsNonJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nrest"), 0o600))

	err := xmpembed.Embed(path, "caption")
	assert.ErrorContains(t, err, "not a JPEG")
}

func TestEmbed_MissingFile(t *testing.T) {
	err := xmpembed.Embed(filepath.Join(t.TempDir(), "gone.jpg"), "caption")
	assert.Error(t, err)
}
