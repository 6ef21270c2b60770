package geodata_test

import (
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/photocap/photocap/pkg/geodata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractGPS_MissingFile(t *testing.T) {
	assert.Nil(t, geodata.ExtractGPS(filepath.Join(t.TempDir(), "nope.jpg")))
}

func TestExtractGPS_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

	assert.Nil(t, geodata.ExtractGPS(path))
}

func TestExtractGPS_JPEGWithoutEXIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil))
	require.NoError(t, f.Close())

	assert.Nil(t, geodata.ExtractGPS(path))
}
