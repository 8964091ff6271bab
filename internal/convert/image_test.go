package convert

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidfileconvert/convertbot/internal/domain"
	"github.com/rapidfileconvert/convertbot/internal/observability"
)

func testEngine() *Engine {
	return NewEngine(Config{}, observability.Nop())
}

// writeTestPNG writes a 4x4 PNG that is entirely transparent.
func writeTestPNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 0})
		}
	}

	path := filepath.Join(dir, "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func writeTestJPEG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	path := filepath.Join(dir, "photo.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, nil))
	return path
}

func TestConvertImageFormat_PNGToJPEGFlattensAlpha(t *testing.T) {
	dir := t.TempDir()
	input := writeTestPNG(t, dir)

	result := testEngine().convertImageFormat(
		domain.FileHandle{Path: input}, dir, formatJPEG)
	require.NoError(t, result.Err)
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, "photo.jpg", filepath.Base(result.Outputs[0].Path))

	f, err := os.Open(result.Outputs[0].Path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := jpeg.Decode(f)
	require.NoError(t, err)

	// Transparent pixels must have been composited onto white.
	r, g, b, _ := decoded.At(2, 2).RGBA()
	assert.Greater(t, r, uint32(60000))
	assert.Greater(t, g, uint32(60000))
	assert.Greater(t, b, uint32(60000))
}

func TestConvertImageFormat_JPEGToPNG(t *testing.T) {
	dir := t.TempDir()
	input := writeTestJPEG(t, dir)

	result := testEngine().convertImageFormat(
		domain.FileHandle{Path: input}, dir, formatPNG)
	require.NoError(t, result.Err)
	require.Len(t, result.Outputs, 1)
	assert.Equal(t, "photo.png", filepath.Base(result.Outputs[0].Path))

	f, err := os.Open(result.Outputs[0].Path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)
}

func TestConvertImageFormat_UnreadableInput(t *testing.T) {
	dir := t.TempDir()
	result := testEngine().convertImageFormat(
		domain.FileHandle{Path: filepath.Join(dir, "missing.png")}, dir, formatJPEG)
	require.Error(t, result.Err)
	assert.Equal(t, domain.ErrorTypeIO, domain.TypeOf(result.Err))
}

func TestConvertImageFormat_MalformedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	result := testEngine().convertImageFormat(
		domain.FileHandle{Path: path}, dir, formatJPEG)
	require.Error(t, result.Err)
	assert.Equal(t, domain.ErrorTypeEngine, domain.TypeOf(result.Err))
}

func TestFlattenInputs_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeTestPNG(t, dir)
	b := writeTestJPEG(t, dir)

	paths, err := testEngine().flattenInputs([]domain.FileHandle{
		{Path: a}, {Path: b},
	}, dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "flat_1.jpg", filepath.Base(paths[0]))
	assert.Equal(t, "flat_2.jpg", filepath.Base(paths[1]))
}
