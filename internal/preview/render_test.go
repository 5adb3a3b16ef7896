package preview

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRenderFitsCellBox(t *testing.T) {
	r := Renderer{}
	out := r.Render(solidImage(100, 100, color.White), 10, 5)

	lines := strings.Split(out, "\n")
	assert.LessOrEqual(t, len(lines), 5)
	for _, line := range lines {
		assert.LessOrEqual(t, strings.Count(line, "▀"), 10)
	}
}

func TestRenderRespectsMaxWidth(t *testing.T) {
	r := Renderer{MaxWidth: 4}
	out := r.Render(solidImage(100, 50, color.White), 40, 20)

	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, strings.Count(line, "▀"), 4)
	}
}

func TestRenderDegenerateBox(t *testing.T) {
	r := Renderer{}
	assert.Empty(t, r.Render(solidImage(10, 10, color.White), 0, 5))
	assert.Empty(t, r.Render(solidImage(10, 10, color.White), 5, 0))
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, solidImage(8, 8, color.RGBA{R: 255, A: 255})))
	require.NoError(t, f.Close())

	out, err := Renderer{}.RenderFile(path, 4, 4)
	require.NoError(t, err)
	assert.Contains(t, out, "▀")

	_, err = Renderer{}.RenderFile(filepath.Join(t.TempDir(), "missing.png"), 4, 4)
	assert.Error(t, err)
}

func TestPlaceholder(t *testing.T) {
	out := Renderer{}.Placeholder("no preview", 20, 6)
	assert.Contains(t, out, "no preview")

	// Too small for a border: just the label
	assert.Equal(t, "x", Renderer{}.Placeholder("x", 2, 1))
}
