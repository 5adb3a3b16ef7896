package preview

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
)

// Renderer draws still images as half-block cells: each terminal cell holds
// two pixel rows via the upper-half-block glyph with independent fg/bg colors.
type Renderer struct {
	MaxWidth  int // Max width in cells, 0 = no cap
	MaxHeight int // Max height in cells, 0 = no cap
}

// RenderFile decodes an image file and renders it to fit the given cell box
func (r Renderer) RenderFile(path string, width, height int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening preview image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decoding preview image: %w", err)
	}
	return r.Render(img, width, height), nil
}

// Render scales the image into the cell box and emits ANSI half-block art
func (r Renderer) Render(img image.Image, width, height int) string {
	width, height = r.clampBox(width, height)
	if width < 1 || height < 1 {
		return ""
	}

	// Two pixel rows per cell row
	scaled := resize.Thumbnail(uint(width), uint(height*2), img, resize.Lanczos3)
	bounds := scaled.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var sb strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := cellColor(scaled, bounds.Min.X+x, bounds.Min.Y+y)
			style := lipgloss.NewStyle().Foreground(top)
			if y+1 < h {
				style = style.Background(cellColor(scaled, bounds.Min.X+x, bounds.Min.Y+y+1))
			}
			sb.WriteString(style.Render("▀"))
		}
		if y+2 < h {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Placeholder renders a bordered box shown when an asset cannot be resolved
func (r Renderer) Placeholder(label string, width, height int) string {
	width, height = r.clampBox(width, height)
	if width < 4 || height < 3 {
		return label
	}
	return lipgloss.NewStyle().
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Foreground(lipgloss.Color("245")).
		Render(label)
}

func (r Renderer) clampBox(width, height int) (int, int) {
	if r.MaxWidth > 0 && width > r.MaxWidth {
		width = r.MaxWidth
	}
	if r.MaxHeight > 0 && height > r.MaxHeight {
		height = r.MaxHeight
	}
	return width, height
}

func cellColor(img image.Image, x, y int) lipgloss.Color {
	c := img.At(x, y)
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8)))
}
