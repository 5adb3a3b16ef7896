package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ekinoz/phototriage/internal/tui/styles"
)

// Banner is a dismissible advisory strip shown above the album list
type Banner struct {
	Text      string
	Dismissed bool
}

// View renders the banner, or nothing once dismissed
func (b Banner) View(width int) string {
	if b.Dismissed || b.Text == "" {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		Foreground(styles.SlateDark).
		Background(styles.Amber).
		Padding(0, 1).
		Render(styles.Truncate(b.Text, width-2))
}
