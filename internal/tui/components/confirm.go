package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ekinoz/phototriage/internal/tui/styles"
)

// ConfirmModal asks the user to affirm the batch deletion before any
// destructive call is made.
type ConfirmModal struct {
	Count int
}

// View renders the modal centered in the given box
func (m ConfirmModal) View(width, height int) string {
	noun := "items"
	if m.Count == 1 {
		noun = "item"
	}
	title := styles.ModalTitleStyle.Render(fmt.Sprintf("Delete %d %s?", m.Count, noun))
	body := styles.SubtitleStyle.Render("This permanently removes them from the library.")
	keys := styles.HelpKeyStyle.Render("y") + styles.HelpDescStyle.Render(" delete   ") +
		styles.HelpKeyStyle.Render("n/esc") + styles.HelpDescStyle.Render(" cancel")

	modal := styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body, "", keys))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
