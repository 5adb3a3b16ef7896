package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ekinoz/phototriage/internal/domain"
	"github.com/ekinoz/phototriage/internal/tui/components"
	"github.com/ekinoz/phototriage/internal/tui/styles"
)

// View implements tea.Model
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	var body string
	switch m.state {
	case StatePermission:
		body = m.permissionView()
	case StateAlbums:
		body = m.albumsView()
	case StateAlbumDetail:
		body = m.detailView()
	case StateReview, StateCommitting:
		body = m.reviewView()
	case StateConfirm:
		modal := components.ConfirmModal{Count: m.sess.MarkedCount()}
		return modal.View(m.width, m.height)
	case StateHelp:
		body = m.helpView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar())
}

func (m *Model) permissionView() string {
	title := styles.TitleStyle.Render("phototriage")
	msg := styles.SubtitleStyle.Render("Media library access is not available.")
	hint := styles.DimStyle.Render("press enter to set up the library roots, q to quit")
	box := lipgloss.JoinVertical(lipgloss.Center, title, "", msg, hint)
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) albumsView() string {
	kindName := "Photos"
	if m.kind == domain.MediaKindVideo {
		kindName = "Videos"
	}
	header := styles.TitleStyle.Render("phototriage") + "  " + styles.CountBadgeStyle.Render(kindName)
	if m.busy {
		header += " " + m.spin.View()
	}

	var filterLine string
	if m.filterActive || m.albums.Filter() != "" {
		filterLine = styles.FilterPromptStyle.Render("/ ") + m.albums.Filter()
		if m.filterActive {
			filterLine += styles.AccentStyle.Render("▌")
		}
	}

	parts := []string{header}
	if b := m.banner.View(m.width); b != "" {
		parts = append(parts, b)
	}
	if filterLine != "" {
		parts = append(parts, filterLine)
	}
	parts = append(parts, "", m.albums.View())

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m *Model) detailView() string {
	header := styles.TitleStyle.Render(components.AlbumEmoji(m.detailAlbum)+" "+m.detailAlbum.Title) +
		"  " + styles.BadgeStyle.Render(fmt.Sprintf("%d", len(m.detailAssets)))
	if m.busy {
		header += " " + m.spin.View()
	}

	parts := []string{header}

	if m.detailUnavailable > 0 {
		warn := components.Banner{Text: fmt.Sprintf("%d items are unavailable and will show placeholders", m.detailUnavailable)}
		parts = append(parts, warn.View(m.width-4))
	}

	if len(m.detailAssets) == 0 && !m.busy {
		parts = append(parts, "", styles.DimStyle.Render("this album is empty"))
	} else {
		parts = append(parts, "", m.assetRows())
		parts = append(parts, "", styles.DimStyle.Render("enter starts the review"))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

// assetRows renders the visible slice of the album listing
func (m *Model) assetRows() string {
	visible := m.height - 10
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.detailIndex >= visible {
		start = m.detailIndex - visible + 1
	}
	end := start + visible
	if end > len(m.detailAssets) {
		end = len(m.detailAssets)
	}

	var rows []string
	for i := start; i < end; i++ {
		a := m.detailAssets[i]
		row := styles.Truncate(a.Filename, m.width-24)
		if size := a.FormattedFileSize(); size != "" {
			row += "  " + styles.DimStyle.Render(size)
		}
		if a.Kind == domain.MediaKindVideo && a.Duration > 0 {
			row += "  " + styles.BadgeStyle.Render("▶ "+a.FormattedDuration())
		}
		if i == m.detailIndex {
			row = styles.SelectedItemStyle.Render(row)
		} else {
			row = styles.NormalItemStyle.Render(row)
		}
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) reviewView() string {
	if m.sess == nil {
		return ""
	}

	asset, ok := m.sess.Current()
	if !ok {
		empty := styles.DimStyle.Render("nothing to review in this album")
		return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, empty)
	}

	card := m.deck.View(asset, m.sess.IsMarked(asset.ID))
	chrome := m.deck.Chrome(m.sess)

	header := styles.TitleStyle.Render("review")
	if m.busy {
		header += " " + m.spin.View()
	}

	content := lipgloss.JoinVertical(lipgloss.Center, card, "", chrome)
	centered := lipgloss.Place(m.width, m.height-3, lipgloss.Center, lipgloss.Center, content)
	return lipgloss.JoinVertical(lipgloss.Left, " "+header, centered)
}

func (m *Model) helpView() string {
	rows := [][2]string{
		{"enter", "open album / start review"},
		{"→ / l / space", "keep, advance"},
		{"← / x", "mark for deletion, advance"},
		{"drag the card", "swipe with the mouse"},
		{"u", "undo the last delete"},
		{"d", "commit pending deletions"},
		{"/", "filter albums"},
		{"v", "toggle photos / videos"},
		{"r", "refresh album list"},
		{"esc", "back"},
		{"q", "quit"},
	}

	lines := []string{styles.ModalTitleStyle.Render("Keys"), ""}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s  %s",
			styles.HelpKeyStyle.Width(16).Render(r[0]),
			styles.HelpDescStyle.Render(r[1]),
		))
	}

	box := styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) statusBar() string {
	text := m.status
	style := styles.DimStyle
	if m.statusError {
		style = styles.ErrorStyle
	}
	if text == "" {
		text = "? help"
	}
	return lipgloss.NewStyle().Width(m.width).Padding(0, 1).Render(style.Render(text))
}
