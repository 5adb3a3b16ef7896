package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ekinoz/phototriage/internal/domain"
	"github.com/ekinoz/phototriage/internal/review"
	"github.com/ekinoz/phototriage/internal/tui/styles"
)

// Deck renders the swipe card for the asset under the cursor: the preview
// with drag offset, decision labels whose prominence follows the drag, and
// the progress chrome underneath.
type Deck struct {
	width  int
	height int

	preview      string // Rendered preview for the current asset, may be empty
	previewFor   string // Asset id the preview belongs to
	displacement float64
}

// NewDeck creates an empty deck
func NewDeck() *Deck {
	return &Deck{}
}

// SetSize updates the render box
func (d *Deck) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// CardWidth returns the inner card width in cells
func (d *Deck) CardWidth() int {
	w := d.width - 8
	if w < 20 {
		w = 20
	}
	return w
}

// CardHeight returns the inner card height in cells
func (d *Deck) CardHeight() int {
	h := d.height - 8
	if h < 8 {
		h = 8
	}
	return h
}

// SetPreview installs the rendered preview for one asset
func (d *Deck) SetPreview(assetID, content string) {
	d.preview = content
	d.previewFor = assetID
}

// HasPreview reports whether the installed preview belongs to the asset
func (d *Deck) HasPreview(assetID string) bool {
	return d.previewFor == assetID && d.preview != ""
}

// SetDisplacement tracks the in-flight drag in normalized units
func (d *Deck) SetDisplacement(v float64) { d.displacement = v }

// Displacement returns the current drag offset
func (d *Deck) Displacement() float64 { return d.displacement }

// ResetDrag snaps the card back to center
func (d *Deck) ResetDrag() { d.displacement = 0 }

// View renders the card for the current asset
func (d *Deck) View(asset *domain.Asset, marked bool) string {
	cardW, cardH := d.CardWidth(), d.CardHeight()

	body := d.preview
	if !d.HasPreview(asset.ID) {
		body = styles.DimStyle.Render("loading preview…")
	}

	border := styles.InactiveBorder
	keepOp := review.KeepLabelOpacity(d.displacement)
	delOp := review.DeleteLabelOpacity(d.displacement)
	switch {
	case keepOp > 0:
		border = styles.KeepBorder
	case delOp > 0:
		border = styles.DeleteBorder
	case marked:
		border = styles.DeleteBorder
	}

	card := border.
		Width(cardW).
		Height(cardH).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)

	// Shift and shear the card with the drag; terminal cells stand in for
	// pixels, and leaning the top away from the bottom reads as the card
	// tipping into the swipe.
	shift := int(d.displacement / 10)
	lean := int(review.CardRotation(d.displacement, float64(cardW)*5) / 5)
	if shift != 0 || lean != 0 {
		card = shearLines(card, shift, lean)
	}

	overlay := d.labelRow(cardW, keepOp, delOp, marked)
	meta := d.metaRow(asset)

	return lipgloss.JoinVertical(lipgloss.Center, overlay, card, meta)
}

// labelRow renders the KEEP / DELETE hints, scaled with the drag
func (d *Deck) labelRow(width int, keepOp, delOp float64, marked bool) string {
	keep := opacityLabel("KEEP →", keepOp, styles.KeepLabelStyle)
	del := opacityLabel("← DELETE", delOp, styles.DeleteLabelStyle)
	if marked && keepOp == 0 && delOp == 0 {
		del = styles.DeleteLabelStyle.Render("MARKED")
	}

	gap := width - lipgloss.Width(keep) - lipgloss.Width(del)
	if gap < 1 {
		gap = 1
	}
	return del + strings.Repeat(" ", gap) + keep
}

// metaRow renders the filename plus a duration badge for videos
func (d *Deck) metaRow(asset *domain.Asset) string {
	name := styles.SubtitleStyle.Render(styles.Truncate(asset.Filename, d.CardWidth()-12))
	if asset.Kind == domain.MediaKindVideo && asset.Duration > 0 {
		return name + " " + styles.BadgeStyle.Render("▶ "+asset.FormattedDuration())
	}
	return name
}

// Chrome renders the progress bar and counters under the card
func (d *Deck) Chrome(s *review.Session) string {
	position := fmt.Sprintf("%d / %d", s.Cursor()+1, s.Len())
	if s.HasMore() {
		position += "+"
	}
	markedCount := s.MarkedCount()

	bar := styles.RenderProgressBar(s.Progress(), d.CardWidth()-20)
	counter := styles.DimStyle.Render(position)
	pending := styles.DeleteLabelStyle.Render(fmt.Sprintf("🗑 %d", markedCount))
	if markedCount == 0 {
		pending = styles.DimStyle.Render("🗑 0")
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, counter, "  ", bar, "  ", pending)
}

// opacityLabel fades a label in three steps since cells have no alpha
func opacityLabel(text string, opacity float64, full lipgloss.Style) string {
	switch {
	case opacity >= 0.66:
		return full.Render(text)
	case opacity >= 0.15:
		return styles.SubtitleStyle.Render(text)
	default:
		return styles.DimStyle.Render(strings.Repeat(" ", lipgloss.Width(text)))
	}
}

// shearLines offsets every line to fake horizontal motion. The lean spreads
// extra offset from the top line to the bottom line, approximating the card
// tilt on a cell grid that cannot rotate.
func shearLines(block string, shift, lean int) string {
	lines := strings.Split(block, "\n")
	last := len(lines) - 1
	for i, line := range lines {
		off := shift
		if last > 0 {
			off += lean * (last - 2*i) / last
		}
		if off > 0 {
			lines[i] = strings.Repeat(" ", off) + line
		} else if off < 0 {
			lines[i] = line + strings.Repeat(" ", -off)
		}
	}
	return strings.Join(lines, "\n")
}
