package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/ekinoz/phototriage/internal/domain"
	"github.com/ekinoz/phototriage/internal/tui/styles"
)

// Title keywords mapped to a leading emoji, smart albums get their own
var albumEmoji = []struct {
	keyword string
	emoji   string
}{
	{"recent", "🕒"},
	{"whatsapp", "💬"},
	{"favorite", "❤️"},
	{"screenshot", "📱"},
	{"selfie", "🤳"},
	{"video", "🎥"},
	{"camera", "📷"},
	{"download", "📥"},
	{"travel", "✈️"},
	{"vacation", "🏖️"},
	{"family", "👨‍👩‍👧"},
}

// AlbumEmoji picks a decorative emoji from the album title
func AlbumEmoji(album domain.Album) string {
	title := strings.ToLower(album.Title)
	for _, e := range albumEmoji {
		if strings.Contains(title, e.keyword) {
			return e.emoji
		}
	}
	if album.Smart {
		return "✨"
	}
	return "📁"
}

// AlbumList is a filterable, scrollable album picker
type AlbumList struct {
	albums   []domain.Album
	filtered []domain.Album
	selected int
	filter   string
	width    int
	height   int
}

// NewAlbumList creates an empty album list
func NewAlbumList() *AlbumList {
	return &AlbumList{}
}

// SetAlbums replaces the album set and resets selection
func (l *AlbumList) SetAlbums(albums []domain.Album) {
	l.albums = albums
	l.selected = 0
	l.applyFilter()
}

// SetSize updates the render box
func (l *AlbumList) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// SetFilter narrows the list by fuzzy title match
func (l *AlbumList) SetFilter(filter string) {
	l.filter = filter
	l.selected = 0
	l.applyFilter()
}

// Filter returns the active filter string
func (l *AlbumList) Filter() string { return l.filter }

func (l *AlbumList) applyFilter() {
	if l.filter == "" {
		l.filtered = l.albums
		return
	}
	l.filtered = nil
	for _, a := range l.albums {
		if fuzzy.MatchFold(l.filter, a.Title) {
			l.filtered = append(l.filtered, a)
		}
	}
}

// MoveUp moves the selection up one row
func (l *AlbumList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the selection down one row
func (l *AlbumList) MoveDown() {
	if l.selected < len(l.filtered)-1 {
		l.selected++
	}
}

// Selected returns the highlighted album, or false when the list is empty
func (l *AlbumList) Selected() (domain.Album, bool) {
	if len(l.filtered) == 0 {
		return domain.Album{}, false
	}
	return l.filtered[l.selected], true
}

// Len returns the number of visible albums
func (l *AlbumList) Len() int { return len(l.filtered) }

// View renders the list
func (l *AlbumList) View() string {
	if len(l.filtered) == 0 {
		if l.filter != "" {
			return styles.DimStyle.Render("no albums match " + l.filter)
		}
		return styles.DimStyle.Render("no albums")
	}

	// Keep the selection in the visible slice
	visible := l.height
	if visible <= 0 {
		visible = len(l.filtered)
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.filtered) {
		end = len(l.filtered)
	}

	var rows []string
	for i := start; i < end; i++ {
		a := l.filtered[i]
		count := styles.DimStyle.Render(fmt.Sprintf("%d", a.Count))
		label := fmt.Sprintf("%s %s", AlbumEmoji(a), styles.Truncate(a.Title, l.width-10))
		row := label + " " + count
		if i == l.selected {
			row = styles.SelectedItemStyle.Render(row)
		} else {
			row = styles.NormalItemStyle.Render(row)
		}
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
