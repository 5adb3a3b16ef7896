package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekinoz/phototriage/internal/domain"
)

func sampleAlbums() []domain.Album {
	return []domain.Album{
		{ID: "recents", Title: "Recents", Count: 120, Smart: true},
		{ID: "/p/Vacation 2025", Title: "Vacation 2025", Count: 48},
		{ID: "/p/Screenshots", Title: "Screenshots", Count: 300},
		{ID: "/p/Misc", Title: "Misc", Count: 7},
	}
}

func TestAlbumEmoji(t *testing.T) {
	assert.Equal(t, "🕒", AlbumEmoji(domain.Album{Title: "Recents", Smart: true}))
	assert.Equal(t, "🏖️", AlbumEmoji(domain.Album{Title: "Vacation 2025"}))
	assert.Equal(t, "📱", AlbumEmoji(domain.Album{Title: "Screenshots"}))
	assert.Equal(t, "✨", AlbumEmoji(domain.Album{Title: "Weird", Smart: true}))
	assert.Equal(t, "📁", AlbumEmoji(domain.Album{Title: "Misc"}))
}

func TestAlbumListSelection(t *testing.T) {
	l := NewAlbumList()
	l.SetAlbums(sampleAlbums())

	sel, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "Recents", sel.Title)

	l.MoveDown()
	l.MoveDown()
	sel, _ = l.Selected()
	assert.Equal(t, "Screenshots", sel.Title)

	// Clamped at the ends
	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	sel, _ = l.Selected()
	assert.Equal(t, "Misc", sel.Title)

	for i := 0; i < 10; i++ {
		l.MoveUp()
	}
	sel, _ = l.Selected()
	assert.Equal(t, "Recents", sel.Title)
}

func TestAlbumListFuzzyFilter(t *testing.T) {
	l := NewAlbumList()
	l.SetAlbums(sampleAlbums())

	l.SetFilter("vac")
	assert.Equal(t, 1, l.Len())
	sel, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "Vacation 2025", sel.Title)

	// Fuzzy, not substring
	l.SetFilter("scr")
	assert.Equal(t, 1, l.Len())

	l.SetFilter("zzz")
	assert.Equal(t, 0, l.Len())
	_, ok = l.Selected()
	assert.False(t, ok)

	l.SetFilter("")
	assert.Equal(t, 4, l.Len())
}

func TestAlbumListEmptyView(t *testing.T) {
	l := NewAlbumList()
	l.SetSize(40, 10)
	assert.Contains(t, l.View(), "no albums")
}
