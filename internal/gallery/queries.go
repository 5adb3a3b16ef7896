package gallery

import "github.com/ekinoz/phototriage/internal/domain"

// Queries provides synchronous, cache-only reads for instant album views.
type Queries struct {
	store domain.Store
}

// NewQueries creates a new Queries instance.
func NewQueries(store domain.Store) *Queries {
	return &Queries{store: store}
}

func (q *Queries) GetCachedAlbums(kind domain.MediaKind) ([]domain.Album, bool) {
	return q.store.GetAlbums(kind)
}

func (q *Queries) GetCachedAssets(albumID string, kind domain.MediaKind) ([]*domain.Asset, bool) {
	return q.store.GetAssets(albumID, kind)
}
