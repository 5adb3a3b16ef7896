package domain

// Store handles the local listing cache (BoltDB + memory).
// The TUI reads directly from Store for instant album views; the gallery
// service decides when cached listings are stale.
type Store interface {
	// === Albums ===
	GetAlbums(kind MediaKind) ([]Album, bool)
	SaveAlbums(kind MediaKind, albums []Album) error

	// === Album content ===
	GetAssets(albumID string, kind MediaKind) ([]*Asset, bool)
	SaveAssets(albumID string, kind MediaKind, assets []*Asset, sourceTS int64) error

	// === Freshness ===
	IsValid(albumID string, kind MediaKind, sourceTS int64) bool

	// === Invalidation ===
	InvalidateAlbum(albumID string)
	InvalidateAll()

	Close() error
}
