package domain

import (
	"fmt"
	"time"
)

// MediaKind distinguishes content types
type MediaKind int

const (
	MediaKindPhoto MediaKind = iota
	MediaKindVideo
)

// String returns the kind identifier used in cache keys and logs
func (k MediaKind) String() string {
	switch k {
	case MediaKindPhoto:
		return "photo"
	case MediaKindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Asset represents one media item (photo or video) with a stable identifier.
// Assets are created by the media store when a page is fetched and are
// immutable afterwards; marking one for deletion never mutates it.
type Asset struct {
	ID       string        // Store-specific unique identifier, stable for the store's lifetime
	AlbumID  string        // Parent album ID
	Filename string        // Display name
	URI      string        // Store-native locator (may not be directly readable)
	Kind     MediaKind     // Photo or video
	Duration time.Duration // Runtime, videos only (0 for photos)
	FileSize int64         // Size in bytes
	CreatedAt time.Time    // Creation time, drives review ordering
}

// FormattedDuration returns the duration as m:ss for badges
func (a Asset) FormattedDuration() string {
	total := int(a.Duration.Seconds())
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormattedFileSize returns the file size in a human-readable format
func (a Asset) FormattedFileSize() string {
	if a.FileSize <= 0 {
		return ""
	}
	const (
		gb = 1024 * 1024 * 1024
		mb = 1024 * 1024
		kb = 1024
	)
	switch {
	case a.FileSize >= gb:
		return fmt.Sprintf("%.1f GB", float64(a.FileSize)/float64(gb))
	case a.FileSize >= mb:
		return fmt.Sprintf("%.1f MB", float64(a.FileSize)/float64(mb))
	default:
		return fmt.Sprintf("%d KB", a.FileSize/kb)
	}
}

// Album represents a device-defined grouping of media assets
type Album struct {
	ID        string // Store-specific unique identifier
	Title     string // Display name
	Count     int    // Number of assets matching the listing's kind filter
	Smart     bool   // Auto-generated grouping (e.g. "Recents")
	UpdatedAt int64  // Unix timestamp of the last content change, drives cache freshness
}

// AssetPage is one page of an album's assets, ordered by creation time.
type AssetPage struct {
	Assets    []*Asset
	EndCursor string // Continuation cursor for the next page
	HasMore   bool
	Total     int // Total assets matching the query
}

// AssetQuery selects a page of assets from an album
type AssetQuery struct {
	AlbumID  string
	Kind     MediaKind
	PageSize int
	After    string // Continuation cursor from a previous page, empty for the first
}

// Location is a resolved, viewable locator for an asset's content
type Location struct {
	Path  string // Readable filesystem path
	Local bool   // False when the content had to be fetched/copied first
}

// ResolveOptions control asset location resolution
type ResolveOptions struct {
	// AllowFetch permits a slow fetch (cloud download / sandbox copy)
	// when the content is not directly readable.
	AllowFetch bool
}

// PermissionStatus is the tri-state media access state
type PermissionStatus int

const (
	PermissionUndetermined PermissionStatus = iota
	PermissionGranted
	PermissionDenied
)

// String returns a human-readable representation of the permission status
func (p PermissionStatus) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "undetermined"
	}
}

// ProgressFunc reports incremental progress during paged fetches
type ProgressFunc func(loaded, total int)

// SyncResult reports the outcome of an album sync
type SyncResult struct {
	AlbumID   string
	FromCache bool
	Count     int
}
