package tui

import (
	"github.com/ekinoz/phototriage/internal/domain"
	"github.com/ekinoz/phototriage/internal/review"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PermissionMsg carries the current media access state
type PermissionMsg struct {
	Status domain.PermissionStatus
}

// AlbumsLoadedMsg signals that the album list has been loaded
type AlbumsLoadedMsg struct {
	Albums []domain.Album
	Kind   domain.MediaKind
}

// AssetsSyncedMsg signals that an album's listing is ready for the detail view
type AssetsSyncedMsg struct {
	Album       domain.Album
	Assets      []*domain.Asset
	FromCache   bool
	Unavailable int // Assets whose content could not be reached
}

// SessionStartedMsg signals that a review session loaded its first page
type SessionStartedMsg struct {
	Session *review.Session
	AlbumID string
}

// PageLoadedMsg signals that a session finished loading another page
type PageLoadedMsg struct {
	SessionID string
}

// PreviewReadyMsg carries a rendered preview for one asset
type PreviewReadyMsg struct {
	AssetID string
	Content string
}

// PreviewFailedMsg signals that an asset could not be resolved or rendered.
// The review continues with a placeholder card.
type PreviewFailedMsg struct {
	AssetID string
	Err     error
}

// CommitFinishedMsg carries the outcome of a batch deletion
type CommitFinishedMsg struct {
	Result  review.CommitResult
	AlbumID string
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
