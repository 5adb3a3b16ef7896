package domain

import (
	"context"
	"time"
)

// AlbumLister enumerates device albums
type AlbumLister interface {
	// ListAlbums returns all albums containing at least one asset of the
	// given kind, with per-album counts.
	ListAlbums(ctx context.Context, kind MediaKind) ([]Album, error)
}

// AssetSource enumerates an album's assets, paginated, sorted by creation time
type AssetSource interface {
	ListAssets(ctx context.Context, q AssetQuery) (AssetPage, error)
}

// Resolver turns an asset into a viewable location.
// Failure is an expected outcome, not a fault: callers degrade to a
// placeholder for that one asset.
type Resolver interface {
	Resolve(ctx context.Context, asset *Asset, opts ResolveOptions) (Location, error)
}

// PreviewGenerator extracts a static preview frame from video content
type PreviewGenerator interface {
	// PreviewFrame writes a still image taken at the given offset and
	// returns its path. Quality is a 0..1 hint.
	PreviewFrame(ctx context.Context, loc Location, at time.Duration, quality float64) (string, error)
}

// BatchDeleter removes assets from the underlying media store.
// Partial success is not modeled: any failure fails the whole batch and
// leaves the caller's bookkeeping untouched.
type BatchDeleter interface {
	DeleteAssets(ctx context.Context, ids []string) error
}

// PermissionGate reports and requests media access
type PermissionGate interface {
	Status() PermissionStatus
	Request() PermissionStatus
}

// MediaStore is the full collaborator surface of the device media library
type MediaStore interface {
	AlbumLister
	AssetSource
	Resolver
	PreviewGenerator
	BatchDeleter
}
