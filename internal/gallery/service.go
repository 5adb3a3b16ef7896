package gallery

import (
	"context"
	"log/slog"
	"time"

	"github.com/ekinoz/phototriage/internal/domain"
)

const defaultChunkSize = 50

// Service orchestrates media source + listing cache operations.
// Full-album fetches go through here; the review flow pages the source
// directly so its window stays exactly what the session has seen.
type Service struct {
	source interface {
		domain.AlbumLister
		domain.AssetSource
	}
	store  domain.Store
	logger *slog.Logger
}

// NewService creates a new gallery service.
func NewService(source domain.MediaStore, store domain.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, store: store, logger: logger}
}

func (s *Service) FetchAlbums(ctx context.Context, kind domain.MediaKind) ([]domain.Album, error) {
	albums, err := s.source.ListAlbums(ctx, kind)
	if err != nil {
		s.logger.Error("failed to fetch albums", "error", err, "kind", kind.String())
		return nil, err
	}
	if err := s.store.SaveAlbums(kind, albums); err != nil {
		s.logger.Error("failed to save albums", "error", err)
	}
	s.logger.Debug("fetched albums", "count", len(albums), "kind", kind.String())
	return albums, nil
}

// SyncAlbum refreshes an album's cached listing, serving from cache when the
// source has not changed since the last save.
func (s *Service) SyncAlbum(
	ctx context.Context,
	album domain.Album,
	kind domain.MediaKind,
	onProgress domain.ProgressFunc,
) (domain.SyncResult, error) {
	// 1. Freshness check
	if s.store.IsValid(album.ID, kind, album.UpdatedAt) {
		count := 0
		if assets, ok := s.store.GetAssets(album.ID, kind); ok {
			count = len(assets)
		}
		s.logger.Debug("cache fresh", "albumID", album.ID, "count", count)
		return domain.SyncResult{AlbumID: album.ID, FromCache: true, Count: count}, nil
	}

	// 2. Fetch everything and reseed the cache
	s.logger.Debug("cache stale, fetching", "albumID", album.ID)

	assets, err := s.fetchAllAssets(ctx, album.ID, kind, onProgress)
	if err != nil {
		return domain.SyncResult{}, err
	}
	if err := s.store.SaveAssets(album.ID, kind, assets, album.UpdatedAt); err != nil {
		s.logger.Error("failed to save assets", "error", err, "albumID", album.ID)
	}
	return domain.SyncResult{AlbumID: album.ID, FromCache: false, Count: len(assets)}, nil
}

func (s *Service) FetchAssets(
	ctx context.Context,
	albumID string,
	kind domain.MediaKind,
	onProgress domain.ProgressFunc,
) ([]*domain.Asset, error) {
	assets, err := s.fetchAllAssets(ctx, albumID, kind, onProgress)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveAssets(albumID, kind, assets, time.Now().Unix()); err != nil {
		s.logger.Error("failed to save assets", "error", err, "albumID", albumID)
	}
	s.logger.Debug("fetched assets", "count", len(assets), "albumID", albumID)
	return assets, nil
}

func (s *Service) InvalidateAlbum(albumID string) {
	s.store.InvalidateAlbum(albumID)
	s.logger.Info("invalidated album cache", "albumID", albumID)
}

func (s *Service) InvalidateAll() {
	s.store.InvalidateAll()
	s.logger.Info("invalidated all cache")
}

// --- Private helpers ---

func (s *Service) fetchAllAssets(
	ctx context.Context,
	albumID string,
	kind domain.MediaKind,
	onProgress domain.ProgressFunc,
) ([]*domain.Asset, error) {
	return fetchAll(ctx,
		func(ctx context.Context, after string, limit int) (domain.AssetPage, error) {
			return s.source.ListAssets(ctx, domain.AssetQuery{
				AlbumID:  albumID,
				Kind:     kind,
				PageSize: limit,
				After:    after,
			})
		},
		defaultChunkSize,
		onProgress,
	)
}

// fetchAll is a cursor-based pagination helper.
func fetchAll(
	ctx context.Context,
	fetch func(ctx context.Context, after string, limit int) (domain.AssetPage, error),
	chunkSize int,
	onProgress domain.ProgressFunc,
) ([]*domain.Asset, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	var all []*domain.Asset
	after := ""

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page, err := fetch(ctx, after, chunkSize)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Assets...)

		if onProgress != nil {
			onProgress(len(all), page.Total)
		}

		if !page.HasMore || len(page.Assets) == 0 {
			break
		}
		after = page.EndCursor
	}

	return all, nil
}
