package medialib

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ekinoz/phototriage/internal/domain"
)

// RecentsAlbumID identifies the smart album spanning all library roots
const RecentsAlbumID = "recents"

var photoExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".heic": {}, ".bmp": {},
}

var videoExts = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".mkv": {}, ".avi": {}, ".webm": {}, ".m4v": {}, ".3gp": {},
}

// Library is the filesystem-backed media store: each immediate subdirectory
// of a configured root is an album, asset ids are absolute paths, creation
// time is file mtime. Implements domain.MediaStore.
type Library struct {
	roots    []string
	cacheDir string
	ffmpeg   string
	ffprobe  string
	logger   *slog.Logger

	mu        sync.Mutex
	snapshots map[string][]*domain.Asset // albumID|kind -> stable scan snapshot
}

// NewLibrary creates a library over the given roots. cacheDir holds temp
// copies and extracted preview frames.
func NewLibrary(roots []string, cacheDir, ffmpeg, ffprobe string, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.Default()
	}
	return &Library{
		roots:     roots,
		cacheDir:  cacheDir,
		ffmpeg:    ffmpeg,
		ffprobe:   ffprobe,
		logger:    logger,
		snapshots: make(map[string][]*domain.Asset),
	}
}

// kindOf classifies a filename by extension
func kindOf(name string) (domain.MediaKind, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := photoExts[ext]; ok {
		return domain.MediaKindPhoto, true
	}
	if _, ok := videoExts[ext]; ok {
		return domain.MediaKindVideo, true
	}
	return 0, false
}

// ListAlbums returns every directory holding at least one asset of the kind,
// plus the synthetic Recents album when anything matched at all.
func (l *Library) ListAlbums(ctx context.Context, kind domain.MediaKind) ([]domain.Album, error) {
	var albums []domain.Album
	total := 0

	for _, root := range l.roots {
		dirs, err := albumDirs(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			if os.IsPermission(err) {
				return nil, fmt.Errorf("listing albums under %s: %w", root, domain.ErrPermissionDenied)
			}
			return nil, fmt.Errorf("listing albums under %s: %w", root, err)
		}

		for _, dir := range dirs {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			count, updated, err := countAssets(dir, kind)
			if err != nil {
				l.logger.Warn("skipping unreadable album", "error", err, "dir", dir)
				continue
			}
			if count == 0 {
				continue
			}
			total += count
			albums = append(albums, domain.Album{
				ID:        dir,
				Title:     filepath.Base(dir),
				Count:     count,
				UpdatedAt: updated,
			})
		}
	}

	sort.Slice(albums, func(i, j int) bool {
		return strings.ToLower(albums[i].Title) < strings.ToLower(albums[j].Title)
	})

	if total > 0 {
		albums = append([]domain.Album{{
			ID:    RecentsAlbumID,
			Title: "Recents",
			Count: total,
			Smart: true,
		}}, albums...)
	}

	l.logger.Debug("listed albums", "kind", kind.String(), "count", len(albums))
	return albums, nil
}

// albumDirs returns the root itself plus its immediate subdirectories
func albumDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	dirs := []string{root}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	return dirs, nil
}

// countAssets counts matching files directly inside dir and returns the
// newest mtime seen, which stands in for a content-change timestamp.
func countAssets(dir string, kind domain.MediaKind) (int, int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, err
	}
	count := 0
	var updated int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		k, ok := kindOf(e.Name())
		if !ok || k != kind {
			continue
		}
		count++
		if info, err := e.Info(); err == nil {
			if ts := info.ModTime().Unix(); ts > updated {
				updated = ts
			}
		}
	}
	return count, updated, nil
}

// ListAssets serves one page of an album's assets, creation-time sorted.
// The first page takes a fresh scan snapshot; continuation cursors page
// through that same snapshot so ordering stays stable for the whole review.
func (l *Library) ListAssets(ctx context.Context, q domain.AssetQuery) (domain.AssetPage, error) {
	key := q.AlbumID + "|" + q.Kind.String()

	l.mu.Lock()
	assets, ok := l.snapshots[key]
	l.mu.Unlock()

	if q.After == "" || !ok {
		fresh, err := l.scan(ctx, q.AlbumID, q.Kind)
		if err != nil {
			return domain.AssetPage{}, err
		}
		l.mu.Lock()
		l.snapshots[key] = fresh
		l.mu.Unlock()
		assets = fresh
	}

	offset := 0
	if q.After != "" {
		n, err := strconv.Atoi(q.After)
		if err != nil || n < 0 {
			return domain.AssetPage{}, fmt.Errorf("bad continuation cursor %q", q.After)
		}
		offset = n
	}
	if offset > len(assets) {
		offset = len(assets)
	}

	size := q.PageSize
	if size <= 0 {
		size = len(assets) - offset
	}
	end := offset + size
	if end > len(assets) {
		end = len(assets)
	}

	page := assets[offset:end]
	l.probeDurations(ctx, page)

	return domain.AssetPage{
		Assets:    page,
		EndCursor: strconv.Itoa(end),
		HasMore:   end < len(assets),
		Total:     len(assets),
	}, nil
}

// scan builds a creation-time-ordered asset list for one album
func (l *Library) scan(ctx context.Context, albumID string, kind domain.MediaKind) ([]*domain.Asset, error) {
	var dirs []string
	recursive := false
	if albumID == RecentsAlbumID {
		dirs = l.roots
		recursive = true
	} else {
		if !l.underRoot(albumID) {
			return nil, fmt.Errorf("album %q: %w", albumID, domain.ErrAlbumNotFound)
		}
		if _, err := os.Stat(albumID); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("album %q: %w", albumID, domain.ErrAlbumNotFound)
			}
			return nil, err
		}
		dirs = []string{albumID}
	}

	var assets []*domain.Asset
	for _, dir := range dirs {
		found, err := scanDir(ctx, dir, albumID, kind, recursive)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		assets = append(assets, found...)
	}

	sort.Slice(assets, func(i, j int) bool {
		if !assets[i].CreatedAt.Equal(assets[j].CreatedAt) {
			return assets[i].CreatedAt.Before(assets[j].CreatedAt)
		}
		return assets[i].Filename < assets[j].Filename
	})

	l.logger.Debug("scanned album", "albumID", albumID, "kind", kind.String(), "count", len(assets))
	return assets, nil
}

func scanDir(ctx context.Context, dir, albumID string, kind domain.MediaKind, recursive bool) ([]*domain.Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var assets []*domain.Asset
	for _, e := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if e.IsDir() {
			if recursive && !strings.HasPrefix(e.Name(), ".") {
				sub, err := scanDir(ctx, filepath.Join(dir, e.Name()), albumID, kind, true)
				if err != nil {
					continue
				}
				assets = append(assets, sub...)
			}
			continue
		}

		k, ok := kindOf(e.Name())
		if !ok || k != kind {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, e.Name())
		assets = append(assets, &domain.Asset{
			ID:        path,
			AlbumID:   albumID,
			Filename:  e.Name(),
			URI:       path,
			Kind:      k,
			FileSize:  info.Size(),
			CreatedAt: info.ModTime(),
		})
	}
	return assets, nil
}

// underRoot reports whether a path-based album id falls under a configured root
func (l *Library) underRoot(path string) bool {
	for _, root := range l.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// DeleteAssets removes the batch from disk. Any failure fails the whole
// batch; the session treats its bookkeeping as untouched and the caller may
// retry. Snapshots are dropped so the next listing reflects ground truth.
func (l *Library) DeleteAssets(ctx context.Context, ids []string) error {
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !l.underRoot(id) {
			return fmt.Errorf("%w: %q outside library roots", domain.ErrDeleteFailed, id)
		}
		if err := os.Remove(id); err != nil {
			l.logger.Error("batch delete aborted", "error", err, "assetID", id)
			return fmt.Errorf("%w: %v", domain.ErrDeleteFailed, err)
		}
	}

	l.mu.Lock()
	l.snapshots = make(map[string][]*domain.Asset)
	l.mu.Unlock()

	l.logger.Info("deleted assets", "count", len(ids))
	return nil
}

// Invalidate drops scan snapshots so the next listing rescans
func (l *Library) Invalidate() {
	l.mu.Lock()
	l.snapshots = make(map[string][]*domain.Asset)
	l.mu.Unlock()
}
