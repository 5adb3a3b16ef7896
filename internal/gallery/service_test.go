package gallery

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekinoz/phototriage/internal/domain"
	"github.com/ekinoz/phototriage/internal/log"
	"github.com/ekinoz/phototriage/internal/store"
)

// fakeSource pages a fixed asset list with strconv offset cursors
type fakeSource struct {
	albums    []domain.Album
	assets    []*domain.Asset
	listCalls int
	err       error
}

func (f *fakeSource) ListAlbums(ctx context.Context, kind domain.MediaKind) ([]domain.Album, error) {
	return f.albums, f.err
}

func (f *fakeSource) ListAssets(ctx context.Context, q domain.AssetQuery) (domain.AssetPage, error) {
	f.listCalls++
	if f.err != nil {
		return domain.AssetPage{}, f.err
	}
	offset := 0
	if q.After != "" {
		offset, _ = strconv.Atoi(q.After)
	}
	end := offset + q.PageSize
	if end > len(f.assets) {
		end = len(f.assets)
	}
	return domain.AssetPage{
		Assets:    f.assets[offset:end],
		EndCursor: strconv.Itoa(end),
		HasMore:   end < len(f.assets),
		Total:     len(f.assets),
	}, nil
}

func (f *fakeSource) Resolve(ctx context.Context, asset *domain.Asset, opts domain.ResolveOptions) (domain.Location, error) {
	return domain.Location{Path: asset.URI, Local: true}, nil
}

func (f *fakeSource) PreviewFrame(ctx context.Context, loc domain.Location, at time.Duration, quality float64) (string, error) {
	return loc.Path, nil
}

func (f *fakeSource) DeleteAssets(ctx context.Context, ids []string) error { return nil }

func makeAssets(n int) []*domain.Asset {
	assets := make([]*domain.Asset, n)
	for i := range assets {
		assets[i] = &domain.Asset{
			ID:       fmt.Sprintf("asset-%03d", i),
			AlbumID:  "album-1",
			Filename: fmt.Sprintf("%03d.jpg", i),
			Kind:     domain.MediaKindPhoto,
		}
	}
	return assets
}

func newTestService(t *testing.T, src *fakeSource) (*Service, *store.ListingStore) {
	t.Helper()
	st, err := store.NewListingStore("")
	require.NoError(t, err)
	return NewService(src, st, log.NullLogger()), st
}

func TestFetchAlbumsSeedsCache(t *testing.T) {
	src := &fakeSource{albums: []domain.Album{{ID: "a", Title: "A", Count: 1}}}
	svc, st := newTestService(t, src)

	albums, err := svc.FetchAlbums(context.Background(), domain.MediaKindPhoto)
	require.NoError(t, err)
	assert.Len(t, albums, 1)

	cached, ok := st.GetAlbums(domain.MediaKindPhoto)
	require.True(t, ok)
	assert.Equal(t, albums, cached)
}

func TestFetchAssetsPagesThroughSource(t *testing.T) {
	src := &fakeSource{assets: makeAssets(120)}
	svc, st := newTestService(t, src)

	var progress []int
	assets, err := svc.FetchAssets(context.Background(), "album-1", domain.MediaKindPhoto, func(loaded, total int) {
		progress = append(progress, loaded)
		assert.Equal(t, 120, total)
	})
	require.NoError(t, err)
	assert.Len(t, assets, 120)
	assert.Equal(t, []int{50, 100, 120}, progress)
	assert.Equal(t, 3, src.listCalls)

	cached, ok := st.GetAssets("album-1", domain.MediaKindPhoto)
	require.True(t, ok)
	assert.Len(t, cached, 120)
}

func TestSyncAlbumServesFreshCache(t *testing.T) {
	src := &fakeSource{assets: makeAssets(10)}
	svc, _ := newTestService(t, src)
	album := domain.Album{ID: "album-1", UpdatedAt: 100}

	res, err := svc.SyncAlbum(context.Background(), album, domain.MediaKindPhoto, nil)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 10, res.Count)
	firstCalls := src.listCalls

	// Unchanged source timestamp hits the cache
	res, err = svc.SyncAlbum(context.Background(), album, domain.MediaKindPhoto, nil)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, 10, res.Count)
	assert.Equal(t, firstCalls, src.listCalls)

	// A newer source timestamp forces a refetch
	album.UpdatedAt = 200
	res, err = svc.SyncAlbum(context.Background(), album, domain.MediaKindPhoto, nil)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Greater(t, src.listCalls, firstCalls)
}

func TestSyncAlbumPropagatesSourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("scan failed")}
	svc, _ := newTestService(t, src)

	_, err := svc.SyncAlbum(context.Background(), domain.Album{ID: "album-1", UpdatedAt: 1}, domain.MediaKindPhoto, nil)
	assert.Error(t, err)
}

func TestInvalidateAlbumDropsCachedListing(t *testing.T) {
	src := &fakeSource{assets: makeAssets(3)}
	svc, st := newTestService(t, src)

	_, err := svc.FetchAssets(context.Background(), "album-1", domain.MediaKindPhoto, nil)
	require.NoError(t, err)

	svc.InvalidateAlbum("album-1")
	_, ok := st.GetAssets("album-1", domain.MediaKindPhoto)
	assert.False(t, ok)
}

func TestQueriesReadCacheOnly(t *testing.T) {
	src := &fakeSource{assets: makeAssets(2)}
	svc, st := newTestService(t, src)
	q := NewQueries(st)

	_, ok := q.GetCachedAssets("album-1", domain.MediaKindPhoto)
	assert.False(t, ok)

	_, err := svc.FetchAssets(context.Background(), "album-1", domain.MediaKindPhoto, nil)
	require.NoError(t, err)

	assets, ok := q.GetCachedAssets("album-1", domain.MediaKindPhoto)
	require.True(t, ok)
	assert.Len(t, assets, 2)
	calls := src.listCalls
	q.GetCachedAssets("album-1", domain.MediaKindPhoto)
	assert.Equal(t, calls, src.listCalls, "queries never hit the source")
}
