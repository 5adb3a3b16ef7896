package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ekinoz/phototriage/internal/domain"
	"github.com/ekinoz/phototriage/internal/gallery"
	"github.com/ekinoz/phototriage/internal/preview"
	"github.com/ekinoz/phototriage/internal/review"
)

// Command factories for async operations

// CheckPermissionCmd checks media access without prompting
func CheckPermissionCmd(gate domain.PermissionGate) tea.Cmd {
	return func() tea.Msg {
		return PermissionMsg{Status: gate.Status()}
	}
}

// RequestPermissionCmd asks the gate to make the library usable
func RequestPermissionCmd(gate domain.PermissionGate) tea.Cmd {
	return func() tea.Msg {
		return PermissionMsg{Status: gate.Request()}
	}
}

// LoadAlbumsCmd loads the album list for one media kind
func LoadAlbumsCmd(svc *gallery.Service, kind domain.MediaKind) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		albums, err := svc.FetchAlbums(ctx, kind)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading albums"}
		}
		return AlbumsLoadedMsg{Albums: albums, Kind: kind}
	}
}

// availabilityProbeCap bounds the per-album unavailability scan
const availabilityProbeCap = 200

// SyncAlbumCmd refreshes one album's listing for the detail view and counts
// assets whose content cannot be reached right now
func SyncAlbumCmd(svc *gallery.Service, q *gallery.Queries, album domain.Album, kind domain.MediaKind, resolver domain.Resolver) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		res, err := svc.SyncAlbum(ctx, album, kind, nil)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading album"}
		}

		assets, _ := q.GetCachedAssets(album.ID, kind)

		unavailable := 0
		for i, a := range assets {
			if i >= availabilityProbeCap {
				break
			}
			if _, err := resolver.Resolve(ctx, a, domain.ResolveOptions{}); err != nil {
				unavailable++
			}
		}

		return AssetsSyncedMsg{Album: album, Assets: assets, FromCache: res.FromCache, Unavailable: unavailable}
	}
}

// StartReviewCmd loads the first page of a freshly created session
func StartReviewCmd(s *review.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if err := s.Load(ctx); err != nil {
			return ErrMsg{Err: err, Context: "starting review"}
		}
		return SessionStartedMsg{Session: s, AlbumID: s.AlbumID()}
	}
}

// LoadMoreCmd fetches the session's next page after OutcomeNeedMore
func LoadMoreCmd(s *review.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		if _, err := s.LoadMore(ctx); err != nil {
			return ErrMsg{Err: err, Context: "loading next page"}
		}
		return PageLoadedMsg{SessionID: s.ID()}
	}
}

// RenderPreviewCmd resolves one asset and renders its terminal preview.
// Resolution failure degrades to a placeholder for that asset only.
func RenderPreviewCmd(resolver domain.Resolver, gen domain.PreviewGenerator, renderer preview.Renderer, asset *domain.Asset, width, height int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		loc, err := resolver.Resolve(ctx, asset, domain.ResolveOptions{AllowFetch: true})
		if err != nil {
			return PreviewFailedMsg{AssetID: asset.ID, Err: err}
		}

		path := loc.Path
		if asset.Kind == domain.MediaKindVideo {
			path, err = gen.PreviewFrame(ctx, loc, 0, 0.8)
			if err != nil {
				return PreviewFailedMsg{AssetID: asset.ID, Err: err}
			}
		}

		content, err := renderer.RenderFile(path, width, height)
		if err != nil {
			return PreviewFailedMsg{AssetID: asset.ID, Err: err}
		}
		return PreviewReadyMsg{AssetID: asset.ID, Content: content}
	}
}

// CommitCmd runs the confirmed batch deletion
func CommitCmd(c *review.Committer, s *review.Session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		res := c.Commit(ctx, s)
		return CommitFinishedMsg{Result: res, AlbumID: s.AlbumID()}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
