package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ekinoz/phototriage/internal/config"
	"github.com/ekinoz/phototriage/internal/domain"
	"github.com/ekinoz/phototriage/internal/gallery"
	"github.com/ekinoz/phototriage/internal/preview"
	"github.com/ekinoz/phototriage/internal/review"
	"github.com/ekinoz/phototriage/internal/tui/components"
	"github.com/ekinoz/phototriage/internal/tui/styles"
)

// State identifies the active screen
type State int

const (
	StatePermission State = iota
	StateAlbums
	StateAlbumDetail
	StateReview
	StateConfirm
	StateCommitting
	StateHelp
)

// cellUnits converts one terminal cell of mouse travel into gesture units,
// so a ~12 cell drag crosses the default 120-unit threshold.
const cellUnits = 10.0

// Deps carries the collaborators the TUI drives
type Deps struct {
	Gallery   *gallery.Service
	Queries   *gallery.Queries
	Media     domain.MediaStore
	Gate      domain.PermissionGate
	Committer *review.Committer
	Config    *config.Config
	Logger    *slog.Logger
}

// Model is the root bubbletea model
type Model struct {
	deps Deps
	keys KeyMap

	state     State
	prevState State // Where help returns to
	width     int
	height    int

	kind   domain.MediaKind
	albums *components.AlbumList
	banner components.Banner
	deck   *components.Deck
	sess   *review.Session

	detailAlbum       domain.Album
	detailAssets      []*domain.Asset
	detailIndex       int
	detailUnavailable int

	renderer preview.Renderer
	spin     spinner.Model
	busy     bool

	filterActive bool

	classifier review.SwipeClassifier
	dragging   bool
	dragStartX int

	status      string
	statusError bool
}

// New creates the root model
func New(deps Deps) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	return &Model{
		deps:   deps,
		keys:   Keys,
		state:  StatePermission,
		kind:   domain.MediaKindPhoto,
		albums: components.NewAlbumList(),
		banner: components.Banner{Text: "Swipe right (or →/space) to keep, left (or ←/x) to delete. Nothing is removed until you commit."},
		deck:   components.NewDeck(),
		renderer: preview.Renderer{
			MaxWidth: deps.Config.UI.PreviewWidth,
		},
		spin:       sp,
		classifier: review.SwipeClassifier{Threshold: deps.Config.Review.SwipeThreshold},
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, CheckPermissionCmd(m.deps.Gate))
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.albums.SetSize(msg.Width-4, msg.Height-8)
		m.deck.SetSize(msg.Width, msg.Height-6)
		return m, nil

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case PermissionMsg:
		return m.handlePermission(msg)

	case AlbumsLoadedMsg:
		m.busy = false
		if msg.Kind == m.kind {
			m.albums.SetAlbums(msg.Albums)
		}
		return m, nil

	case AssetsSyncedMsg:
		m.busy = false
		if msg.Album.ID == m.detailAlbum.ID {
			m.detailAssets = msg.Assets
			m.detailIndex = 0
			m.detailUnavailable = msg.Unavailable
		}
		return m, nil

	case SessionStartedMsg:
		return m.handleSessionStarted(msg)

	case PageLoadedMsg:
		return m.handlePageLoaded(msg)

	case PreviewReadyMsg:
		m.deck.SetPreview(msg.AssetID, msg.Content)
		return m, nil

	case PreviewFailedMsg:
		m.deps.Logger.Warn("preview unavailable", "error", msg.Err, "assetID", msg.AssetID)
		m.deck.SetPreview(msg.AssetID, m.renderer.Placeholder("no preview", m.deck.CardWidth()-2, m.deck.CardHeight()-2))
		return m, nil

	case CommitFinishedMsg:
		return m.handleCommitFinished(msg)

	case ErrMsg:
		m.busy = false
		m.setStatus(msg.Error(), true)
		if m.state == StateCommitting {
			m.state = StateReview
		}
		return m, ClearStatusCmd(5 * time.Second)

	case ClearStatusMsg:
		m.status = ""
		return m, nil
	}

	return m, nil
}

func (m *Model) handlePermission(msg PermissionMsg) (tea.Model, tea.Cmd) {
	switch msg.Status {
	case domain.PermissionGranted:
		m.state = StateAlbums
		m.busy = true
		return m, tea.Batch(m.spin.Tick, LoadAlbumsCmd(m.deps.Gallery, m.kind))
	default:
		m.state = StatePermission
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Filter input swallows everything except escape/enter
	if m.filterActive {
		return m.handleFilterKey(msg)
	}

	if key.Matches(msg, m.keys.Quit) && m.state != StateConfirm {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		if m.state == StateHelp {
			m.state = m.prevState
		} else {
			m.prevState = m.state
			m.state = StateHelp
		}
		return m, nil
	}

	switch m.state {
	case StatePermission:
		if key.Matches(msg, m.keys.Enter) {
			return m, RequestPermissionCmd(m.deps.Gate)
		}

	case StateAlbums:
		return m.handleAlbumsKey(msg)

	case StateAlbumDetail:
		return m.handleDetailKey(msg)

	case StateReview:
		return m.handleReviewKey(msg)

	case StateConfirm:
		if key.Matches(msg, m.keys.Confirm) {
			m.state = StateCommitting
			m.busy = true
			return m, tea.Batch(m.spin.Tick, CommitCmd(m.deps.Committer, m.sess))
		}
		if key.Matches(msg, m.keys.Deny) {
			m.state = StateReview
			return m, nil
		}

	case StateHelp:
		if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Back) {
			m.state = m.prevState
		}
	}

	return m, nil
}

func (m *Model) handleAlbumsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.albums.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.albums.MoveDown()
	case key.Matches(msg, m.keys.Filter):
		m.filterActive = true
	case key.Matches(msg, m.keys.Escape):
		m.albums.SetFilter("")
	case key.Matches(msg, m.keys.Refresh):
		m.deps.Gallery.InvalidateAll()
		m.busy = true
		return m, tea.Batch(m.spin.Tick, LoadAlbumsCmd(m.deps.Gallery, m.kind))
	case key.Matches(msg, m.keys.Videos):
		if m.kind == domain.MediaKindPhoto {
			m.kind = domain.MediaKindVideo
		} else {
			m.kind = domain.MediaKindPhoto
		}
		m.busy = true
		return m, tea.Batch(m.spin.Tick, LoadAlbumsCmd(m.deps.Gallery, m.kind))
	case key.Matches(msg, m.keys.Enter):
		album, ok := m.albums.Selected()
		if !ok {
			return m, nil
		}
		m.banner.Dismissed = true
		return m.openAlbum(album)
	}
	return m, nil
}

// openAlbum switches to the detail view and refreshes the album's listing
func (m *Model) openAlbum(album domain.Album) (tea.Model, tea.Cmd) {
	m.state = StateAlbumDetail
	m.detailAlbum = album
	m.detailAssets = nil
	m.detailIndex = 0
	m.detailUnavailable = 0
	m.busy = true
	return m, tea.Batch(m.spin.Tick, SyncAlbumCmd(m.deps.Gallery, m.deps.Queries, album, m.kind, m.deps.Media))
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.detailIndex > 0 {
			m.detailIndex--
		}
	case key.Matches(msg, m.keys.Down):
		if m.detailIndex < len(m.detailAssets)-1 {
			m.detailIndex++
		}
	case key.Matches(msg, m.keys.Refresh):
		m.deps.Gallery.InvalidateAlbum(m.detailAlbum.ID)
		m.busy = true
		return m, tea.Batch(m.spin.Tick, SyncAlbumCmd(m.deps.Gallery, m.deps.Queries, m.detailAlbum, m.kind, m.deps.Media))
	case key.Matches(msg, m.keys.Enter):
		return m.startReview(m.detailAlbum)
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Back):
		m.state = StateAlbums
	}
	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.filterActive = false
		m.albums.SetFilter("")
	case tea.KeyEnter:
		m.filterActive = false
	case tea.KeyBackspace:
		f := m.albums.Filter()
		if f != "" {
			m.albums.SetFilter(f[:len(f)-1])
		}
	case tea.KeyRunes:
		m.albums.SetFilter(m.albums.Filter() + string(msg.Runes))
	}
	return m, nil
}

func (m *Model) startReview(album domain.Album) (tea.Model, tea.Cmd) {
	pageSize := m.deps.Config.Review.PhotoPageSize
	if m.kind == domain.MediaKindVideo {
		pageSize = m.deps.Config.Review.VideoPageSize
	}
	m.sess = review.NewSession(m.deps.Media, album.ID, m.kind, pageSize, m.deps.Logger)
	m.deck.ResetDrag()
	m.busy = true
	return m, tea.Batch(m.spin.Tick, StartReviewCmd(m.sess))
}

func (m *Model) handleSessionStarted(msg SessionStartedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.Session != m.sess {
		return m, nil
	}
	if _, ok := m.sess.Current(); !ok {
		m.setStatus("album is empty", false)
		return m, ClearStatusCmd(3 * time.Second)
	}
	m.state = StateReview
	return m, m.previewCurrentCmd()
}

func (m *Model) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Keep):
		return m.applyDecision(review.DecisionKeep)
	case key.Matches(msg, m.keys.Delete):
		return m.applyDecision(review.DecisionDelete)
	case key.Matches(msg, m.keys.Undo):
		if m.sess.Undo() {
			m.deck.ResetDrag()
			return m, m.previewCurrentCmd()
		}
		m.setStatus("nothing to undo", false)
		return m, ClearStatusCmd(2 * time.Second)
	case key.Matches(msg, m.keys.Commit):
		if m.sess.MarkedCount() == 0 {
			m.setStatus("nothing marked for deletion", false)
			return m, ClearStatusCmd(2 * time.Second)
		}
		m.state = StateConfirm
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Back):
		// Leaving the review discards the pending set
		m.state = StateAlbumDetail
		m.sess = nil
		m.dragging = false
	}
	return m, nil
}

// applyDecision routes an outcome to its follow-up work
func (m *Model) applyDecision(d review.Decision) (tea.Model, tea.Cmd) {
	outcome := m.sess.Decide(d)
	m.deck.ResetDrag()

	switch outcome {
	case review.OutcomeAdvanced:
		return m, m.previewCurrentCmd()
	case review.OutcomeNeedMore:
		m.busy = true
		return m, tea.Batch(m.spin.Tick, LoadMoreCmd(m.sess))
	case review.OutcomeReachedEnd:
		m.setStatus("end of album, press d to commit deletions", false)
		return m, ClearStatusCmd(3 * time.Second)
	case review.OutcomeAllMarked:
		m.setStatus("everything is marked, press d to commit", false)
		return m, ClearStatusCmd(3 * time.Second)
	}
	return m, nil
}

func (m *Model) handlePageLoaded(msg PageLoadedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if m.sess == nil || msg.SessionID != m.sess.ID() {
		return m, nil
	}
	return m, m.previewCurrentCmd()
}

func (m *Model) handleCommitFinished(msg CommitFinishedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	switch msg.Result.Status {
	case review.CommitDone:
		m.setStatus(fmt.Sprintf("deleted %d items", len(msg.Result.Deleted)), false)
		m.state = StateAlbums
		m.sess = nil
		m.busy = true
		return m, tea.Batch(m.spin.Tick, LoadAlbumsCmd(m.deps.Gallery, m.kind), ClearStatusCmd(3*time.Second))
	case review.CommitFailed:
		m.setStatus("delete failed: "+msg.Result.Err.Error(), true)
		m.state = StateReview
		return m, ClearStatusCmd(5 * time.Second)
	default:
		m.state = StateReview
		return m, nil
	}
}

// handleMouse turns horizontal drags over the card into swipe decisions
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state != StateReview || m.sess == nil {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dragging = true
			m.dragStartX = msg.X
			m.deck.SetDisplacement(0)
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.deck.SetDisplacement(float64(msg.X-m.dragStartX) * cellUnits)
		}
	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		displacement := m.deck.Displacement()
		if d, resolved := m.classifier.Classify(displacement); resolved {
			return m.applyDecision(d)
		}
		// Below threshold: snap back, no decision
		m.deck.ResetDrag()
	}
	return m, nil
}

func (m *Model) previewCurrentCmd() tea.Cmd {
	asset, ok := m.sess.Current()
	if !ok {
		return nil
	}
	if m.deck.HasPreview(asset.ID) {
		return nil
	}
	return RenderPreviewCmd(m.deps.Media, m.deps.Media, m.renderer, asset, m.deck.CardWidth()-2, m.deck.CardHeight()-2)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusError = isErr
}
