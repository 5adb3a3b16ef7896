package review

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ekinoz/phototriage/internal/domain"
)

// Decision is a resolved review input for the current asset
type Decision int

const (
	DecisionKeep Decision = iota
	DecisionDelete
)

// String returns the decision name for logs
func (d Decision) String() string {
	if d == DecisionDelete {
		return "delete"
	}
	return "keep"
}

// Outcome reports what a decision did to the session
type Outcome int

const (
	// OutcomeAdvanced: the cursor moved to the next asset
	OutcomeAdvanced Outcome = iota

	// OutcomeNeedMore: the cursor sits on the last loaded asset and more
	// pages exist upstream; the caller should run LoadMore and re-render
	OutcomeNeedMore

	// OutcomeReachedEnd: last asset, nothing more to load; cursor unchanged
	OutcomeReachedEnd

	// OutcomeAllMarked: every loaded asset is now marked for deletion;
	// cursor frozen, there is nothing left to advance to
	OutcomeAllMarked

	// OutcomeNoop: the decision was ignored (empty window, guard hit,
	// or a page load / commit in flight)
	OutcomeNoop
)

// undoRecord is the single-slot history for undoing the most recent
// delete decision
type undoRecord struct {
	id     string
	cursor int
	added  bool // false when the id was already marked before the decision
}

// Session tracks review progress over one album's asset window: the loaded
// assets in creation order, a cursor, the set of assets marked for deletion,
// and a one-deep undo record.
//
// Decisions are expected from a single UI loop; page loads and commits may
// run on command goroutines, so all state is guarded by a mutex and the
// loading/committing flags make re-entrant async calls no-ops.
type Session struct {
	id      string
	albumID string
	kind    domain.MediaKind

	source   domain.AssetSource
	pageSize int
	logger   *slog.Logger

	mu         sync.Mutex
	window     []*domain.Asset
	cursor     int
	marked     map[string]struct{}
	order      []string // marked ids in decision order, drives the commit batch
	undo       *undoRecord
	endCursor  string
	hasMore    bool
	loading    bool
	committing bool
	committed  bool

	// advanceOwed is set when a decision runs off the end of the loaded
	// window; the advance completes when the next page arrives. An undo in
	// the gap cancels it, so LoadMore never steps past an undecided asset.
	advanceOwed bool
}

// NewSession creates a session for one album. Nothing is loaded until Load.
func NewSession(source domain.AssetSource, albumID string, kind domain.MediaKind, pageSize int, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		id:       uuid.NewString(),
		albumID:  albumID,
		kind:     kind,
		source:   source,
		pageSize: pageSize,
		logger:   logger,
		marked:   make(map[string]struct{}),
	}
}

// ID returns the session identifier used in logs
func (s *Session) ID() string { return s.id }

// AlbumID returns the album under review
func (s *Session) AlbumID() string { return s.albumID }

// Kind returns the media kind under review
func (s *Session) Kind() domain.MediaKind { return s.kind }

// Load fetches the first page. An empty album is a valid terminal state,
// not an error. A load already in flight makes this a no-op.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	page, err := s.source.ListAssets(ctx, domain.AssetQuery{
		AlbumID:  s.albumID,
		Kind:     s.kind,
		PageSize: s.pageSize,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Error("failed to load first page", "error", err, "albumID", s.albumID, "session", s.id)
		return err
	}

	s.window = page.Assets
	s.cursor = 0
	s.endCursor = page.EndCursor
	s.hasMore = page.HasMore
	s.advanceOwed = false
	s.logger.Debug("session loaded", "session", s.id, "albumID", s.albumID, "count", len(s.window), "hasMore", s.hasMore)
	return nil
}

// LoadMore fetches the next page and appends it to the window, preserving
// prior order. When new assets arrive and an advance is still owed, the
// cursor advances by one, completing the decision that ran off the end of
// the loaded window; an undo issued while the page was in flight cancels
// that advance. Returns the number of appended assets.
func (s *Session) LoadMore(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.loading || !s.hasMore {
		s.mu.Unlock()
		return 0, nil
	}
	s.loading = true
	after := s.endCursor
	s.mu.Unlock()

	page, err := s.source.ListAssets(ctx, domain.AssetQuery{
		AlbumID:  s.albumID,
		Kind:     s.kind,
		PageSize: s.pageSize,
		After:    after,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Error("failed to load next page", "error", err, "albumID", s.albumID, "session", s.id)
		return 0, err
	}

	if len(page.Assets) > 0 {
		s.window = append(s.window, page.Assets...)
		if s.advanceOwed {
			s.cursor++
		}
	}
	s.advanceOwed = false
	s.endCursor = page.EndCursor
	s.hasMore = page.HasMore
	s.logger.Debug("session page appended", "session", s.id, "appended", len(page.Assets), "window", len(s.window), "hasMore", s.hasMore)
	return len(page.Assets), nil
}

// Current returns the asset at the cursor, or false for an empty window.
// Pure read, no side effect.
func (s *Session) Current() (*domain.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.window) == 0 {
		return nil, false
	}
	return s.window[s.cursor], true
}

// Decide applies a keep or delete decision to the current asset.
//
// keep advances the cursor; at the end of the loaded window it reports
// OutcomeNeedMore when more pages exist upstream, otherwise OutcomeReachedEnd
// with the cursor unchanged.
//
// delete marks the current asset and records the pre-decision cursor for
// undo, then advances exactly as keep. Marking the last unmarked asset
// freezes the cursor and reports OutcomeAllMarked. Deleting past full is a
// no-op, not a fault.
func (s *Session) Decide(d Decision) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.window) == 0 || s.loading || s.committing || s.committed {
		return OutcomeNoop
	}

	if d == DecisionDelete {
		if len(s.marked) >= len(s.window) {
			return OutcomeNoop
		}
		id := s.window[s.cursor].ID
		_, dup := s.marked[id]
		if !dup {
			s.marked[id] = struct{}{}
			s.order = append(s.order, id)
		}
		s.undo = &undoRecord{id: id, cursor: s.cursor, added: !dup}
		s.logger.Debug("asset marked", "session", s.id, "assetID", id, "marked", len(s.marked))
		if len(s.marked) == len(s.window) {
			return OutcomeAllMarked
		}
	}

	return s.advance()
}

// advance moves the cursor forward, or reports why it cannot.
// Caller holds the lock.
func (s *Session) advance() Outcome {
	if s.cursor < len(s.window)-1 {
		s.cursor++
		return OutcomeAdvanced
	}
	if s.hasMore {
		s.advanceOwed = true
		return OutcomeNeedMore
	}
	return OutcomeReachedEnd
}

// Undo reverses the most recent delete decision: unmarks the recorded asset
// and restores the pre-decision cursor. Single-level only; with no record it
// is a no-op and returns false.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.undo == nil || s.committing || s.committed {
		return false
	}
	rec := s.undo
	s.undo = nil
	// The undone decision no longer owes the window an advance.
	s.advanceOwed = false

	if rec.added {
		delete(s.marked, rec.id)
		for i := len(s.order) - 1; i >= 0; i-- {
			if s.order[i] == rec.id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}

	// The window never shrinks, so the clamp is purely defensive.
	s.cursor = rec.cursor
	if s.cursor > len(s.window)-1 {
		s.cursor = len(s.window) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	s.logger.Debug("delete undone", "session", s.id, "assetID", rec.id, "cursor", s.cursor)
	return true
}

// CommitStatus classifies the outcome of a commit attempt
type CommitStatus int

const (
	// CommitNothing: the pending set was empty; no collaborator call made
	CommitNothing CommitStatus = iota

	// CommitDone: the batch delete succeeded; the session is terminal
	CommitDone

	// CommitFailed: the batch delete failed; pending set and cursor are
	// exactly as before the attempt
	CommitFailed

	// CommitBusy: another commit or page load was in flight
	CommitBusy
)

// CommitResult reports a commit attempt
type CommitResult struct {
	Status  CommitStatus
	Deleted []string // ids removed from the store, set on CommitDone
	Err     error    // underlying cause, set on CommitFailed
}

// Commit hands the full pending set to the deleter as one batch call.
// On success the session becomes terminal: the window is stale ground truth
// and the caller is expected to navigate away and reload the album. On
// failure all session state is preserved for retry.
func (s *Session) Commit(ctx context.Context, deleter domain.BatchDeleter) CommitResult {
	s.mu.Lock()
	if s.committing || s.loading {
		s.mu.Unlock()
		return CommitResult{Status: CommitBusy}
	}
	if len(s.order) == 0 {
		s.mu.Unlock()
		return CommitResult{Status: CommitNothing}
	}
	s.committing = true
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	s.mu.Unlock()

	err := deleter.DeleteAssets(ctx, ids)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.committing = false
	if err != nil {
		s.logger.Error("commit failed", "error", err, "session", s.id, "count", len(ids))
		return CommitResult{Status: CommitFailed, Err: err}
	}

	s.committed = true
	s.marked = make(map[string]struct{})
	s.order = nil
	s.undo = nil
	s.logger.Info("commit done", "session", s.id, "albumID", s.albumID, "deleted", len(ids))
	return CommitResult{Status: CommitDone, Deleted: ids}
}

// === Read-only accessors ===

// Cursor returns the current index into the window
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Len returns the number of loaded assets
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.window)
}

// MarkedCount returns the size of the pending-deletion set
func (s *Session) MarkedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.marked)
}

// Marked returns the pending-deletion ids in decision order
func (s *Session) Marked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// IsMarked reports whether an asset is in the pending-deletion set
func (s *Session) IsMarked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.marked[id]
	return ok
}

// HasMore reports whether more pages exist upstream
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// Loading reports whether a page fetch is in flight
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Committed reports whether a commit has succeeded; the session is then
// terminal and the window no longer reflects the store
func (s *Session) Committed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// Progress returns marked/total in 0..1 for the progress bar
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.window) == 0 {
		return 0
	}
	return float64(len(s.marked)) / float64(len(s.window))
}
