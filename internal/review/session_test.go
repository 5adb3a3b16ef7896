package review

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekinoz/phototriage/internal/domain"
)

// fakeSource serves a fixed asset list through the paging contract
type fakeSource struct {
	assets []*domain.Asset
	err    error
	calls  int
}

func (f *fakeSource) ListAssets(_ context.Context, q domain.AssetQuery) (domain.AssetPage, error) {
	f.calls++
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
	page := f.assets[offset:end]
	return domain.AssetPage{
		Assets:    page,
		EndCursor: strconv.Itoa(end),
		HasMore:   end < len(f.assets),
		Total:     len(f.assets),
	}, nil
}

// fakeDeleter records batch delete calls
type fakeDeleter struct {
	err   error
	calls [][]string
}

func (f *fakeDeleter) DeleteAssets(_ context.Context, ids []string) error {
	f.calls = append(f.calls, ids)
	return f.err
}

func makeAssets(ids ...string) []*domain.Asset {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	out := make([]*domain.Asset, len(ids))
	for i, id := range ids {
		out[i] = &domain.Asset{
			ID:        id,
			AlbumID:   "album-1",
			Filename:  id + ".jpg",
			Kind:      domain.MediaKindPhoto,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func loadedSession(t *testing.T, pageSize int, ids ...string) (*Session, *fakeSource) {
	t.Helper()
	src := &fakeSource{assets: makeAssets(ids...)}
	s := NewSession(src, "album-1", domain.MediaKindPhoto, pageSize, nil)
	require.NoError(t, s.Load(context.Background()))
	return s, src
}

func TestLoadEmptyAlbumIsNotAnError(t *testing.T) {
	src := &fakeSource{}
	s := NewSession(src, "album-1", domain.MediaKindPhoto, 20, nil)

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 0, s.Len())

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, OutcomeNoop, s.Decide(DecisionKeep))
	assert.Equal(t, OutcomeNoop, s.Decide(DecisionDelete))
}

func TestLoadPropagatesSourceFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("library offline")}
	s := NewSession(src, "album-1", domain.MediaKindPhoto, 20, nil)
	assert.Error(t, s.Load(context.Background()))
}

func TestKeepAdvancesCursor(t *testing.T) {
	s, _ := loadedSession(t, 20, "a", "b", "c")

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.ID)

	assert.Equal(t, OutcomeAdvanced, s.Decide(DecisionKeep))
	cur, _ = s.Current()
	assert.Equal(t, "b", cur.ID)
	assert.Equal(t, 0, s.MarkedCount())
}

func TestKeepAtEndReportsReachedEnd(t *testing.T) {
	s, _ := loadedSession(t, 20, "a", "b")
	s.Decide(DecisionKeep)

	assert.Equal(t, OutcomeReachedEnd, s.Decide(DecisionKeep))
	assert.Equal(t, 1, s.Cursor(), "cursor must not move past the end")
	// Rapid repeated input stays a signal, never a fault.
	assert.Equal(t, OutcomeReachedEnd, s.Decide(DecisionKeep))
}

func TestKeepAtEndOfPageRequestsMore(t *testing.T) {
	s, src := loadedSession(t, 2, "a", "b", "c", "d", "e")
	s.Decide(DecisionKeep)

	assert.Equal(t, OutcomeNeedMore, s.Decide(DecisionKeep))
	assert.Equal(t, 1, s.Cursor(), "cursor holds until the page arrives")

	n, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Cursor(), "cursor advances once new assets arrive")
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 2, src.calls)
}

func TestLoadMoreAtTrueEndIsNoop(t *testing.T) {
	s, src := loadedSession(t, 20, "a", "b")
	n, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, src.calls, "no fetch when nothing more exists")
}

func TestDeleteMarksAndAdvances(t *testing.T) {
	s, _ := loadedSession(t, 20, "a", "b", "c")

	assert.Equal(t, OutcomeAdvanced, s.Decide(DecisionDelete))
	assert.Equal(t, []string{"a"}, s.Marked())
	assert.True(t, s.IsMarked("a"))
	cur, _ := s.Current()
	assert.Equal(t, "b", cur.ID)
}

func TestUndoRestoresExactPreDeleteState(t *testing.T) {
	s, _ := loadedSession(t, 20, "a", "b", "c")

	s.Decide(DecisionDelete) // a marked, cursor 1
	s.Decide(DecisionDelete) // b marked, cursor 2

	assert.True(t, s.Undo())
	assert.Equal(t, []string{"a"}, s.Marked())
	assert.Equal(t, 1, s.Cursor())

	// Single-level: a second consecutive undo is a no-op.
	assert.False(t, s.Undo())
	assert.Equal(t, []string{"a"}, s.Marked())
	assert.Equal(t, 1, s.Cursor())
}

func TestUndoBeforePageArrivesCancelsTheAdvance(t *testing.T) {
	// Window = [A, B] of [A, B, C, D]. Delete at the end of the page owes
	// the window one advance; undoing before the page lands must cancel it,
	// or the cursor would skip past an asset that was never decided.
	s, _ := loadedSession(t, 2, "a", "b", "c", "d")
	s.Decide(DecisionKeep) // cursor 1

	assert.Equal(t, OutcomeNeedMore, s.Decide(DecisionDelete))
	assert.True(t, s.Undo())
	assert.Equal(t, 1, s.Cursor())
	assert.Equal(t, 0, s.MarkedCount())

	n, err := s.LoadMore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "b", cur.ID, "cursor stays on the undone asset")
	assert.Equal(t, 1, s.Cursor())

	// The asset is decidable again and the advance resumes normally.
	assert.Equal(t, OutcomeAdvanced, s.Decide(DecisionDelete))
	assert.Equal(t, []string{"b"}, s.Marked())
	assert.Equal(t, 2, s.Cursor())
}

func TestUndoWithEmptyHistoryIsNoop(t *testing.T) {
	s, _ := loadedSession(t, 20, "a", "b")
	assert.False(t, s.Undo())
	s.Decide(DecisionKeep)
	assert.False(t, s.Undo(), "keep decisions leave no undo record")
}

func TestMarkedCountMonotonicUnderDeletes(t *testing.T) {
	s, _ := loadedSession(t, 20, "a", "b", "c", "d")

	prev := 0
	for i := 0; i < 6; i++ {
		s.Decide(DecisionDelete)
		count := s.MarkedCount()
		assert.GreaterOrEqual(t, count, prev)
		prev = count
	}
	assert.Equal(t, 4, prev)

	s.Undo()
	assert.Equal(t, 3, s.MarkedCount(), "exactly one decrease per undo")
}

func TestAllMarkedFreezesCursor(t *testing.T) {
	// Window = [A], cursor 0: delete fires "all marked", cursor stays 0.
	s, _ := loadedSession(t, 20, "a")

	assert.Equal(t, OutcomeAllMarked, s.Decide(DecisionDelete))
	assert.Equal(t, []string{"a"}, s.Marked())
	assert.Equal(t, 0, s.Cursor())

	// A further delete is a no-op: cursor and set unchanged.
	assert.Equal(t, OutcomeNoop, s.Decide(DecisionDelete))
	assert.Equal(t, []string{"a"}, s.Marked())
	assert.Equal(t, 0, s.Cursor())
}

func TestReviewScenarioThreeAssets(t *testing.T) {
	// Window = [A, B, C], cursor 0.
	s, _ := loadedSession(t, 20, "a", "b", "c")

	assert.Equal(t, OutcomeAdvanced, s.Decide(DecisionDelete)) // pending {a}, cursor 1
	assert.Equal(t, []string{"a"}, s.Marked())
	assert.Equal(t, 1, s.Cursor())

	assert.Equal(t, OutcomeAdvanced, s.Decide(DecisionDelete)) // pending {a,b}, cursor 2
	assert.Equal(t, []string{"a", "b"}, s.Marked())
	assert.Equal(t, 2, s.Cursor())

	assert.True(t, s.Undo()) // pending {a}, cursor 1
	assert.Equal(t, []string{"a"}, s.Marked())
	assert.Equal(t, 1, s.Cursor())

	assert.Equal(t, OutcomeAdvanced, s.Decide(DecisionKeep)) // cursor 2
	assert.Equal(t, 2, s.Cursor())

	// Delete at the last index with no next page: the mark lands but the
	// cursor has nowhere to go.
	assert.Equal(t, OutcomeReachedEnd, s.Decide(DecisionDelete))
	assert.Equal(t, []string{"a", "c"}, s.Marked())
	assert.Equal(t, 2, s.Cursor())
}

func TestReDeleteOfMarkedAssetLeavesSetIntactAfterUndo(t *testing.T) {
	s, _ := loadedSession(t, 20, "a", "b", "c")

	s.Decide(DecisionDelete) // a marked, cursor 1
	s.Undo()                 // back to cursor 0, a unmarked
	s.Decide(DecisionDelete) // a marked again, cursor 1
	s.Decide(DecisionKeep)   // cursor 2
	s.Decide(DecisionDelete) // c marked; reached end, cursor stays 2

	// Cursor now sits on a marked asset; deleting again must not grow the set.
	assert.Equal(t, OutcomeReachedEnd, s.Decide(DecisionDelete))
	assert.Equal(t, []string{"a", "c"}, s.Marked())

	// Undo of a duplicate delete restores the exact pre-decision set.
	assert.True(t, s.Undo())
	assert.Equal(t, []string{"a", "c"}, s.Marked())
	assert.Equal(t, 2, s.Cursor())
}

func TestCommitWithEmptyPendingSetCallsNothing(t *testing.T) {
	s, _ := loadedSession(t, 20, "a", "b")
	del := &fakeDeleter{}

	res := s.Commit(context.Background(), del)
	assert.Equal(t, CommitNothing, res.Status)
	assert.Empty(t, del.calls, "no collaborator call for an empty set")
}

func TestCommitFailureLeavesStateUntouched(t *testing.T) {
	s, _ := loadedSession(t, 20, "a", "b", "c")
	s.Decide(DecisionDelete)
	s.Decide(DecisionDelete)

	wantMarked := s.Marked()
	wantCursor := s.Cursor()

	del := &fakeDeleter{err: errors.New("store rejected the batch")}
	res := s.Commit(context.Background(), del)

	assert.Equal(t, CommitFailed, res.Status)
	assert.ErrorContains(t, res.Err, "store rejected")
	assert.Equal(t, wantMarked, s.Marked())
	assert.Equal(t, wantCursor, s.Cursor())
	assert.False(t, s.Committed())

	// Retry against a healthy store succeeds with the same batch.
	del.err = nil
	res = s.Commit(context.Background(), del)
	assert.Equal(t, CommitDone, res.Status)
	assert.Equal(t, wantMarked, res.Deleted)
}

func TestCommitSuccessIsTerminal(t *testing.T) {
	s, _ := loadedSession(t, 20, "a", "b")
	s.Decide(DecisionDelete)

	del := &fakeDeleter{}
	res := s.Commit(context.Background(), del)
	require.Equal(t, CommitDone, res.Status)
	assert.Equal(t, [][]string{{"a"}}, del.calls)
	assert.True(t, s.Committed())
	assert.Equal(t, 0, s.MarkedCount())

	// Post-commit the session is inert: the window is discarded ground
	// truth, a fresh session sees the externally updated album.
	assert.Equal(t, OutcomeNoop, s.Decide(DecisionDelete))
	assert.False(t, s.Undo())

	src := &fakeSource{assets: makeAssets("b")}
	fresh := NewSession(src, "album-1", domain.MediaKindPhoto, 20, nil)
	require.NoError(t, fresh.Load(context.Background()))
	assert.Equal(t, 1, fresh.Len())
}

func TestCursorValidityIndependentOfMarking(t *testing.T) {
	s, _ := loadedSession(t, 20, "a", "b", "c", "d")

	for i := 0; i < 16; i++ {
		if i%3 == 0 {
			s.Decide(DecisionKeep)
		} else {
			s.Decide(DecisionDelete)
		}
		if i%5 == 4 {
			s.Undo()
		}
		cur, ok := s.Current()
		require.True(t, ok, "current asset defined for a non-empty window")
		assert.GreaterOrEqual(t, s.Cursor(), 0)
		assert.Less(t, s.Cursor(), s.Len())
		assert.NotNil(t, cur)
	}
}
