package review

import (
	"context"
	"log/slog"

	"github.com/ekinoz/phototriage/internal/domain"
)

// Committer drives the commit step of a review session: it hands the
// pending set to the media store's batch delete and, on success, fires the
// invalidation hook so stale album listings disappear before the caller
// navigates back. Confirmation is the caller's concern; the committer is
// only ever invoked after the user has affirmed.
type Committer struct {
	deleter     domain.BatchDeleter
	onCommitted func(albumID string)
	logger      *slog.Logger
}

// NewCommitter creates a committer. onCommitted may be nil.
func NewCommitter(deleter domain.BatchDeleter, onCommitted func(albumID string), logger *slog.Logger) *Committer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Committer{deleter: deleter, onCommitted: onCommitted, logger: logger}
}

// Commit runs the session's batch delete. On failure the session's pending
// set and cursor are untouched, so the user may retry or keep reviewing.
func (c *Committer) Commit(ctx context.Context, s *Session) CommitResult {
	res := s.Commit(ctx, c.deleter)

	switch res.Status {
	case CommitNothing:
		c.logger.Debug("nothing to delete", "session", s.ID())
	case CommitDone:
		c.logger.Info("batch delete committed", "session", s.ID(), "albumID", s.AlbumID(), "count", len(res.Deleted))
		if c.onCommitted != nil {
			c.onCommitted(s.AlbumID())
		}
	case CommitFailed:
		c.logger.Error("batch delete failed", "error", res.Err, "session", s.ID())
	}

	return res
}
