package medialib

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ekinoz/phototriage/internal/domain"
)

// PreviewFrame extracts a single frame from a video at the given offset and
// returns the path of the written JPEG. Photos need no extraction and are
// returned as-is.
func (l *Library) PreviewFrame(ctx context.Context, loc domain.Location, at time.Duration, quality float64) (string, error) {
	if k, ok := kindOf(loc.Path); ok && k == domain.MediaKindPhoto {
		return loc.Path, nil
	}

	if err := os.MkdirAll(l.framesDir(), 0755); err != nil {
		return "", fmt.Errorf("creating frames dir: %w", err)
	}
	out := filepath.Join(l.framesDir(), uuid.New().String()+".jpg")

	args := []string{
		"-ss", fmt.Sprintf("%.3f", at.Seconds()),
		"-i", loc.Path,
		"-frames:v", "1",
		"-q:v", strconv.Itoa(jpegQ(quality)),
		"-y", out,
	}
	cmd := exec.CommandContext(ctx, l.ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		l.logger.Error("frame extraction failed", "error", err, "path", loc.Path, "stderr", stderr.String())
		return "", fmt.Errorf("extracting frame from %s: %w", filepath.Base(loc.Path), err)
	}
	return out, nil
}

func (l *Library) framesDir() string {
	return filepath.Join(l.cacheDir, "frames")
}

// jpegQ maps a 0..1 quality to ffmpeg's inverted 2..31 -q:v scale
func jpegQ(quality float64) int {
	if quality < 0 {
		quality = 0
	}
	if quality > 1 {
		quality = 1
	}
	return 2 + int((1-quality)*29)
}

// probeDurations fills in missing video durations for a page of assets.
// Probing is best effort; a failed probe leaves the duration at zero.
func (l *Library) probeDurations(ctx context.Context, assets []*domain.Asset) {
	for _, a := range assets {
		if a.Kind != domain.MediaKindVideo || a.Duration > 0 {
			continue
		}
		d, err := l.probeDuration(ctx, a.URI)
		if err != nil {
			l.logger.Debug("duration probe failed", "error", err, "path", a.URI)
			continue
		}
		a.Duration = d
	}
}

func (l *Library) probeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, l.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing ffprobe output: %w", err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
