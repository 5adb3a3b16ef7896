package medialib

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ekinoz/phototriage/internal/domain"
)

// Resolve turns an asset URI into a local playable location. When the file
// cannot be opened in place and AllowFetch is set, it is copied into the
// cache sandbox and the copy is served instead.
func (l *Library) Resolve(ctx context.Context, asset *domain.Asset, opts domain.ResolveOptions) (domain.Location, error) {
	f, err := os.Open(asset.URI)
	if err == nil {
		f.Close()
		return domain.Location{Path: asset.URI, Local: true}, nil
	}
	if os.IsNotExist(err) {
		return domain.Location{}, fmt.Errorf("asset %s: %w", asset.Filename, domain.ErrAssetNotFound)
	}

	if !opts.AllowFetch {
		return domain.Location{}, fmt.Errorf("asset %s not directly readable: %w", asset.Filename, domain.ErrUnresolvable)
	}

	path, err := l.copyToSandbox(ctx, asset)
	if err != nil {
		return domain.Location{}, fmt.Errorf("asset %s: %w: %v", asset.Filename, domain.ErrUnresolvable, err)
	}
	l.logger.Debug("resolved via sandbox copy", "assetID", asset.ID, "copy", path)
	return domain.Location{Path: path, Local: false}, nil
}

// copyToSandbox copies an asset into the cache dir under a fresh name
func (l *Library) copyToSandbox(ctx context.Context, asset *domain.Asset) (string, error) {
	dir := filepath.Join(l.cacheDir, "sandbox")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	src, err := os.Open(asset.URI)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dstPath := filepath.Join(dir, uuid.New().String()+filepath.Ext(asset.Filename))
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if err := copyCtx(ctx, dst, src); err != nil {
		os.Remove(dstPath)
		return "", err
	}
	return dstPath, nil
}

// copyCtx copies in chunks so a cancelled context stops a large copy early
func copyCtx(ctx context.Context, dst io.Writer, src io.Reader) error {
	buf := make([]byte, 256*1024)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
