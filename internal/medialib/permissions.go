package medialib

import (
	"os"

	"github.com/ekinoz/phototriage/internal/domain"
)

// Status reports whether the library roots are readable. A missing root is
// undetermined (it may simply not exist yet), an unreadable one is denied.
func (l *Library) Status() domain.PermissionStatus {
	return l.permissionStatus()
}

// Request attempts to make the roots usable by creating any missing ones,
// then re-checks. There is no interactive grant flow on a filesystem.
func (l *Library) Request() domain.PermissionStatus {
	for _, root := range l.roots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			if err := os.MkdirAll(root, 0755); err != nil {
				l.logger.Warn("could not create library root", "error", err, "root", root)
			}
		}
	}
	return l.permissionStatus()
}

func (l *Library) permissionStatus() domain.PermissionStatus {
	if len(l.roots) == 0 {
		return domain.PermissionUndetermined
	}
	sawMissing := false
	for _, root := range l.roots {
		if _, err := os.ReadDir(root); err != nil {
			if os.IsNotExist(err) {
				sawMissing = true
				continue
			}
			return domain.PermissionDenied
		}
	}
	if sawMissing {
		return domain.PermissionUndetermined
	}
	return domain.PermissionGranted
}
