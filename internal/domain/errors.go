package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrAlbumNotFound indicates the requested album does not exist
	ErrAlbumNotFound = errors.New("album not found")

	// ErrAssetNotFound indicates the requested asset does not exist
	ErrAssetNotFound = errors.New("asset not found")

	// ErrPermissionDenied indicates media access has not been granted
	ErrPermissionDenied = errors.New("media access not granted")

	// ErrUnresolvable indicates an asset's content could not be resolved
	// to a viewable location (cloud-only content, revoked access)
	ErrUnresolvable = errors.New("asset content unavailable")

	// ErrDeleteFailed indicates a batch delete did not complete
	ErrDeleteFailed = errors.New("batch delete failed")
)
