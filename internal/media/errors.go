package media

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned before any network call when the media host
// credentials are missing.
var ErrNotConfigured = errors.New("media host credentials are not configured")

// UploadError wraps a host-side upload failure together with the host's error
// payload. Uploads are never retried automatically: with overwrite disabled the
// call is not idempotent.
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("media upload failed: %s", e.Message)
	}
	return fmt.Sprintf("media upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// ConflictError reports that the host rejected an upload because the public id
// already exists. Callers may regenerate the id and retry explicitly.
type ConflictError struct {
	PublicID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("media object %q already exists", e.PublicID)
}

// DeleteError wraps a host-side destroy failure. A host response of
// "not found" is not a DeleteError; deleting an absent object is terminal
// success from the caller's perspective.
type DeleteError struct {
	PublicID string
	Err      error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete media object %q: %v", e.PublicID, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }
