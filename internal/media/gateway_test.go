package media

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGatewayWithoutCredentials(t *testing.T) {
	g, err := New("", "", "", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, g.Configured())

	// Both operations must refuse before any network work happens.
	_, err = g.Upload(context.Background(), []byte("data"), "report.pdf", "application/pdf")
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = g.Delete(context.Background(), "documents/1700000000123_report.pdf", ResourceRaw)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestIsConflictMessage(t *testing.T) {
	assert.True(t, isConflictMessage("Public ID 1700000000123_report already exists"))
	assert.True(t, isConflictMessage("cannot overwrite existing resource"))
	assert.True(t, isConflictMessage("ALREADY EXISTS"))

	assert.False(t, isConflictMessage("invalid signature"))
	assert.False(t, isConflictMessage("rate limit reached"))
	assert.False(t, isConflictMessage(""))
}

func TestUploadErrorTaxonomy(t *testing.T) {
	conflict := &ConflictError{PublicID: "documents/1700000000123_report"}
	assert.Contains(t, conflict.Error(), "documents/1700000000123_report")

	cause := errors.New("connection reset")
	up := &UploadError{Err: cause}
	assert.ErrorIs(t, up, cause)
	assert.Contains(t, up.Error(), "connection reset")

	hostSide := &UploadError{Message: "unsupported format"}
	assert.Contains(t, hostSide.Error(), "unsupported format")

	del := &DeleteError{PublicID: "videos/1_clip.mp4", Err: cause}
	assert.ErrorIs(t, del, cause)
	assert.Contains(t, del.Error(), "videos/1_clip.mp4")
}
