package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReferenceRawKeepsExtension(t *testing.T) {
	ref := ParseReference("https://res.cloudinary.com/demo/raw/upload/v1700000000/documents/1700000000123_report.pdf")
	require.NotNil(t, ref)
	assert.Equal(t, "documents/1700000000123_report.pdf", ref.PublicID)
	assert.Equal(t, ResourceRaw, ref.ResourceType)
	assert.Equal(t, "pdf", ref.Format)
}

func TestParseReferenceImageStripsExtension(t *testing.T) {
	ref := ParseReference("https://res.cloudinary.com/demo/image/upload/v1700000000/documents/1700000000123_photo.png")
	require.NotNil(t, ref)
	assert.Equal(t, "documents/1700000000123_photo", ref.PublicID)
	assert.Equal(t, ResourceImage, ref.ResourceType)
	assert.Equal(t, "png", ref.Format)
}

func TestParseReferenceVideo(t *testing.T) {
	// External or legacy URLs can still carry the host's video resource type.
	ref := ParseReference("https://res.cloudinary.com/demo/video/upload/v1700000000/videos/1700000000123_clip.mp4")
	require.NotNil(t, ref)
	assert.Equal(t, "videos/1700000000123_clip", ref.PublicID)
	assert.Equal(t, ResourceVideo, ref.ResourceType)
	assert.Equal(t, "mp4", ref.Format)
}

func TestParseReferenceUploadedVideoShape(t *testing.T) {
	// The gateway stores videos as raw objects in the videos folder; the
	// resulting URL must round-trip with its extension intact.
	rt, folder := ClassifyUpload("clip.mp4", "video/mp4")
	require.Equal(t, ResourceRaw, rt)
	require.Equal(t, FolderVideos, folder)

	ref := ParseReference("https://res.cloudinary.com/demo/raw/upload/v1700000000/videos/1700000000123_clip.mp4")
	require.NotNil(t, ref)
	assert.Equal(t, "videos/1700000000123_clip.mp4", ref.PublicID)
	assert.Equal(t, ResourceRaw, ref.ResourceType)
	assert.Equal(t, "mp4", ref.Format)
}

func TestParseReferenceRawWithoutExtension(t *testing.T) {
	// Raw objects uploaded without an extension-bearing key may come back
	// without a trailing extension at all; both shapes must parse.
	ref := ParseReference("https://res.cloudinary.com/demo/raw/upload/v1700000000/documents/1700000000123_report")
	require.NotNil(t, ref)
	assert.Equal(t, "documents/1700000000123_report", ref.PublicID)
	assert.Equal(t, ResourceRaw, ref.ResourceType)
	assert.Equal(t, "", ref.Format)
}

func TestParseReferenceForeignHost(t *testing.T) {
	assert.Nil(t, ParseReference("https://example.com/raw/upload/v123/documents/file.pdf"))
	assert.Nil(t, ParseReference(""))
	assert.Nil(t, ParseReference("not a url"))
}

func TestParseReferenceFallback(t *testing.T) {
	// No upload segment: coarse /v<digits>/<rest> match, raw, no format.
	ref := ParseReference("https://res.cloudinary.com/demo/v1700000000/documents/legacy_object")
	require.NotNil(t, ref)
	assert.Equal(t, "documents/legacy_object", ref.PublicID)
	assert.Equal(t, ResourceRaw, ref.ResourceType)
	assert.Equal(t, "", ref.Format)

	// Host URL with neither upload nor version segment is unparsable.
	assert.Nil(t, ParseReference("https://res.cloudinary.com/demo/whatever"))
}

func TestParseReferenceRoundTrip(t *testing.T) {
	// A URL shaped like the one the gateway produces must re-derive the same
	// identity the upload reported.
	publicID := PublicID("informe.pdf", 1700000000123)
	url := "https://res.cloudinary.com/demo/raw/upload/v1711111111/documents/" + publicID + ".pdf"
	ref := ParseReference(url)
	require.NotNil(t, ref)
	assert.Equal(t, "documents/"+publicID+".pdf", ref.PublicID)
	assert.Equal(t, "pdf", ref.Format)
}
