package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyUploadVideo(t *testing.T) {
	// Videos route to their own folder but stay raw objects.
	for _, ext := range []string{"mp4", "avi", "mov", "wmv", "mkv", "flv", "webm"} {
		rt, folder := ClassifyUpload("clip."+ext, "application/octet-stream")
		assert.Equal(t, ResourceRaw, rt, "extension %s", ext)
		assert.Equal(t, FolderVideos, folder, "extension %s", ext)
	}
	// MIME prefix wins even without a video extension.
	rt, folder := ClassifyUpload("capture.bin", "video/webm")
	assert.Equal(t, ResourceRaw, rt)
	assert.Equal(t, FolderVideos, folder)
	// Case-insensitive extension match.
	rt, folder = ClassifyUpload("CLIP.MP4", "application/octet-stream")
	assert.Equal(t, ResourceRaw, rt)
	assert.Equal(t, FolderVideos, folder)
}

func TestClassifyUploadImage(t *testing.T) {
	rt, folder := ClassifyUpload("photo.png", "image/png")
	assert.Equal(t, ResourceImage, rt)
	assert.Equal(t, FolderDocuments, folder)
}

func TestClassifyUploadRaw(t *testing.T) {
	cases := []struct {
		name string
		mime string
	}{
		{"report.pdf", "application/pdf"},
		{"report.final.v2.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"data.csv", "text/csv"},
		{"noextension", ""},
	}
	for _, c := range cases {
		rt, folder := ClassifyUpload(c.name, c.mime)
		assert.Equal(t, ResourceRaw, rt, c.name)
		assert.Equal(t, FolderDocuments, folder, c.name)
	}
}

func TestPublicID(t *testing.T) {
	id := PublicID("report.final.v2.docx", 1700000000123)
	assert.Equal(t, "1700000000123_report_final_v2", id)

	id = PublicID("informe año 2024 (v1).pdf", 1700000000123)
	require.True(t, strings.HasPrefix(id, "1700000000123_"))
	rest := strings.TrimPrefix(id, "1700000000123_")
	for _, r := range rest {
		ok := r == '_' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		assert.True(t, ok, "unexpected rune %q in %q", r, id)
	}

	// Hyphens survive sanitization, everything else outside [A-Za-z0-9-] does not.
	assert.Equal(t, "99_a-b_c", PublicID("a-b.c.txt", 99))
	// No extension means the whole name is the base.
	assert.Equal(t, "99_readme", PublicID("readme", 99))
}
