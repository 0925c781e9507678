package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyYouTubeWinsOverEverything(t *testing.T) {
	// An extension-looking substring elsewhere in the URL must not demote a
	// valid 11-character video id.
	c := Classify("https://youtu.be/dQw4w9WgXcQ?list=PL.pdf", "")
	assert.Equal(t, KindYouTube, c.Kind)
	assert.Equal(t, "dQw4w9WgXcQ", c.YouTubeID)

	c = Classify("https://www.youtube.com/watch?v=dQw4w9WgXcQ", "video.mp4")
	assert.Equal(t, KindYouTube, c.Kind)
	assert.Equal(t, "dQw4w9WgXcQ", c.YouTubeID)

	c = Classify("https://www.youtube.com/embed/dQw4w9WgXcQ", "")
	assert.Equal(t, KindYouTube, c.Kind)
}

func TestClassifyYouTubeLengthGate(t *testing.T) {
	// Tokens shorter or longer than 11 characters are not valid ids.
	c := Classify("https://youtu.be/short", "")
	assert.NotEqual(t, KindYouTube, c.Kind)
	c = Classify("https://www.youtube.com/watch?v=waytoolongtoken", "")
	assert.NotEqual(t, KindYouTube, c.Kind)
}

func TestClassifyByExtension(t *testing.T) {
	cases := []struct {
		url  string
		name string
		want Kind
	}{
		{"https://res.cloudinary.com/demo/raw/upload/v1/documents/x.pdf", "", KindPDF},
		{"https://res.cloudinary.com/demo/image/upload/v1/documents/x.png", "", KindImage},
		{"https://example.com/clip.mp4", "", KindVideo},
		{"https://example.com/readme.txt", "", KindText},
		{"https://example.com/notes.md", "", KindText},
		{"https://example.com/plan.docx", "", KindOffice},
		{"https://example.com/budget.xlsx", "", KindOffice},
		{"https://example.com/mystery.zzz9", "", KindUnknown},
	}
	for _, c := range cases {
		got := Classify(c.url, c.name)
		assert.Equal(t, c.want, got.Kind, c.url)
	}
}

func TestClassifyHostPathHints(t *testing.T) {
	// Extensionless host URLs still classify through the upload path segment.
	c := Classify("https://res.cloudinary.com/demo/image/upload/v1/documents/1700_photo", "")
	assert.Equal(t, KindImage, c.Kind)
	c = Classify("https://res.cloudinary.com/demo/video/upload/v1/videos/1700_clip", "")
	assert.Equal(t, KindVideo, c.Kind)
}

func TestClassifyExclusions(t *testing.T) {
	// A PDF served under image/upload is a PDF, not an image.
	c := Classify("https://res.cloudinary.com/demo/image/upload/v1/documents/scan.pdf", "")
	assert.Equal(t, KindPDF, c.Kind)
	// Display name can promote an otherwise opaque reference to office.
	c = Classify("https://example.com/files/3f9c2b7a4e1d", "informe.docx")
	assert.Equal(t, KindOffice, c.Kind)
}

func TestClassifyIsPure(t *testing.T) {
	a := Classify("https://youtu.be/dQw4w9WgXcQ", "clip.mp4")
	b := Classify("https://youtu.be/dQw4w9WgXcQ", "clip.mp4")
	assert.Equal(t, a, b)
}

func TestExtensionGuard(t *testing.T) {
	// Long opaque trailing segments are not extensions; the display name wins.
	assert.Equal(t, "pdf", Extension("https://example.com/files/a.3f9c2b7a4e1d", "informe.pdf"))
	// Query strings never contribute to the extension.
	assert.Equal(t, "pdf", Extension("https://example.com/x.pdf?token=abc.def", ""))
	assert.Equal(t, "", Extension("https://example.com/no-extension", ""))
}

func TestEmbedURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", EmbedURL("dQw4w9WgXcQ"))
}
