package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlainURL(t *testing.T) {
	assert.Equal(t, "https://x/y.pdf", Normalize("https://x/y.pdf"))
	assert.Equal(t, "bare-identifier", Normalize("bare-identifier"))
}

func TestNormalizeWrappedJSON(t *testing.T) {
	assert.Equal(t, "https://x/y.pdf", Normalize(`{"url":"https://x/y.pdf","other":1}`))
	assert.Equal(t, "https://x/z", Normalize(`{"link":"https://x/z"}`))
	assert.Equal(t, "abc123", Normalize(`{"id":"abc123"}`))
	// url wins over link wins over id.
	assert.Equal(t, "u", Normalize(`{"id":"i","link":"l","url":"u"}`))
}

func TestNormalizeMalformedJSON(t *testing.T) {
	assert.Equal(t, `{"url": broken`, Normalize(`{"url": broken`))
	assert.Equal(t, `{}`, Normalize(`{}`))
	assert.Equal(t, `["https://x"]`, Normalize(`["https://x"]`))
}

func TestDecodeFieldTagsWrapped(t *testing.T) {
	v := DecodeField(`{"url":"https://x"}`)
	assert.True(t, v.Wrapped)
	v = DecodeField("https://x")
	assert.False(t, v.Wrapped)
}

func TestDownloadURL(t *testing.T) {
	assert.Equal(t,
		"https://res.cloudinary.com/demo/raw/upload/fl_attachment/v1/documents/x.pdf",
		DownloadURL("https://res.cloudinary.com/demo/raw/upload/v1/documents/x.pdf"))
	assert.Equal(t, "https://example.com/x.pdf", DownloadURL("https://example.com/x.pdf"))
}
