package media

import (
	"fmt"
	"regexp"
	"strings"
)

// Resource types understood by the media host.
const (
	ResourceImage = "image"
	ResourceVideo = "video"
	ResourceRaw   = "raw"
)

// Destination folders on the media host.
const (
	FolderVideos    = "videos"
	FolderDocuments = "documents"
)

var videoExtensions = map[string]struct{}{
	"mp4": {}, "avi": {}, "mov": {}, "wmv": {}, "mkv": {}, "flv": {}, "webm": {},
}

var sanitizePattern = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// ClassifyUpload decides the host resource type and destination folder for an
// incoming file. Rules are ordered, first match wins: video by MIME prefix or
// extension, then image by MIME prefix, then raw (PDFs and office formats).
// Videos only pick their own folder; they are stored as raw objects, so the
// delivery URL keeps the container extension and players stream the bytes
// untranscoded. Only images get a dedicated resource type.
func ClassifyUpload(originalName, mimeType string) (resourceType, folder string) {
	if strings.HasPrefix(mimeType, "video/") || isVideoExtension(originalName) {
		return ResourceRaw, FolderVideos
	}
	if strings.HasPrefix(mimeType, "image/") {
		return ResourceImage, FolderDocuments
	}
	return ResourceRaw, FolderDocuments
}

func isVideoExtension(name string) bool {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	_, ok := videoExtensions[strings.ToLower(name[idx+1:])]
	return ok
}

// PublicID builds the host object key: a millisecond timestamp joined to the
// sanitized filename base by an underscore. The extension is deliberately not
// included, even for raw objects; readers must take the format from the
// returned URL, never from the key.
func PublicID(originalName string, unixMillis int64) string {
	base := originalName
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		base = base[:idx]
	}
	base = sanitizePattern.ReplaceAllString(base, "_")
	return fmt.Sprintf("%d_%s", unixMillis, base)
}
