package preview

import (
	"regexp"
	"strings"
)

// Kind is the renderable content class of a media reference.
type Kind string

const (
	KindYouTube Kind = "youtube"
	KindImage   Kind = "image"
	KindVideo   Kind = "video"
	KindPDF     Kind = "pdf"
	KindOffice  Kind = "office"
	KindText    Kind = "text"
	KindUnknown Kind = "unknown"
)

// Classification is the outcome of Classify. Only YouTube carries extra data.
type Classification struct {
	Kind      Kind
	YouTubeID string
}

// youtubePattern recognizes the URL shapes YouTube serves videos under. The
// captured token is only a valid id when it is exactly 11 characters long.
var youtubePattern = regexp.MustCompile(`(?:youtu\.be/|/v/|/u/\w/|embed/|watch\?v=|[?&]v=)([^#&?]*)`)

const youtubeIDLength = 11

var (
	imageExts  = map[string]struct{}{"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {}}
	videoExts  = map[string]struct{}{"mp4": {}, "webm": {}, "ogg": {}, "mov": {}}
	wordExts   = map[string]struct{}{"doc": {}, "docx": {}}
	excelExts  = map[string]struct{}{"xls": {}, "xlsx": {}}
	textExts   = map[string]struct{}{"json": {}, "txt": {}, "csv": {}, "md": {}, "js": {}, "html": {}, "css": {}, "xml": {}}
)

// maxPlausibleExt guards against mistaking a long opaque path segment (a host
// assigned identifier, a YouTube id) for a file extension.
const maxPlausibleExt = 5

// Extension derives the lower-cased extension for classification: the final
// dot-delimited segment of the URL path with the query string stripped. When
// that segment is implausibly long and a display name is available, the
// display name's extension wins.
func Extension(cleanURL, displayName string) string {
	path := cleanURL
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		path = path[idx+1:]
	}
	ext := ""
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		ext = strings.ToLower(path[idx+1:])
	}
	if len(ext) > maxPlausibleExt && displayName != "" {
		if idx := strings.LastIndex(displayName, "."); idx >= 0 {
			return strings.ToLower(displayName[idx+1:])
		}
	}
	return ext
}

// Classify maps a clean URL plus an optional display filename onto a single
// content class. YouTube detection runs first and wins over everything else;
// the remaining classes keep the exclusion order of the original viewer
// (image before video before pdf before office before text), because several
// extensions and URL substrings can match more than one class at once.
// Classify is a pure function.
func Classify(cleanURL, displayName string) Classification {
	urlLower := strings.ToLower(cleanURL)
	nameLower := strings.ToLower(displayName)
	ext := Extension(cleanURL, displayName)

	youtubeID := ""
	if m := youtubePattern.FindStringSubmatch(cleanURL); m != nil && len(m[1]) == youtubeIDLength {
		youtubeID = m[1]
	}
	if youtubeID != "" {
		return Classification{Kind: KindYouTube, YouTubeID: youtubeID}
	}

	_, isImageExt := imageExts[ext]
	_, isVideoExt := videoExts[ext]
	_, isWordExt := wordExts[ext]
	_, isExcelExt := excelExts[ext]
	_, isTextExt := textExts[ext]

	isPDF := ext == "pdf" || strings.Contains(urlLower, ".pdf") || strings.HasSuffix(nameLower, ".pdf")
	isWord := isWordExt || strings.HasSuffix(nameLower, ".doc") || strings.HasSuffix(nameLower, ".docx")
	isExcel := isExcelExt || strings.HasSuffix(nameLower, ".xls") || strings.HasSuffix(nameLower, ".xlsx")
	isOffice := isWord || isExcel
	isImage := (isImageExt || strings.Contains(cleanURL, "image/upload")) && !isPDF && !isOffice
	isVideo := isVideoExt || strings.Contains(cleanURL, "video/upload")
	isText := isTextExt && !isPDF

	switch {
	case isImage:
		return Classification{Kind: KindImage}
	case isVideo:
		return Classification{Kind: KindVideo}
	case isPDF:
		return Classification{Kind: KindPDF}
	case isOffice:
		return Classification{Kind: KindOffice}
	case isText:
		return Classification{Kind: KindText}
	}
	return Classification{Kind: KindUnknown}
}

// EmbedURL builds the iframe-friendly form of a YouTube watch URL.
func EmbedURL(youtubeID string) string {
	return "https://www.youtube.com/embed/" + youtubeID
}
