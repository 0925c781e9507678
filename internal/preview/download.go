package preview

import "strings"

const hostDomain = "cloudinary.com"

// attachmentFlag asks the media host for attachment disposition instead of
// inline rendering.
const attachmentFlag = "/upload/fl_attachment/"

// DownloadURL rewrites a media host URL to force a download. URLs on other
// hosts pass through unchanged.
func DownloadURL(cleanURL string) string {
	if !strings.Contains(cleanURL, hostDomain) {
		return cleanURL
	}
	return strings.Replace(cleanURL, "/upload/", attachmentFlag, 1)
}
