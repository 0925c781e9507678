package media

import (
	"regexp"
	"strings"
)

const hostDomain = "cloudinary.com"

// Reference is the structured identity parsed back out of a host URL. Rows
// written before the media_assets table existed store only the URL, so the
// triple must stay derivable from the URL alone.
type Reference struct {
	PublicID     string
	ResourceType string
	Format       string
}

var (
	versionSegment  = regexp.MustCompile(`^v\d+$`)
	versionFallback = regexp.MustCompile(`/v\d+/(.+)$`)
)

// ParseReference parses a host delivery URL of the shape
// .../<resourceType>/upload/v<version>/<folder>/<objectId>[.<ext>].
// It returns nil when the URL does not belong to the media host.
//
// For raw objects the extension is part of the public id; the host appends one
// to the delivery URL for certain content types even though the upload key
// carried none, so both shapes must be handled. For image and video objects
// the extension is stripped and reported as Format.
func ParseReference(url string) *Reference {
	if url == "" || !strings.Contains(url, hostDomain) {
		return nil
	}
	parts := strings.Split(url, "/")
	uploadIdx := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIdx = i
			break
		}
	}
	if uploadIdx <= 0 {
		return parseFallback(url)
	}
	resourceType := parts[uploadIdx-1]
	rest := parts[uploadIdx+1:]
	if len(rest) > 0 && versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return parseFallback(url)
	}
	remainder := strings.Join(rest, "/")

	ref := &Reference{ResourceType: resourceType}
	if idx := strings.LastIndex(remainder, "."); idx >= 0 {
		ref.Format = remainder[idx+1:]
	}
	if resourceType == ResourceRaw {
		// Extension stays inside the public id for raw objects.
		ref.PublicID = remainder
	} else if idx := strings.Index(remainder, "."); idx >= 0 {
		ref.PublicID = remainder[:idx]
	} else {
		ref.PublicID = remainder
	}
	return ref
}

func parseFallback(url string) *Reference {
	m := versionFallback.FindStringSubmatch(url)
	if m == nil {
		return nil
	}
	return &Reference{PublicID: m[1], ResourceType: ResourceRaw}
}
