// Package media is the upload gateway in front of the Cloudinary-compatible
// media host. It classifies incoming files, derives object keys, streams the
// bytes to the host and can reverse a previously returned URL back into the
// structured identity needed for deletion.
package media

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// UploadResult is the normalized outcome of a successful upload.
type UploadResult struct {
	URL          string `json:"url"`
	PublicID     string `json:"public_id"`
	ResourceType string `json:"resource_type"`
	Format       string `json:"format,omitempty"`
	Bytes        int64  `json:"bytes"`
	Folder       string `json:"folder"`
}

// Gateway wraps the media host SDK. The zero credentials case is detected at
// call time so read-only deployments can construct a Gateway without secrets.
type Gateway struct {
	cld *cloudinary.Cloudinary
	log *zap.Logger
	now func() time.Time
}

// New builds a Gateway. Missing credentials do not fail construction; every
// operation checks them first and returns ErrNotConfigured without touching
// the network.
func New(cloudName, apiKey, apiSecret string, log *zap.Logger) (*Gateway, error) {
	g := &Gateway{log: log, now: time.Now}
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return g, nil
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	g.cld = cld
	return g, nil
}

// Upload classifies the buffer, derives its public id and streams it to the
// host. The host is asked for use_filename=false, unique_filename=false,
// overwrite=false: a duplicate key is rejected, surfaced as ConflictError, and
// never retried here.
func (g *Gateway) Upload(ctx context.Context, buf []byte, originalName, mimeType string) (*UploadResult, error) {
	if g.cld == nil {
		return nil, ErrNotConfigured
	}
	resourceType, folder := ClassifyUpload(originalName, mimeType)
	publicID := PublicID(originalName, g.now().UnixMilli())

	resp, err := g.cld.Upload.Upload(ctx, bytes.NewReader(buf), uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		ResourceType:   resourceType,
		UseFilename:    api.Bool(false),
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(false),
	})
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	if resp.Error.Message != "" {
		if isConflictMessage(resp.Error.Message) {
			return nil, &ConflictError{PublicID: publicID}
		}
		return nil, &UploadError{Message: resp.Error.Message}
	}

	// The host prefixes the folder onto the returned public id; trust its view
	// of where the object landed and fall back to the local classification.
	uploadedFolder := folder
	if idx := strings.Index(resp.PublicID, "/"); idx > 0 {
		uploadedFolder = resp.PublicID[:idx]
	}
	g.log.Info("media uploaded",
		zap.String("public_id", resp.PublicID),
		zap.String("resource_type", resourceType),
		zap.String("folder", uploadedFolder),
		zap.Int("bytes", resp.Bytes),
	)
	return &UploadResult{
		URL:          resp.SecureURL,
		PublicID:     resp.PublicID,
		ResourceType: resourceType,
		Format:       resp.Format,
		Bytes:        int64(resp.Bytes),
		Folder:       uploadedFolder,
	}, nil
}

// Delete removes an object given either a bare public id or a previously
// returned URL. URLs are parsed first and the parsed resource type wins over
// the hint. The host reporting "not found" is treated as success: the object
// is gone either way.
func (g *Gateway) Delete(ctx context.Context, reference, resourceTypeHint string) error {
	if g.cld == nil {
		return ErrNotConfigured
	}
	publicID := reference
	resourceType := resourceTypeHint
	if resourceType == "" {
		resourceType = ResourceRaw
	}
	if strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://") {
		if ref := ParseReference(reference); ref != nil {
			publicID = ref.PublicID
			resourceType = ref.ResourceType
		}
	}
	resp, err := g.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return &DeleteError{PublicID: publicID, Err: err}
	}
	g.log.Info("media deleted",
		zap.String("public_id", publicID),
		zap.String("resource_type", resourceType),
		zap.String("result", resp.Result),
	)
	return nil
}

// Configured reports whether host credentials were supplied.
func (g *Gateway) Configured() bool { return g.cld != nil }

func isConflictMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "already exists") || strings.Contains(lower, "overwrite")
}
