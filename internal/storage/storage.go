// Package storage is the client of the external media store. The rest of the
// system only depends on MediaStore; the concrete provider lives behind it.
package storage

import (
	"context"
	"errors"
	"path"
	"strconv"
	"strings"
)

var (
	ErrUploadFailed    = errors.New("media upload failed")
	ErrDeleteFailed    = errors.New("media delete failed")
	ErrSignatureFailed = errors.New("upload signature failed")
)

// ResourceKind is the media store's classification of a stored binary.
type ResourceKind string

const (
	KindImage ResourceKind = "image"
	KindRaw   ResourceKind = "raw"
	KindAuto  ResourceKind = "auto"
)

// KindForMIMEType maps a MIME type to the resource kind it is stored as.
func KindForMIMEType(mimeType string) ResourceKind {
	if strings.HasPrefix(mimeType, "image/") {
		return KindImage
	}
	return KindRaw
}

// Delete outcomes reported by the store.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not found"
)

// Transformation is one step of a delivery pipeline. Zero fields are omitted.
type Transformation struct {
	Width   int
	Height  int
	Crop    string
	Gravity string
	Quality string
	Format  string
}

// String renders the step as a URL path segment, e.g. "c_fill,g_face,h_300,w_300".
func (t Transformation) String() string {
	parts := make([]string, 0, 6)
	if t.Crop != "" {
		parts = append(parts, "c_"+t.Crop)
	}
	if t.Format != "" {
		parts = append(parts, "f_"+t.Format)
	}
	if t.Gravity != "" {
		parts = append(parts, "g_"+t.Gravity)
	}
	if t.Height > 0 {
		parts = append(parts, "h_"+strconv.Itoa(t.Height))
	}
	if t.Quality != "" {
		parts = append(parts, "q_"+t.Quality)
	}
	if t.Width > 0 {
		parts = append(parts, "w_"+strconv.Itoa(t.Width))
	}
	return strings.Join(parts, ",")
}

// Chain renders a pipeline. Steps are applied left to right, so later steps
// override earlier ones; empty steps are skipped.
func Chain(steps ...Transformation) string {
	segs := make([]string, 0, len(steps))
	for _, s := range steps {
		if v := s.String(); v != "" {
			segs = append(segs, v)
		}
	}
	return strings.Join(segs, "/")
}

// DefaultThumbnail is the transformation every derived URL starts from.
var DefaultThumbnail = Transformation{Width: 150, Height: 150, Crop: "fill", Quality: "auto", Format: "auto"}

// Destination is a named storage folder plus the pipeline applied at upload time.
type Destination struct {
	Name            string
	Folder          string
	Transformations []Transformation
}

// ProfilePictures stores avatars resized to 300x300 around the detected face.
func ProfilePictures(root string) Destination {
	return Destination{
		Name:            "profile-pictures",
		Folder:          path.Join(root, "profile-pictures"),
		Transformations: []Transformation{{Width: 300, Height: 300, Crop: "fill", Gravity: "face"}},
	}
}

// Documents stores leave request attachments with quality normalization only.
func Documents(root string) Destination {
	return Destination{
		Name:            "documents",
		Folder:          path.Join(root, "documents"),
		Transformations: []Transformation{{Quality: "auto"}},
	}
}

// Images stores general images with automatic quality and format.
func Images(root string) Destination {
	return Destination{
		Name:            "images",
		Folder:          path.Join(root, "images"),
		Transformations: []Transformation{{Quality: "auto", Format: "auto"}},
	}
}

// UploadResult describes a stored binary.
type UploadResult struct {
	ExternalID   string
	URL          string
	Format       string
	ResourceKind ResourceKind
	Bytes        int64
	Width        *int
	Height       *int
}

// DeleteResult reports what the store did with a delete request.
type DeleteResult struct {
	Outcome string
}

// Signature authorizes a client to upload straight to the store under Folder
// until the policy expires. It never carries the account secret.
type Signature struct {
	Signature string            `json:"signature"`
	Timestamp int64             `json:"timestamp"`
	APIKey    string            `json:"apiKey"`
	CloudName string            `json:"cloudName"`
	Folder    string            `json:"folder"`
	UploadURL string            `json:"uploadUrl"`
	ExpiresAt int64             `json:"expiresAt"`
	FormData  map[string]string `json:"formData"`
}

// MediaStore is the external media store client.
type MediaStore interface {
	// Upload stores data under a freshly generated external id inside dest.Folder.
	Upload(ctx context.Context, data []byte, mimeType string, dest Destination) (UploadResult, error)
	// Delete removes the binary identified by externalID. A missing object is
	// reported through DeleteResult.Outcome, not as an error.
	Delete(ctx context.Context, externalID string, kind ResourceKind) (DeleteResult, error)
	// TransformURL derives a delivery URL without any network call.
	TransformURL(externalID string, overrides ...Transformation) string
	// UploadSignature signs a time-boxed direct upload policy for folder.
	UploadSignature(ctx context.Context, folder string) (Signature, error)
}
