package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"leavedocs/internal/config"
)

// objectAPI is the subset of *minio.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	PresignedPostPolicy(ctx context.Context, p *minio.PostPolicy) (*url.URL, map[string]string, error)
}

// minioStore implements MediaStore on an S3-compatible backend (MinIO, AWS S3, etc.).
// It is safe for concurrent use by multiple goroutines.
type minioStore struct {
	objects   objectAPI
	bucket    string
	apiKey    string
	root      string
	publicURL string
	ttl       time.Duration
	now       func() time.Time
}

// NewMinIO creates the media store client from the process-wide media config.
// It verifies connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(ctx context.Context, cfg config.MediaConfig) (MediaStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("media endpoint is required")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("media credentials are required")
	}
	if cfg.CloudName == "" {
		return nil, fmt.Errorf("media cloud name is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.APIKey, cfg.APISecret, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.CloudName)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.CloudName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	if cfg.PublicURL == "" {
		cfg.PublicURL = strings.TrimRight(cli.EndpointURL().String(), "/")
	}
	return newMinIOStore(cli, cfg, time.Now), nil
}

func newMinIOStore(objects objectAPI, cfg config.MediaConfig, now func() time.Time) *minioStore {
	ttl := time.Duration(cfg.SignatureTTLSec) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &minioStore{
		objects:   objects,
		bucket:    cfg.CloudName,
		apiKey:    cfg.APIKey,
		root:      cfg.Folder,
		publicURL: cfg.PublicURL,
		ttl:       ttl,
		now:       now,
	}
}

// Upload puts data under "<folder>/<unix millis>-<random>". The id depends on
// time and randomness only, so identical payloads get distinct ids.
func (m *minioStore) Upload(ctx context.Context, data []byte, mimeType string, dest Destination) (UploadResult, error) {
	if len(data) == 0 {
		return UploadResult{}, fmt.Errorf("%w: empty payload", ErrUploadFailed)
	}
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}

	externalID := m.newExternalID(dest.Folder)
	meta := map[string]string{"destination": dest.Name}
	if chain := Chain(dest.Transformations...); chain != "" {
		meta["transformation"] = chain
	}

	info, err := m.objects.PutObject(ctx, m.bucket, externalID, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  mimeType,
		UserMetadata: meta,
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	res := UploadResult{
		ExternalID:   externalID,
		URL:          m.objectURL(externalID),
		Format:       formatOf(mimeType),
		ResourceKind: KindForMIMEType(mimeType),
		Bytes:        info.Size,
	}
	if res.ResourceKind == KindImage {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			w, h := cfg.Width, cfg.Height
			res.Width, res.Height = &w, &h
		}
	}
	return res, nil
}

// Delete removes an object. S3 deletes are idempotent and succeed for missing
// keys, so the object is looked up first to report OutcomeNotFound. The kind
// hint is not needed by S3-compatible backends.
func (m *minioStore) Delete(ctx context.Context, externalID string, _ ResourceKind) (DeleteResult, error) {
	if externalID == "" {
		return DeleteResult{}, fmt.Errorf("%w: external id is required", ErrDeleteFailed)
	}
	if _, err := m.objects.StatObject(ctx, m.bucket, externalID, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return DeleteResult{Outcome: OutcomeNotFound}, nil
		}
		return DeleteResult{}, fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	if err := m.objects.RemoveObject(ctx, m.bucket, externalID, minio.RemoveObjectOptions{}); err != nil {
		return DeleteResult{}, fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return DeleteResult{Outcome: OutcomeOK}, nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

// TransformURL builds "<public>/<bucket>/<default>/<overrides...>/<id>".
func (m *minioStore) TransformURL(externalID string, overrides ...Transformation) string {
	steps := append([]Transformation{DefaultThumbnail}, overrides...)
	return m.publicURL + "/" + m.bucket + "/" + Chain(steps...) + "/" + externalID
}

// UploadSignature presigns a POST policy restricted to keys under folder.
func (m *minioStore) UploadSignature(ctx context.Context, folder string) (Signature, error) {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = m.root
	}
	now := m.now()
	expires := now.Add(m.ttl)

	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(m.bucket); err != nil {
		return Signature{}, fmt.Errorf("%w: %v", ErrSignatureFailed, err)
	}
	if err := policy.SetKeyStartsWith(folder + "/"); err != nil {
		return Signature{}, fmt.Errorf("%w: %v", ErrSignatureFailed, err)
	}
	if err := policy.SetExpires(expires); err != nil {
		return Signature{}, fmt.Errorf("%w: %v", ErrSignatureFailed, err)
	}

	u, form, err := m.objects.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %v", ErrSignatureFailed, err)
	}

	return Signature{
		Signature: form["x-amz-signature"],
		Timestamp: now.Unix(),
		APIKey:    m.apiKey,
		CloudName: m.bucket,
		Folder:    folder,
		UploadURL: u.String(),
		ExpiresAt: expires.Unix(),
		FormData:  form,
	}, nil
}

func (m *minioStore) newExternalID(folder string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return path.Join(folder, fmt.Sprintf("%d-%s", m.now().UnixMilli(), random))
}

func (m *minioStore) objectURL(externalID string) string {
	return m.publicURL + "/" + m.bucket + "/" + externalID
}

func formatOf(mimeType string) string {
	if mt := mimetype.Lookup(mimeType); mt != nil {
		return strings.TrimPrefix(mt.Extension(), ".")
	}
	if i := strings.LastIndex(mimeType, "/"); i >= 0 {
		return mimeType[i+1:]
	}
	return mimeType
}
