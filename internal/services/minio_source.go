package services

import (
	"context"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aleem-studio/portfolio/internal/models"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioCredentials holds the S3 login details
type MinioCredentials struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
}

// MinioClient is an interface for the S3 methods we use
type MinioClient interface {
	// ListObjects drains the listing into a slice, stopping after limit entries when limit > 0.
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions, limit int) ([]minio.ObjectInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// WrappedMinioClient wraps minio.Client to implement our interface
type WrappedMinioClient struct {
	client *minio.Client
}

func (c *WrappedMinioClient) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions, limit int) ([]minio.ObjectInfo, error) {
	// Cancelling stops the lister goroutine when we break early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []minio.ObjectInfo
	for obj := range c.client.ListObjects(ctx, bucketName, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		objects = append(objects, obj)
		if limit > 0 && len(objects) >= limit {
			break
		}
	}
	return objects, nil
}

func (c *WrappedMinioClient) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return c.client.StatObject(ctx, bucketName, objectName, opts)
}

func (c *WrappedMinioClient) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	return c.client.PresignedGetObject(ctx, bucketName, objectName, expires, reqParams)
}

// shouldUseSSL determines if SSL should be used based on the endpoint.
// Returns false for localhost, 127.0.0.1, and docker service names.
func shouldUseSSL(endpoint string) bool {
	if endpoint == "localhost:9000" || endpoint == "127.0.0.1:9000" {
		return false
	}
	// Docker service names (minio:9000, minio1:9000, ...) but not domain names like minio.example.com
	if strings.HasPrefix(endpoint, "minio") && !strings.Contains(strings.Split(endpoint, ":")[0], ".") && strings.Contains(endpoint, ":9000") {
		return false
	}
	return true
}

// NewMinioClient connects to an S3-compatible endpoint
func NewMinioClient(creds MinioCredentials) (MinioClient, error) {
	client, err := minio.New(creds.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(creds.AccessKey, creds.SecretKey, ""),
		Secure: shouldUseSSL(creds.Endpoint),
		Region: creds.Region,
	})
	if err != nil {
		return nil, err
	}
	return &WrappedMinioClient{client: client}, nil
}

// MinioSource serves the gallery from a bucket laid out as root/<project>/<image>
type MinioSource struct {
	client        MinioClient
	bucket        string
	publicBaseURL string
	presignExpiry time.Duration
}

// NewMinioSource creates a bucket-backed source. When publicBaseURL is set, display URLs are
// built from it instead of being presigned.
func NewMinioSource(client MinioClient, bucket, publicBaseURL string, presignExpiry time.Duration) *MinioSource {
	return &MinioSource{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		presignExpiry: presignExpiry,
	}
}

func (s *MinioSource) SubFolders(ctx context.Context, root string, limit int) ([]models.Folder, error) {
	prefix := strings.TrimSuffix(root, "/") + "/"
	objects, err := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false, // Non-recursive to get folders
	}, 0)
	if err != nil {
		return nil, err
	}

	folders := []models.Folder{}
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Key, "/") {
			continue
		}
		p := strings.TrimSuffix(obj.Key, "/")
		folders = append(folders, models.Folder{Name: path.Base(p), Path: p})
		if limit > 0 && len(folders) >= limit {
			break
		}
	}
	return folders, nil
}

func (s *MinioSource) Resources(ctx context.Context, prefix string, limit int) ([]models.Resource, error) {
	objects, err := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:       prefix,
		Recursive:    true,
		WithMetadata: true,
	}, 0)
	if err != nil {
		return nil, err
	}

	resources := []models.Resource{}
	for _, obj := range objects {
		if !isImageKey(obj.Key) {
			continue
		}
		resources = append(resources, toResource(obj))
		if limit > 0 && len(resources) >= limit {
			break
		}
	}
	return resources, nil
}

func (s *MinioSource) Resource(ctx context.Context, publicID string) (*models.Resource, error) {
	info, err := s.client.StatObject(ctx, s.bucket, publicID, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	res := toResource(info)
	return &res, nil
}

func (s *MinioSource) SearchByFilename(ctx context.Context, filename string) (*models.Resource, error) {
	objects, err := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true, WithMetadata: true}, 0)
	if err != nil {
		return nil, err
	}

	for _, obj := range objects {
		if !isImageKey(obj.Key) {
			continue
		}
		base := path.Base(obj.Key)
		if base == filename || strings.TrimSuffix(base, path.Ext(base)) == filename {
			res := toResource(obj)
			return &res, nil
		}
	}
	return nil, nil
}

func (s *MinioSource) DeliveryURL(ctx context.Context, publicID string) (string, error) {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + escapePath(publicID), nil
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, publicID, s.presignExpiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func toResource(obj minio.ObjectInfo) models.Resource {
	return models.Resource{
		PublicID: obj.Key,
		Format:   strings.TrimPrefix(strings.ToLower(path.Ext(obj.Key)), "."),
		Width:    metadataInt(obj.UserMetadata, "Width"),
		Height:   metadataInt(obj.UserMetadata, "Height"),
	}
}

// metadataInt reads an integer user metadata value. Listings report keys with the
// X-Amz-Meta- prefix while StatObject strips it.
func metadataInt(meta map[string]string, key string) int {
	for _, k := range []string{key, "X-Amz-Meta-" + key} {
		if v, ok := meta[k]; ok {
			n, err := strconv.Atoi(v)
			if err == nil {
				return n
			}
		}
	}
	return 0
}

func isImageKey(key string) bool {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif", ".avif":
		return true
	}
	return false
}
