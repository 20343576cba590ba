package blobstore

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioBlobStore stores blobs as objects in a MinIO (or S3-compatible)
// bucket. Object key is the blob ID; descriptive fields travel as object
// user metadata.
type MinioBlobStore struct {
	client *minio.Client
	bucket string
}

// NewMinioBlobStore connects to the MinIO endpoint and ensures the bucket
// exists.
func NewMinioBlobStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioBlobStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}

	return &MinioBlobStore{client: client, bucket: bucket}, nil
}

// Upload validates the metadata, streams the content to the bucket, and
// returns the stored blob's metadata. The content is hashed while uploading.
func (s *MinioBlobStore) Upload(ctx context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error) {
	if err := validateMeta(meta); err != nil {
		return nil, err
	}

	// Read to compute size and hash before streaming to the bucket; the
	// size cap keeps this bounded.
	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	h := sha256.Sum256(data)

	meta.ID = uuid.New().String()
	meta.Size = int64(len(data))
	meta.Hash = fmt.Sprintf("%x", h)
	meta.CreatedAt = time.Now().UTC()

	userMeta := map[string]string{
		"file-name":  meta.FileName,
		"category":   meta.Category,
		"hash":       meta.Hash,
		"created-by": meta.CreatedBy,
		"created-at": meta.CreatedAt.Format(time.RFC3339Nano),
	}

	_, err = s.client.PutObject(ctx, s.bucket, meta.ID, strings.NewReader(string(data)), meta.Size, minio.PutObjectOptions{
		ContentType:  meta.ContentType,
		UserMetadata: userMeta,
	})
	if err != nil {
		return nil, fmt.Errorf("put object %s: %w", meta.ID, err)
	}

	out := meta
	return &out, nil
}

// Download returns the object stream and its metadata.
func (s *MinioBlobStore) Download(ctx context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	meta, err := s.GetMetadata(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, id, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object %s: %w", id, err)
	}

	return obj, meta, nil
}

// Delete removes the object from the bucket.
func (s *MinioBlobStore) Delete(ctx context.Context, id string) error {
	// StatObject first so missing blobs surface as ErrBlobNotFound;
	// RemoveObject succeeds silently on absent keys.
	if _, err := s.GetMetadata(ctx, id); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", id, err)
	}
	return nil
}

// GetMetadata stats the object and rebuilds the blob metadata from the
// object's user metadata.
func (s *MinioBlobStore) GetMetadata(ctx context.Context, id string) (*BlobMetadata, error) {
	info, err := s.client.StatObject(ctx, s.bucket, id, minio.StatObjectOptions{})
	if err != nil {
		var errResp minio.ErrorResponse
		if errors.As(err, &errResp) && errResp.Code == "NoSuchKey" {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("stat object %s: %w", id, err)
	}

	return objectInfoToMetadata(id, info), nil
}

// List walks the bucket and returns blobs matching the filter parameters.
func (s *MinioBlobStore) List(ctx context.Context, params ListParams) ([]*BlobMetadata, int, error) {
	var matched []*BlobMetadata
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{WithMetadata: true}) {
		if obj.Err != nil {
			return nil, 0, fmt.Errorf("list objects: %w", obj.Err)
		}
		meta := objectInfoToMetadata(obj.Key, obj)
		if !matchesList(meta, params) {
			continue
		}
		matched = append(matched, meta)
	}

	total := len(matched)
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[offset:end], total, nil
}

func objectInfoToMetadata(id string, info minio.ObjectInfo) *BlobMetadata {
	meta := &BlobMetadata{
		ID:          id,
		ContentType: info.ContentType,
		Size:        info.Size,
		CreatedAt:   info.LastModified,
	}
	meta.FileName = info.UserMetadata["File-Name"]
	meta.Category = info.UserMetadata["Category"]
	meta.Hash = info.UserMetadata["Hash"]
	meta.CreatedBy = info.UserMetadata["Created-By"]
	if raw := info.UserMetadata["Created-At"]; raw != "" {
		if at, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			meta.CreatedAt = at
		}
	}
	return meta
}
