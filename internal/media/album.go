package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hperssn/unibalance/internal/config"
)

var ErrClipNotFound = errors.New("clip not found")

// Album is where saved clips end up.
type Album interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (location string, err error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

type S3Album struct {
	client *minio.Client
	bucket string
}

func NewS3Album(cfg config.S3Config) (*S3Album, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &S3Album{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// EnsureBucket creates the bucket when it is missing.
func (a *S3Album) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (a *S3Album) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := a.client.PutObject(ctx, a.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload clip: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", a.bucket, name), nil
}

func (a *S3Album) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if _, err := a.client.StatObject(ctx, a.bucket, name, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrClipNotFound
		}
		return nil, fmt.Errorf("failed to stat clip: %w", err)
	}

	object, err := a.client.GetObject(ctx, a.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download clip: %w", err)
	}

	return object, nil
}

func (a *S3Album) Delete(ctx context.Context, name string) error {
	err := a.client.RemoveObject(ctx, a.bucket, name, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete clip: %w", err)
	}

	return nil
}

// DirAlbum keeps clips as files in a local directory.
type DirAlbum struct {
	dir string
}

func NewDirAlbum(dir string) (*DirAlbum, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create album dir: %w", err)
	}
	return &DirAlbum{dir: dir}, nil
}

func (a *DirAlbum) path(name string) string {
	return filepath.Join(a.dir, filepath.Base(name))
}

func (a *DirAlbum) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	p := a.path(name)
	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("create clip: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(p)
		return "", fmt.Errorf("write clip: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(p)
		return "", fmt.Errorf("write clip: %w", err)
	}
	return p, nil
}

func (a *DirAlbum) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(a.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrClipNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (a *DirAlbum) Delete(_ context.Context, name string) error {
	err := os.Remove(a.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return ErrClipNotFound
	}
	return err
}
