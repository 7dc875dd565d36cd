// Package objstore mirrors a sorted sprite tree into a MinIO/S3 bucket.
package objstore

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"

	"github.com/anatolykoptev/go-spritesort/internal/config"
)

// Uploader puts a single object.
type Uploader interface {
	Upload(ctx context.Context, key, localPath string) error
}

type Client struct {
	mc     *minio.Client
	bucket string
}

// Check that Client implements Uploader.
var _ Uploader = (*Client)(nil)

func NewClient(cfg config.PublishConfig) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &Client{mc: mc, bucket: cfg.Bucket}, nil
}

func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

func (c *Client) Upload(ctx context.Context, key, localPath string) error {
	opts := minio.PutObjectOptions{ContentType: contentType(localPath)}
	if _, err := c.mc.FPutObject(ctx, c.bucket, key, localPath, opts); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (c *Client) Bucket() string {
	return c.bucket
}

// ObjectKey joins prefix and a slash-separated relative path.
func ObjectKey(prefix, rel string) string {
	rel = filepath.ToSlash(rel)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return rel
	}
	return path.Join(prefix, rel)
}

// Mirror uploads every regular file below root as prefix/<relative path>,
// with at most parallelism uploads in flight. It returns the number of
// objects written; the first upload error cancels the rest.
func Mirror(ctx context.Context, up Uploader, root, prefix string, parallelism int) (int, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", root, err)
	}

	if parallelism <= 0 {
		parallelism = 1
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)

	for _, p := range files {
		p := p
		eg.Go(func() error {
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			return up.Upload(egCtx, ObjectKey(prefix, rel), p)
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}
	return len(files), nil
}

func contentType(p string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(p))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

