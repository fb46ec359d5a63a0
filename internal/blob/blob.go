package blob

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"socialink/backend/internal/config"
	"socialink/backend/internal/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Kind selects the object-name prefix for an upload.
type Kind string

const (
	KindImage  Kind = "images"
	KindVideo  Kind = "videos"
	KindAvatar Kind = "avatars"
)

// Store persists uploaded media and returns a public URL for it.
type Store interface {
	Upload(ctx context.Context, file *multipart.FileHeader, kind Kind) (string, error)
}

// MinioStore keeps media in a MinIO (S3-compatible) bucket. Objects are
// named <kind>/<uuid><ext> so concurrent uploads of identically named
// files never collide.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

var _ Store = (*MinioStore)(nil)

// Build connects to MinIO and ensures the configured bucket exists.
func Build(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.L().Info("created media bucket", zap.String("bucket", cfg.MinioBucket))
	}

	return &MinioStore{
		client:  client,
		bucket:  cfg.MinioBucket,
		baseURL: strings.TrimSuffix(cfg.MinioBaseURL, "/"),
	}, nil
}

// Upload streams the file into the bucket and returns its public URL.
// The content type is detected from the first bytes of the file, not
// trusted from the upload headers.
func (s *MinioStore) Upload(ctx context.Context, file *multipart.FileHeader, kind Kind) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	contentType := http.DetectContentType(head)

	objectName := fmt.Sprintf("%s/%s%s", kind, uuid.New().String(), strings.ToLower(filepath.Ext(file.Filename)))
	reader := io.MultiReader(strings.NewReader(string(head)), src)

	info, err := s.client.PutObject(ctx, s.bucket, objectName, reader, file.Size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.L().Error("media upload failed",
			zap.String("object", objectName),
			zap.Error(err))
		return "", fmt.Errorf("upload failed: %w", err)
	}

	logger.L().Info("media uploaded",
		zap.String("object", objectName),
		zap.String("content_type", contentType),
		zap.Int64("size", info.Size))

	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, objectName), nil
}
