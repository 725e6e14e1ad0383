package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
	"github.com/pedro-cabreu/next-level-week/internal/domain/repository"
)

// objectStore 画像リポジトリが使うMinIOクライアントのサブセット
type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// minioObjectStore *minio.ClientをobjectStoreに適合させる
type minioObjectStore struct {
	*minio.Client
}

func (s minioObjectStore) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return s.Client.GetObject(ctx, bucketName, objectName, opts)
}

// NewMinioClient S3互換エンドポイントのクライアントを作成
func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("missing one or more required settings: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return client, nil
}

// MinioItemImageRepository 1つのバケットにオブジェクトとして保存したアイテム画像
type MinioItemImageRepository struct {
	store  objectStore
	bucket string
	logger zerolog.Logger
}

func NewMinioItemImageRepository(client *minio.Client, bucket string, logger zerolog.Logger) *MinioItemImageRepository {
	return newMinioItemImageRepository(minioObjectStore{Client: client}, bucket, logger)
}

func newMinioItemImageRepository(store objectStore, bucket string, logger zerolog.Logger) *MinioItemImageRepository {
	return &MinioItemImageRepository{
		store:  store,
		bucket: bucket,
		logger: logger,
	}
}

// EnsureBucket バケットがなければ作成
func (r *MinioItemImageRepository) EnsureBucket(ctx context.Context) error {
	exists, err := r.store.BucketExists(ctx, r.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := r.store.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", r.bucket, err)
	}
	r.logger.Info().Str("bucket", r.bucket).Msg("🪣 bucket created")
	return nil
}

// Seed バケットにまだないassetsのファイルをアップロード（既存オブジェクトはそのまま）
func (r *MinioItemImageRepository) Seed(ctx context.Context, assets fs.FS) (int, error) {
	entries, err := fs.ReadDir(assets, ".")
	if err != nil {
		return 0, fmt.Errorf("failed to list item images: %w", err)
	}

	uploaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		_, err := r.store.StatObject(ctx, r.bucket, name, minio.StatObjectOptions{})
		if err == nil {
			continue
		}
		if minio.ToErrorResponse(err).Code != "NoSuchKey" {
			return uploaded, fmt.Errorf("failed to check for existing object %s: %w", name, err)
		}

		data, err := fs.ReadFile(assets, name)
		if err != nil {
			return uploaded, fmt.Errorf("failed to read item image %s: %w", name, err)
		}
		_, err = r.store.PutObject(ctx, r.bucket, name, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentTypeOf(name)})
		if err != nil {
			return uploaded, fmt.Errorf("failed to store item image %s: %w", name, err)
		}
		uploaded++
	}

	r.logger.Info().Str("bucket", r.bucket).Int("uploaded", uploaded).Msg("🖼️ item images seeded")
	return uploaded, nil
}

func (r *MinioItemImageRepository) Open(ctx context.Context, name string) (*repository.ItemImage, error) {
	info, err := r.store.StatObject(ctx, r.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w", name, model.ErrImageNotFound)
		}
		return nil, fmt.Errorf("failed to stat object %s: %w", name, err)
	}

	body, err := r.store.GetObject(ctx, r.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", name, err)
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType = contentTypeOf(name)
	}
	return &repository.ItemImage{
		Body:        body,
		ContentType: contentType,
		Size:        info.Size,
	}, nil
}

func contentTypeOf(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
