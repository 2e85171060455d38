package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	appconfig "mall_saas_202610/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ==================== 接口定义 ====================

// StorageProvider 存储提供者接口
type StorageProvider interface {
	// Upload 上传文件，返回公开访问URL
	Upload(ctx context.Context, data []byte, filename string, contentType string) (url string, err error)

	// Delete 删除文件
	Delete(ctx context.Context, url string) error
}

// ==================== 工厂方法 ====================

func NewStorageProvider(ctx context.Context, cfg appconfig.StorageSettings) (StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Storage(ctx, cfg)
	case "local":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

// objectKey basePath/2006/01/02/uuid.ext
func objectKey(basePath, filename string, now time.Time) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	name := uuid.New().String() + ext
	datePath := now.Format("2006/01/02")
	if basePath != "" {
		return path.Join(basePath, datePath, name)
	}
	return path.Join(datePath, name)
}

// ==================== S3 实现 ====================

type S3Storage struct {
	client    *s3.Client
	bucket    string
	region    string
	endpoint  string
	cdnDomain string
	basePath  string
}

// NewS3Storage 配置了 Endpoint 时使用 path-style（兼容 MinIO 等 S3 协议存储）
func NewS3Storage(ctx context.Context, cfg appconfig.StorageSettings) (*S3Storage, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		endpoint:  strings.TrimSuffix(cfg.Endpoint, "/"),
		cdnDomain: cfg.CDNDomain,
		basePath:  cfg.BasePath,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	key := objectKey(s.basePath, filename, time.Now())

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}

	return s.publicURL(key), nil
}

func (s *S3Storage) Delete(ctx context.Context, url string) error {
	key := s.extractKey(url)
	if key == "" {
		return fmt.Errorf("cannot resolve object key from %q", url)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Storage) publicURL(key string) string {
	switch {
	case s.cdnDomain != "":
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	case s.endpoint != "":
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Storage) extractKey(url string) string {
	prefix := s.publicURL("")
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

// ==================== 本地存储 (开发测试用) ====================

type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(cfg appconfig.StorageSettings) (*LocalStorage, error) {
	dir := cfg.LocalDir
	if dir == "" {
		dir = "./uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	baseURL := "/uploads"
	if cfg.CDNDomain != "" {
		baseURL = "https://" + cfg.CDNDomain
	}
	return &LocalStorage{dir: dir, baseURL: baseURL}, nil
}

func (s *LocalStorage) Upload(_ context.Context, data []byte, filename string, _ string) (string, error) {
	key := objectKey("", filename, time.Now())
	full := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *LocalStorage) Delete(_ context.Context, url string) error {
	key := strings.TrimPrefix(url, s.baseURL+"/")
	if key == url || strings.Contains(key, "..") {
		return fmt.Errorf("cannot resolve file path from %q", url)
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
