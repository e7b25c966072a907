package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"resume-aids-go/internal/config"
	"resume-aids-go/internal/constants"
	"resume-aids-go/internal/logger"
	"resume-aids-go/internal/tracing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"go.opentelemetry.io/otel/attribute"
)

// MinIO 上传原件归档
type MinIO struct {
	client *minio.Client
	cfg    *config.MinIOConfig
	bucket string
}

// NewMinIO 创建MinIO客户端，确保存储桶存在并设置生命周期
func NewMinIO(ctx context.Context, cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("MinIO bucketName 不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{client: client, cfg: cfg, bucket: cfg.BucketName}

	if err := m.ensureBucketExists(ctx); err != nil {
		return nil, err
	}

	if cfg.UploadExpireDays > 0 {
		if err := m.setupLifecycle(ctx, cfg.UploadExpireDays); err != nil {
			// 生命周期只影响清理，不阻止启动
			logger.Warn().Err(err).Str("bucket", m.bucket).Msg("设置MinIO生命周期规则失败")
		}
	}

	logger.Info().Str("endpoint", cfg.Endpoint).Str("bucket", m.bucket).Msg("MinIO客户端初始化成功")
	return m, nil
}

func (m *MinIO) ensureBucketExists(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.cfg.Location}); err != nil {
		return fmt.Errorf("创建存储桶 %s 失败: %w", m.bucket, err)
	}
	logger.Info().Str("bucket", m.bucket).Msg("MinIO存储桶已创建")
	return nil
}

// setupLifecycle 上传原件按天数过期
func (m *MinIO) setupLifecycle(ctx context.Context, expiryDays int) error {
	lc := lifecycle.NewConfiguration()
	lc.Rules = []lifecycle.Rule{
		{
			ID:         "expire-uploads",
			Status:     "Enabled",
			RuleFilter: lifecycle.Filter{Prefix: constants.UploadObjectPrefix + "/"},
			Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(expiryDays)},
		},
	}
	return m.client.SetBucketLifecycle(ctx, m.bucket, lc)
}

// UploadObjectKey 上传原件的对象键，例如 uploads/<request-id>/original.pdf
func UploadObjectKey(requestID, ext string) string {
	return path.Join(constants.UploadObjectPrefix, requestID, "original"+strings.ToLower(ext))
}

// ArchiveUpload 保存上传原件，返回对象键
func (m *MinIO) ArchiveUpload(ctx context.Context, requestID, ext string, data []byte) (string, error) {
	objectKey := UploadObjectKey(requestID, ext)

	ctx, span := tracing.Tracer().Start(ctx, "MinIO.ArchiveUpload")
	defer span.End()
	span.SetAttributes(
		attribute.String("minio.bucket", m.bucket),
		attribute.String("minio.object", objectKey),
		attribute.Int("upload.size", len(data)),
	)

	_, err := m.client.PutObject(ctx, m.bucket, objectKey, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: getContentType(ext)})
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStore)
		return "", fmt.Errorf("上传对象 %s/%s 失败: %w", m.bucket, objectKey, err)
	}
	return objectKey, nil
}

// 获取内容类型
func getContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
