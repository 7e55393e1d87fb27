package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"resume-extract-go/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

// MinIO 对象存储客户端：原始简历文件与解析文本的归档
type MinIO struct {
	client         *minio.Client
	cfg            *config.MinIOConfig
	originalBucket string
	parsedBucket   string
}

// NewMinIO 创建MinIO客户端并确保存储桶与生命周期规则就绪
func NewMinIO(cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{
		client:         client,
		cfg:            cfg,
		originalBucket: cfg.OriginalsBucket,
		parsedBucket:   cfg.ParsedTextBucket,
	}

	for _, bucket := range []string{m.originalBucket, m.parsedBucket} {
		if bucket == "" {
			continue
		}
		if err := m.ensureBucketExists(bucket, cfg.Location); err != nil {
			return nil, err
		}
	}

	// 生命周期规则失败不阻断启动，归档过期只是清理策略
	if err := m.setupLifecycleRules(context.Background()); err != nil {
		return m, nil
	}

	return m, nil
}

// ensureBucketExists 确保存储桶存在，不存在则创建
func (m *MinIO) ensureBucketExists(bucketName, location string) error {
	exists, err := m.client.BucketExists(context.Background(), bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", bucketName, err)
	}
	if !exists {
		err = m.client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{Region: location})
		if err != nil {
			return fmt.Errorf("创建存储桶 %s 失败: %w", bucketName, err)
		}
	}
	return nil
}

// setupLifecycleRules 为两个存储桶设置对象过期规则
func (m *MinIO) setupLifecycleRules(ctx context.Context) error {
	if m.cfg.OriginalFileExpireDays > 0 && m.originalBucket != "" {
		if err := m.setupBucketLifecycle(ctx, m.originalBucket, "expire-originals", m.cfg.OriginalFileExpireDays); err != nil {
			return fmt.Errorf("为原始文件存储桶 %s 设置生命周期失败: %w", m.originalBucket, err)
		}
	}
	if m.cfg.ParsedTextExpireDays > 0 && m.parsedBucket != "" {
		if err := m.setupBucketLifecycle(ctx, m.parsedBucket, "expire-parsed-text", m.cfg.ParsedTextExpireDays); err != nil {
			return fmt.Errorf("为解析文本存储桶 %s 设置生命周期失败: %w", m.parsedBucket, err)
		}
	}
	return nil
}

// setupBucketLifecycle 为指定存储桶设置过期天数规则
func (m *MinIO) setupBucketLifecycle(ctx context.Context, bucketName, ruleID string, expiryDays int) error {
	lifecycleConfig := lifecycle.NewConfiguration()
	lifecycleConfig.Rules = []lifecycle.Rule{
		{
			ID:     ruleID,
			Status: "Enabled",
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(expiryDays),
			},
		},
	}
	return m.client.SetBucketLifecycle(ctx, bucketName, lifecycleConfig)
}

// UploadOriginalFile 上传原始简历文件到originals存储桶
// 返回MinIO中的对象键（不含bucket前缀）
func (m *MinIO) UploadOriginalFile(ctx context.Context, jobSeekerID, fileName string, data []byte) (string, error) {
	fileExt := filepath.Ext(fileName)
	objectName := fmt.Sprintf("candidate/%s/original%s", jobSeekerID, fileExt)

	_, err := m.client.PutObject(ctx, m.originalBucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: getContentType(fileExt)})
	if err != nil {
		return "", fmt.Errorf("上传对象 %s/%s 失败: %w", m.originalBucket, objectName, err)
	}
	return objectName, nil
}

// UploadRawText 上传解析出的简历原文到parsed-text存储桶，用于审计
func (m *MinIO) UploadRawText(ctx context.Context, jobSeekerID, text string) (string, error) {
	objectName := fmt.Sprintf("candidate/%s/raw_text.txt", jobSeekerID)

	_, err := m.client.PutObject(ctx, m.parsedBucket, objectName,
		strings.NewReader(text), int64(len(text)),
		minio.PutObjectOptions{ContentType: "text/plain"})
	if err != nil {
		return "", fmt.Errorf("上传解析文本 %s 到存储桶 %s 失败: %w", objectName, m.parsedBucket, err)
	}
	return objectName, nil
}

// DownloadRawText 从parsed-text存储桶下载已归档的简历原文
func (m *MinIO) DownloadRawText(ctx context.Context, jobSeekerID string) (string, error) {
	objectName := fmt.Sprintf("candidate/%s/raw_text.txt", jobSeekerID)

	object, err := m.client.GetObject(ctx, m.parsedBucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("获取对象 %s/%s 失败: %w", m.parsedBucket, objectName, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return "", fmt.Errorf("读取对象 %s/%s 失败: %w", m.parsedBucket, objectName, err)
	}
	return string(data), nil
}

// getContentType 根据文件后缀推断Content-Type
func getContentType(fileExt string) string {
	switch strings.ToLower(fileExt) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
