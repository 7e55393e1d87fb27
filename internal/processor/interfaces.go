package processor

import (
	"context"

	"resume-extract-go/internal/storage"
	"resume-extract-go/internal/storage/models"
	"resume-extract-go/internal/types"
)

// ProcessResult 单份简历的处理结果
type ProcessResult struct {
	// 来源文件路径
	FilePath string

	// 解析产物
	Candidate *types.ParsedCandidate

	// 入库后生成的候选人ID（dry-run或跳过时为空）
	JobSeekerID string

	// 原文在MinIO中的对象键（未归档时为空）
	RawTextPathOSS string

	// 是否被跳过（重复简历或无姓名无邮箱）
	Skipped bool

	// 跳过原因
	SkipReason string
}

//
// 文本提取相关接口
//

// TextExtractor 文档文本提取器接口
// 提取失败由调用方转换为空文本，不会进入解析管线内部
type TextExtractor interface {
	// ExtractFromFile 从文档文件提取文本和元数据
	ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error)
}

//
// 存储相关接口
//

// CandidateStore 候选人记录持久化接口
type CandidateStore interface {
	// InsertJobSeekerComplete 在单个事务中插入候选人及其经历、技能
	InsertJobSeekerComplete(ctx context.Context, candidate *types.ParsedCandidate, textMD5, extractorVer string) (string, error)

	// GetJobSeekerByEmail 按邮箱查询候选人
	GetJobSeekerByEmail(ctx context.Context, email string) (*models.JobSeeker, error)
}

// DedupCache 简历去重缓存接口
type DedupCache interface {
	// IsTextMD5Seen 判断原文MD5是否已入库过
	IsTextMD5Seen(ctx context.Context, md5Hex string) (bool, error)

	// RecordTextMD5 记录已入库的原文MD5
	RecordTextMD5(ctx context.Context, md5Hex string) error

	// CacheEmailIndex 缓存 邮箱 -> 候选人ID 映射
	CacheEmailIndex(ctx context.Context, email, jobSeekerID string) error
}

// TextArchive 原文归档接口
type TextArchive interface {
	// UploadOriginalFile 归档原始简历文件
	UploadOriginalFile(ctx context.Context, jobSeekerID, fileName string, data []byte) (string, error)

	// UploadRawText 归档解析出的简历原文
	UploadRawText(ctx context.Context, jobSeekerID, text string) (string, error)
}

// EventPublisher 解析完成事件发布接口
type EventPublisher interface {
	// PublishCandidateParsed 发布解析完成事件
	PublishCandidateParsed(ctx context.Context, msg *storage.CandidateParsedMessage) error
}
