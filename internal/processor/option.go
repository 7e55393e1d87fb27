package processor

import (
	"resume-extract-go/internal/parser"
	"resume-extract-go/internal/storage"

	"github.com/rs/zerolog"
)

// Components 处理器依赖的外部组件
type Components struct {
	// 文本提取器
	Extractor TextExtractor

	// 简历解析器
	Parser *parser.ResumeParser

	// 持久化（必需，dry-run模式除外）
	Store CandidateStore

	// 去重缓存（可选）
	Dedup DedupCache

	// 原文归档（可选）
	Archive TextArchive

	// 事件发布（可选）
	Events EventPublisher
}

// Settings 处理器运行参数
type Settings struct {
	// Workers 批量处理的并发工作协程数
	Workers int

	// DryRun 只解析不落库，结果仅返回给调用方
	DryRun bool

	// ExtractorVersion 随记录落库的提取器版本标识
	ExtractorVersion string

	// Logger 日志记录器
	Logger zerolog.Logger
}

// ComponentOpt 组件选项类型，仅改变 Components 结构体内的字段
type ComponentOpt func(*Components)

// SettingOpt 设置选项类型，仅改变 Settings 结构体内的字段
type SettingOpt func(*Settings)

// ----- 组件选项 -----

// WithcompExtractor 设置文本提取器组件
func WithcompExtractor(extractor TextExtractor) ComponentOpt {
	return func(c *Components) {
		c.Extractor = extractor
	}
}

// WithcompParser 设置简历解析器组件
func WithcompParser(p *parser.ResumeParser) ComponentOpt {
	return func(c *Components) {
		c.Parser = p
	}
}

// WithcompStore 设置持久化组件
func WithcompStore(store CandidateStore) ComponentOpt {
	return func(c *Components) {
		c.Store = store
	}
}

// WithcompDedup 设置去重缓存组件
func WithcompDedup(dedup DedupCache) ComponentOpt {
	return func(c *Components) {
		c.Dedup = dedup
	}
}

// WithcompArchive 设置原文归档组件
func WithcompArchive(archive TextArchive) ComponentOpt {
	return func(c *Components) {
		c.Archive = archive
	}
}

// WithcompEvents 设置事件发布组件
func WithcompEvents(events EventPublisher) ComponentOpt {
	return func(c *Components) {
		c.Events = events
	}
}

// WithcompStorage 从存储管理器一次性装配所有可用的存储组件
// 未初始化的后端保持为nil，处理时按可选组件跳过
func WithcompStorage(s *storage.Storage) ComponentOpt {
	return func(c *Components) {
		if s == nil {
			return
		}
		if s.MySQL != nil {
			c.Store = s.MySQL
		}
		if s.Redis != nil {
			c.Dedup = s.Redis
		}
		if s.MinIO != nil {
			c.Archive = s.MinIO
		}
		if s.RabbitMQ != nil {
			c.Events = s.RabbitMQ
		}
	}
}

// ----- 设置选项 -----

// WithsetWorkers 设置并发工作协程数
func WithsetWorkers(workers int) SettingOpt {
	return func(s *Settings) {
		if workers > 0 {
			s.Workers = workers
		}
	}
}

// WithsetDryrun 设置dry-run模式
func WithsetDryrun(dryRun bool) SettingOpt {
	return func(s *Settings) {
		s.DryRun = dryRun
	}
}

// WithsetExtractorversion 设置提取器版本标识
func WithsetExtractorversion(version string) SettingOpt {
	return func(s *Settings) {
		s.ExtractorVersion = version
	}
}

// WithsetLogger 设置日志记录器
func WithsetLogger(l zerolog.Logger) SettingOpt {
	return func(s *Settings) {
		s.Logger = l
	}
}
