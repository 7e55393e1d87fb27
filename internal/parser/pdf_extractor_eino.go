package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"

	"resume-extract-go/internal/logger"
)

// pdfParseTimeout 单个PDF解析的超时上限
const pdfParseTimeout = 30 * time.Second

// EinoPDFTextExtractor 使用 Eino PDF Parser 提取简历纯文本
// ToPages 关闭，整份文档作为单个字符串返回，供分段器按行切分
type EinoPDFTextExtractor struct {
	parser *pdf.PDFParser
	logger zerolog.Logger
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFTextExtractor)

// WithEinoLogger 配置自定义日志记录器
func WithEinoLogger(log zerolog.Logger) EinoPDFOption {
	return func(e *EinoPDFTextExtractor) {
		e.logger = log
	}
}

// NewEinoPDFTextExtractor 初始化 Eino PDF 文本提取器
func NewEinoPDFTextExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false, // 不按页面分割，取整个文档的连续文本
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	extractor := &EinoPDFTextExtractor{
		parser: p,
		logger: logger.Logger.With().Str("component", "pdf_extractor").Logger(),
	}

	for _, option := range options {
		option(extractor)
	}

	return extractor, nil
}

// ExtractFromFile 实现processor.TextExtractor接口，从PDF文件提取文本
func (e *EinoPDFTextExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	startTime := time.Now()
	e.logger.Debug().Str("file", filePath).Msg("开始处理PDF文件")

	file, err := os.Open(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open PDF file %s: %w", filePath, err)
	}
	defer file.Close()

	if fileInfo, statErr := file.Stat(); statErr == nil {
		e.logger.Debug().
			Str("file", filePath).
			Float64("size_mb", float64(fileInfo.Size())/1024/1024).
			Msg("PDF文件大小")
	}

	extraMeta := map[string]interface{}{
		"source_file_path": filePath,
		"extraction_time":  time.Now().Format(time.RFC3339),
	}

	text, metadata, err := e.ExtractTextFromReader(ctx, file, filePath, extraMeta)

	duration := time.Since(startTime)
	if err != nil {
		e.logger.Warn().Err(err).Str("file", filePath).Dur("elapsed", duration).Msg("PDF处理失败")
		return "", nil, err
	}

	e.logger.Info().
		Str("file", filePath).
		Int("chars", len(text)).
		Dur("elapsed", duration).
		Msg("PDF处理完成")
	return text, metadata, nil
}

// ExtractTextFromReader 从 io.Reader 中提取文本 (更通用的版本)
// 返回: 提取的文本内容, 解析器元数据, 错误
func (e *EinoPDFTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, extraMeta map[string]interface{}) (string, map[string]interface{}, error) {
	if extraMeta == nil {
		extraMeta = make(map[string]interface{})
	}

	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, pdfParseTimeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(extraMeta),
	)

	duration := time.Since(startTime)
	if err != nil {
		return "", extraMeta, fmt.Errorf("eino PDF parser failed for URI %s: %w", uri, err)
	}

	if len(docs) == 0 {
		return "", extraMeta, fmt.Errorf("eino PDF parser returned no documents for URI %s", uri)
	}

	// 合并所有文档的内容（以防万一返回了多个）
	var fullContent bytes.Buffer
	for i, doc := range docs {
		fullContent.WriteString(doc.Content)
		if i < len(docs)-1 {
			fullContent.WriteString("\n\n")
		}
	}

	finalMetadata := make(map[string]interface{})
	if docs[0].MetaData != nil {
		for k, v := range docs[0].MetaData {
			finalMetadata[k] = v
		}
	}
	for k, v := range extraMeta {
		finalMetadata[k] = v
	}
	finalMetadata["processing_duration_ms"] = duration.Milliseconds()
	finalMetadata["document_count"] = len(docs)
	finalMetadata["text_length"] = fullContent.Len()

	return fullContent.String(), finalMetadata, nil
}

// ExtractTextFromBytes 从字节数组提取文本内容
func (e *EinoPDFTextExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string, extraMeta map[string]interface{}) (string, map[string]interface{}, error) {
	return e.ExtractTextFromReader(ctx, bytes.NewReader(data), uri, extraMeta)
}
