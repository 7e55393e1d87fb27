package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"resume-extract-go/internal/logger"
)

// TikaPDFExtractor 基于Apache Tika服务器的后备PDF解析器
// Eino本地解析对部分加密或扫描件PDF会失败，这时可切换到Tika
type TikaPDFExtractor struct {
	// Tika服务器地址，例如 http://localhost:9998
	ServerURL string
	// HTTP客户端，可配置超时等参数
	Client *http.Client
	// 是否提取精简元数据
	extractMetadata bool
	logger          zerolog.Logger
}

// TikaOption 定义配置选项函数
type TikaOption func(*TikaPDFExtractor)

// WithTikaMetadata 配置是否额外请求文档元数据
func WithTikaMetadata(extract bool) TikaOption {
	return func(e *TikaPDFExtractor) {
		e.extractMetadata = extract
	}
}

// WithTikaLogger 配置自定义日志记录器
func WithTikaLogger(log zerolog.Logger) TikaOption {
	return func(e *TikaPDFExtractor) {
		e.logger = log
	}
}

// WithTikaTimeout 配置HTTP客户端超时时间
func WithTikaTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaPDFExtractor) {
		e.Client.Timeout = timeout
	}
}

// NewTikaPDFExtractor 创建一个新的Tika PDF解析器
func NewTikaPDFExtractor(serverURL string, options ...TikaOption) *TikaPDFExtractor {
	extractor := &TikaPDFExtractor{
		ServerURL: serverURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
		extractMetadata: true,
		logger:          logger.Logger.With().Str("component", "tika_extractor").Logger(),
	}

	for _, option := range options {
		option(extractor)
	}

	return extractor
}

// ExtractFromFile 实现processor.TextExtractor接口，从PDF文件提取文本
func (e *TikaPDFExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	startTime := time.Now()

	file, err := os.Open(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("打开PDF文件 %s 失败: %w", filePath, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("读取PDF内容失败: %w", err)
	}

	text, metadata, err := e.ExtractTextFromBytes(ctx, data, filePath)
	duration := time.Since(startTime)
	if err != nil {
		e.logger.Warn().Err(err).Str("file", filePath).Dur("elapsed", duration).Msg("Tika PDF处理失败")
		return "", nil, err
	}

	e.logger.Info().
		Str("file", filePath).
		Int("chars", len(text)).
		Dur("elapsed", duration).
		Msg("Tika PDF处理完成")
	return text, metadata, nil
}

// ExtractTextFromBytes 从字节数组提取纯文本内容
func (e *TikaPDFExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	startTime := time.Now()

	baseMetadata := map[string]interface{}{
		"extraction_time":  time.Now().Format(time.RFC3339),
		"source_file_path": uri,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.ServerURL+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", baseMetadata, fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Accept", "text/plain")
	if uri != "" {
		req.Header.Set("X-Tika-Resource-Name", uri)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", baseMetadata, fmt.Errorf("发送请求到Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", baseMetadata, fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	textBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", baseMetadata, fmt.Errorf("读取Tika响应失败: %w", err)
	}

	text := string(textBytes)
	baseMetadata["text_length"] = len(text)
	baseMetadata["processing_duration_ms"] = time.Since(startTime).Milliseconds()

	if e.extractMetadata {
		if rawMetadata, metaErr := e.fetchMetadata(ctx, data, uri); metaErr == nil {
			for k, v := range rawMetadata {
				if isImportantMetadata(k) {
					baseMetadata[k] = v
				}
			}
		} else {
			e.logger.Debug().Err(metaErr).Msg("元数据提取失败，继续使用基本元数据")
		}
	}

	return text, baseMetadata, nil
}

// 判断元数据字段是否重要
func isImportantMetadata(key string) bool {
	importantKeys := map[string]bool{
		"pdf:PDFVersion":      true,
		"xmpTPg:NPages":       true,
		"dcterms:created":     true,
		"language":            true,
		"dc:title":            true,
		"Content-Type":        true,
		"pdf:docinfo:title":   true,
		"pdf:docinfo:created": true,
	}
	return importantKeys[key]
}

// fetchMetadata 请求Tika的/meta端点获取文档元数据
func (e *TikaPDFExtractor) fetchMetadata(ctx context.Context, data []byte, uri string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.ServerURL+"/meta", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Accept", "application/json")
	if uri != "" {
		req.Header.Set("X-Tika-Resource-Name", uri)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送请求到Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	var metadata map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("解析元数据JSON失败: %w", err)
	}

	return metadata, nil
}
