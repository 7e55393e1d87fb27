package processor

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"resume-extract-go/internal/constants"
	"resume-extract-go/internal/logger"
	"resume-extract-go/internal/parser"
	"resume-extract-go/internal/storage"
)

// CandidateProcessor 简历摄入流程的编排器
// 串联 文本提取 -> 解析 -> 去重 -> 落库 -> 归档 -> 事件发布
// 解析管线本身是纯函数，各份简历的处理相互独立，批量处理时
// 直接按文件分发到工作协程即可，无需任何协调
type CandidateProcessor struct {
	Components Components
	Settings   Settings
}

// NewCandidateProcessor 创建处理器
func NewCandidateProcessor(componentOpts []ComponentOpt, settingOpts ...SettingOpt) *CandidateProcessor {
	components := Components{}
	for _, opt := range componentOpts {
		opt(&components)
	}

	settings := Settings{
		Workers:          4,
		ExtractorVersion: constants.DefaultExtractorVer,
		Logger:           logger.Logger.With().Str("component", "candidate_processor").Logger(),
	}
	for _, opt := range settingOpts {
		opt(&settings)
	}

	if components.Parser == nil {
		components.Parser = parser.NewResumeParser()
	}

	return &CandidateProcessor{
		Components: components,
		Settings:   settings,
	}
}

// ProcessFile 处理单份简历文件
// 文本提取失败不会中断流程：按空文本继续，解析产出全默认值记录
// 返回错误仅发生在持久化等外部协作步骤上
func (cp *CandidateProcessor) ProcessFile(ctx context.Context, filePath string) (*ProcessResult, error) {
	log := cp.Settings.Logger.With().Str("file", filepath.Base(filePath)).Logger()

	text := cp.extractText(ctx, filePath, log)

	candidate := cp.Components.Parser.ParseDocument(text)
	result := &ProcessResult{
		FilePath:  filePath,
		Candidate: candidate,
	}

	if cp.Settings.DryRun {
		return result, nil
	}

	// 无姓名也无邮箱的记录没有入库价值
	if candidate.Name == nil && candidate.Email == nil {
		log.Warn().Msg("简历未提取到姓名和邮箱，跳过入库")
		result.Skipped = true
		result.SkipReason = "no name or email extracted"
		return result, nil
	}

	textMD5 := ""
	if candidate.RawText != "" {
		sum := md5.Sum([]byte(candidate.RawText))
		textMD5 = hex.EncodeToString(sum[:])
	}

	if cp.Components.Dedup != nil && textMD5 != "" {
		seen, err := cp.Components.Dedup.IsTextMD5Seen(ctx, textMD5)
		if err != nil {
			// 去重缓存不可用时继续入库，重复风险由数据库唯一索引兜底
			log.Warn().Err(err).Msg("查询去重缓存失败，跳过去重检查")
		} else if seen {
			log.Info().Str("md5", textMD5).Msg("简历原文MD5已存在，跳过入库")
			result.Skipped = true
			result.SkipReason = "duplicate resume text"
			return result, nil
		}
	}

	if cp.Components.Store == nil {
		return nil, NewDatabaseError(filePath, "未配置持久化组件")
	}

	jobSeekerID, err := cp.Components.Store.InsertJobSeekerComplete(ctx, candidate, textMD5, cp.Settings.ExtractorVersion)
	if err != nil {
		return nil, NewDatabaseError(filePath, err.Error())
	}
	result.JobSeekerID = jobSeekerID

	if cp.Components.Dedup != nil && textMD5 != "" {
		if err := cp.Components.Dedup.RecordTextMD5(ctx, textMD5); err != nil {
			log.Warn().Err(err).Msg("记录原文MD5失败")
		}
		if candidate.Email != nil {
			if err := cp.Components.Dedup.CacheEmailIndex(ctx, *candidate.Email, jobSeekerID); err != nil {
				log.Warn().Err(err).Msg("写入邮箱索引缓存失败")
			}
		}
	}

	if cp.Components.Archive != nil {
		result.RawTextPathOSS = cp.archiveDocument(ctx, jobSeekerID, filePath, candidate.RawText, log)
	}

	if cp.Components.Events != nil {
		cp.publishParsedEvent(ctx, result, log)
	}

	log.Info().
		Str("job_seeker_id", jobSeekerID).
		Msg("简历处理完成")
	return result, nil
}

// extractText 调用文本提取器，所有失败路径都折叠为空文本
// 解析管线的契约里没有错误，空文本会短路为全默认值记录
func (cp *CandidateProcessor) extractText(ctx context.Context, filePath string, log zerolog.Logger) string {
	if cp.Components.Extractor == nil {
		return ""
	}
	text, _, err := cp.Components.Extractor.ExtractFromFile(ctx, filePath)
	if err != nil {
		log.Warn().Err(err).Msg("提取文本失败，按空文本继续")
		return ""
	}
	if text == "" {
		log.Warn().Msg("文档未提取到任何文本")
	}
	return text
}

// archiveDocument 归档原始文件和解析原文，失败只记警告不中断
func (cp *CandidateProcessor) archiveDocument(ctx context.Context, jobSeekerID, filePath, rawText string, log zerolog.Logger) string {
	if data, err := os.ReadFile(filePath); err == nil {
		if _, err := cp.Components.Archive.UploadOriginalFile(ctx, jobSeekerID, filepath.Base(filePath), data); err != nil {
			log.Warn().Err(err).Msg("归档原始文件失败")
		}
	} else {
		log.Warn().Err(err).Msg("读取原始文件失败，跳过归档")
	}

	objectKey, err := cp.Components.Archive.UploadRawText(ctx, jobSeekerID, rawText)
	if err != nil {
		log.Warn().Err(err).Msg("归档简历原文失败")
		return ""
	}
	return objectKey
}

// publishParsedEvent 发布解析完成事件，失败只记警告不中断
func (cp *CandidateProcessor) publishParsedEvent(ctx context.Context, result *ProcessResult, log zerolog.Logger) {
	candidate := result.Candidate
	msg := &storage.CandidateParsedMessage{
		JobSeekerID:     result.JobSeekerID,
		Name:            "Unknown",
		TotalExperience: candidate.TotalExperienceYears,
		SkillCount:      len(candidate.Skills),
		CompanyCount:    len(candidate.Companies),
		SourceFile:      filepath.Base(result.FilePath),
		RawTextPathOSS:  result.RawTextPathOSS,
		ExtractorVer:    cp.Settings.ExtractorVersion,
		ParsedAt:        time.Now(),
	}
	if candidate.Name != nil {
		msg.Name = *candidate.Name
	}
	if candidate.Email != nil {
		msg.Email = *candidate.Email
	}

	if err := cp.Components.Events.PublishCandidateParsed(ctx, msg); err != nil {
		log.Warn().Err(err).Msg("发布解析完成事件失败")
	}
}

// ProcessFolder 处理目录下的全部PDF简历
// 每份简历的处理相互独立，按固定数量的工作协程并发执行，
// 返回结果按文件名排序后的输入顺序排列
func (cp *CandidateProcessor) ProcessFolder(ctx context.Context, folderPath string) ([]*ProcessResult, error) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folderPath)
	}

	var pdfFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			pdfFiles = append(pdfFiles, filepath.Join(folderPath, entry.Name()))
		}
	}
	sort.Strings(pdfFiles)

	cp.Settings.Logger.Info().
		Int("count", len(pdfFiles)).
		Str("folder", folderPath).
		Msg("开始批量处理简历")

	if len(pdfFiles) == 0 {
		return nil, nil
	}

	workers := cp.Settings.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(pdfFiles) {
		workers = len(pdfFiles)
	}

	type indexedJob struct {
		index int
		path  string
	}

	jobs := make(chan indexedJob)
	results := make([]*ProcessResult, len(pdfFiles))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				result, err := cp.ProcessFile(ctx, job.path)
				if err != nil {
					cp.Settings.Logger.Error().Err(err).Str("file", job.path).Msg("处理简历失败")
					result = &ProcessResult{
						FilePath:   job.path,
						Skipped:    true,
						SkipReason: err.Error(),
					}
				}
				results[job.index] = result
			}
		}()
	}

	for i, path := range pdfFiles {
		jobs <- indexedJob{index: i, path: path}
	}
	close(jobs)
	wg.Wait()

	succeeded := 0
	for _, result := range results {
		if result != nil && !result.Skipped {
			succeeded++
		}
	}
	cp.Settings.Logger.Info().
		Int("succeeded", succeeded).
		Int("total", len(pdfFiles)).
		Msg("批量处理完成")

	return results, nil
}
