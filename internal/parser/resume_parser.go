package parser

import (
	"strings"

	"resume-extract-go/internal/logger"
	"resume-extract-go/internal/types"

	"github.com/rs/zerolog"
)

// ResumeParser 简历文本结构化解析器
// 分段 -> 字段提取 -> 技能提取 -> 聚合 四个阶段的纯函数管线，
// 除可选的诊断日志外无任何副作用，解析调用之间不共享可变状态，
// 可在多个goroutine间安全复用
type ResumeParser struct {
	logger zerolog.Logger
	debug  bool
}

// ParserOption ResumeParser的配置选项
type ParserOption func(*ResumeParser)

// WithParserLogger 设置自定义日志记录器
func WithParserLogger(l zerolog.Logger) ParserOption {
	return func(p *ResumeParser) {
		p.logger = l
	}
}

// WithParserDebug 开启逐阶段的调试日志
func WithParserDebug(debug bool) ParserOption {
	return func(p *ResumeParser) {
		p.debug = debug
	}
}

// NewResumeParser 创建简历解析器
// 正则模式和技能词表为包级常量，已在包初始化时编译完成
func NewResumeParser(options ...ParserOption) *ResumeParser {
	p := &ResumeParser{
		logger: logger.Logger.With().Str("component", "resume_parser").Logger(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// ParseDocument 解析单份简历文本，返回结构化候选人记录
// 全函数：对任意输入都正常返回，永不报错
// 空文本（上游提取失败或空白扫描件）直接短路为全默认值记录，
// 这是合法结果而非错误
func (p *ResumeParser) ParseDocument(text string) *types.ParsedCandidate {
	if text == "" {
		p.logger.Debug().Msg("输入文本为空，返回默认记录")
		return &types.ParsedCandidate{
			Companies: []types.CompanyExperience{},
			Skills:    []string{},
			RawText:   "",
		}
	}

	sections := SegmentLines(text)
	if p.debug {
		for _, label := range types.SectionScanOrder {
			p.logger.Debug().
				Str("section", string(label)).
				Int("lines", len(sections[label])).
				Msg("分段完成")
		}
	}

	// 姓名：name分段前5行，分段为空时回退全文；主提取失败再做全大写行兜底
	nameLines := sections[types.SectionName]
	if len(nameLines) > maxNameScanLines {
		nameLines = nameLines[:maxNameScanLines]
	}
	nameText := strings.Join(nameLines, "\n")
	if nameText == "" {
		nameText = text
	}
	name := ExtractName(nameText)
	if name == nil {
		name = ExtractNameFromUppercase(text)
	}

	experienceText := sections.JoinedText(types.SectionExperience)

	candidate := &types.ParsedCandidate{
		Name:                 name,
		Email:                ExtractEmail(sections.JoinedTextOr(types.SectionEmail, text)),
		Phone:                ExtractPhone(sections.JoinedTextOr(types.SectionPhone, text)),
		TotalExperienceYears: ExtractExperienceYears(experienceText),
		Companies:            ExtractCompanies(experienceText),
		Skills:               ExtractSkills(sections.JoinedTextOr(types.SectionSkills, text)),
		RawText:              text,
	}

	displayName := "Unknown"
	if candidate.Name != nil {
		displayName = *candidate.Name
	}
	p.logger.Debug().
		Str("name", displayName).
		Float64("experience_years", candidate.TotalExperienceYears).
		Int("companies", len(candidate.Companies)).
		Int("skills", len(candidate.Skills)).
		Msg("简历解析完成")

	return candidate
}

// ParseBatch 按输入顺序逐份解析简历文本集合
// 每份解析相互独立，各自产生独立记录
func (p *ResumeParser) ParseBatch(texts []string) []*types.ParsedCandidate {
	candidates := make([]*types.ParsedCandidate, 0, len(texts))
	for _, text := range texts {
		candidates = append(candidates, p.ParseDocument(text))
	}
	return candidates
}
