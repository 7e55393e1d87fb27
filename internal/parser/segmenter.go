package parser

import (
	"strings"

	"resume-extract-go/internal/types"
)

// sectionClues 各分段的线索词表
// 行文本（小写化后）包含任一线索词即触发分段切换
// 匹配顺序由 types.SectionScanOrder 固定，与此表无关
var sectionClues = map[types.SectionLabel][]string{
	types.SectionSkills:     {"skills", "technologies", "tools", "proficiencies", "languages", "technical proficiency"},
	types.SectionExperience: {"experience", "worked for", "internship", "employment", "project", "work"},
	types.SectionName:       {"name"},
	types.SectionEmail:      {"email"},
	types.SectionPhone:      {"phone", "mobile", "contact", "tel"},
}

// SegmentedResume 分段结果：分段标签 -> 按原文顺序排列的行
// 每次解析构造一份，供各字段提取器消费后即丢弃，不做持久化
type SegmentedResume map[types.SectionLabel][]string

// SegmentLines 将简历原文按行归入分段桶
// 携带一个"当前分段"状态做单次前向扫描：
//   - 行命中线索词时先切换当前分段，再把该行（通常是小节标题行）归入新分段
//   - 未命中则沿用当前分段
//   - 首个线索词出现之前所有行都归入 other
//
// 每一行都必然被归类，没有失败路径
func SegmentLines(text string) SegmentedResume {
	sections := SegmentedResume{
		types.SectionSkills:     {},
		types.SectionExperience: {},
		types.SectionName:       {},
		types.SectionEmail:      {},
		types.SectionPhone:      {},
		types.SectionOther:      {},
	}

	current := types.SectionOther
	for _, line := range strings.Split(text, "\n") {
		clean := strings.ToLower(strings.TrimSpace(line))

		for _, label := range types.SectionScanOrder {
			if containsAnyClue(clean, sectionClues[label]) {
				current = label
				break
			}
		}

		sections[current] = append(sections[current], strings.TrimSpace(line))
	}

	return sections
}

// JoinedText 返回指定分段所有行以换行符拼接的文本
func (s SegmentedResume) JoinedText(label types.SectionLabel) string {
	return strings.Join(s[label], "\n")
}

// JoinedTextOr 返回指定分段的拼接文本；分段内容为空时回退到给定的全文
func (s SegmentedResume) JoinedTextOr(label types.SectionLabel, fallback string) string {
	if joined := s.JoinedText(label); joined != "" {
		return joined
	}
	return fallback
}

func containsAnyClue(line string, clues []string) bool {
	for _, clue := range clues {
		if strings.Contains(line, clue) {
			return true
		}
	}
	return false
}
