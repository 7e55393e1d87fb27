package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// skillCategory 技能词表中的一个类目
type skillCategory struct {
	Name     string
	Keywords []string
}

// skillTaxonomy 固定的技能词表：类目 -> 已知关键词
// 进程级常量配置，初始化后只读共享；切片保证类目遍历顺序稳定，
// 从而保证技能截断时的确定性
var skillTaxonomy = []skillCategory{
	{Name: "programming", Keywords: []string{
		"python", "java", "javascript", "c++", "c#", "php", "ruby", "go",
		"swift", "kotlin", "typescript", "scala", "matlab", "sql",
	}},
	{Name: "web", Keywords: []string{
		"html", "css", "react", "angular", "vue", "node.js", "express",
		"django", "flask", "spring", "laravel", "rails",
	}},
	{Name: "data", Keywords: []string{
		"pandas", "numpy", "scikit-learn", "tensorflow", "pytorch",
		"apache spark", "hadoop", "tableau", "power bi",
	}},
	{Name: "cloud", Keywords: []string{
		"aws", "azure", "gcp", "docker", "kubernetes", "terraform",
	}},
	{Name: "databases", Keywords: []string{
		"mysql", "postgresql", "mongodb", "redis", "cassandra", "oracle",
	}},
}

var (
	// skillsSectionPatterns 自由文本技能小节的定位模式
	// 第一种捕获标题后直到空行（或文末）的多行内容，第二种捕获同行内容
	skillsSectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:Technical\s+Skills|Skills|Technologies|Programming\s+Languages)[\s:]*\n([^\n]+(?:\n[^\n]+)*?)(?:\n\s*\n|\z)`),
		regexp.MustCompile(`(?i)(?:Skills|Technologies)[\s:]*([^\n]+)`),
	}

	// skillTokenSplitter 技能小节内容的切分符：逗号、换行、竖线、项目符、连字符
	skillTokenSplitter = regexp.MustCompile(`[,\n\|•\-]`)
)

const (
	// maxSkills 技能保留上限
	maxSkills = 20
	// 自由文本技能token的长度边界（开区间）
	minSkillTokenLen = 2
	maxSkillTokenLen = 25
)

// ExtractSkills 从技能小节文本中提取技能，两遍合并：
//
//  1. 词表遍：对输入做大小写无关的子串匹配，命中项转为Title Case
//  2. 自由文本遍：定位 Skills/Technologies/Technical Skills/Programming Languages
//     标题后的内容，按切分符拆token，保留长度在(2,25)开区间内的项，大小写原样
//
// 结果按首次发现顺序排列并截断到20条
// （原始行为在截断时顺序不定，这里固定为词表顺序在前、自由文本顺序在后）
func ExtractSkills(text string) []string {
	seen := make(map[string]bool)
	var skills []string

	add := func(skill string) {
		if !seen[skill] {
			seen[skill] = true
			skills = append(skills, skill)
		}
	}

	// 词表遍
	lower := strings.ToLower(text)
	for _, category := range skillTaxonomy {
		for _, keyword := range category.Keywords {
			if strings.Contains(lower, keyword) {
				add(titleCase(keyword))
			}
		}
	}

	// 自由文本遍
	for _, pattern := range skillsSectionPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			for _, token := range skillTokenSplitter.Split(match[1], -1) {
				token = strings.TrimSpace(token)
				if len(token) > minSkillTokenLen && len(token) < maxSkillTokenLen {
					add(token)
				}
			}
		}
	}

	if len(skills) > maxSkills {
		skills = skills[:maxSkills]
	}
	return skills
}

// titleCase 按词首大写规则转换：跟在非字母之后的字母转大写，其余字母转小写
// 例如 "power bi" -> "Power Bi"，"node.js" -> "Node.Js"
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevIsLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevIsLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevIsLetter = true
		} else {
			b.WriteRune(r)
			prevIsLetter = false
		}
	}
	return b.String()
}
