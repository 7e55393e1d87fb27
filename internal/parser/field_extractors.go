package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"resume-extract-go/internal/types"
)

// 字段提取用的正则模式，进程级常量配置，包初始化时编译一次后只读共享
var (
	// namePattern 姓名行形状："首字母大写词 首字母大写词 [可选第三个首字母大写词]"
	namePattern = regexp.MustCompile(`^[A-Z][a-zA-Z]+\s+[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?$`)

	// emailPattern 宽松的RFC风格邮箱：本地部分字母数字加 ._%+- ，域名字母数字加 .- ，顶级域至少2个字母
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// phonePattern 北美风格号码：可选+1前缀，可选括号区号（首位2-9），空格/点/连字符分隔
	phonePattern = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?[2-9]\d{2}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	// experiencePatterns 工作年限的四种表述，命名捕获组区分年和月
	experiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?P<years>\d+(?:\.\d+)?)\s*(?:\+)?\s*years?(?:\s+and\s+(?P<months>\d+)\s*months?)?`),
		regexp.MustCompile(`(?P<monthsOnly>\d+)\s*months?\s+(?:of\s+)?experience`),
		regexp.MustCompile(`experience.*?(?P<years>\d+(?:\.\d+)?)\s*(?:\+)?\s*years?`),
		regexp.MustCompile(`(?P<years>\d+(?:\.\d+)?)\s*yr[s]?\s+exp`),
	}

	// companyPatterns 公司+任职时间段的两种形态
	// 第一种要求公司后缀（Inc/LLC/Corp/Ltd/Company），第二种放宽后缀并额外接受"Current"结尾
	companyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)([A-Z][a-zA-Z\s&]+(?:Inc|LLC|Corp|Ltd|Company))\s*[,\-\s]*(\d{4}\s*[–\-]\s*(?:\d{4}|Present))`),
		regexp.MustCompile(`(?i)([A-Z][a-zA-Z\s&]+)\s*[,\-\s]*(\d{4}\s*[–\-]\s*(?:\d{4}|Present|Current))`),
	}
)

const (
	// maxNameScanLines 姓名提取最多扫描的行数
	maxNameScanLines = 5
	// maxCompanies 公司记录保留上限
	maxCompanies = 5
)

// ExtractName 从文本前几行中提取姓名
// 逐行检查前5行，返回第一个符合姓名形状的行；没有则返回nil
func ExtractName(text string) *string {
	lines := strings.Split(text, "\n")
	if len(lines) > maxNameScanLines {
		lines = lines[:maxNameScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) > 3 && len(strings.Fields(line)) >= 2 && namePattern.MatchString(line) {
			return &line
		}
	}
	return nil
}

// ExtractNameFromUppercase 姓名兜底启发式：扫描全文，取第一个
// 全大写且含2到4个空白分隔词的行。主提取失败时由聚合器调用
func ExtractNameFromUppercase(text string) *string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		tokens := len(strings.Fields(line))
		if tokens > 1 && tokens < 5 && isUpperLine(line) {
			return &line
		}
	}
	return nil
}

// isUpperLine 判断一行是否为全大写：至少含一个字母，且所有字母均为大写
func isUpperLine(line string) bool {
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// ExtractEmail 返回文本中按出现顺序的第一个邮箱地址，未找到返回nil
func ExtractEmail(text string) *string {
	if m := emailPattern.FindString(text); m != "" {
		return &m
	}
	return nil
}

// ExtractPhone 返回文本中的第一个电话号码，保留原始书写格式，未找到返回nil
func ExtractPhone(text string) *string {
	if m := phonePattern.FindString(text); m != "" {
		return &m
	}
	return nil
}

// ExtractExperienceYears 从工作经历文本中提取总年限
// 对小写化后的文本逐一应用四种年限模式，每个匹配算出 years + months/12，
// 最终取所有匹配的最大值（而非求和，避免摘要行与条目行重复计数），
// 保留两位小数；没有任何匹配时返回0
func ExtractExperienceYears(text string) float64 {
	lower := strings.ToLower(text)

	var totals []float64
	for _, pattern := range experiencePatterns {
		names := pattern.SubexpNames()
		for _, match := range pattern.FindAllStringSubmatch(lower, -1) {
			total := 0.0
			for i, name := range names {
				if i == 0 || match[i] == "" {
					continue
				}
				switch name {
				case "years":
					if v, err := strconv.ParseFloat(match[i], 64); err == nil {
						total += v
					}
				case "months", "monthsOnly":
					if v, err := strconv.ParseFloat(match[i], 64); err == nil {
						total += v / 12
					}
				}
			}
			totals = append(totals, total)
		}
	}

	if len(totals) == 0 {
		return 0.0
	}
	maxTotal := totals[0]
	for _, t := range totals[1:] {
		if t > maxTotal {
			maxTotal = t
		}
	}
	return math.Round(maxTotal*100) / 100
}

// ExtractCompanies 从工作经历文本中提取公司及任职时间段
// 两种模式顺序应用，结果按公司名小写去重并保持首次出现顺序，最多保留5条
func ExtractCompanies(text string) []types.CompanyExperience {
	var companies []types.CompanyExperience
	for _, pattern := range companyPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			companies = append(companies, types.CompanyExperience{
				CompanyName: strings.TrimSpace(match[1]),
				Tenure:      strings.TrimSpace(match[2]),
			})
		}
	}

	seen := make(map[string]bool, len(companies))
	unique := make([]types.CompanyExperience, 0, len(companies))
	for _, company := range companies {
		key := strings.ToLower(company.CompanyName)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, company)
	}

	if len(unique) > maxCompanies {
		unique = unique[:maxCompanies]
	}
	return unique
}
