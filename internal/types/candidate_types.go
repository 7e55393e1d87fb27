package types

// SectionLabel 表示简历行所属的分段标签
type SectionLabel string

const (
	// SectionSkills 技能分段
	SectionSkills SectionLabel = "skills"
	// SectionExperience 工作经历分段
	SectionExperience SectionLabel = "experience"
	// SectionName 姓名分段
	SectionName SectionLabel = "name"
	// SectionEmail 邮箱分段
	SectionEmail SectionLabel = "email"
	// SectionPhone 电话分段
	SectionPhone SectionLabel = "phone"
	// SectionOther 未分类内容分段，文档开头在遇到任何线索词之前也归于此
	SectionOther SectionLabel = "other"
)

// SectionScanOrder 分段线索匹配的固定顺序
// 一行同时命中多个分段的线索词时，次序靠前的分段胜出
var SectionScanOrder = []SectionLabel{
	SectionSkills,
	SectionExperience,
	SectionName,
	SectionEmail,
	SectionPhone,
}

// CompanyExperience 一段公司任职记录
type CompanyExperience struct {
	CompanyName string `json:"company_name"` // 公司名称，去除首尾空白
	Tenure      string `json:"tenure"`       // 任职时间段原文，例如 "2018 - Present"
}

// ParsedCandidate 简历解析的最终产物
// 每次解析产生一个独立的值，构造完成后不再修改，由调用方持有
// 任何字段提取失败都以零值/nil表示，解析过程本身永不报错
type ParsedCandidate struct {
	Name  *string `json:"name"`  // 候选人姓名，未提取到为nil
	Email *string `json:"email"` // 邮箱地址，未提取到为nil
	Phone *string `json:"phone"` // 电话号码，保留原始书写格式，未提取到为nil

	// TotalExperienceYears 总工作年限，取所有匹配中的最大值而非求和
	// （简历通常在摘要行和条目行重复陈述总年限，求和会重复计数）
	// 保证非负，保留两位小数
	TotalExperienceYears float64 `json:"total_experience_years"`

	// Companies 公司任职记录，按首次出现顺序排列
	// 按公司名小写去重，最多保留5条
	Companies []CompanyExperience `json:"companies"`

	// Skills 技能列表，按首次发现顺序排列，最多保留20条
	// 词表命中统一转为Title Case，自由文本命中保留原始大小写
	Skills []string `json:"skills"`

	// RawText 提取到的完整原文，不做任何修改，用于审计和落库
	RawText string `json:"raw_text"`
}
