package storage

import "time"

// CandidateParsedMessage 候选人解析完成事件
// 解析结果入库后发布到候选人事件交换机，供下游系统消费
type CandidateParsedMessage struct {
	JobSeekerID     string    `json:"job_seeker_id"`               // 候选人ID，主键
	Name            string    `json:"name"`                        // 姓名，未提取到为"Unknown"
	Email           string    `json:"email,omitempty"`             // 邮箱
	TotalExperience float64   `json:"total_experience"`            // 总工作年限
	SkillCount      int       `json:"skill_count"`                 // 提取到的技能数
	CompanyCount    int       `json:"company_count"`               // 提取到的公司数
	SourceFile      string    `json:"source_file,omitempty"`       // 来源文件名
	RawTextPathOSS  string    `json:"raw_text_path_oss,omitempty"` // 原文在MinIO中的对象键
	ExtractorVer    string    `json:"extractor_ver,omitempty"`     // 文本提取器版本
	ParsedAt        time.Time `json:"parsed_at"`                   // 解析完成时间
}
