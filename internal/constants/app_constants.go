package constants

import "time"

const (
	// DefaultExtractorVer 默认的文本提取器版本标识
	DefaultExtractorVer = "1.0"

	// RawTextMD5SetKey 已入库简历原文MD5集合的Redis键
	RawTextMD5SetKey = "candidates:text_md5s"
	// EmailIndexPrefix 邮箱 -> 候选人ID 查找缓存的键前缀
	EmailIndexPrefix = "candidates:email:"
	// EmailIndexDuration 邮箱查找缓存的过期时间
	EmailIndexDuration = 24 * time.Hour
)
