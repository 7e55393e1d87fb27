package models

import "time"

// JobSeeker 求职者主表，一条记录对应一份成功解析的简历
type JobSeeker struct {
	JobSeekerID     string    `gorm:"type:char(36);primaryKey"`
	Name            string    `gorm:"type:varchar(255);not null"`
	// Email 可为NULL，唯一索引只约束非空邮箱，多条无邮箱记录互不冲突
	Email           *string   `gorm:"type:varchar(255);uniqueIndex:idx_job_seeker_email_unique"`
	Phone           string    `gorm:"type:varchar(50)"`
	TotalExperience float64   `gorm:"type:decimal(5,2)"`
	ResumeText      string    `gorm:"type:text"` // 提取到的简历原文，用于审计
	TextMD5         string    `gorm:"type:char(32);index:idx_job_seeker_text_md5"`
	ExtractorVer    string    `gorm:"type:varchar(50)"`
	CreatedAt       time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt       time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (JobSeeker) TableName() string {
	return "job_seeker"
}

// JobSeekerExperience 求职者工作经历子表
type JobSeekerExperience struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	JobSeekerID string    `gorm:"type:char(36);not null;index:idx_jse_job_seeker_id"`
	CompanyName string    `gorm:"type:varchar(255);not null"`
	Tenure      string    `gorm:"type:varchar(100)"`
	CreatedAt   time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	JobSeeker *JobSeeker `gorm:"foreignKey:JobSeekerID;references:JobSeekerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (JobSeekerExperience) TableName() string {
	return "job_seeker_experience"
}

// JobSeekerSkill 求职者技能子表
type JobSeekerSkill struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	JobSeekerID string    `gorm:"type:char(36);not null;index:idx_jss_job_seeker_id"`
	Skill       string    `gorm:"type:varchar(255);not null"`
	CreatedAt   time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	JobSeeker *JobSeeker `gorm:"foreignKey:JobSeekerID;references:JobSeekerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (JobSeekerSkill) TableName() string {
	return "job_seeker_skills"
}
