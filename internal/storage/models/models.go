package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Job 岗位信息表
type Job struct {
	JobID              string         `gorm:"type:char(36);primaryKey"`
	JobTitle           string         `gorm:"type:varchar(255);not null"`
	Department         string         `gorm:"type:varchar(255)"`
	Location           string         `gorm:"type:varchar(255)"`
	JobDescriptionText string         `gorm:"type:text;not null"`
	RequiredSkillsJSON datatypes.JSON `gorm:"type:json"`
	RequiredDegree     string         `gorm:"type:varchar(100)"`
	Status             string         `gorm:"type:varchar(50);default:'ACTIVE';index:idx_jobs_status"`
	CreatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Job) TableName() string {
	return "jobs"
}

// ResumeSubmission 简历提交/快照表
type ResumeSubmission struct {
	SubmissionUUID      string    `gorm:"type:char(36);primaryKey"`
	SubmissionTimestamp time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_submission_timestamp"`
	SourceChannel       string    `gorm:"type:varchar(100)"`
	TargetJobID         *string   `gorm:"type:char(36);index:idx_rs_target_job_id"`
	OriginalFilename    string    `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string    `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string    `gorm:"type:varchar(1024)"`
	RawFileMD5          string    `gorm:"type:char(32);index:idx_rs_raw_file_md5"`
	RawTextMD5          string    `gorm:"type:char(32);index:idx_rs_raw_text_md5"`
	ProcessingStatus    string    `gorm:"type:varchar(50);default:'PENDING_PARSING';index:idx_rs_processing_status"`
	ParserVersion       string    `gorm:"type:varchar(50)"`
	CreatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	Job *Job `gorm:"foreignKey:TargetJobID;references:JobID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}

// ResumeAnalysis 简历分析结果表
// 每条提交记录最多对应一条分析结果
type ResumeAnalysis struct {
	AnalysisID       uint64         `gorm:"primaryKey;autoIncrement"`
	SubmissionUUID   string         `gorm:"type:char(36);not null;uniqueIndex:idx_ra_submission_uuid"`
	CandidateName    string         `gorm:"type:varchar(255)"`
	CandidateEmail   string         `gorm:"type:varchar(255);index:idx_ra_candidate_email"`
	CandidatePhone   string         `gorm:"type:varchar(50)"`
	LocationsJSON    datatypes.JSON `gorm:"type:json"`
	SkillsJSON       datatypes.JSON `gorm:"type:json"`
	SectionsJSON     datatypes.JSON `gorm:"type:json"`
	ExperienceJSON   datatypes.JSON `gorm:"type:json"`
	ProjectsJSON     datatypes.JSON `gorm:"type:json"`
	ScoreMode        string         `gorm:"type:varchar(50);not null"`
	OverallScore     float64        `gorm:"type:double;index:idx_ra_overall_score"`
	ScoreDetailsJSON datatypes.JSON `gorm:"type:json"`
	FeedbackJSON     datatypes.JSON `gorm:"type:json"`
	Summary          string         `gorm:"type:text"`
	AnalyzedAt       time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	CreatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	ResumeSubmission *ResumeSubmission `gorm:"foreignKey:SubmissionUUID;references:SubmissionUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ResumeAnalysis) TableName() string {
	return "resume_analyses"
}

// JobApplication 岗位申请表
// 同一提交对同一岗位只能存在一条申请记录
type JobApplication struct {
	ApplicationID  uint64    `gorm:"primaryKey;autoIncrement"`
	SubmissionUUID string    `gorm:"type:char(36);not null;index:idx_ja_submission_uuid;uniqueIndex:idx_ja_submission_job_unique,priority:1"`
	JobID          string    `gorm:"type:char(36);not null;index:idx_ja_job_id_score,priority:1;uniqueIndex:idx_ja_submission_job_unique,priority:2"`
	OverallScore   *float64  `gorm:"type:double;index:idx_ja_job_id_score,priority:2"`
	Status         string    `gorm:"type:varchar(50);default:'SUBMITTED';index:idx_ja_status"`
	CreatedAt      time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt      time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	ResumeSubmission *ResumeSubmission `gorm:"foreignKey:SubmissionUUID;references:SubmissionUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Job              *Job              `gorm:"foreignKey:JobID;references:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (JobApplication) TableName() string {
	return "job_applications"
}

// StringToJSON 将字符串转换为datatypes.JSON
func StringToJSON(s string) datatypes.JSON {
	return datatypes.JSON(s)
}

// MarshalToJSON 将任意值序列化为datatypes.JSON
func MarshalToJSON(v interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
