package types

// DocumentKind 文档类型
type DocumentKind string

const (
	// KindPDF PDF文档
	KindPDF DocumentKind = "pdf"
	// KindDOCX Word文档
	KindDOCX DocumentKind = "docx"
	// KindTXT 纯文本文档
	KindTXT DocumentKind = "txt"
)

// Document 待解析的原始文档：字节内容 + 声明的类型
// 管道不持有文档，解析结束即丢弃
type Document struct {
	Content []byte
	Kind    DocumentKind
}

// NormalizedText 归一化文本的两个视图
// Display 保留原始行结构（章节头识别需要行边界）
// Matching 为折叠空白并转小写后的扁平字符串（技能匹配需要）
type NormalizedText struct {
	Display  string
	Matching string
}

// SectionKey 简历章节键
type SectionKey string

const (
	// SectionSkills 技能章节
	SectionSkills SectionKey = "skills"
	// SectionEducation 教育经历章节
	SectionEducation SectionKey = "education"
	// SectionExperience 工作经历章节
	SectionExperience SectionKey = "experience"
	// SectionProjects 项目经历章节
	SectionProjects SectionKey = "projects"
	// SectionCertifications 证书章节
	SectionCertifications SectionKey = "certifications"
	// SectionPublications 论文/出版物章节
	SectionPublications SectionKey = "publications"
	// SectionHobbies 兴趣爱好章节
	SectionHobbies SectionKey = "hobbies"
)

// SectionMap 章节名到原始文本块的映射，仅包含找到内容的章节
// 章节文本不含章节头行，行顺序与原文一致
type SectionMap map[SectionKey]string

// PersonalDetails 从原始文本抽取的个人信息，未识别的字段为空值
type PersonalDetails struct {
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"` // E.164格式
	Location []string `json:"location,omitempty"`
}

// ExperienceEntry 一段结构化的工作经历
type ExperienceEntry struct {
	Title    string   `json:"title"`
	Duration string   `json:"duration,omitempty"`
	Points   []string `json:"points,omitempty"`
}

// ProjectEntry 一段结构化的项目经历
type ProjectEntry struct {
	Name      string   `json:"name"`
	Duration  string   `json:"duration,omitempty"`
	TechStack []string `json:"tech_stack,omitempty"`
	Points    []string `json:"points,omitempty"`
}

// SkillMatch 技能表命中项
// Confidence 随独立提及次数单调不减，上限1.0
type SkillMatch struct {
	Skill      string  `json:"skill"`
	Confidence float64 `json:"confidence"`
}

// ScoreMode 评分模式
type ScoreMode string

const (
	// ModeCompleteness 画像完整度模式（无岗位描述）
	ModeCompleteness ScoreMode = "completeness"
	// ModeJobFit 岗位匹配模式（有岗位描述和要求技能）
	ModeJobFit ScoreMode = "job_fit"
)

// CompletenessScore 画像完整度得分的各分量（每项封顶于其权重）
type CompletenessScore struct {
	SkillScore      float64 `json:"skill_score"`      // 满分40
	ExperienceScore float64 `json:"experience_score"` // 满分25
	EducationScore  float64 `json:"education_score"`  // 满分15
	ContentScore    float64 `json:"content_score"`    // 满分20
	Overall         float64 `json:"overall"`
}

// JobFitScore 岗位匹配得分的各分量（各自0-100，按0.5/0.3/0.2加权）
type JobFitScore struct {
	SkillScore    float64 `json:"skill_score"`
	SemanticScore float64 `json:"semantic_score"`
	SectionScore  float64 `json:"section_score"`
	Overall       float64 `json:"overall"`
}

// ScoreBreakdown ATS评分结果，构造后不可变；重新评分总是完整重算
type ScoreBreakdown struct {
	Mode         ScoreMode          `json:"mode"`
	Overall      float64            `json:"overall"` // 0-100
	Completeness *CompletenessScore `json:"completeness,omitempty"`
	JobFit       *JobFitScore       `json:"job_fit,omitempty"`
}

// NarrativeTier 总体评价档位
type NarrativeTier string

const (
	// TierStrong 强（得分≥75）
	TierStrong NarrativeTier = "strong"
	// TierModerate 中（得分≥50）
	TierModerate NarrativeTier = "moderate"
	// TierWeak 弱
	TierWeak NarrativeTier = "weak"
)

// FeedbackReport 面向候选人的反馈，由评分结果派生，不独立持久化
type FeedbackReport struct {
	Tier        NarrativeTier `json:"tier"`
	Overall     string        `json:"overall"`
	Strengths   []string      `json:"strengths,omitempty"`
	Suggestions []string      `json:"suggestions"`
}

// JobRequirements 岗位要求包，由调用方提供
type JobRequirements struct {
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	RequiredDegree string   `json:"required_degree,omitempty"`
}

// ParsedResume 单次解析得到的结构化简历记录
type ParsedResume struct {
	Details        PersonalDetails   `json:"personal_details"`
	Sections       SectionMap        `json:"-"`
	SkillLines     []string          `json:"skill_lines,omitempty"` // 技能章节的原始行
	Skills         []SkillMatch      `json:"skills"`
	Experience     []ExperienceEntry `json:"experience"`
	Projects       []ProjectEntry    `json:"projects"`
	Education      string            `json:"education,omitempty"`
	Certifications string            `json:"certifications,omitempty"`
	Publications   string            `json:"publications,omitempty"`
	Hobbies        string            `json:"hobbies,omitempty"`
	Summary        string            `json:"summary,omitempty"`
	RawText        string            `json:"-"`
}

// AnalysisResult 一次管道调用的完整输出
type AnalysisResult struct {
	Resume   *ParsedResume   `json:"resume"`
	Score    *ScoreBreakdown `json:"score"`
	Feedback *FeedbackReport `json:"feedback"`
}

// RankedSubmission 批量评分后的排名条目
type RankedSubmission struct {
	SubmissionUUID string  `json:"submission_uuid"`
	Score          float64 `json:"score"`
	Status         string  `json:"status"`
}

// RankedApplicant 供招聘方查看的排名条目（含联系信息与技能摘要）
type RankedApplicant struct {
	SubmissionUUID string   `json:"submission_uuid"`
	CandidateName  string   `json:"candidate_name"`
	CandidateEmail string   `json:"candidate_email"`
	Score          float64  `json:"score"`
	Status         string   `json:"status"`
	TopSkills      []string `json:"top_skills,omitempty"`
}
