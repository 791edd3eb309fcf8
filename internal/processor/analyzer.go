package processor

import (
	"context"
	"fmt"
	"strings"

	"resume-screener-go/internal/parser"
	"resume-screener-go/internal/scoring"
	"resume-screener-go/internal/tracing"
	"resume-screener-go/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const defaultSummaryLength = 400

// Components 聚合管道组件依赖，便于集中管理和测试替换
type Components struct {
	// Extractor 文本提取接口
	Extractor TextExtractor
}

// Settings 纯配置项，不包含业务组件
type Settings struct {
	// PhoneRegion 电话号码解析的默认地区
	PhoneRegion string
	// SummaryLength 摘要截取的字符数
	SummaryLength int
}

// SettingOpt Settings的函数式选项
type SettingOpt func(*Settings)

// WithPhoneRegion 配置电话号码解析地区
func WithPhoneRegion(region string) SettingOpt {
	return func(s *Settings) {
		s.PhoneRegion = region
	}
}

// WithSummaryLength 配置摘要长度
func WithSummaryLength(length int) SettingOpt {
	return func(s *Settings) {
		s.SummaryLength = length
	}
}

// ResumeAnalyzer 简历解析与评分管道
// 每次调用都是 (文档字节, 类型, 可选岗位要求) 的纯函数，内部没有可变状态；
// 不同文档的并发调用不需要任何同步
type ResumeAnalyzer struct {
	extractor     TextExtractor
	phoneRegion   string
	summaryLength int
}

// NewResumeAnalyzer 创建简历分析管道
func NewResumeAnalyzer(comp *Components, opts ...SettingOpt) (*ResumeAnalyzer, error) {
	if comp == nil || comp.Extractor == nil {
		return nil, fmt.Errorf("文本提取器不能为空")
	}

	set := &Settings{
		PhoneRegion:   parser.DefaultPhoneRegion,
		SummaryLength: defaultSummaryLength,
	}
	for _, opt := range opts {
		opt(set)
	}

	return &ResumeAnalyzer{
		extractor:     comp.Extractor,
		phoneRegion:   set.PhoneRegion,
		summaryLength: set.SummaryLength,
	}, nil
}

// jobFitRequested 判断是否进入岗位匹配评分模式
// 要求技能列表为空但有岗位描述也算：此时技能分量为结构性零贡献
func jobFitRequested(req *types.JobRequirements) bool {
	if req == nil {
		return false
	}
	return strings.TrimSpace(req.Description) != "" || len(req.RequiredSkills) > 0
}

// Analyze 执行完整解析评分管道
// 返回结构化记录 + 评分明细 + 反馈；输入越稀疏输出越空，但总是良构
func (a *ResumeAnalyzer) Analyze(ctx context.Context, doc types.Document, req *types.JobRequirements) (*types.AnalysisResult, error) {
	ctx, span := otel.Tracer("resume-screener/processor").Start(ctx, "ResumeAnalyzer.Analyze")
	defer span.End()
	span.SetAttributes(
		attribute.String("document.kind", string(doc.Kind)),
		attribute.Int("document.size_bytes", len(doc.Content)),
		attribute.Bool("job_fit_mode", jobFitRequested(req)),
	)

	normalized, err := a.extractor.Extract(ctx, doc)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeParser)
		return nil, fmt.Errorf("提取文档文本失败: %w", err)
	}

	// 章节切分与字段抽取相互独立，都只依赖归一化文本
	sections := parser.SplitSections(normalized.Display)
	details := parser.ExtractPersonalDetails(normalized.Display, normalized.Matching, a.phoneRegion)

	experience := parser.ParseExperience(sections[types.SectionExperience])
	projects := parser.ParseProjects(sections[types.SectionProjects])
	skills := parser.MatchSkillsInSections(sections, normalized.Matching)

	resume := &types.ParsedResume{
		Details:        details,
		Sections:       sections,
		SkillLines:     splitSkillLines(sections[types.SectionSkills]),
		Skills:         skills,
		Experience:     experience,
		Projects:       projects,
		Education:      sections[types.SectionEducation],
		Certifications: sections[types.SectionCertifications],
		Publications:   sections[types.SectionPublications],
		Hobbies:        sections[types.SectionHobbies],
		Summary:        buildSummary(normalized.Display, a.summaryLength),
		RawText:        normalized.Display,
	}

	result := &types.AnalysisResult{Resume: resume}

	if jobFitRequested(req) {
		jf := scoring.CalculateJobFitScore(normalized.Matching, req.Description, skills, sections, req.RequiredSkills)
		result.Score = &types.ScoreBreakdown{
			Mode:    types.ModeJobFit,
			Overall: jf.Overall,
			JobFit:  jf,
		}
		result.Feedback = scoring.GenerateJobFitFeedback(resume, jf)
	} else {
		cs := scoring.CalculateCompletenessScore(len(skills), len(experience), resume.Education, len(resume.RawText))
		result.Score = &types.ScoreBreakdown{
			Mode:         types.ModeCompleteness,
			Overall:      cs.Overall,
			Completeness: cs,
		}
		result.Feedback = scoring.GenerateCompletenessFeedback(resume, cs)
	}

	span.SetAttributes(
		attribute.Float64("score.overall", result.Score.Overall),
		attribute.Int("skills.matched", len(skills)),
		attribute.Int("sections.found", len(sections)),
		attribute.String("resume.summary", tracing.SafeResumeContent(resume.Summary)),
	)
	return result, nil
}

// splitSkillLines 技能章节的原始行列表
func splitSkillLines(sectionText string) []string {
	if sectionText == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(sectionText, "\n") {
		if clean := strings.TrimSpace(line); clean != "" {
			lines = append(lines, clean)
		}
	}
	return lines
}

// buildSummary 取正文前若干字符作为摘要
func buildSummary(rawText string, length int) string {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}
	return string(runes[:length]) + "..."
}
