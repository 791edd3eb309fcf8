package scoring

import (
	"strings"

	"resume-screener-go/internal/types"
)

// 建议规则中的阈值
const (
	lowScoreBand      = 40.0
	moderateScoreBand = 60.0
	fewSkillsCount    = 5
	minWordCount      = 250
)

// actionVerbs 强动作动词集合，简历正文缺少任何一个时触发建议
var actionVerbs = []string{"developed", "designed", "implemented", "built", "optimized"}

// 三档总体评价文案
const (
	strongNarrative   = "Your resume is ATS-friendly and well-structured. You are a strong candidate."
	moderateNarrative = "Your resume is moderately ATS-optimized but can be improved further."
	weakNarrative     = "Your resume needs improvement to perform well in ATS screening."
)

// narrativeFor 按得分阈值选择总体评价档位
func narrativeFor(score float64) (types.NarrativeTier, string) {
	switch {
	case score >= 75:
		return types.TierStrong, strongNarrative
	case score >= 50:
		return types.TierModerate, moderateNarrative
	default:
		return types.TierWeak, weakNarrative
	}
}

// collectStrengths 画像完整度规则派生的优势陈述，同时返回结构性得分
// 结构性得分只用于完整度反馈的档位选择，不是ATS评分
func collectStrengths(resume *types.ParsedResume) ([]string, float64) {
	var strengths []string
	score := 0.0

	if len(resume.Skills) > 0 {
		score += 40
		strengths = append(strengths, "Your resume includes relevant technical skills.")
	}
	if len(resume.Experience) > 0 {
		score += 25
		strengths = append(strengths, "Work experience section is present.")
	}
	if len(resume.Projects) > 0 {
		score += 20
		strengths = append(strengths, "Projects section adds practical credibility.")
	}
	if strings.TrimSpace(resume.Education) != "" {
		score += 15
		strengths = append(strengths, "Education details are clearly mentioned.")
	}

	return strengths, score
}

// suggestionRules 固定顺序的建议规则表，每条规则至多追加一条建议
// atsScore 为当前评分模式下的总分（规则1的低分档位依赖它）
func suggestionRules(resume *types.ParsedResume, atsScore float64) []string {
	var suggestions []string
	rawText := strings.ToLower(resume.RawText)

	if atsScore < lowScoreBand {
		suggestions = append(suggestions, "Your ATS score is very low. Improve keyword matching and add relevant technical skills.")
	} else if atsScore < moderateScoreBand {
		suggestions = append(suggestions, "Your ATS score is moderate. Add more role-specific keywords and measurable achievements.")
	}

	if len(resume.Skills) == 0 {
		suggestions = append(suggestions, "No technical skills detected. Add a dedicated 'Skills' section with tools and technologies.")
	} else if len(resume.Skills) < fewSkillsCount {
		suggestions = append(suggestions, "Add more relevant technical skills to strengthen your profile.")
	}

	if len(resume.Projects) == 0 {
		suggestions = append(suggestions, "Projects section is missing. Add 2-3 practical projects with clear descriptions and impact.")
	}

	if len(resume.Experience) == 0 {
		suggestions = append(suggestions, "No work experience detected. Consider adding internships or practical experience.")
	}

	if strings.TrimSpace(resume.Education) == "" {
		suggestions = append(suggestions, "Education details are missing. Add degree, university name and year.")
	}

	if len(strings.Fields(rawText)) < minWordCount {
		suggestions = append(suggestions, "Resume is too short. Add more details about projects, skills and responsibilities.")
	}

	hasActionVerb := false
	for _, verb := range actionVerbs {
		if strings.Contains(rawText, verb) {
			hasActionVerb = true
			break
		}
	}
	if !hasActionVerb {
		suggestions = append(suggestions, "Use strong action verbs like 'Developed', 'Designed', 'Implemented' to improve impact.")
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Your resume looks strong. Consider tailoring it according to specific job descriptions.")
	}

	return suggestions
}

// GenerateCompletenessFeedback 完整度模式的反馈
// 档位由结构性得分（技能40/经历25/项目20/教育15）决定
func GenerateCompletenessFeedback(resume *types.ParsedResume, score *types.CompletenessScore) *types.FeedbackReport {
	strengths, structural := collectStrengths(resume)
	tier, narrative := narrativeFor(structural)

	overall := 0.0
	if score != nil {
		overall = score.Overall
	}

	return &types.FeedbackReport{
		Tier:        tier,
		Overall:     narrative,
		Strengths:   strengths,
		Suggestions: suggestionRules(resume, overall),
	}
}

// GenerateJobFitFeedback 岗位匹配模式的反馈，档位由匹配总分决定
func GenerateJobFitFeedback(resume *types.ParsedResume, score *types.JobFitScore) *types.FeedbackReport {
	overall := 0.0
	if score != nil {
		overall = score.Overall
	}

	strengths, _ := collectStrengths(resume)
	tier, narrative := narrativeFor(overall)

	return &types.FeedbackReport{
		Tier:        tier,
		Overall:     narrative,
		Strengths:   strengths,
		Suggestions: suggestionRules(resume, overall),
	}
}
