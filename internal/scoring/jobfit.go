package scoring

import (
	"math"
	"strings"

	"resume-screener-go/internal/types"
)

// 岗位匹配模式的权重拆分：技能50% + 语义30% + 章节质量20%
const (
	jobFitSkillWeight    = 0.5
	jobFitSemanticWeight = 0.3
	jobFitSectionWeight  = 0.2
)

// SkillMatchScore 按置信度加权计算要求技能的覆盖率，0-100
// 要求技能列表为空时返回0：结构性零贡献，而不是未定义或跳过该分量
func SkillMatchScore(resumeSkills []types.SkillMatch, requiredSkills []string) float64 {
	if len(requiredSkills) == 0 {
		return 0
	}

	byTerm := make(map[string]float64, len(resumeSkills))
	for _, m := range resumeSkills {
		byTerm[m.Skill] = m.Confidence
	}

	var weighted float64
	for _, required := range requiredSkills {
		weighted += byTerm[strings.ToLower(required)]
	}

	raw := weighted / float64(len(requiredSkills))
	return round2(math.Min(raw*100, 100))
}

// SectionQualityScore 经历/项目/证书章节的长度阈值打分，封顶100
func SectionQualityScore(sections types.SectionMap) float64 {
	score := 0.0

	experience := len(sections[types.SectionExperience])
	switch {
	case experience > 200:
		score += 40
	case experience > 80:
		score += 25
	}

	projects := len(sections[types.SectionProjects])
	switch {
	case projects > 100:
		score += 35
	case projects > 40:
		score += 20
	}

	if sections[types.SectionCertifications] != "" {
		score += 25
	}

	return math.Min(score, 100)
}

// CalculateJobFitScore 岗位匹配模式的ATS评分
// 各分量0-100，按固定权重加权后保留2位小数
func CalculateJobFitScore(resumeText, jobDescription string, resumeSkills []types.SkillMatch, sections types.SectionMap, requiredSkills []string) *types.JobFitScore {
	skillScore := SkillMatchScore(resumeSkills, requiredSkills)
	semanticScore := SemanticSimilarity(resumeText, jobDescription)
	sectionScore := SectionQualityScore(sections)

	overall := round2(jobFitSkillWeight*skillScore + jobFitSemanticWeight*semanticScore + jobFitSectionWeight*sectionScore)
	return &types.JobFitScore{
		SkillScore:    skillScore,
		SemanticScore: semanticScore,
		SectionScore:  sectionScore,
		Overall:       overall,
	}
}
