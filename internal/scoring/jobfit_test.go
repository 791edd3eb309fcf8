package scoring

import (
	"strings"
	"testing"

	"resume-screener-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillMatchScore(t *testing.T) {
	resumeSkills := []types.SkillMatch{
		{Skill: "python", Confidence: 1.0},
		{Skill: "java", Confidence: 0.33},
	}

	// (1.0 + 0.33) / 2 * 100 = 66.5；要求技能大小写不敏感
	assert.Equal(t, 66.5, SkillMatchScore(resumeSkills, []string{"Python", "Java"}))

	// 两项要求只命中一项满置信度 → 50
	assert.Equal(t, 50.0, SkillMatchScore([]types.SkillMatch{{Skill: "python", Confidence: 1.0}}, []string{"python", "sql"}))

	// 全部命中且置信度饱和时为满分
	full := []types.SkillMatch{{Skill: "python", Confidence: 1.0}}
	assert.Equal(t, 100.0, SkillMatchScore(full, []string{"python"}))

	// 无一命中
	assert.Equal(t, 0.0, SkillMatchScore(resumeSkills, []string{"rust"}))
}

func TestSkillMatchScoreNoRequiredSkills(t *testing.T) {
	// 要求技能为空时该分量为结构性零贡献
	assert.Equal(t, 0.0, SkillMatchScore([]types.SkillMatch{{Skill: "python", Confidence: 1.0}}, nil))
}

func TestSectionQualityScore(t *testing.T) {
	assert.Equal(t, 0.0, SectionQualityScore(types.SectionMap{}))

	// 长经历40 + 长项目35 + 有证书25 = 100
	rich := types.SectionMap{
		types.SectionExperience:     strings.Repeat("x", 250),
		types.SectionProjects:       strings.Repeat("y", 150),
		types.SectionCertifications: "AWS Certified Solutions Architect",
	}
	assert.Equal(t, 100.0, SectionQualityScore(rich))

	// 中等长度走低档
	medium := types.SectionMap{
		types.SectionExperience: strings.Repeat("x", 100),
		types.SectionProjects:   strings.Repeat("y", 60),
	}
	assert.Equal(t, 45.0, SectionQualityScore(medium))
}

func TestCalculateJobFitScorePerfect(t *testing.T) {
	text := "senior python engineer with production redis experience"
	sections := types.SectionMap{
		types.SectionExperience:     strings.Repeat("x", 250),
		types.SectionProjects:       strings.Repeat("y", 150),
		types.SectionCertifications: "CKA",
	}
	skills := []types.SkillMatch{
		{Skill: "python", Confidence: 1.0},
		{Skill: "redis", Confidence: 1.0},
	}

	// 三个分量都是100时总分恰好为100
	score := CalculateJobFitScore(text, text, skills, sections, []string{"python", "redis"})
	assert.Equal(t, 100.0, score.SkillScore)
	assert.Equal(t, 100.0, score.SemanticScore)
	assert.Equal(t, 100.0, score.SectionScore)
	assert.Equal(t, 100.0, score.Overall)
}

func TestCalculateJobFitScore(t *testing.T) {
	resumeText := "experienced python developer building backend services with redis and sql"
	jobDescription := "looking for a python developer with redis experience for backend services"
	resumeSkills := []types.SkillMatch{
		{Skill: "python", Confidence: 1.0},
		{Skill: "redis", Confidence: 0.67},
		{Skill: "sql", Confidence: 0.33},
	}
	sections := types.SectionMap{
		types.SectionExperience: strings.Repeat("x", 250),
	}

	score := CalculateJobFitScore(resumeText, jobDescription, resumeSkills, sections, []string{"python", "redis"})
	require.NotNil(t, score)

	// 各分量均在0-100内
	assert.GreaterOrEqual(t, score.SkillScore, 0.0)
	assert.LessOrEqual(t, score.SkillScore, 100.0)
	assert.GreaterOrEqual(t, score.SemanticScore, 0.0)
	assert.LessOrEqual(t, score.SemanticScore, 100.0)

	// (1.0 + 0.67) / 2 * 100
	assert.Equal(t, 83.5, score.SkillScore)
	assert.Equal(t, 40.0, score.SectionScore)

	// 总分为固定权重0.5/0.3/0.2的加权和
	expected := 0.5*score.SkillScore + 0.3*score.SemanticScore + 0.2*score.SectionScore
	assert.InDelta(t, expected, score.Overall, 0.01)
	assert.GreaterOrEqual(t, score.Overall, 0.0)
	assert.LessOrEqual(t, score.Overall, 100.0)
}
