package scoring

import (
	"strings"
	"testing"

	"resume-screener-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// richResume 四个结构信号齐全的简历，结构性得分40+25+20+15=100
func richResume() *types.ParsedResume {
	return &types.ParsedResume{
		Skills:     []types.SkillMatch{{Skill: "python", Confidence: 1.0}, {Skill: "sql", Confidence: 0.67}, {Skill: "docker", Confidence: 0.67}, {Skill: "redis", Confidence: 0.33}, {Skill: "git", Confidence: 0.33}},
		Experience: []types.ExperienceEntry{{Title: "Engineer"}},
		Projects:   []types.ProjectEntry{{Name: "Screener"}},
		Education:  "B.Tech in Computer Science",
		RawText:    "developed and designed systems " + strings.Repeat("engineering delivery detail ", 100),
	}
}

func TestNarrativeTiers(t *testing.T) {
	tier, _ := narrativeFor(80)
	assert.Equal(t, types.TierStrong, tier)
	tier, _ = narrativeFor(75)
	assert.Equal(t, types.TierStrong, tier)
	tier, _ = narrativeFor(60)
	assert.Equal(t, types.TierModerate, tier)
	tier, _ = narrativeFor(50)
	assert.Equal(t, types.TierModerate, tier)
	tier, _ = narrativeFor(49.99)
	assert.Equal(t, types.TierWeak, tier)
}

func TestGenerateCompletenessFeedbackRich(t *testing.T) {
	resume := richResume()
	score := &types.CompletenessScore{Overall: 85}

	report := GenerateCompletenessFeedback(resume, score)
	require.NotNil(t, report)

	// 档位由结构性得分决定，四项齐全为strong
	assert.Equal(t, types.TierStrong, report.Tier)
	assert.Len(t, report.Strengths, 4)
	// 没有触发任何建议规则时必须有一条兜底建议
	assert.NotEmpty(t, report.Suggestions)
}

func TestGenerateCompletenessFeedbackSparse(t *testing.T) {
	resume := &types.ParsedResume{RawText: "short text"}
	score := &types.CompletenessScore{Overall: 5}

	report := GenerateCompletenessFeedback(resume, score)
	require.NotNil(t, report)
	assert.Equal(t, types.TierWeak, report.Tier)
	assert.Empty(t, report.Strengths)

	joined := strings.Join(report.Suggestions, "\n")
	assert.Contains(t, joined, "very low")
	assert.Contains(t, joined, "No technical skills detected")
	assert.Contains(t, joined, "Projects section is missing")
	assert.Contains(t, joined, "No work experience detected")
	assert.Contains(t, joined, "Education details are missing")
	assert.Contains(t, joined, "too short")
	assert.Contains(t, joined, "action verbs")
}

func TestGenerateJobFitFeedbackTierFollowsScore(t *testing.T) {
	resume := richResume()

	report := GenerateJobFitFeedback(resume, &types.JobFitScore{Overall: 55})
	assert.Equal(t, types.TierModerate, report.Tier)

	report = GenerateJobFitFeedback(resume, &types.JobFitScore{Overall: 30})
	assert.Equal(t, types.TierWeak, report.Tier)
	// 低分档触发第一条建议规则
	assert.Contains(t, strings.Join(report.Suggestions, "\n"), "very low")
}

func TestSuggestionRulesFewSkills(t *testing.T) {
	resume := richResume()
	resume.Skills = resume.Skills[:2]

	suggestions := suggestionRules(resume, 80)
	assert.Contains(t, strings.Join(suggestions, "\n"), "Add more relevant technical skills")
}
