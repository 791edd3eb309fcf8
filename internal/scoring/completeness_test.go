package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCompletenessScore(t *testing.T) {
	// 6技能 6/12*40=20；2段经历 2/5*25=10；bachelor=10；1000字符 1000/2000*20=10
	score := CalculateCompletenessScore(6, 2, "Bachelor of Technology", 1000)
	assert.Equal(t, 20.0, score.SkillScore)
	assert.Equal(t, 10.0, score.ExperienceScore)
	assert.Equal(t, 10.0, score.EducationScore)
	assert.Equal(t, 10.0, score.ContentScore)
	assert.Equal(t, 50.0, score.Overall)
}

func TestCalculateCompletenessScoreThreeSkills(t *testing.T) {
	// 3技能 3/12*40=10；2段经历 10；B.Tech=10；1000字符=10 → 40
	score := CalculateCompletenessScore(3, 2, "B.Tech Computer Science", 1000)
	assert.Equal(t, 10.0, score.SkillScore)
	assert.Equal(t, 10.0, score.ExperienceScore)
	assert.Equal(t, 10.0, score.EducationScore)
	assert.Equal(t, 10.0, score.ContentScore)
	assert.Equal(t, 40.0, score.Overall)
}

func TestCalculateCompletenessScoreSaturation(t *testing.T) {
	// 超过饱和点的输入封顶于各分量权重
	score := CalculateCompletenessScore(100, 50, "PhD in Physics", 100000)
	assert.Equal(t, 40.0, score.SkillScore)
	assert.Equal(t, 25.0, score.ExperienceScore)
	assert.Equal(t, 15.0, score.EducationScore)
	assert.Equal(t, 20.0, score.ContentScore)
	assert.Equal(t, 100.0, score.Overall)
}

func TestCalculateCompletenessScoreEmpty(t *testing.T) {
	score := CalculateCompletenessScore(0, 0, "", 0)
	assert.Equal(t, 0.0, score.Overall)
}

func TestCalculateCompletenessScoreMonotonicity(t *testing.T) {
	base := CalculateCompletenessScore(3, 1, "bachelor", 500)

	// 增加任一信号都不应降低总分
	assert.GreaterOrEqual(t, CalculateCompletenessScore(4, 1, "bachelor", 500).Overall, base.Overall)
	assert.GreaterOrEqual(t, CalculateCompletenessScore(3, 2, "bachelor", 500).Overall, base.Overall)
	assert.GreaterOrEqual(t, CalculateCompletenessScore(3, 1, "master", 500).Overall, base.Overall)
	assert.GreaterOrEqual(t, CalculateCompletenessScore(3, 1, "bachelor", 1500).Overall, base.Overall)
}

func TestEducationScoreLadder(t *testing.T) {
	assert.Equal(t, 15.0, educationScore("PhD in CS"))
	assert.Equal(t, 12.0, educationScore("Master of Science"))
	assert.Equal(t, 12.0, educationScore("MBA from IIM"))
	assert.Equal(t, 10.0, educationScore("B.Tech in ECE"))
	assert.Equal(t, 6.0, educationScore("Diploma in Electronics"))
	assert.Equal(t, 0.0, educationScore("   "))
}
