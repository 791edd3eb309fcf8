package parser

import (
	"testing"

	"resume-screener-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchSkillsWholeWord(t *testing.T) {
	// java不应命中javascript内部
	matches := MatchSkills("expert in javascript and react")

	skills := make(map[string]float64)
	for _, m := range matches {
		skills[m.Skill] = m.Confidence
	}
	assert.Contains(t, skills, "javascript")
	assert.Contains(t, skills, "react")
	assert.NotContains(t, skills, "java")
	// sql不应命中mysql内部
	matches = MatchSkills("worked with mysql daily")
	skills = make(map[string]float64)
	for _, m := range matches {
		skills[m.Skill] = m.Confidence
	}
	assert.Contains(t, skills, "mysql")
	assert.NotContains(t, skills, "sql")
}

func TestMatchSkillsConfidence(t *testing.T) {
	// 出现1次 → 1/3，出现3次及以上饱和到1.0
	matches := MatchSkills("python once here")
	require.Len(t, matches, 1)
	assert.Equal(t, "python", matches[0].Skill)
	assert.InDelta(t, 0.33, matches[0].Confidence, 0.001)

	matches = MatchSkills("python python python python")
	require.Len(t, matches, 1)
	assert.Equal(t, 1.0, matches[0].Confidence)
}

func TestMatchSkillsOrdering(t *testing.T) {
	// python出现2次，java出现1次，按置信度降序
	matches := MatchSkills("python and java, then python again")
	require.Len(t, matches, 2)
	assert.Equal(t, "python", matches[0].Skill)
	assert.InDelta(t, 0.67, matches[0].Confidence, 0.001)
	assert.Equal(t, "java", matches[1].Skill)
}

func TestMatchSkillsEmpty(t *testing.T) {
	assert.Nil(t, MatchSkills(""))
	assert.Nil(t, MatchSkills("no known technologies mentioned"))
}

func TestMatchSkillsInSections(t *testing.T) {
	sections := types.SectionMap{
		types.SectionSkills:  "python, sql",
		types.SectionHobbies: "docker racing",
	}
	// 只有技能/经历/项目章节参与匹配，兴趣章节里的词不命中
	matches := MatchSkillsInSections(sections, "python, sql docker racing")
	skills := make(map[string]bool)
	for _, m := range matches {
		skills[m.Skill] = true
	}
	assert.True(t, skills["python"])
	assert.True(t, skills["sql"])
	assert.False(t, skills["docker"])

	// 三个章节都缺失时回退到全文
	matches = MatchSkillsInSections(types.SectionMap{}, "kubernetes enthusiast")
	require.Len(t, matches, 1)
	assert.Equal(t, "kubernetes", matches[0].Skill)
}

func TestNormalizeForMatching(t *testing.T) {
	assert.Equal(t, "c and node js", NormalizeForMatching("  C# and Node.js!  "))
}
