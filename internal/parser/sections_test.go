package parser

import (
	"testing"

	"resume-screener-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSectionsBasic(t *testing.T) {
	text := `Ravi Kumar
ravi@example.com

SKILLS
Python, SQL, Docker

EXPERIENCE
Software Engineer at Acme
Built data pipelines

EDUCATION
B.Tech in Computer Science`

	sections := SplitSections(text)

	assert.Equal(t, "Python, SQL, Docker", sections[types.SectionSkills])
	assert.Equal(t, "Software Engineer at Acme\nBuilt data pipelines", sections[types.SectionExperience])
	assert.Equal(t, "B.Tech in Computer Science", sections[types.SectionEducation])
	// 章节头之前的内容不归入任何章节
	assert.NotContains(t, sections[types.SectionSkills], "Ravi Kumar")
}

func TestSplitSectionsSynonyms(t *testing.T) {
	text := "Technical Skills\njava, spring\nWork Experience\nBackend Developer\nAcademic Projects\nChat server"
	sections := SplitSections(text)

	assert.Equal(t, "java, spring", sections[types.SectionSkills])
	assert.Equal(t, "Backend Developer", sections[types.SectionExperience])
	assert.Equal(t, "Chat server", sections[types.SectionProjects])
}

func TestSplitSectionsHeaderPrecedence(t *testing.T) {
	// 行同时命中多个章节词时，表中靠前的章节键优先
	key, ok := matchSectionHeader("Skills and Experience")
	assert.True(t, ok)
	assert.Equal(t, types.SectionSkills, key)
}

func TestSplitSectionsEmptySectionOmitted(t *testing.T) {
	// 紧跟另一个章节头、没有累积内容的章节不出现在结果里
	sections := SplitSections("PROJECTS\nCERTIFICATIONS\nAWS Certified")
	_, hasProjects := sections[types.SectionProjects]
	assert.False(t, hasProjects)
	assert.Equal(t, "AWS Certified", sections[types.SectionCertifications])
}

func TestSplitSectionsWithSkillMatching(t *testing.T) {
	text := "Skills\npython\njava\n\nExperience\nBackend Developer\n- built APIs"
	sections := SplitSections(text)

	assert.Equal(t, "python\njava", sections[types.SectionSkills])
	assert.Equal(t, "Backend Developer\n- built APIs", sections[types.SectionExperience])

	matches := MatchSkillsInSections(sections, text)
	require.Len(t, matches, 2)
	for _, m := range matches {
		assert.InDelta(t, 0.33, m.Confidence, 0.001)
	}
}

func TestSplitSectionsNoHeaders(t *testing.T) {
	assert.Empty(t, SplitSections("just a plain paragraph with no structure"))
}
