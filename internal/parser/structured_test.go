package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExperience(t *testing.T) {
	text := `Software Engineer at Acme
2019 - 2022
• Built data pipelines for ingestion
• Led a team of four engineers

Backend Intern
Wrote unit tests for the billing module`

	entries := ParseExperience(text)
	require.Len(t, entries, 2)

	assert.Equal(t, "Software Engineer at Acme", entries[0].Title)
	assert.Equal(t, "2019 - 2022", entries[0].Duration)
	assert.Contains(t, entries[0].Points, "Built data pipelines for ingestion")
	assert.Contains(t, entries[0].Points, "Led a team of four engineers")

	assert.Equal(t, "Backend Intern", entries[1].Title)
	assert.Equal(t, "", entries[1].Duration)
	assert.Equal(t, []string{"Wrote unit tests for the billing module"}, entries[1].Points)
}

func TestParseExperienceDurationToPresent(t *testing.T) {
	entries := ParseExperience("Senior Engineer\n2021 to present\n• Owns the payments platform")
	require.Len(t, entries, 1)
	assert.Equal(t, "2021 to present", entries[0].Duration)
}

func TestParseExperienceEmpty(t *testing.T) {
	assert.Nil(t, ParseExperience(""))
	assert.Nil(t, ParseExperience("   \n  "))
}

func TestParseProjects(t *testing.T) {
	text := `Resume Screener
2023
Tech Stack: Go, Redis, MySQL
• Parses resumes and scores them against job descriptions

Chat Server
- Realtime rooms over websockets`

	entries := ParseProjects(text)
	require.Len(t, entries, 2)

	assert.Equal(t, "Resume Screener", entries[0].Name)
	assert.Equal(t, "2023", entries[0].Duration)
	assert.Equal(t, []string{"Go", "Redis", "MySQL"}, entries[0].TechStack)
	// tech stack行不计入要点
	assert.NotContains(t, entries[0].Points, "Tech Stack: Go, Redis, MySQL")
	assert.Contains(t, entries[0].Points, "Parses resumes and scores them against job descriptions")

	assert.Equal(t, "Chat Server", entries[1].Name)
	assert.Empty(t, entries[1].TechStack)
	assert.Equal(t, []string{"Realtime rooms over websockets"}, entries[1].Points)
}
