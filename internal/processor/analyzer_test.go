package processor

import (
	"context"
	"testing"

	"resume-screener-go/internal/parser"
	"resume-screener-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExtractor 返回固定文本的提取器替身
type stubExtractor struct {
	text string
}

func (s *stubExtractor) Extract(ctx context.Context, doc types.Document) (types.NormalizedText, error) {
	return parser.Normalize(s.text), nil
}

const sampleResume = `Ravi Kumar
ravi.kumar@example.com
+91 98765 43210
Bangalore

SKILLS
Python, SQL, Docker, Redis

EXPERIENCE
Software Engineer at Acme
2021 - present
• Developed data pipelines in python

PROJECTS
Resume Screener
Tech Stack: Python, Redis
• Designed a scoring pipeline

EDUCATION
B.Tech in Computer Science`

func newTestAnalyzer(t *testing.T, text string) *ResumeAnalyzer {
	t.Helper()
	analyzer, err := NewResumeAnalyzer(&Components{Extractor: &stubExtractor{text: text}})
	require.NoError(t, err)
	return analyzer
}

func TestNewResumeAnalyzerRequiresExtractor(t *testing.T) {
	_, err := NewResumeAnalyzer(nil)
	assert.Error(t, err)
	_, err = NewResumeAnalyzer(&Components{})
	assert.Error(t, err)
}

func TestAnalyzeCompletenessMode(t *testing.T) {
	analyzer := newTestAnalyzer(t, sampleResume)

	result, err := analyzer.Analyze(context.Background(), types.Document{Content: []byte("x"), Kind: types.KindTXT}, nil)
	require.NoError(t, err)
	require.NotNil(t, result.Resume)
	require.NotNil(t, result.Score)
	require.NotNil(t, result.Feedback)

	// 无岗位要求时走完整度模式
	assert.Equal(t, types.ModeCompleteness, result.Score.Mode)
	require.NotNil(t, result.Score.Completeness)
	assert.Nil(t, result.Score.JobFit)

	assert.Equal(t, "Ravi Kumar", result.Resume.Details.Name)
	assert.Equal(t, "ravi.kumar@example.com", result.Resume.Details.Email)
	assert.Equal(t, "+919876543210", result.Resume.Details.Phone)
	assert.Contains(t, result.Resume.Details.Location, "Bangalore")

	assert.Contains(t, result.Resume.Education, "B.Tech")
	require.NotEmpty(t, result.Resume.Experience)
	assert.Equal(t, "Software Engineer at Acme", result.Resume.Experience[0].Title)
	require.NotEmpty(t, result.Resume.Projects)
	assert.Equal(t, []string{"Python", "Redis"}, result.Resume.Projects[0].TechStack)

	skills := make(map[string]bool)
	for _, m := range result.Resume.Skills {
		skills[m.Skill] = true
	}
	assert.True(t, skills["python"])
	assert.True(t, skills["redis"])

	assert.GreaterOrEqual(t, result.Score.Overall, 0.0)
	assert.LessOrEqual(t, result.Score.Overall, 100.0)
}

func TestAnalyzeJobFitMode(t *testing.T) {
	analyzer := newTestAnalyzer(t, sampleResume)
	req := &types.JobRequirements{
		Description:    "python developer with redis experience",
		RequiredSkills: []string{"python", "redis"},
	}

	result, err := analyzer.Analyze(context.Background(), types.Document{Content: []byte("x"), Kind: types.KindTXT}, req)
	require.NoError(t, err)

	assert.Equal(t, types.ModeJobFit, result.Score.Mode)
	require.NotNil(t, result.Score.JobFit)
	assert.Nil(t, result.Score.Completeness)

	jf := result.Score.JobFit
	expected := 0.5*jf.SkillScore + 0.3*jf.SemanticScore + 0.2*jf.SectionScore
	assert.InDelta(t, expected, jf.Overall, 0.01)
	assert.Equal(t, jf.Overall, result.Score.Overall)
}

func TestAnalyzeJobFitWithOnlyDescription(t *testing.T) {
	analyzer := newTestAnalyzer(t, sampleResume)
	req := &types.JobRequirements{Description: "backend developer"}

	result, err := analyzer.Analyze(context.Background(), types.Document{Content: []byte("x"), Kind: types.KindTXT}, req)
	require.NoError(t, err)

	// 只有岗位描述没有要求技能也进入岗位匹配模式，技能分量为0
	assert.Equal(t, types.ModeJobFit, result.Score.Mode)
	assert.Equal(t, 0.0, result.Score.JobFit.SkillScore)
}

func TestAnalyzeEmptyInput(t *testing.T) {
	analyzer := newTestAnalyzer(t, "")

	result, err := analyzer.Analyze(context.Background(), types.Document{Content: []byte("x"), Kind: types.KindTXT}, nil)
	require.NoError(t, err)

	// 空输入产出良构的空记录而不是错误
	require.NotNil(t, result.Resume)
	assert.Empty(t, result.Resume.Skills)
	assert.Empty(t, result.Resume.Experience)
	assert.Equal(t, 0.0, result.Score.Overall)
	assert.NotEmpty(t, result.Feedback.Suggestions)
}

func TestAnalyzeSummaryTruncation(t *testing.T) {
	long := ""
	for i := 0; i < 100; i++ {
		long += "lorem ipsum "
	}
	analyzer, err := NewResumeAnalyzer(&Components{Extractor: &stubExtractor{text: long}}, WithSummaryLength(50))
	require.NoError(t, err)

	result, err := analyzer.Analyze(context.Background(), types.Document{Content: []byte("x"), Kind: types.KindTXT}, nil)
	require.NoError(t, err)
	assert.Len(t, []rune(result.Resume.Summary), 53) // 50字符 + 省略号
}
