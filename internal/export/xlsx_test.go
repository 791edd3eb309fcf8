package export

import (
	"bytes"
	"testing"

	"resume-screener-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildRankingWorkbook(t *testing.T) {
	applicants := []types.RankedApplicant{
		{
			SubmissionUUID: "0190a1b2-0000-7000-8000-000000000001",
			CandidateName:  "Ravi Kumar",
			CandidateEmail: "ravi@example.com",
			Score:          87.5,
			Status:         "SUBMITTED",
			TopSkills:      []string{"python", "redis"},
		},
		{
			SubmissionUUID: "0190a1b2-0000-7000-8000-000000000002",
			CandidateName:  "Anita Sharma",
			CandidateEmail: "anita@example.com",
			Score:          63.0,
			Status:         "SHORTLISTED",
		},
	}

	data, err := BuildRankingWorkbook(applicants)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	// 只有Ranking一张工作表
	assert.Equal(t, []string{rankingSheet}, f.GetSheetList())

	header, err := f.GetCellValue(rankingSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Rank", header)

	rank, err := f.GetCellValue(rankingSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "1", rank)

	name, err := f.GetCellValue(rankingSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", name)

	skillsCell, err := f.GetCellValue(rankingSheet, "G2")
	require.NoError(t, err)
	assert.Equal(t, "python, redis", skillsCell)

	secondName, err := f.GetCellValue(rankingSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "Anita Sharma", secondName)
}

func TestBuildRankingWorkbookEmpty(t *testing.T) {
	data, err := BuildRankingWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(rankingSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Submission UUID", header)

	rows, err := f.GetRows(rankingSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
