package processor

import (
	"testing"

	"resume-screener-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankDescendingOrder(t *testing.T) {
	submissions := []types.RankedSubmission{
		{SubmissionUUID: "a", Score: 41.5},
		{SubmissionUUID: "b", Score: 87.2},
		{SubmissionUUID: "c", Score: 63.0},
	}

	ranked := Rank(submissions)
	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].SubmissionUUID)
	assert.Equal(t, "c", ranked[1].SubmissionUUID)
	assert.Equal(t, "a", ranked[2].SubmissionUUID)

	// 输入切片不被修改
	assert.Equal(t, "a", submissions[0].SubmissionUUID)
}

func TestRankStableOnTies(t *testing.T) {
	submissions := []types.RankedSubmission{
		{SubmissionUUID: "first", Score: 50},
		{SubmissionUUID: "second", Score: 50},
		{SubmissionUUID: "third", Score: 50},
	}

	ranked := Rank(submissions)
	assert.Equal(t, "first", ranked[0].SubmissionUUID)
	assert.Equal(t, "second", ranked[1].SubmissionUUID)
	assert.Equal(t, "third", ranked[2].SubmissionUUID)
}

func TestRankApplicants(t *testing.T) {
	applicants := []types.RankedApplicant{
		{SubmissionUUID: "a", CandidateName: "Anita", Score: 55},
		{SubmissionUUID: "b", CandidateName: "Ravi", Score: 91},
	}

	ranked := RankApplicants(applicants)
	assert.Equal(t, "b", ranked[0].SubmissionUUID)
	assert.Equal(t, "a", ranked[1].SubmissionUUID)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.Empty(t, RankApplicants(nil))
}
