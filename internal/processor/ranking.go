package processor

import (
	"sort"

	"resume-screener-go/internal/types"
)

// Rank 按得分降序返回新的排名切片
// 稳定排序：同分条目保持输入的枚举顺序，同样的输入总产出同样的顺序
func Rank(submissions []types.RankedSubmission) []types.RankedSubmission {
	ranked := make([]types.RankedSubmission, len(submissions))
	copy(ranked, submissions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// RankApplicants 招聘方视图的排名，规则与Rank一致
func RankApplicants(applicants []types.RankedApplicant) []types.RankedApplicant {
	ranked := make([]types.RankedApplicant, len(applicants))
	copy(ranked, applicants)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
