// Package export 负责将岗位排名导出为XLSX工作簿
package export

import (
	"fmt"
	"strings"

	"resume-screener-go/internal/types"

	"github.com/xuri/excelize/v2"
)

const rankingSheet = "Ranking"

// rankingHeaders 排名工作表的列头
var rankingHeaders = []string{
	"Rank",
	"Submission UUID",
	"Candidate Name",
	"Candidate Email",
	"Overall Score",
	"Status",
	"Top Skills",
}

// BuildRankingWorkbook 将排名结果写入XLSX工作簿并返回字节内容
// 输入应已按分数降序排列
func BuildRankingWorkbook(applicants []types.RankedApplicant) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(rankingSheet)
	if err != nil {
		return nil, fmt.Errorf("创建工作表失败: %w", err)
	}
	f.SetActiveSheet(index)

	// 删除excelize默认创建的Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("删除默认工作表失败: %w", err)
	}

	for i, h := range rankingHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(rankingSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, applicant := range applicants {
		row := i + 2
		values := []interface{}{
			i + 1,
			applicant.SubmissionUUID,
			applicant.CandidateName,
			applicant.CandidateEmail,
			applicant.Score,
			applicant.Status,
			strings.Join(applicant.TopSkills, ", "),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(rankingSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("序列化工作簿失败: %w", err)
	}
	return buf.Bytes(), nil
}
