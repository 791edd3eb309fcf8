// Package scoring 实现两种ATS评分模式和反馈生成
// 所有函数都是已抽取结构化数据的纯函数：稀疏输入退化为各分量的代数零值，从不报错
package scoring

import (
	"math"
	"strings"

	"resume-screener-go/internal/types"
)

// 画像完整度模式的权重拆分
const (
	completenessSkillWeight      = 40.0
	completenessExperienceWeight = 25.0
	completenessEducationWeight  = 15.0
	completenessContentWeight    = 20.0

	// 饱和点：12个技能、5段经历、2000字符正文视为满分画像
	skillSaturation      = 12.0
	experienceSaturation = 5.0
	contentSaturation    = 2000.0
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// educationScore 教育文本关键词的阶梯打分
func educationScore(educationText string) float64 {
	edu := strings.ToLower(educationText)
	switch {
	case strings.Contains(edu, "phd"):
		return 15
	case strings.Contains(edu, "master"), strings.Contains(edu, "m.tech"), strings.Contains(edu, "mba"):
		return 12
	case strings.Contains(edu, "bachelor"), strings.Contains(edu, "b.tech"):
		return 10
	case strings.TrimSpace(edu) != "":
		return 6
	default:
		return 0
	}
}

// CalculateCompletenessScore 无岗位描述时的画像完整度评分
// 四个独立信号各自封顶于其权重后相加，总分封顶100、保留2位小数。
// 单调性：增加技能、经历条目、更强的学历关键词或更多正文都不会降低总分
func CalculateCompletenessScore(uniqueSkillCount, experienceEntryCount int, educationText string, rawTextLength int) *types.CompletenessScore {
	skill := math.Min(float64(uniqueSkillCount)/skillSaturation, 1) * completenessSkillWeight
	experience := math.Min(float64(experienceEntryCount)/experienceSaturation, 1) * completenessExperienceWeight
	education := educationScore(educationText)
	content := math.Min(float64(rawTextLength)/contentSaturation, 1) * completenessContentWeight

	overall := round2(math.Min(skill+experience+education+content, 100))
	return &types.CompletenessScore{
		SkillScore:      round2(skill),
		ExperienceScore: round2(experience),
		EducationScore:  education,
		ContentScore:    round2(content),
		Overall:         overall,
	}
}
