package parser

import (
	"regexp"
	"strings"

	"resume-screener-go/internal/types"
)

// sectionHeader 单个章节键及其头部行同义词
type sectionHeader struct {
	Key      types.SectionKey
	Synonyms []string
}

// sectionHeaderTable 固定的章节头同义词表
// 使用切片而不是map，保证行匹配到多个章节时的判定顺序是确定的：
// 排在前面的章节键优先
var sectionHeaderTable = []sectionHeader{
	{types.SectionSkills, []string{"skills", "technical skills", "core skills"}},
	{types.SectionEducation, []string{"education", "academics", "academic background"}},
	{types.SectionExperience, []string{"experience", "work experience", "professional experience", "employment", "employment history"}},
	{types.SectionProjects, []string{"projects", "academic projects", "key projects", "relevant projects", "project experience"}},
	{types.SectionCertifications, []string{"certifications", "certificates"}},
	{types.SectionPublications, []string{"publications", "research"}},
	{types.SectionHobbies, []string{"hobbies", "interests"}},
}

var nonLetterRe = regexp.MustCompile(`[^a-z\s]`)

// matchSectionHeader 判断一行归一化后是否命中某个章节头
// 返回命中的章节键；未命中返回空串
func matchSectionHeader(line string) (types.SectionKey, bool) {
	normalized := nonLetterRe.ReplaceAllString(strings.ToLower(line), "")
	for _, h := range sectionHeaderTable {
		for _, syn := range h.Synonyms {
			if strings.Contains(normalized, syn) {
				return h.Key, true
			}
		}
	}
	return "", false
}

// SplitSections 按章节头行把文本切分为章节映射
// 章节头行本身被丢弃；出现在任何章节头之前的行被丢弃；
// 没有累积到内容的章节不出现在结果里
func SplitSections(text string) types.SectionMap {
	accumulated := make(map[types.SectionKey][]string)
	var current types.SectionKey
	haveSection := false

	for _, line := range strings.Split(text, "\n") {
		clean := strings.TrimSpace(line)

		if key, ok := matchSectionHeader(clean); ok {
			current = key
			haveSection = true
			continue
		}

		if haveSection && clean != "" {
			accumulated[current] = append(accumulated[current], clean)
		}
	}

	sections := make(types.SectionMap, len(accumulated))
	for key, lines := range accumulated {
		joined := strings.TrimSpace(strings.Join(lines, "\n"))
		if joined != "" {
			sections[key] = joined
		}
	}
	return sections
}
