package parser

import (
	"regexp"
	"strings"

	"resume-screener-go/internal/types"
)

var (
	blockSplitRe = regexp.MustCompile(`\n\s*\n`)
	// 年份区间：YYYY 可选地跟 present/current/另一个YYYY
	durationRe = regexp.MustCompile(`(?i)(19|20)\d{2}(\s*(?:[-–—]|to)?\s*(present|current|(19|20)\d{2}))?`)
)

const minPointLength = 3

// splitBlocks 按空行边界切块，并把每块切为去掉首尾空白的非空行
func splitBlocks(text string) [][]string {
	var blocks [][]string
	for _, block := range blockSplitRe.Split(text, -1) {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			clean := strings.TrimSpace(line)
			if clean != "" {
				lines = append(lines, clean)
			}
		}
		if len(lines) > 0 {
			blocks = append(blocks, lines)
		}
	}
	return blocks
}

// stripBullet 去掉行首的列表符号
func stripBullet(line string) string {
	return strings.TrimLeft(line, "•- ")
}

// ParseExperience 把工作经历章节文本解析为有序的结构化条目
// 每块第一行为职位/标题；年份区间作为duration（找到才附带）；
// 其余行去掉列表符号后长度超过3个字符的保留为要点。没有标题的块整体丢弃
func ParseExperience(sectionText string) []types.ExperienceEntry {
	if strings.TrimSpace(sectionText) == "" {
		return nil
	}

	var entries []types.ExperienceEntry
	for _, lines := range splitBlocks(sectionText) {
		entry := types.ExperienceEntry{
			Title:    lines[0],
			Duration: durationRe.FindString(strings.Join(lines, "\n")),
		}
		for _, line := range lines[1:] {
			clean := stripBullet(line)
			if len(clean) > minPointLength {
				entry.Points = append(entry.Points, clean)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// ParseProjects 把项目章节文本解析为有序的结构化条目
// 与经历解析一致，额外识别"tech stack"行：按逗号切出技术列表，不计入要点
func ParseProjects(sectionText string) []types.ProjectEntry {
	if strings.TrimSpace(sectionText) == "" {
		return nil
	}

	var entries []types.ProjectEntry
	for _, lines := range splitBlocks(sectionText) {
		entry := types.ProjectEntry{
			Name:     lines[0],
			Duration: durationRe.FindString(strings.Join(lines, "\n")),
		}
		for _, line := range lines[1:] {
			clean := stripBullet(line)
			if strings.Contains(strings.ToLower(clean), "tech stack") {
				entry.TechStack = parseTechStack(clean)
				continue
			}
			if len(clean) > minPointLength {
				entry.Points = append(entry.Points, clean)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// parseTechStack 取最后一个冒号之后的内容并按逗号切分
func parseTechStack(line string) []string {
	value := line
	if idx := strings.LastIndex(line, ":"); idx >= 0 {
		value = line[idx+1:]
	}
	var techs []string
	for _, t := range strings.Split(value, ",") {
		if clean := strings.TrimSpace(t); clean != "" {
			techs = append(techs, clean)
		}
	}
	return techs
}
