package parser

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"resume-screener-go/internal/types"
)

// skillCategory 技能表中的一个类别
type skillCategory struct {
	Category string
	Terms    []string
}

// skillTaxonomy 固定技能表：类别 → 规范化小写技能词
// 进程启动后只读，可被任意数量的并发调用共享
var skillTaxonomy = []skillCategory{
	{"programming", []string{"python", "java", "c++", "javascript", "typescript", "rust", "kotlin"}},
	{"web", []string{"html", "css", "react", "node", "flask", "django", "spring", "vue"}},
	{"database", []string{"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch"}},
	{"ai_ml", []string{"machine learning", "deep learning", "nlp", "data science", "computer vision", "tensorflow", "pytorch"}},
	{"tools", []string{"git", "docker", "kubernetes", "aws", "azure", "linux", "jenkins", "kafka"}},
}

// allSkillTerms 扁平化后的技能词，保持技能表的枚举顺序，剔除单字符词
var allSkillTerms []string

// skillTermSet 小写技能词集合，用于地点抽取时排除技能词
var skillTermSet map[string]bool

func init() {
	skillTermSet = make(map[string]bool)
	for _, cat := range skillTaxonomy {
		for _, term := range cat.Terms {
			if len(term) <= 1 || skillTermSet[term] {
				continue
			}
			skillTermSet[term] = true
			allSkillTerms = append(allSkillTerms, term)
		}
	}
}

// isTaxonomyTerm 判断一个小写词是否在技能表内
func isTaxonomyTerm(term string) bool {
	return skillTermSet[term]
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)

// NormalizeForMatching 技能匹配前的文本归一化：
// 小写、非字母数字替换为空格、折叠空白
func NormalizeForMatching(text string) string {
	text = strings.ToLower(text)
	text = nonAlnumRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// countWholeWord 统计term在归一化文本中的整词出现次数
// 整词要求两侧不是字母数字，因此"java"不会命中"javascript"内部
func countWholeWord(text, term string) int {
	count := 0
	start := 0
	for {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			break
		}
		pos := start + idx
		end := pos + len(term)
		if isWordBoundary(text, pos, end) {
			count++
		}
		start = end
	}
	return count
}

// MatchSkills 在文本中匹配技能表并给出置信度
// 置信度 = min(1.0, 出现次数/3)，每个技能词至多产出一条；
// 结果按置信度降序，平局按技能表枚举顺序
func MatchSkills(text string) []types.SkillMatch {
	normalized := NormalizeForMatching(text)
	if normalized == "" {
		return nil
	}

	var matches []types.SkillMatch
	for _, term := range allSkillTerms {
		count := countWholeWord(normalized, term)
		if count == 0 {
			continue
		}
		confidence := math.Min(1.0, float64(count)/3)
		matches = append(matches, types.SkillMatch{
			Skill:      term,
			Confidence: math.Round(confidence*100) / 100,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// MatchSkillsInSections 章节感知的技能匹配
// 将技能/经历/项目三个章节的文本拼接后匹配；三个章节都缺失时回退到全文。
// 章节边界识别成功时，这条路径的命中精度更高
func MatchSkillsInSections(sections types.SectionMap, fullText string) []types.SkillMatch {
	parts := make([]string, 0, 3)
	for _, key := range []types.SectionKey{types.SectionSkills, types.SectionExperience, types.SectionProjects} {
		if block, ok := sections[key]; ok {
			parts = append(parts, block)
		}
	}

	combined := strings.TrimSpace(strings.Join(parts, " "))
	if combined == "" {
		return MatchSkills(fullText)
	}
	return MatchSkills(combined)
}
