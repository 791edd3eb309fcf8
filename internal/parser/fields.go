package parser

import (
	"regexp"
	"sort"
	"strings"

	"resume-screener-go/internal/types"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion 电话号码解析的默认地区
const DefaultPhoneRegion = "IN"

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	// 电话候选串：以可选+号开头的一段数字，中间允许空格、括号、连字符
	phoneCandidateRe = regexp.MustCompile(`\+?\d[\d\s().-]{7,15}\d`)
	nameBlacklistRe  = regexp.MustCompile(`(?i)(email|phone|contact|skills|experience|education|project)`)
	digitRe          = regexp.MustCompile(`\d`)
)

// ExtractEmail 返回文本中第一个形如 local@domain.tld 的子串，找不到返回空串
func ExtractEmail(text string) string {
	return emailRe.FindString(text)
}

// ExtractPhone 在文本中寻找指定地区下可成立的电话号码并归一化为E.164
// 没有候选串能解析成功则返回空串
func ExtractPhone(text string, region string) string {
	if region == "" {
		region = DefaultPhoneRegion
	}
	for _, candidate := range phoneCandidateRe.FindAllString(text, -1) {
		num, err := phonenumbers.Parse(candidate, region)
		if err != nil {
			continue
		}
		// 仅按长度判断会把年份区间（2019 - 2022）当成号码，必须校验号段
		if phonenumbers.IsValidNumber(num) {
			return phonenumbers.Format(num, phonenumbers.E164)
		}
	}
	return ""
}

// ExtractName 在前10个非空行中找第一个像姓名的行
// 跳过包含已提取邮箱的行（大小写不敏感）和包含黑名单关键词的行；
// 合格行为1-4个空白分隔的词且不含数字。先到先得，不做最优选择
func ExtractName(text string, email string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		clean := strings.TrimSpace(line)
		if clean != "" {
			lines = append(lines, clean)
		}
		if len(lines) == 10 {
			break
		}
	}

	for _, line := range lines {
		if email != "" && strings.Contains(strings.ToLower(line), strings.ToLower(email)) {
			continue
		}
		if nameBlacklistRe.MatchString(line) {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) >= 1 && len(tokens) <= 4 && !digitRe.MatchString(line) {
			return line
		}
	}
	return ""
}

// placeGazetteer 地名词表：启发式的地点识别基于固定词表的整词匹配
// 按小写存储；匹配按文本出现位置排序
var placeGazetteer = []string{
	"bangalore", "bengaluru", "mumbai", "delhi", "new delhi", "hyderabad",
	"chennai", "pune", "kolkata", "noida", "gurgaon", "gurugram", "ahmedabad",
	"jaipur", "kochi", "chandigarh", "indore", "lucknow", "india",
	"london", "singapore", "dubai", "new york", "san francisco", "seattle",
	"berlin", "amsterdam", "toronto", "sydney", "tokyo", "shanghai", "beijing",
	"shenzhen", "hangzhou", "hong kong",
}

const locationWindow = 1200

// ExtractLocation 在文本前1200个字符内识别最多2个地名
// 与技能词重名的匹配被丢弃（避免把"Python"当地名），不足3个字符的丢弃；
// 按大小写不敏感去重并保留首次出现
func ExtractLocation(text string) []string {
	window := text
	if len(window) > locationWindow {
		window = window[:locationWindow]
	}
	lowered := strings.ToLower(window)

	type placeHit struct {
		pos  int
		end  int
		text string
	}
	var hits []placeHit

	for _, place := range placeGazetteer {
		if len(place) < 3 || isTaxonomyTerm(place) {
			continue
		}
		start := 0
		for {
			idx := strings.Index(lowered[start:], place)
			if idx < 0 {
				break
			}
			pos := start + idx
			end := pos + len(place)
			if isWordBoundary(lowered, pos, end) {
				// 取原文中的写法，保留展示大小写
				hits = append(hits, placeHit{pos: pos, end: end, text: window[pos:end]})
			}
			start = end
		}
	}

	// 同一位置长匹配优先，否则"New Delhi"会被子串"Delhi"挤掉一个槽位
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].end > hits[j].end
	})

	var result []string
	var accepted []placeHit
	seen := make(map[string]bool)
	for _, h := range hits {
		key := strings.ToLower(h.text)
		if seen[key] {
			continue
		}
		// 落在已接受的更长匹配范围内的命中是同一地点的子串，丢弃
		contained := false
		for _, a := range accepted {
			if h.pos >= a.pos && h.end <= a.end {
				contained = true
				break
			}
		}
		if contained {
			continue
		}
		seen[key] = true
		accepted = append(accepted, h)
		result = append(result, h.text)
		if len(result) == 2 {
			break
		}
	}
	return result
}

// ExtractPersonalDetails 汇总各个字段启发式的结果
// displayText 用于姓名/邮箱/地点（保留行结构和原文大小写），matchingText 用于电话
func ExtractPersonalDetails(displayText, matchingText, phoneRegion string) types.PersonalDetails {
	email := ExtractEmail(displayText)
	return types.PersonalDetails{
		Name:     ExtractName(displayText, email),
		Email:    email,
		Phone:    ExtractPhone(matchingText, phoneRegion),
		Location: ExtractLocation(displayText),
	}
}

// isWordBoundary 判断[start,end)两侧是否都不是字母或数字
func isWordBoundary(s string, start, end int) bool {
	if start > 0 && isAlnum(s[start-1]) {
		return false
	}
	if end < len(s) && isAlnum(s[end]) {
		return false
	}
	return true
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
