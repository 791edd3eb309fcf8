package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmail(t *testing.T) {
	assert.Equal(t, "john.doe@example.com", ExtractEmail("contact: john.doe@example.com | bangalore"))
	assert.Equal(t, "", ExtractEmail("没有邮箱的文本"))
	// 多个邮箱时取第一个
	assert.Equal(t, "a@b.io", ExtractEmail("a@b.io and c@d.org"))
}

func TestExtractPhone(t *testing.T) {
	// 印度手机号归一化为E.164
	assert.Equal(t, "+919876543210", ExtractPhone("call me at +91 98765 43210 anytime", "IN"))
	// 不带国家码时按地区解析
	assert.Equal(t, "+919876543210", ExtractPhone("phone 98765 43210", "IN"))
	// 没有可解析的号码
	assert.Equal(t, "", ExtractPhone("no digits here", "IN"))
	// 地区为空时回退到默认地区
	assert.Equal(t, "+919876543210", ExtractPhone("+91 98765 43210", ""))
}

func TestExtractPhoneRejectsYearRanges(t *testing.T) {
	// 年份区间的长度也像号码，但不是有效号段，字段应保持为空
	assert.Equal(t, "", ExtractPhone("software engineer 2019 - 2022 at acme corp", "IN"))
	assert.Equal(t, "", ExtractPhone("worked from 2015-2018 and 2019-2022", "IN"))

	// 年份区间之后出现的真实号码仍应命中
	assert.Equal(t, "+919876543210", ExtractPhone("2019 - 2022 at acme, call +91 98765 43210", "IN"))
}

func TestExtractName(t *testing.T) {
	text := "Ravi Kumar\nEmail: ravi@example.com\nBangalore, India"
	assert.Equal(t, "Ravi Kumar", ExtractName(text, "ravi@example.com"))

	// 含邮箱的行和黑名单行都应跳过
	text = "Email: ravi@example.com\nPhone: 98765\nAnita Sharma\nmore text"
	assert.Equal(t, "Anita Sharma", ExtractName(text, "ravi@example.com"))

	// 含数字的行不算姓名
	assert.Equal(t, "", ExtractName("Flat 42 Sector 9\n12345", ""))
}

func TestExtractNameSkipsMixedCaseEmailLine(t *testing.T) {
	// 邮箱行与已提取邮箱大小写不一致时同样要跳过
	text := "John.Doe@Example.com\nJohn Doe\nBangalore"
	assert.Equal(t, "John Doe", ExtractName(text, "john.doe@example.com"))
	assert.Equal(t, "John Doe", ExtractName(text, "John.Doe@Example.com"))
}

func TestExtractLocation(t *testing.T) {
	text := "Ravi Kumar\nBangalore, India\nworked previously in Mumbai"
	locations := ExtractLocation(text)
	// 至多2个，按出现位置排序，保留原文大小写
	assert.Equal(t, []string{"Bangalore", "India"}, locations)

	assert.Empty(t, ExtractLocation("no known places here"))

	// 整词匹配：Pune不应命中punexyz
	assert.Empty(t, ExtractLocation("punexyz"))
}

func TestExtractLocationPrefersLongerMatch(t *testing.T) {
	// "New Delhi"中的"Delhi"是同一地点的子串，不占用第二个槽位
	assert.Equal(t, []string{"New Delhi", "India"}, ExtractLocation("New Delhi, India"))

	// 子串之外独立出现的地名仍然有效
	assert.Equal(t, []string{"New Delhi", "Delhi"}, ExtractLocation("New Delhi and Delhi NCR"))
}

func TestExtractPersonalDetails(t *testing.T) {
	display := "Ravi Kumar\nBangalore\nravi@example.com | +91 98765 43210"
	matching := "ravi kumar bangalore ravi@example.com | +91 98765 43210"

	details := ExtractPersonalDetails(display, matching, "IN")
	assert.Equal(t, "Ravi Kumar", details.Name)
	assert.Equal(t, "ravi@example.com", details.Email)
	assert.Equal(t, "+919876543210", details.Phone)
	assert.Equal(t, []string{"Bangalore"}, details.Location)
}

func TestExtractPersonalDetailsPreservesEmailCase(t *testing.T) {
	display := "John.Doe@Example.com\nJohn Doe\nBangalore"
	matching := "john.doe@example.com john doe bangalore"

	details := ExtractPersonalDetails(display, matching, "IN")
	// 邮箱保留文档原文大小写，且邮箱行不会被当成姓名
	assert.Equal(t, "John.Doe@Example.com", details.Email)
	assert.Equal(t, "John Doe", details.Name)
}
