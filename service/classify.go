package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/golivishiva/Digital-Notice-Board/cons"
)

const (
	summaryMaxRunes = 150
	summaryCutRunes = 147
)

type categoryRule struct {
	category string
	re       *regexp.Regexp
}

// 按顺序匹配，先命中者生效；子串语义（"test" 也会命中 "latest"）
var categoryRules = []categoryRule{
	{cons.CategoryExams, regexp.MustCompile(`exam|test|quiz|assessment|midterm|final`)},
	{cons.CategoryHolidays, regexp.MustCompile(`holiday|vacation|break|off|closed`)},
	{cons.CategorySports, regexp.MustCompile(`sport|match|game|tournament|athletic`)},
	{cons.CategoryEvents, regexp.MustCompile(`event|fest|celebration|ceremony|workshop|seminar|conference`)},
	{cons.CategoryEmergency, regexp.MustCompile(`urgent|emergency|immediate|critical|alert`)},
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// Categorize 根据标题和正文推断分类
func Categorize(title, content string) string {
	text := strings.ToLower(title + " " + content)
	for _, r := range categoryRules {
		if r.re.MatchString(text) {
			return r.category
		}
	}
	return cons.CategoryGeneral
}

// Summarize 去掉标签后截断到 150 个字符
func Summarize(content string) string {
	plain := strings.TrimSpace(tagRe.ReplaceAllString(content, ""))
	if utf8.RuneCountInString(plain) <= summaryMaxRunes {
		return plain
	}
	return string([]rune(plain)[:summaryCutRunes]) + "..."
}
