package parser

import (
	"strings"
	"unicode/utf8"
)

const maxNameLength = 50

var nameFamilies = []PatternFamily{
	// "Name: John Smith"，值限定在同一行
	newFamily("labeled", 1, `(?i)\bname\b[ \t]*:?[ \t]*([A-Za-z \t]{2,50})`),
	// 文档开头的2-3个首字母大写单词
	newFamily("leading_line", 1, `^\s*([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){1,2})`),
	// 第一行只由字母和空白组成的行
	newFamily("standalone_line", 1, `(?m)^([A-Za-z \t]{2,50})\r?$`),
}

// ExtractName 返回候选人姓名，找不到时返回nil
func ExtractName(text string) *string {
	name, ok := firstAccepted(nameFamilies, text, acceptName)
	if !ok {
		return nil
	}
	return &name
}

// acceptName 至少两个词且不超过50个字符；全空白的捕获视为未匹配
func acceptName(candidate string) (string, bool) {
	name := strings.TrimSpace(candidate)
	if name == "" {
		return "", false
	}
	if len(strings.Fields(name)) < 2 || utf8.RuneCountInString(name) > maxNameLength {
		return "", false
	}
	return name, true
}
