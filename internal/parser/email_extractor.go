package parser

import "regexp"

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// ExtractEmail 返回文档中第一个邮箱地址
func ExtractEmail(text string) *string {
	email := emailPattern.FindString(text)
	if email == "" {
		return nil
	}
	return &email
}
