package parser

import (
	"regexp"
	"unicode/utf8"

	"resume-aids-go/internal/types"
)

const (
	maxExperienceEntries    = 5
	maxDescriptionLength    = 500
	minExperienceTextLength = 30
)

var sectionSeparator = regexp.MustCompile(`(?:\r?\n){2,}`)

// 三个日期族同时生效，结果按族顺序拼接
// 裸年份限定为19xx/20xx，避免把电话号码里的4位数字当成年份
var dateFamilies = []PatternFamily{
	newFamily("month_year", 0, `(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[\s.-]+\d{4}\b`),
	newFamily("month_slash_year", 0, `\b\d{2}/\d{4}\b`),
	newFamily("year", 0, `\b(?:19|20)\d{2}\b`),
}

// ExtractExperience 按空行切分段落，包含日期且足够长的段落视为一段经历
// 最多返回5段，按文档顺序
func ExtractExperience(text string) []types.ExperienceEntry {
	entries := []types.ExperienceEntry{}
	for _, section := range sectionSeparator.Split(text, -1) {
		var dates []string
		for _, family := range dateFamilies {
			dates = append(dates, family.AllMatches(section)...)
		}
		if len(dates) == 0 {
			continue
		}

		clean := collapseWhitespace(section)
		if utf8.RuneCountInString(clean) <= minExperienceTextLength {
			continue
		}

		description, _ := truncateRunes(clean, maxDescriptionLength)
		entries = append(entries, types.ExperienceEntry{
			Dates:       dates,
			Description: description,
		})
		if len(entries) == maxExperienceEntries {
			break
		}
	}
	return entries
}
