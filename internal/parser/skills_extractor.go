package parser

import (
	"strings"

	"resume-aids-go/internal/types"
)

// ExtractSkills 用固定词表做整词匹配，不区分大小写
// 结果顺序跟随词表声明顺序，与正文出现顺序无关
func ExtractSkills(text string) types.Skills {
	lower := strings.ToLower(text)
	return types.Skills{
		Technical: matchVocabulary(technicalTerms, lower),
		Soft:      matchVocabulary(softTerms, lower),
	}
}

func matchVocabulary(terms []vocabularyTerm, lower string) []string {
	found := []string{}
	for _, t := range terms {
		if t.pattern.MatchString(lower) {
			found = append(found, t.term)
		}
	}
	return found
}
