package parser

import (
	"strings"
	"unicode/utf8"
)

const (
	maxAchievements      = 5
	minAchievementLength = 10
)

// 第一轮：标签、行首成果动词、行首职责动词，每族取全部匹配
var achievementFamilies = []PatternFamily{
	newFamily("label", 1, `(?i)\b(?:achievement|accomplishment|award|honor|recognition)s?[: \t]+([^\n]*)`),
	newFamily("action_verb", 1, `(?im)^[ \t•-]*(?:won|achieved|earned|received|awarded)\b([^\n]*)`),
	newFamily("ownership_verb", 1, `(?im)^[ \t•-]*(?:led|managed|developed|created|implemented)\b([^\n]*)`),
}

// 第二轮：以 • 或 - 开头的条目，且包含结果类关键词
var bulletFamily = newFamily("bullet", 1, `(?m)^[ \t]*[•-][ \t]*([^\n]*)`)

var outcomeKeywords = []string{"increased", "decreased", "improved", "reduced", "achieved", "won"}

// ExtractAchievements 返回最多5条去重后的成就
// 顺序为首次出现顺序：先按第一轮各族顺序，再接第二轮条目
func ExtractAchievements(text string) []string {
	collector := newAchievementCollector()

	for _, family := range achievementFamilies {
		for _, m := range family.AllMatches(text) {
			collector.add(strings.TrimSpace(m))
		}
	}

	for _, m := range bulletFamily.AllMatches(text) {
		bullet := strings.TrimSpace(m)
		if hasOutcomeKeyword(bullet) {
			collector.add(bullet)
		}
	}

	return collector.result()
}

func hasOutcomeKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range outcomeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// achievementCollector 按首次出现顺序去重
type achievementCollector struct {
	seen  map[string]struct{}
	items []string
}

func newAchievementCollector() *achievementCollector {
	return &achievementCollector{seen: make(map[string]struct{}), items: []string{}}
}

func (c *achievementCollector) add(s string) {
	if utf8.RuneCountInString(s) <= minAchievementLength {
		return
	}
	if _, ok := c.seen[s]; ok {
		return
	}
	c.seen[s] = struct{}{}
	c.items = append(c.items, s)
}

func (c *achievementCollector) result() []string {
	if len(c.items) > maxAchievements {
		return c.items[:maxAchievements]
	}
	return c.items
}
