package parser

import "regexp"

// PatternFamily 一组等价的匹配规则，作为整体按优先级尝试
// Group 指定取哪个捕获组，0 表示整个匹配
type PatternFamily struct {
	Name     string
	Group    int
	Patterns []*regexp.Regexp
}

// newFamily 在包初始化时编译规则，表达式非法直接panic
func newFamily(name string, group int, exprs ...string) PatternFamily {
	family := PatternFamily{Name: name, Group: group}
	for _, expr := range exprs {
		family.Patterns = append(family.Patterns, regexp.MustCompile(expr))
	}
	return family
}

// FirstMatch 返回族内第一个命中规则的首个匹配
func (f PatternFamily) FirstMatch(text string) (string, bool) {
	for _, re := range f.Patterns {
		m := re.FindStringSubmatch(text)
		if m == nil || f.Group >= len(m) {
			continue
		}
		return m[f.Group], true
	}
	return "", false
}

// AllMatches 按规则顺序返回族内所有规则的全部匹配
func (f PatternFamily) AllMatches(text string) []string {
	var out []string
	for _, re := range f.Patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if f.Group < len(m) {
				out = append(out, m[f.Group])
			}
		}
	}
	return out
}

// firstAccepted 按优先级依次尝试各族，返回第一个被 accept 接受的结果
// accept 为 nil 时任何匹配都被接受
func firstAccepted(families []PatternFamily, text string, accept func(string) (string, bool)) (string, bool) {
	for _, family := range families {
		candidate, ok := family.FirstMatch(text)
		if !ok {
			continue
		}
		if accept == nil {
			return candidate, true
		}
		if value, ok := accept(candidate); ok {
			return value, true
		}
	}
	return "", false
}
