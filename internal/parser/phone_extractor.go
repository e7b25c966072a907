package parser

// 三个模式族的顺序即优先级，前一个族有结果时后面的族不再尝试
var phoneFamilies = []PatternFamily{
	newFamily("us", 0, `\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
	newFamily("international", 1, `(?:^|[^\w+])(\+\d{1,3}(?:[- \t]?\d{1,4}){1,3})\b`),
	newFamily("parenthesized", 0, `\(\d{3}\)[ \t]*\d{3}[-.]?\d{4}`),
}

// ExtractPhone 返回第一个电话号码
func ExtractPhone(text string) *string {
	phone, ok := firstAccepted(phoneFamilies, text, nil)
	if !ok {
		return nil
	}
	return &phone
}
