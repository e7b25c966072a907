package parser

import "regexp"

// 词表在进程启动时确定，运行期间只读；声明顺序即输出顺序
var technicalVocabulary = []string{
	"python", "java", "javascript", "typescript", "html", "css",
	"react", "angular", "vue", "node", "express", "django", "flask",
	"sql", "mysql", "postgresql", "mongodb",
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git",
	"machine learning", "ai", "data science", "tensorflow", "pytorch", "nlp",
	"devops", "ci/cd", "agile", "scrum", "rest api", "graphql",
}

var softVocabulary = []string{
	"leadership", "communication", "teamwork", "problem solving",
	"project management", "time management", "analytical", "creative",
	"collaboration", "adaptability", "organization",
}

// vocabularyTerm 词条及其整词匹配规则
// 边界按 Unicode 字母数字判断，pythoné 不算 python
type vocabularyTerm struct {
	term    string
	pattern *regexp.Regexp
}

var (
	technicalTerms = compileVocabulary(technicalVocabulary)
	softTerms      = compileVocabulary(softVocabulary)
)

func compileVocabulary(words []string) []vocabularyTerm {
	terms := make([]vocabularyTerm, 0, len(words))
	for _, w := range words {
		terms = append(terms, vocabularyTerm{
			term:    w,
			pattern: regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(w) + `(?:$|[^\p{L}\p{N}_])`),
		})
	}
	return terms
}

// TechnicalSkills 返回技术技能词表的副本
func TechnicalSkills() []string {
	return append([]string(nil), technicalVocabulary...)
}

// SoftSkills 返回软技能词表的副本
func SoftSkills() []string {
	return append([]string(nil), softVocabulary...)
}
