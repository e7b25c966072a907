package parser

import (
	"resume-aids-go/internal/constants"
	"resume-aids-go/internal/logger"
	"resume-aids-go/internal/types"
)

// HeuristicParser 基于模式规则的简历解析器，无状态，可并发使用
type HeuristicParser struct{}

// NewHeuristicParser 创建解析器
func NewHeuristicParser() *HeuristicParser {
	return &HeuristicParser{}
}

// Parse 实现 processor.ResumeParser 接口
func (p *HeuristicParser) Parse(data []byte) *types.ParsedResume {
	return Parse(data)
}

// Parse 解码上传字节并抽取所有字段，永不失败
func Parse(data []byte) *types.ParsedResume {
	return ParseText(DecodeText(data))
}

// ParseText 对已解码文本运行全部抽取器
// 各抽取器相互独立，某个字段出错只会让该字段为空
func ParseText(text string) *types.ParsedResume {
	resume := &types.ParsedResume{
		Skills:       types.Skills{Technical: []string{}, Soft: []string{}},
		Experience:   []types.ExperienceEntry{},
		Achievements: []string{},
		RawText:      rawTextPreview(text),
	}

	guardField("name", func() { resume.Name = ExtractName(text) })
	guardField("email", func() { resume.Email = ExtractEmail(text) })
	guardField("phone", func() { resume.Phone = ExtractPhone(text) })
	guardField("skills", func() { resume.Skills = ExtractSkills(text) })
	guardField("experience", func() { resume.Experience = ExtractExperience(text) })
	guardField("achievements", func() { resume.Achievements = ExtractAchievements(text) })

	return resume
}

// rawTextPreview 前500个字符，截断时追加省略标记
func rawTextPreview(text string) string {
	preview, truncated := truncateRunes(text, constants.RawTextPreviewLimit)
	if truncated {
		return preview + constants.RawTextEllipsis
	}
	return preview
}

func guardField(field string, extract func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("field", field).
				Interface("panic", r).
				Msg("字段抽取发生panic，该字段置为空")
		}
	}()
	extract()
}
