package types

// ParsedResume 单份简历的抽取结果，每次请求新建，组装后不再修改
type ParsedResume struct {
	Name         *string           `json:"name"`
	Email        *string           `json:"email"`
	Phone        *string           `json:"phone"`
	Skills       Skills            `json:"skills"`
	Experience   []ExperienceEntry `json:"experience"`
	Achievements []string          `json:"achievements"`
	RawText      string            `json:"raw_text"`
}

// Skills 按词表声明顺序排列的技能列表
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
}

// ExperienceEntry 一段包含日期的经历
type ExperienceEntry struct {
	Dates       []string `json:"dates"`       // 段落中按模式族顺序收集到的日期原文
	Description string   `json:"description"` // 压缩空白后的段落文本，最多500字符
}

// FieldSummary 抽取结果的字段概况，只记录是否存在和数量，不包含个人信息
type FieldSummary struct {
	HasName           bool `json:"has_name"`
	HasEmail          bool `json:"has_email"`
	HasPhone          bool `json:"has_phone"`
	TechnicalSkills   int  `json:"technical_skills"`
	SoftSkills        int  `json:"soft_skills"`
	ExperienceEntries int  `json:"experience_entries"`
	Achievements      int  `json:"achievements"`
}

// Summary 生成字段概况，用于审计和事件
func (r *ParsedResume) Summary() FieldSummary {
	if r == nil {
		return FieldSummary{}
	}
	return FieldSummary{
		HasName:           r.Name != nil,
		HasEmail:          r.Email != nil,
		HasPhone:          r.Phone != nil,
		TechnicalSkills:   len(r.Skills.Technical),
		SoftSkills:        len(r.Skills.Soft),
		ExperienceEntries: len(r.Experience),
		Achievements:      len(r.Achievements),
	}
}
