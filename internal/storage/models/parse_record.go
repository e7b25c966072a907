package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// 解析记录状态
const (
	ParseStatusParsed = "PARSED"
	ParseStatusFailed = "FAILED"
)

// ParseRecord 一次上传解析的审计记录
// 只保存字段是否存在与数量，不保存姓名、邮箱等字段值
type ParseRecord struct {
	RequestID        string         `gorm:"type:char(36);primaryKey"`
	OriginalFilename string         `gorm:"type:varchar(255)"`
	FileSize         int64          `gorm:"not null"`
	RawFileMD5       string         `gorm:"type:char(32);not null;index:idx_pr_raw_file_md5"`
	Duplicate        bool           `gorm:"default:false"`
	ArchiveObjectKey string         `gorm:"type:varchar(1024)"`
	FieldSummary     datatypes.JSON `gorm:"type:json"`
	ParserVersion    string         `gorm:"type:varchar(50)"`
	ParseDurationMS  int64          `gorm:"default:0"`
	Status           string         `gorm:"type:varchar(20);default:'PARSED';index:idx_pr_status"`
	CreatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_pr_created_at"`
}

func (ParseRecord) TableName() string {
	return "parse_records"
}

// ToJSON 把任意值转换为 datatypes.JSON
func ToJSON(v interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(bytes), nil
}
