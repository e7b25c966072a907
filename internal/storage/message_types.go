package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"resume-aids-go/internal/storage/models"
	"resume-aids-go/internal/types"

	"gorm.io/datatypes"
)

// EventTypeResumeParsed 解析完成事件类型
const EventTypeResumeParsed = "resume.parsed"

// ResumeParsedEvent 解析完成事件，只携带字段存在性与数量
type ResumeParsedEvent struct {
	RequestID        string             `json:"request_id"`
	OriginalFilename string             `json:"original_filename"`
	RawFileMD5       string             `json:"raw_file_md5"`
	FileSize         int64              `json:"file_size"`
	Duplicate        bool               `json:"duplicate"`
	ArchiveObjectKey string             `json:"archive_object_key,omitempty"`
	Fields           types.FieldSummary `json:"fields"`
	ParserVersion    string             `json:"parser_version"`
	ParseDurationMS  int64              `json:"parse_duration_ms"`
	ParsedAt         time.Time          `json:"parsed_at"`
}

// DefaultParseEventsExchange 未配置时使用的解析事件exchange
const DefaultParseEventsExchange = "resume.parse.events"

// NewParsedOutboxMessage 把解析事件序列化为待发送的发件箱消息
func NewParsedOutboxMessage(event *ResumeParsedEvent, exchange, routingKey string) (*models.OutboxMessage, error) {
	if event == nil {
		return nil, fmt.Errorf("解析事件不能为空")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("序列化解析事件失败: %w", err)
	}
	return &models.OutboxMessage{
		RequestID:        event.RequestID,
		EventType:        EventTypeResumeParsed,
		Payload:          datatypes.JSON(payload),
		TargetExchange:   exchange,
		TargetRoutingKey: routingKey,
		Status:           models.OutboxStatusPending,
	}, nil
}
