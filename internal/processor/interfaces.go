package processor

import (
	"context"

	"resume-aids-go/internal/storage"
	"resume-aids-go/internal/storage/models"
	"resume-aids-go/internal/types"
)

// ResumeParser 把上传字节解析为结构化字段，不返回错误
type ResumeParser interface {
	Parse(data []byte) *types.ParsedResume
}

// DuplicateChecker 记录上传MD5并返回此前是否出现过
type DuplicateChecker interface {
	MarkUploadSeen(ctx context.Context, md5Hex string) (bool, error)
}

// Archiver 保存上传原件，返回对象键
type Archiver interface {
	ArchiveUpload(ctx context.Context, requestID, ext string, data []byte) (string, error)
}

// AuditRecorder 写入解析审计记录及对应的发件箱消息
type AuditRecorder interface {
	RecordParse(ctx context.Context, record *models.ParseRecord, event *storage.ResumeParsedEvent) error
}

// EventPublisher 直接发布解析事件，未配置审计记录时使用
type EventPublisher interface {
	PublishParsedEvent(ctx context.Context, event *storage.ResumeParsedEvent) error
}

var (
	_ DuplicateChecker = (*storage.Redis)(nil)
	_ Archiver         = (*storage.MinIO)(nil)
	_ AuditRecorder    = (*storage.MySQL)(nil)
	_ EventPublisher   = (*storage.RabbitMQ)(nil)
)
